package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/uml-tools-mcp/internal/diagram"
)

// Resource URIs.
const (
	uriTypes      = "uml://types"
	uriTemplates  = "uml://templates"
	uriExamples   = "uml://examples"
	uriFormats    = "uml://formats"
	uriServerInfo = "uml://server-info"
)

const jsonMIME = "application/json"

type typeInfo struct {
	Backend     string   `json:"backend"`
	Description string   `json:"description"`
	Formats     []string `json:"formats"`
}

type serverInfo struct {
	Name           string   `json:"server_name"`
	Version        string   `json:"version"`
	Description    string   `json:"description"`
	Tools          []string `json:"tools"`
	Prompts        []string `json:"prompts"`
	KrokiServer    string   `json:"kroki_server"`
	PlantUMLServer string   `json:"plantuml_server"`
	OutputDir      string   `json:"output_dir"`
	LocalPlantUML  bool     `json:"local_plantuml"`
}

func (s *Server) registerResources() {
	s.addJSONResource(uriTypes, "Diagram types",
		"Supported diagram types with their rendering backend, description and output formats",
		func() any {
			m := make(map[string]typeInfo)
			for _, t := range s.generator.Registry().Types() {
				m[t.Name] = typeInfo{Backend: t.Backend, Description: t.Description, Formats: t.Formats}
			}
			return m
		})

	s.addJSONResource(uriTemplates, "Diagram templates",
		"Starter markup for each diagram type",
		func() any { return s.byType(diagram.Template) })

	s.addJSONResource(uriExamples, "Diagram examples",
		"A complete example for each diagram type",
		func() any { return s.byType(diagram.Example) })

	s.addJSONResource(uriFormats, "Output formats",
		"Output formats supported by each diagram type",
		func() any {
			m := make(map[string][]string)
			for _, t := range s.generator.Registry().Types() {
				m[t.Name] = t.Formats
			}
			return m
		})

	s.addJSONResource(uriServerInfo, "Server information",
		"Server version, rendering endpoints, tools and prompts",
		func() any {
			return serverInfo{
				Name:           Name,
				Version:        s.version,
				Description:    "Generates UML and other diagrams with PlantUML, Kroki, Mermaid, D2 and Graphviz",
				Tools:          s.toolNames,
				Prompts:        s.promptNames,
				KrokiServer:    s.krokiServer,
				PlantUMLServer: s.plantumlServer,
				OutputDir:      s.outputDir,
				LocalPlantUML:  s.generator.LocalEnabled(),
			}
		})
}

// byType maps each registered type to lookup(name), skipping types with no
// entry.
func (s *Server) byType(lookup func(string) string) map[string]string {
	m := make(map[string]string)
	for _, name := range s.generator.Registry().Names() {
		if text := lookup(name); text != "" {
			m[name] = text
		}
	}
	return m
}

// addJSONResource registers a resource whose body is build() as indented
// JSON, computed on every read.
func (s *Server) addJSONResource(uri, name, description string, build func() any) {
	s.mcp.AddResource(&mcp.Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    jsonMIME,
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: jsonMIME, Text: mustMarshalJSON(build())}},
		}, nil
	})
}
