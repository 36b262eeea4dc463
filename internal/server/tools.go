package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/uml-tools-mcp/internal/imaging"
)

// Fixed tool names. Per-type tools are named by typedToolName.
const (
	toolGenerateUML = "generate_uml"
	toolCheckSetup  = "check_plantuml_setup"
	toolImageInfo   = "diagram_image_info"
	toolExtractText = "diagram_extract_text"
	toolZoom        = "diagram_zoom"
)

func typedToolName(diagramType string) string {
	return "generate_" + diagramType + "_diagram"
}

// registerTools adds every tool to the MCP server
func (s *Server) registerTools() {
	names := s.generator.Registry().Names()

	// Diagram Generation
	addTool(s, &mcp.Tool{
		Name: toolGenerateUML,
		Description: "Generate a diagram from its source code and save it to disk. " +
			"Supported types: " + strings.Join(names, ", ") + ". " +
			"Returns the saved file path, a rendering URL and, for PlantUML, Mermaid and D2, a playground link.",
	}, s.handleGenerateUML)

	for _, t := range s.generator.Registry().Types() {
		name := t.Name
		desc := fmt.Sprintf("Generate a %s and save it to disk. Supported formats: %s.",
			t.Description, strings.Join(t.Formats, ", "))
		if t.IsPlantUML() {
			desc += " @startuml/@enduml are added when missing."
		}
		addTool(s, &mcp.Tool{Name: typedToolName(name), Description: desc},
			func(ctx context.Context, req *mcp.CallToolRequest, args typedDiagramArgs) (*mcp.CallToolResult, any, error) {
				return s.handleTypedDiagram(ctx, name, args)
			})
	}

	// Setup and Verification
	addTool(s, &mcp.Tool{
		Name:        toolCheckSetup,
		Description: "Check whether Java and plantuml.jar are available for local PlantUML rendering, and whether local rendering is enabled.",
	}, s.handleCheckSetup)

	addTool(s, &mcp.Tool{
		Name:        toolImageInfo,
		Description: "Get width, height, format and color depth of a rendered PNG, JPEG or GIF diagram, with a preview of the image.",
	}, s.handleImageInfo)

	addTool(s, &mcp.Tool{
		Name: toolExtractText,
		Description: "Extract text from a rendered raster diagram with OCR. " +
			"Pass expected_labels to check that every class, participant or node name made it into the image.",
	}, s.handleExtractText)

	addTool(s, &mcp.Tool{
		Name: toolZoom,
		Description: "Magnify part of a rendered raster diagram to check small labels or crowded areas. " +
			"Give either a named region (" + strings.Join(imaging.Regions, ", ") + ") or pixel coordinates x1, y1, x2, y2.",
	}, s.handleZoom)
}

// addTool registers a typed handler and records its name.
func addTool[In any](s *Server, tool *mcp.Tool, h mcp.ToolHandlerFor[In, any]) {
	mcp.AddTool(s.mcp, tool, h)
	s.toolNames = append(s.toolNames, tool.Name)
}
