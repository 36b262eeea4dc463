package diagram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/uml-tools-mcp/internal/kroki"
	"github.com/ironsheep/uml-tools-mcp/internal/plantuml"
	"github.com/ironsheep/uml-tools-mcp/internal/validation"
)

// DefaultFormat is used when a request names no format.
const DefaultFormat = "svg"

// Values of Output.GeneratedBy.
const (
	GeneratedByLocal = "local_plantuml"
	GeneratedByKroki = "kroki"
)

// LocalRenderer renders PlantUML markup on this machine. *plantuml.Client
// implements it.
type LocalRenderer interface {
	Render(ctx context.Context, code, format, outputFile string) *plantuml.Result
}

// RemoteRenderer renders through a remote service. *kroki.Client implements
// it.
type RemoteRenderer interface {
	URL(backend, code, format string) (string, error)
	PlaygroundURL(backend, code string) string
	Generate(ctx context.Context, backend, code, format string) (*kroki.Diagram, error)
}

// Request asks for one diagram.
type Request struct {
	DiagramType string
	Code        string
	Format      string // empty means DefaultFormat
	OutputDir   string // empty means the generator's default
}

// Output describes a generated diagram. On failure Error is set and Code
// still holds the (possibly wrapped) markup.
type Output struct {
	DiagramType string `json:"diagram_type,omitempty"`
	Format      string `json:"format,omitempty"`
	Code        string `json:"code"`
	URL         string `json:"url,omitempty"`
	Playground  string `json:"playground,omitempty"`
	LocalPath   string `json:"local_path,omitempty"`
	GeneratedBy string `json:"generated_by,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Generator chooses a renderer per request and stores the result.
type Generator struct {
	registry  *Registry
	remote    RemoteRenderer
	local     LocalRenderer
	outputDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewGenerator returns a generator. local may be nil, in which case every
// diagram is rendered remotely.
func NewGenerator(registry *Registry, remote RemoteRenderer, local LocalRenderer, outputDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{
		registry:  registry,
		remote:    remote,
		local:     local,
		outputDir: outputDir,
		logger:    logger,
		now:       time.Now,
	}
}

// Registry returns the generator's diagram types.
func (g *Generator) Registry() *Registry { return g.registry }

// LocalEnabled reports whether PlantUML diagrams are rendered locally.
func (g *Generator) LocalEnabled() bool { return g.local != nil }

// Generate renders req and saves the diagram in the requested directory, or
// in the generator's default one, as <type>_<timestamp>_<id>.<format>.
//
// PlantUML diagrams are rendered by the local renderer when one was given
// and by Kroki otherwise. Every other type goes to Kroki.
//
// Returns:
//   - *Output: Never nil. LocalPath, URL and GeneratedBy are set on success;
//     Playground only for backends that have one.
//
// # Errors
//
// Failures are reported in Output.Error rather than as a Go error:
//   - an unknown diagram type, listing the supported ones
//   - a format the type does not support
//   - an output directory that is invalid, escapes through "..", or is
//     not writable
//   - a local PlantUML failure, prefixed with "PlantUML generation failed: "
//   - a Kroki or file system error
func (g *Generator) Generate(ctx context.Context, req Request) *Output {
	out := &Output{DiagramType: req.DiagramType, Code: req.Code}

	t, ok := g.registry.Lookup(req.DiagramType)
	if !ok {
		out.Error = fmt.Sprintf("Unsupported diagram type: %s. Supported types: %s",
			req.DiagramType, strings.Join(g.registry.Names(), ", "))
		g.logger.Error("unsupported diagram type", "type", req.DiagramType)
		return out
	}
	out.DiagramType = t.Name

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = DefaultFormat
	}
	out.Format = format
	if !slices.Contains(t.Formats, format) {
		out.Error = fmt.Sprintf("Unsupported output format '%s' for %s diagrams. Supported: %s",
			format, t.Name, strings.Join(t.Formats, ", "))
		return out
	}

	code := req.Code
	if t.IsPlantUML() {
		code = wrapPlantUML(code)
	}
	out.Code = code

	dirArg := req.OutputDir
	if dirArg == "" {
		dirArg = g.outputDir
	}
	dir, err := validation.OutputDir(dirArg)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	path := filepath.Join(dir, g.fileName(t.Name, format))

	g.logger.Info("generating diagram", "type", t.Name, "format", format, "local", g.local != nil && t.IsPlantUML())

	if g.local != nil && t.IsPlantUML() {
		res := g.local.Render(ctx, code, format, path)
		if !res.Success {
			g.logger.Error("local plantuml generation failed", "err", res.Error)
			out.Error = "PlantUML generation failed: " + res.Error
			return out
		}
		out.LocalPath = res.OutputPath
		out.GeneratedBy = GeneratedByLocal
		if u, err := g.remote.URL(t.Backend, code, format); err == nil {
			out.URL = u
		}
		out.Playground = g.remote.PlaygroundURL(t.Backend, code)
		return out
	}

	d, err := g.remote.Generate(ctx, t.Backend, code, format)
	if err != nil {
		g.logger.Error("remote generation failed", "type", t.Name, "err", err)
		out.Error = err.Error()
		return out
	}
	out.URL = d.URL
	out.Playground = d.Playground

	if err := os.WriteFile(path, d.Content, 0o644); err != nil {
		out.Error = fmt.Sprintf("saving diagram: %v", err)
		return out
	}
	out.LocalPath = path
	out.GeneratedBy = GeneratedByKroki
	g.logger.Info("diagram saved", "path", path)
	return out
}

// fileName is <type>_<YYYYMMDDhhmmss>_<8 hex>.<format>.
func (g *Generator) fileName(typeName, format string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s.%s", typeName, g.now().Format("20060102150405"), id, format)
}

// wrapPlantUML adds the @startuml and @enduml markers when missing.
func wrapPlantUML(code string) string {
	if !strings.Contains(code, "@startuml") {
		code = "@startuml\n" + code
	}
	if !strings.Contains(code, "@enduml") {
		code = code + "\n@enduml"
	}
	return code
}
