package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/uml-tools-mcp/internal/diagram"
	"github.com/ironsheep/uml-tools-mcp/internal/imaging"
	"github.com/ironsheep/uml-tools-mcp/internal/ocr"
	"github.com/ironsheep/uml-tools-mcp/internal/plantuml"
	"github.com/ironsheep/uml-tools-mcp/internal/validation"
)

// jsonResult wraps a value as indented JSON text content.
func jsonResult(v any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: mustMarshalJSON(v)}},
	}
}

// errorResult reports a failure to the model as a tool result.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: mustMarshalJSON(map[string]string{"error": msg})}},
		IsError: true,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Diagram Generation Handlers ===

type generateUMLArgs struct {
	DiagramType  string `json:"diagram_type" jsonschema:"Diagram type, e.g. class, sequence, activity, usecase, state, component, deployment, object, mermaid, d2, graphviz or erd"`
	Code         string `json:"code" jsonschema:"Diagram source code"`
	OutputDir    string `json:"output_dir,omitempty" jsonschema:"Directory to save the diagram in. Defaults to the server output directory"`
	OutputFormat string `json:"output_format,omitempty" jsonschema:"Output format such as svg or png. Defaults to svg"`
}

type typedDiagramArgs struct {
	Code         string `json:"code" jsonschema:"Diagram source code"`
	OutputDir    string `json:"output_dir,omitempty" jsonschema:"Directory to save the diagram in. Defaults to the server output directory"`
	OutputFormat string `json:"output_format,omitempty" jsonschema:"Output format such as svg or png. Defaults to svg"`
}

func (s *Server) handleGenerateUML(ctx context.Context, req *mcp.CallToolRequest, args generateUMLArgs) (*mcp.CallToolResult, any, error) {
	return s.generate(ctx, diagram.Request{
		DiagramType: args.DiagramType,
		Code:        args.Code,
		Format:      args.OutputFormat,
		OutputDir:   args.OutputDir,
	}), nil, nil
}

func (s *Server) handleTypedDiagram(ctx context.Context, diagramType string, args typedDiagramArgs) (*mcp.CallToolResult, any, error) {
	return s.generate(ctx, diagram.Request{
		DiagramType: diagramType,
		Code:        args.Code,
		Format:      args.OutputFormat,
		OutputDir:   args.OutputDir,
	}), nil, nil
}

// generate renders a diagram and attaches a preview when the output is a
// raster image.
func (s *Server) generate(ctx context.Context, req diagram.Request) *mcp.CallToolResult {
	out := s.generator.Generate(ctx, req)
	res := jsonResult(out)
	if out.Error != "" {
		res.IsError = true
		return res
	}
	if out.LocalPath != "" && imaging.IsRaster(out.LocalPath) {
		if content := s.preview(out.LocalPath); content != nil {
			res.Content = append(res.Content, content)
		}
	}
	return res
}

// preview returns an inline PNG of the file, or nil if it cannot be read.
// Generated files bypass the image cache since each render has a new name.
func (s *Server) preview(path string) mcp.Content {
	p, err := imaging.PreviewFile(path)
	if err != nil {
		s.logger.Warn("preview failed", "path", path, "err", err)
		return nil
	}
	return &mcp.ImageContent{Data: p.Data, MIMEType: p.MIMEType}
}

// === Setup and Verification Handlers ===

type checkSetupArgs struct{}

type setupReport struct {
	plantuml.Status
	Ready        bool     `json:"ready"`
	LocalEnabled bool     `json:"local_rendering_enabled"`
	OCR          ocr.Info `json:"ocr"`
	Hint         string   `json:"hint,omitempty"`
}

func (s *Server) handleCheckSetup(ctx context.Context, req *mcp.CallToolRequest, args checkSetupArgs) (*mcp.CallToolResult, any, error) {
	status := s.diagnose(ctx)
	report := setupReport{
		Status:       status,
		Ready:        status.Ready(),
		LocalEnabled: s.generator.LocalEnabled(),
		OCR:          ocr.GetInfo(),
	}
	switch {
	case report.Ready && !report.LocalEnabled:
		report.Hint = "Local rendering is possible. Set USE_LOCAL_PLANTUML=true to use it."
	case !report.Ready && report.LocalEnabled:
		report.Hint = "Local rendering is enabled but not usable. PlantUML diagrams will fail until Java and plantuml.jar are installed."
	case !report.Ready:
		report.Hint = "PlantUML diagrams are rendered by the remote Kroki server."
	}
	return jsonResult(report), nil, nil
}

type imageInfoArgs struct {
	Path string `json:"path" jsonschema:"Path to a rendered PNG, JPEG or GIF diagram"`
}

func (s *Server) handleImageInfo(ctx context.Context, req *mcp.CallToolRequest, args imageInfoArgs) (*mcp.CallToolResult, any, error) {
	path, err := validation.InputFile(args.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	img, format, err := s.cache.Load(path)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to read image: %v", err)), nil, nil
	}
	info, err := imaging.Describe(path, img, format)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to read image: %v", err)), nil, nil
	}
	res := jsonResult(info)
	if p, err := imaging.MakePreview(img, imaging.DefaultPreviewSize, imaging.DefaultPreviewSize); err == nil {
		res.Content = append(res.Content, &mcp.ImageContent{Data: p.Data, MIMEType: p.MIMEType})
	} else {
		s.logger.Warn("preview failed", "path", path, "err", err)
	}
	return res, nil, nil
}

type extractTextArgs struct {
	Path           string   `json:"path" jsonschema:"Path to a rendered PNG, JPEG or GIF diagram"`
	Language       string   `json:"language,omitempty" jsonschema:"Tesseract language code. Defaults to eng"`
	ExpectedLabels []string `json:"expected_labels,omitempty" jsonschema:"Names that should appear in the diagram, checked case-insensitively"`
}

type extractTextResult struct {
	Path     string          `json:"path"`
	FullText string          `json:"full_text"`
	Words    []ocr.Word      `json:"words"`
	Labels   *ocr.LabelCheck `json:"labels,omitempty"`
	Complete *bool           `json:"all_labels_found,omitempty"`
}

func (s *Server) handleExtractText(ctx context.Context, req *mcp.CallToolRequest, args extractTextArgs) (*mcp.CallToolResult, any, error) {
	path, err := validation.InputFile(args.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	img, _, err := s.cache.Load(path)
	if err != nil {
		if errors.Is(err, imaging.ErrNotRaster) {
			return errorResult(fmt.Sprintf("%v: render the diagram as png for text extraction", err)), nil, nil
		}
		return errorResult(fmt.Sprintf("failed to read image: %v", err)), nil, nil
	}

	lang := args.Language
	if lang == "" {
		lang = ocr.DefaultLanguage
	}
	r, err := ocr.ExtractText(img, lang)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	out := extractTextResult{Path: path, FullText: r.FullText, Words: r.Words}
	if len(args.ExpectedLabels) > 0 {
		check := ocr.CheckLabels(r.FullText, args.ExpectedLabels)
		complete := check.Complete()
		out.Labels = &check
		out.Complete = &complete
	}
	return jsonResult(out), nil, nil
}

type zoomArgs struct {
	Path   string  `json:"path" jsonschema:"Path to a rendered PNG, JPEG or GIF diagram"`
	Region string  `json:"region,omitempty" jsonschema:"Named region such as top-left or center. Overrides the coordinates"`
	X1     int     `json:"x1,omitempty" jsonschema:"Left edge in pixels"`
	Y1     int     `json:"y1,omitempty" jsonschema:"Top edge in pixels"`
	X2     int     `json:"x2,omitempty" jsonschema:"Right edge in pixels, exclusive"`
	Y2     int     `json:"y2,omitempty" jsonschema:"Bottom edge in pixels, exclusive"`
	Zoom   float64 `json:"zoom,omitempty" jsonschema:"Magnification from 1 to 4. Defaults to 2"`
}

type zoomResult struct {
	Path   string  `json:"path"`
	X1     int     `json:"x1"`
	Y1     int     `json:"y1"`
	X2     int     `json:"x2"`
	Y2     int     `json:"y2"`
	Zoom   float64 `json:"zoom"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

func (s *Server) handleZoom(ctx context.Context, req *mcp.CallToolRequest, args zoomArgs) (*mcp.CallToolResult, any, error) {
	path, err := validation.InputFile(args.Path)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	img, _, err := s.cache.Load(path)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to read image: %v", err)), nil, nil
	}

	rect := image.Rect(args.X1, args.Y1, args.X2, args.Y2)
	if args.Region != "" {
		if rect, err = imaging.RegionRect(img.Bounds(), args.Region); err != nil {
			return errorResult(err.Error()), nil, nil
		}
	} else if args.X2 == 0 && args.Y2 == 0 {
		return errorResult("give either region or x1, y1, x2, y2"), nil, nil
	}

	factor := args.Zoom
	if factor == 0 {
		factor = 2
	}
	p, err := imaging.Zoom(img, rect, factor)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	res := jsonResult(zoomResult{
		Path:   path,
		X1:     rect.Min.X,
		Y1:     rect.Min.Y,
		X2:     rect.Max.X,
		Y2:     rect.Max.Y,
		Zoom:   factor,
		Width:  p.Width,
		Height: p.Height,
	})
	res.Content = append(res.Content, &mcp.ImageContent{Data: p.Data, MIMEType: p.MIMEType})
	return res, nil, nil
}
