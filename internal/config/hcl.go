package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "kroki_server"},
		{Name: "plantuml_server"},
		{Name: "output_dir"},
		{Name: "log_level"},
		{Name: "log_dir"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "local_plantuml"},
		{Type: "diagram", LabelNames: []string{"name"}},
	},
}

var localSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "enabled"},
		{Name: "java_path"},
		{Name: "jar_path"},
	},
}

var diagramSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "backend", Required: true},
		{Name: "description"},
		{Name: "formats"},
	},
}

// parseFile reads an HCL config file into cfg. Unknown attributes and
// blocks are errors.
func parseFile(path string, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config %s: %s", path, diags.Error())
	}
	return decodeBody(file.Body, cfg)
}

func decodeBody(body hcl.Body, cfg *Config) error {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid config: %s", diags.Error())
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"kroki_server", &cfg.KrokiServer},
		{"plantuml_server", &cfg.PlantUMLServer},
		{"output_dir", &cfg.OutputDir},
		{"log_level", &cfg.LogLevel},
		{"log_dir", &cfg.LogDir},
	} {
		if err := stringAttr(content.Attributes, f.name, f.dst); err != nil {
			return err
		}
	}

	seenLocal := false
	seenDiagram := make(map[string]bool)
	for _, block := range content.Blocks {
		switch block.Type {
		case "local_plantuml":
			if seenLocal {
				return fmt.Errorf("%s: duplicate local_plantuml block", block.DefRange)
			}
			seenLocal = true
			if err := decodeLocal(block.Body, &cfg.LocalPlantUML); err != nil {
				return err
			}
		case "diagram":
			name := block.Labels[0]
			if seenDiagram[name] {
				return fmt.Errorf("%s: duplicate diagram %q", block.DefRange, name)
			}
			seenDiagram[name] = true
			d, err := decodeDiagram(name, block.Body)
			if err != nil {
				return err
			}
			cfg.Diagrams = append(cfg.Diagrams, d)
		}
	}
	return nil
}

func decodeLocal(body hcl.Body, dst *LocalPlantUML) error {
	content, diags := body.Content(localSchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid local_plantuml block: %s", diags.Error())
	}
	if err := boolAttr(content.Attributes, "enabled", &dst.Enabled); err != nil {
		return err
	}
	if err := stringAttr(content.Attributes, "java_path", &dst.JavaPath); err != nil {
		return err
	}
	return stringAttr(content.Attributes, "jar_path", &dst.JarPath)
}

func decodeDiagram(name string, body hcl.Body) (Diagram, error) {
	d := Diagram{Name: name}
	content, diags := body.Content(diagramSchema)
	if diags.HasErrors() {
		return d, fmt.Errorf("invalid diagram %q: %s", name, diags.Error())
	}
	if err := stringAttr(content.Attributes, "backend", &d.Backend); err != nil {
		return d, err
	}
	if err := stringAttr(content.Attributes, "description", &d.Description); err != nil {
		return d, err
	}
	if err := stringListAttr(content.Attributes, "formats", &d.Formats); err != nil {
		return d, err
	}
	return d, nil
}

// attrValue evaluates a literal attribute and converts it to want.
// Variables and functions are not available.
func attrValue(attrs hcl.Attributes, name string, want cty.Type) (cty.Value, bool, error) {
	attr, ok := attrs[name]
	if !ok {
		return cty.NilVal, false, nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, false, fmt.Errorf("%s: %s", name, diags.Error())
	}
	if val.IsNull() {
		return cty.NilVal, false, nil
	}
	val, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, false, fmt.Errorf("%s: %s: %w", attr.Range, name, err)
	}
	return val, true, nil
}

func stringAttr(attrs hcl.Attributes, name string, dst *string) error {
	val, ok, err := attrValue(attrs, name, cty.String)
	if err != nil || !ok {
		return err
	}
	*dst = val.AsString()
	return nil
}

func boolAttr(attrs hcl.Attributes, name string, dst *bool) error {
	val, ok, err := attrValue(attrs, name, cty.Bool)
	if err != nil || !ok {
		return err
	}
	*dst = val.True()
	return nil
}

func stringListAttr(attrs hcl.Attributes, name string, dst *[]string) error {
	val, ok, err := attrValue(attrs, name, cty.List(cty.String))
	if err != nil || !ok {
		return err
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.IsNull() {
			return fmt.Errorf("%s: null element", name)
		}
		out = append(out, v.AsString())
	}
	*dst = out
	return nil
}
