package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/uml-tools-mcp/internal/plantuml"
	"github.com/ironsheep/uml-tools-mcp/internal/validation"
)

var (
	renderFormat string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a PlantUML file with the local Java installation",
	Long: `Render a PlantUML source file with the local Java runtime and
plantuml.jar, without going through MCP or Kroki.

The output defaults to the input path with its extension replaced by the
format, e.g. model.puml becomes model.svg.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		in, err := validation.InputFile(args[0])
		if err != nil {
			return err
		}
		code, err := os.ReadFile(in)
		if err != nil {
			return err
		}

		format := strings.ToLower(renderFormat)
		out := renderOut
		if out == "" {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + "." + format
		}
		out, err = validation.OutputFile(out)
		if err != nil {
			return err
		}

		c, err := plantuml.New(cmd.Context(), plantumlOptions(cfg, logger)...)
		if err != nil {
			return err
		}
		res := c.Render(cmd.Context(), string(code), format, out)
		if !res.Success {
			return errors.New(res.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "svg", "output format: svg, png, pdf, eps or txt")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default: input path with the format's extension)")
}
