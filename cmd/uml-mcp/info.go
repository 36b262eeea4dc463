package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/uml-tools-mcp/internal/ocr"
	"github.com/ironsheep/uml-tools-mcp/internal/plantuml"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the effective configuration and diagram types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		reg, err := newRegistry(cfg)
		if err != nil {
			return err
		}

		source := cfg.Source
		if source == "" {
			source = "(none)"
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Version:\t%s\n", Version)
		fmt.Fprintf(tw, "Config file:\t%s\n", source)
		fmt.Fprintf(tw, "Kroki server:\t%s\n", cfg.KrokiServer)
		fmt.Fprintf(tw, "PlantUML server:\t%s\n", cfg.PlantUMLServer)
		fmt.Fprintf(tw, "Output directory:\t%s\n", cfg.OutputDir)
		fmt.Fprintf(tw, "Log level:\t%s\n", cfg.LogLevel)
		fmt.Fprintf(tw, "Local PlantUML:\t%t\n", cfg.LocalPlantUML.Enabled)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "TYPE\tBACKEND\tFORMATS")
		for _, t := range reg.Types() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Backend, strings.Join(t.Formats, ", "))
		}
		return tw.Flush()
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check Java, plantuml.jar and OCR support",
	Long: `Check whether this machine can render PlantUML diagrams locally.

Exits non-zero when Java or plantuml.jar is missing. Diagrams are still
rendered through Kroki in that case.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, closer, err := setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		status := plantuml.Diagnose(cmd.Context(), plantumlOptions(cfg, logger)...)
		info := ocr.GetInfo()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Java:         %s\n", mark(status.JavaInstalled), firstLine(status.JavaMessage))
		fmt.Fprintf(out, "%s plantuml.jar: %s\n", mark(status.JarAvailable), status.JarMessage)
		ocrMsg := info.Backend
		if info.Version != "" {
			ocrMsg += " " + info.Version
		}
		fmt.Fprintf(out, "%s OCR:          %s\n", mark(info.Available), ocrMsg)

		if !status.Ready() {
			return errors.New("local PlantUML rendering is not available")
		}
		if !cfg.LocalPlantUML.Enabled {
			fmt.Fprintln(out, "\nLocal rendering is possible but disabled. Set USE_LOCAL_PLANTUML=true to enable it.")
		}
		return nil
	},
}

func mark(ok bool) string {
	if ok {
		return "[ok]"
	}
	return "[--]"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
