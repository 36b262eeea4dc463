// Command uml-mcp is an MCP server that renders UML and other diagrams
// through a local PlantUML installation or a Kroki server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "uml-mcp",
	Short: "MCP server for UML diagram generation",
	Long: `uml-mcp renders PlantUML, Mermaid, D2, Graphviz and ERD diagrams for AI
agents over the Model Context Protocol.

Without a subcommand it runs "serve" over stdin/stdout. Configure it in your
MCP client (e.g., Claude Desktop).

Environment variables:
  UML_MCP_CONFIG         HCL configuration file
  KROKI_SERVER           Kroki server URL (default https://kroki.io)
  PLANTUML_SERVER        PlantUML server used for playground links
  UML_MCP_OUTPUT_DIR     Directory for generated diagrams (default ./output)
  UML_MCP_LOG_LEVEL      debug, info, warn or error
  UML_MCP_LOG_DIR        Also write logs to a daily file in this directory
  USE_LOCAL_PLANTUML     Render PlantUML diagrams with a local Java install
  JAVA_PATH              Java binary to use for local rendering
  JAVA_HOME              Searched for bin/java
  PLANTUML_JAR_PATH      plantuml.jar to use for local rendering`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "uml-mcp %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "HCL configuration file (overrides UML_MCP_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("uml-mcp {{.Version}}\n")

	addServeFlags(rootCmd)
	rootCmd.AddCommand(serveCmd, infoCmd, doctorCmd, renderCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "uml-mcp: %v\n", err)
		stop()
		os.Exit(1)
	}
}
