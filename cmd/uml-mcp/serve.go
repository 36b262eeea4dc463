package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/uml-tools-mcp/internal/config"
	"github.com/ironsheep/uml-tools-mcp/internal/diagram"
	"github.com/ironsheep/uml-tools-mcp/internal/kroki"
	"github.com/ironsheep/uml-tools-mcp/internal/logging"
	"github.com/ironsheep/uml-tools-mcp/internal/plantuml"
	"github.com/ironsheep/uml-tools-mcp/internal/server"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

var (
	transport string
	httpAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Start the MCP server. Logs go to stderr, and to a daily file when
UML_MCP_LOG_DIR is set.

With --transport stdio (the default) the server talks to one client over
stdin/stdout. With --transport http it serves the streamable HTTP transport
on --addr until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "transport to serve: stdio or http")
	cmd.Flags().StringVar(&httpAddr, "addr", "127.0.0.1:8080", "listen address for the http transport")
}

func init() {
	addServeFlags(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if transport != transportStdio && transport != transportHTTP {
		return fmt.Errorf("unknown transport %q: use %s or %s", transport, transportStdio, transportHTTP)
	}

	cfg, logger, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("UML MCP Server starting", "version", Version, "built", BuildTime, "commit", GitCommit)
	if cfg.Source != "" {
		logger.Info("configuration loaded", "file", cfg.Source)
	}

	ctx := cmd.Context()
	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if transport == transportHTTP {
		err = srv.ServeHTTP(ctx, httpAddr)
	} else {
		err = srv.Run(ctx)
	}
	if err != nil && ctx.Err() == nil {
		logger.Error("server stopped", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// setup loads the configuration and builds the logger every subcommand
// shares.
func setup() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, nil, nil, err
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logger, closer, err := logging.New(logging.Options{Level: level, Dir: cfg.LogDir})
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

// plantumlOptions turns the local PlantUML settings into client options.
func plantumlOptions(cfg *config.Config, logger *slog.Logger) []plantuml.Option {
	opts := []plantuml.Option{plantuml.WithLogger(logger)}
	if cfg.LocalPlantUML.JavaPath != "" {
		opts = append(opts, plantuml.WithJavaPath(cfg.LocalPlantUML.JavaPath))
	}
	if cfg.LocalPlantUML.JarPath != "" {
		opts = append(opts, plantuml.WithJarPath(cfg.LocalPlantUML.JarPath))
	}
	return opts
}

func newRegistry(cfg *config.Config) (*diagram.Registry, error) {
	types := diagram.DefaultTypes()
	for _, d := range cfg.Diagrams {
		types = append(types, diagram.Type{
			Name:        d.Name,
			Backend:     d.Backend,
			Description: d.Description,
			Formats:     d.Formats,
		})
	}
	return diagram.NewRegistry(types)
}

// newServer wires configuration, renderers and generator into an MCP
// server. Local PlantUML rendering falls back to Kroki when Java or
// plantuml.jar cannot be found.
func newServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	remote := kroki.New(cfg.KrokiServer,
		kroki.WithPlantUMLServer(cfg.PlantUMLServer),
		kroki.WithLogger(logger),
	)

	var local diagram.LocalRenderer
	if cfg.LocalPlantUML.Enabled {
		c, err := plantuml.New(ctx, plantumlOptions(cfg, logger)...)
		if err != nil {
			logger.Warn("local PlantUML unavailable, using Kroki for PlantUML diagrams", "err", err)
		} else {
			logger.Info("local PlantUML rendering enabled", "java", c.JavaPath(), "jar", c.JarPath())
			local = c
		}
	}

	gen := diagram.NewGenerator(reg, remote, local, cfg.OutputDir, logger)

	return server.New(server.Options{
		Version:   Version,
		Generator: gen,
		Diagnose: func(ctx context.Context) plantuml.Status {
			return plantuml.Diagnose(ctx, plantumlOptions(cfg, logger)...)
		},
		KrokiServer:    cfg.KrokiServer,
		PlantUMLServer: cfg.PlantUMLServer,
		OutputDir:      cfg.OutputDir,
		Logger:         logger,
	}), nil
}
