package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/uml-tools-mcp/internal/diagram"
	"github.com/ironsheep/uml-tools-mcp/internal/imaging"
	"github.com/ironsheep/uml-tools-mcp/internal/plantuml"
)

// Name is the implementation name announced to clients.
const Name = "uml-tools-mcp"

const shutdownTimeout = 5 * time.Second

// Options configures New.
type Options struct {
	Version string

	// Generator renders diagrams. Required.
	Generator *diagram.Generator

	// Diagnose reports the local PlantUML setup. Defaults to plantuml.Diagnose
	// with no options.
	Diagnose func(ctx context.Context) plantuml.Status

	// Reported by uml://server-info.
	KrokiServer    string
	PlantUMLServer string
	OutputDir      string

	Logger *slog.Logger
}

// Server handles MCP protocol communication
type Server struct {
	mcp       *mcp.Server
	generator *diagram.Generator
	cache     *imaging.ImageCache
	diagnose  func(ctx context.Context) plantuml.Status
	logger    *slog.Logger

	version        string
	krokiServer    string
	plantumlServer string
	outputDir      string

	toolNames   []string
	promptNames []string
}

// New creates the server and registers every tool, resource and prompt.
func New(opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Diagnose == nil {
		opts.Diagnose = func(ctx context.Context) plantuml.Status { return plantuml.Diagnose(ctx) }
	}

	s := &Server{
		mcp:            mcp.NewServer(&mcp.Implementation{Name: Name, Version: opts.Version}, nil),
		generator:      opts.Generator,
		cache:          imaging.NewImageCache(),
		diagnose:       opts.Diagnose,
		logger:         opts.Logger,
		version:        opts.Version,
		krokiServer:    opts.KrokiServer,
		plantumlServer: opts.PlantUMLServer,
		outputDir:      opts.OutputDir,
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	s.logger.Debug("mcp server ready", "tools", len(s.toolNames), "prompts", len(s.promptNames))
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// ToolNames lists registered tools in registration order.
func (s *Server) ToolNames() []string { return s.toolNames }

// Run serves one client over stdin/stdout until the client disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving MCP", "transport", "stdio", "version", s.version)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

// ServeHTTP listens on addr and serves the streamable HTTP transport until
// ctx is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ServeHTTP on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("serving MCP", "transport", "http", "addr", ln.Addr().String(), "version", s.version)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
