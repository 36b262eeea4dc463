package kroki

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// DefaultURL is the public Kroki instance.
	DefaultURL = "https://kroki.io"

	// DefaultPlantUMLServer hosts the PlantUML playground.
	DefaultPlantUMLServer = "https://www.plantuml.com/plantuml"

	mermaidLiveURL  = "https://mermaid.live/edit#pako:"
	d2PlaygroundURL = "https://play.d2lang.com/?script="

	// maxDiagramBytes caps a rendered response.
	maxDiagramBytes = 32 << 20
)

// backendFormats lists the output formats served per Kroki backend.
var backendFormats = map[string][]string{
	"plantuml":   {"png", "svg", "pdf", "txt"},
	"c4plantuml": {"png", "svg", "pdf", "txt"},
	"mermaid":    {"png", "svg"},
	"d2":         {"svg"},
	"graphviz":   {"png", "svg", "pdf", "jpeg"},
	"erd":        {"png", "svg", "pdf", "jpeg"},
	"ditaa":      {"png", "svg"},
	"nomnoml":    {"svg"},
	"wavedrom":   {"svg"},
}

// Backends returns the supported backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backendFormats))
	for name := range backendFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Formats returns the output formats of backend, or nil if it is unknown.
func Formats(backend string) []string {
	return slices.Clone(backendFormats[strings.ToLower(backend)])
}

// Client talks to one Kroki server.
type Client struct {
	baseURL        string
	plantumlServer string
	http           *retryablehttp.Client
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPlantUMLServer sets the server used for PlantUML playground links.
func WithPlantUMLServer(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.plantumlServer = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default retrying client.
func WithHTTPClient(hc *retryablehttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used by the client and its retries.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the Kroki server at baseURL, or DefaultURL when
// baseURL is empty.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		plantumlServer: DefaultPlantUMLServer,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		hc := retryablehttp.NewClient()
		hc.RetryMax = 3
		hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
		hc.Logger = c.logger
		c.http = hc
	}
	return c
}

// BaseURL returns the server this client renders with.
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the GET URL that renders code with backend in format.
func (c *Client) URL(backend, code, format string) (string, error) {
	backend = strings.ToLower(backend)
	formats, ok := backendFormats[backend]
	if !ok {
		return "", fmt.Errorf("Unsupported diagram type: %s: %w", backend, ErrUnsupported)
	}
	if !slices.Contains(formats, format) {
		return "", fmt.Errorf("Unsupported output format: %s for %s (supported: %s): %w",
			format, backend, strings.Join(formats, ", "), ErrUnsupported)
	}
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, backend, format, Encode(code)), nil
}

// PlaygroundURL returns an editable link for code, or "" when the backend
// has no playground.
func (c *Client) PlaygroundURL(backend, code string) string {
	switch strings.ToLower(backend) {
	case "plantuml", "c4plantuml":
		return c.plantumlServer + "/uml/" + EncodePlantUML(code)
	case "mermaid":
		return mermaidLiveURL + encodeMermaidLive(code)
	case "d2":
		return d2PlaygroundURL + encodeD2Playground(code)
	default:
		return ""
	}
}

// Render fetches the rendered diagram for code from the Kroki server.
//
// Parameters:
//   - backend: Kroki diagram type such as "plantuml", "mermaid" or "d2".
//   - format: Output format, e.g. "svg" or "png".
//
// Connection failures and 5xx answers are retried with backoff. The
// response body is capped at 32 MiB.
//
// # Errors
//
//   - ErrUnsupported (wrapped) for an unknown backend or format
//   - *ConnectionError if the server cannot be reached
//   - *HTTPError for a non-2xx answer; Body carries Kroki's message
func (c *Client) Render(ctx context.Context, backend, code, format string) ([]byte, error) {
	u, err := c.URL(backend, code, format)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug("kroki request", "backend", backend, "format", format)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDiagramBytes))
	if err != nil {
		return nil, &ConnectionError{URL: c.baseURL, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("kroki rejected diagram", "status", resp.StatusCode)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// Diagram is a rendered diagram with its links.
type Diagram struct {
	URL        string
	Content    []byte
	Playground string
}

// Generate renders code and collects its URL and playground link.
func (c *Client) Generate(ctx context.Context, backend, code, format string) (*Diagram, error) {
	u, err := c.URL(backend, code, format)
	if err != nil {
		return nil, err
	}
	content, err := c.Render(ctx, backend, code, format)
	if err != nil {
		return nil, err
	}
	return &Diagram{
		URL:        u,
		Content:    content,
		Playground: c.PlaygroundURL(backend, code),
	}, nil
}
