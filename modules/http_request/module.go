package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct {
	// Client performs the requests. Defaults to http.DefaultClient.
	Client *http.Client
}

// Input defines the arguments for the http_request handler.
type Input struct {
	URL     string            `cty:"url"`
	Method  string            `cty:"method"`
	Body    string            `cty:"body"`
	Headers map[string]string `cty:"headers"`
	// ExpectStatus fails the node when the response status differs. Zero
	// accepts any status.
	ExpectStatus int `cty:"expect_status"`
}

// Register registers the 'http_request' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("http_request", m.OnRunHttpRequest)
}

// OnRunHttpRequest performs one HTTP request and returns its status code and body.
func (m *Module) OnRunHttpRequest(ctx context.Context, in handlers.Input) (any, error) {
	input := Input{Method: http.MethodGet}
	if err := handlers.DecodeArgs(in.Args, &input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, fmt.Errorf("argument 'url' is required")
	}

	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request", "method", input.Method, "url", input.URL)

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	var body io.Reader
	if input.Body != "" {
		body = strings.NewReader(input.Body)
	}
	req, err := http.NewRequestWithContext(ctx, input.Method, input.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range input.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if input.ExpectStatus != 0 && resp.StatusCode != input.ExpectStatus {
		return nil, fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, input.ExpectStatus)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        string(bodyBytes),
	}, nil
}
