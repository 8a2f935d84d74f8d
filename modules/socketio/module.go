package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/erdos/internal/ctxlog"
	"github.com/vk/erdos/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Input defines the arguments for the socketio handler.
type Input struct {
	URL                string    `cty:"url"`
	Namespace          string    `cty:"namespace"`
	OnEvent            string    `cty:"on_event"`
	EmitEvent          string    `cty:"emit_event"`
	EmitData           cty.Value `cty:"emit_data"`
	Timeout            string    `cty:"timeout"`
	InsecureSkipVerify bool      `cty:"insecure_skip_verify"`
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// Register registers the 'socketio' handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterHandler("socketio", OnRunSocketIO)
}

// OnRunSocketIO connects to a Socket.IO server, optionally emits one event
// after connecting, and waits for the first occurrence of on_event. The
// event payload is returned as {"response_data": ...}.
func OnRunSocketIO(ctx context.Context, in handlers.Input) (any, error) {
	input := Input{
		Namespace: "/",
		Timeout:   "10s",
		EmitData:  cty.NullVal(cty.DynamicPseudoType),
	}
	if err := handlers.DecodeArgs(in.Args, &input); err != nil {
		return nil, err
	}
	if input.URL == "" {
		return nil, fmt.Errorf("argument 'url' is required")
	}
	if input.OnEvent == "" {
		return nil, fmt.Errorf("argument 'on_event' is required")
	}

	logger := ctxlog.FromContext(ctx).With("kind", "socketio", "url", input.URL, "onEvent", input.OnEvent, "emitEvent", input.EmitEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		logger.Warn("Failed to parse timeout, using default 10s", "inputTimeout", input.Timeout, "error", err)
		timeout = 10 * time.Second
	}

	emitData, err := handlers.ToGo(input.EmitData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert emit_data: %w", err)
	}

	parsedURL, err := url.Parse(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q is not absolute", input.URL)
	}

	var isConnected atomic.Bool
	done := make(chan opResult, 1)
	send := func(res opResult) {
		select {
		case done <- res:
		default:
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(input.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", input.Namespace, "sid", io.Id())
		if input.EmitEvent != "" {
			jsonData, _ := json.Marshal(emitData)
			logger.Info("Emitting event", "event", input.EmitEvent, "data", string(jsonData))
			io.Emit(input.EmitEvent, emitData)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				send(opResult{err: fmt.Errorf("connection failed: %w", err)})
				return
			}
		}
		send(opResult{err: fmt.Errorf("connection failed: %v", errs)})
	})

	io.On(types.EventName(input.OnEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		send(opResult{value: map[string]any{"response_data": responseData}})
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isConnected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for event '%s'", input.OnEvent)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		return res.value, res.err
	}
}
