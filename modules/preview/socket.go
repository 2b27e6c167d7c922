package preview

import (
	"context"
	"fmt"
	"net/url"

	"github.com/specialistvlad/osmium/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// socketPublisher publishes frames over a connected socket.io client.
type socketPublisher struct {
	io *socket.Socket
}

// dialSocket connects to rawURL over websocket and waits for the connect
// event. The URL path selects the socket.io path, the fragment the namespace.
func dialSocket(ctx context.Context, rawURL string) (publisher, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("preview URL %q needs a scheme and a host", rawURL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := "/"
	if parsedURL.Fragment != "" {
		namespace = "/" + parsedURL.Fragment
	}

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to preview viewer.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &socketPublisher{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	}
}

func (p *socketPublisher) Publish(ctx context.Context, event string, frame map[string]any) error {
	acked := make(chan struct{}, 1)
	p.io.Once(types.EventName(event+"_ack"), func(...any) {
		select {
		case acked <- struct{}{}:
		default:
		}
	})

	p.io.Emit(event, frame)

	select {
	case <-acked:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s_ack: %w", event, ctx.Err())
	}
}

func (p *socketPublisher) Close() {
	p.io.Disconnect()
}
