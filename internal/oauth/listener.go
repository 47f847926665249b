// Package oauth captures the browser redirect at the end of a desktop login flow.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrBind means the redirect port could not be bound
	ErrBind = errors.New("oauth: failed to bind redirect listener")

	// ErrTimeout means no redirect arrived before the overall deadline
	ErrTimeout = errors.New("oauth: timed out waiting for redirect")

	// ErrConnection means the listener failed for a reason other than the deadline
	ErrConnection = errors.New("oauth: redirect listener failed")
)

const (
	DefaultAddr        = "127.0.0.1:1420"
	DefaultTimeout     = 5 * time.Minute
	DefaultReadTimeout = 10 * time.Second

	maxRequestSize = 4096
	acceptBackoff  = 50 * time.Millisecond
)

const successPage = `<html><body style="background:#0f1115;color:#fff;font-family:system-ui,sans-serif;display:flex;flex-direction:column;justify-content:center;align-items:center;height:100vh;margin:0;"><h2>Signed in</h2><p style="color:#888;">You can close this tab and return to the app.</p><script>setTimeout(() => window.close(), 2000);</script></body></html>`

type Options struct {
	Addr        string
	Timeout     time.Duration
	ReadTimeout time.Duration
	Log         zerolog.Logger

	// Ready, when set, is called with the bound address before accepting
	Ready func(addr net.Addr)
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	return o
}

// Listen waits for the identity provider to redirect the browser to the
// loopback address and returns the full redirect URL, query included.
// Favicon probes and unrelated requests get a 404 and the wait goes on.
func Listen(ctx context.Context, opts Options) (string, error) {
	opts = opts.withDefaults()
	log := opts.Log.With().Str("component", "oauth").Logger()

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBind, err)
	}
	defer ln.Close()

	if tcp, ok := ln.(*net.TCPListener); ok {
		if err := tcp.SetDeadline(time.Now().Add(opts.Timeout)); err != nil {
			return "", fmt.Errorf("%w: %w", ErrConnection, err)
		}
	}

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	port := ln.Addr().(*net.TCPAddr).Port
	log.Info().Str("addr", ln.Addr().String()).Dur("timeout", opts.Timeout).Msg("waiting for login redirect")
	if opts.Ready != nil {
		opts.Ready(ln.Addr())
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return "", ErrTimeout
			}
			if errors.Is(err, net.ErrClosed) {
				return "", fmt.Errorf("%w: %w", ErrConnection, err)
			}
			log.Warn().Err(err).Msg("accept failed, still waiting")
			time.Sleep(acceptBackoff)
			continue
		}

		path, ok := serve(conn, opts.ReadTimeout, log)
		if ok {
			return fmt.Sprintf("http://localhost:%d%s", port, path), nil
		}
	}
}

// serve answers one connection and reports the redirect path if this was it
func serve(conn net.Conn, readTimeout time.Duration, log zerolog.Logger) (string, bool) {
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(readTimeout))
	buf := make([]byte, maxRequestSize)
	n, err := conn.Read(buf)
	if err != nil {
		log.Debug().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("read failed, still waiting")
		return "", false
	}

	path, ok := redirectPath(string(buf[:n]))
	if !ok {
		_, _ = conn.Write([]byte("HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
		return "", false
	}

	response := fmt.Sprintf("HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		len(successPage), successPage)
	if _, err := conn.Write([]byte(response)); err != nil {
		log.Debug().Err(err).Msg("failed to write confirmation page")
	}
	return path, true
}

// redirectPath extracts the request target of a GET carrying an OAuth result
func redirectPath(request string) (string, bool) {
	line, _, _ := strings.Cut(request, "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "GET" || !strings.HasPrefix(fields[1], "/") {
		return "", false
	}

	path := fields[1]
	if strings.HasPrefix(path, "/favicon.ico") {
		return "", false
	}
	if !strings.Contains(path, "code=") && !strings.Contains(path, "error=") {
		return "", false
	}
	return path, true
}
