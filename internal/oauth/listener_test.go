package oauth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	url string
	err error
}

// start runs Listen on a random port and returns the bound address
func start(t *testing.T, ctx context.Context, opts Options) (string, <-chan result) {
	t.Helper()

	ready := make(chan net.Addr, 1)
	opts.Addr = "127.0.0.1:0"
	opts.Ready = func(addr net.Addr) { ready <- addr }

	done := make(chan result, 1)
	go func() {
		url, err := Listen(ctx, opts)
		done <- result{url, err}
	}()

	select {
	case addr := <-ready:
		return addr.String(), done
	case res := <-done:
		t.Fatalf("listener exited early: %v", res.err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener never became ready")
	}
	return "", nil
}

func rawGet(t *testing.T, addr, path string) string {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\n\r\n", path, addr)
	require.NoError(t, err)

	status, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	return status
}

func TestFaviconThenCallback(t *testing.T) {
	addr, done := start(t, context.Background(), Options{})

	assert.Contains(t, rawGet(t, addr, "/favicon.ico"), "404")
	assert.Contains(t, rawGet(t, addr, "/"), "404")

	resp, err := http.Get("http://" + addr + "/callback?code=abc&state=xyz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Signed in")

	res := <-done
	require.NoError(t, res.err)
	_, port, _ := net.SplitHostPort(addr)
	assert.Equal(t, "http://localhost:"+port+"/callback?code=abc&state=xyz", res.url)
}

func TestErrorRedirectEndsWait(t *testing.T) {
	addr, done := start(t, context.Background(), Options{})

	assert.Contains(t, rawGet(t, addr, "/callback?error=access_denied"), "200")

	res := <-done
	require.NoError(t, res.err)
	assert.Contains(t, res.url, "/callback?error=access_denied")
}

func TestBrokenConnectionKeepsWaiting(t *testing.T) {
	addr, done := start(t, context.Background(), Options{ReadTimeout: 100 * time.Millisecond})

	// connects and says nothing
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)
	conn.Close()

	assert.Contains(t, rawGet(t, addr, "/cb?code=1"), "200")
	res := <-done
	assert.NoError(t, res.err)
}

func TestTimeout(t *testing.T) {
	_, done := start(t, context.Background(), Options{Timeout: 100 * time.Millisecond})

	select {
	case res := <-done:
		assert.True(t, errors.Is(res.err, ErrTimeout), "got %v", res.err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not time out")
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, done := start(t, ctx, Options{})
	cancel()

	res := <-done
	assert.ErrorIs(t, res.err, context.Canceled)
}

func TestBindFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	_, err = Listen(context.Background(), Options{Addr: busy.Addr().String()})
	assert.ErrorIs(t, err, ErrBind)
}

func TestRedirectPath(t *testing.T) {
	tests := []struct {
		request string
		path    string
		ok      bool
	}{
		{"GET /callback?code=abc HTTP/1.1\r\n", "/callback?code=abc", true},
		{"GET /?error=denied HTTP/1.1\r\n", "/?error=denied", true},
		{"GET /favicon.ico HTTP/1.1\r\n", "", false},
		{"GET / HTTP/1.1\r\n", "", false},
		{"POST /callback?code=abc HTTP/1.1\r\n", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		path, ok := redirectPath(tt.request)
		assert.Equal(t, tt.ok, ok, tt.request)
		assert.Equal(t, tt.path, path, tt.request)
	}
}
