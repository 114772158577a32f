package api

import (
	"context"
	"errors"
	"net"
	"ootp-toolkit/internal/config"
	"ootp-toolkit/internal/ingest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newTestClient(t *testing.T, maxBytes int, handler fasthttp.RequestHandler) *CSVClient {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go fasthttp.Serve(ln, handler) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })

	return newCSVClient(maxBytes, func(string) (net.Conn, error) { return ln.Dial() }, zerolog.Nop())
}

func csvHandler(status int, body string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(status)
		ctx.SetContentType("text/csv")
		ctx.SetBodyString(body)
	}
}

func TestCSVClient_Fetch(t *testing.T) {
	c := newTestClient(t, 1<<20, csvHandler(fasthttp.StatusOK, "Name,POS,HR\nRafael Ortiz,SS,31\nBo Smith,1B,22\n"))

	table, err := c.Fetch(context.Background(), "http://stats.test/hitting.csv")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if hr, _ := table.Rows[0].Stat("HR"); hr != 31 {
		t.Errorf("HR = %v, want 31", hr)
	}
}

func TestCSVClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		maxBytes int
		handler  fasthttp.RequestHandler
		check    func(error) bool
	}{
		{
			name:     "non-200",
			url:      "http://stats.test/missing.csv",
			maxBytes: 1 << 20,
			handler:  csvHandler(fasthttp.StatusNotFound, "not found"),
			check: func(err error) bool {
				var fe *FetchError
				return errors.As(err, &fe) && fe.Status == fasthttp.StatusNotFound
			},
		},
		{
			name:     "body too large",
			url:      "http://stats.test/big.csv",
			maxBytes: 64,
			handler:  csvHandler(fasthttp.StatusOK, "Name,HR\n"+strings.Repeat("Player,1\n", 50)),
			check:    func(err error) bool { return errors.Is(err, fasthttp.ErrBodyTooLarge) },
		},
		{
			name:     "bad scheme",
			url:      "file:///etc/passwd",
			maxBytes: 1 << 20,
			handler:  csvHandler(fasthttp.StatusOK, "Name\nx\n"),
			check: func(err error) bool {
				var fe *FetchError
				return errors.As(err, &fe)
			},
		},
		{
			name:     "malformed csv",
			url:      "http://stats.test/broken.csv",
			maxBytes: 1 << 20,
			handler:  csvHandler(fasthttp.StatusOK, "Name,HR\nA,1,2\n"),
			check: func(err error) bool {
				var ie *ingest.Error
				return errors.As(err, &ie)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.maxBytes, tt.handler)
			_, err := c.Fetch(context.Background(), tt.url)
			if err == nil || !tt.check(err) {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestCSVClient_CanceledContext(t *testing.T) {
	c := newTestClient(t, 1<<20, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(50 * time.Millisecond)
		ctx.SetBodyString("Name\nx\n")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, "http://stats.test/slow.csv"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func serveLoopback(t *testing.T, handler fasthttp.RequestHandler) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go fasthttp.Serve(ln, handler) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })
	return "http://" + ln.Addr().String() + "/hitting.csv"
}

func TestNewCSVClient_RejectsPrivateAddresses(t *testing.T) {
	url := serveLoopback(t, csvHandler(fasthttp.StatusOK, "Name,HR\nA,10\n"))

	c := NewCSVClient(&config.Config{CSVMaxBytes: 1 << 20}, zerolog.Nop())
	_, err := c.Fetch(context.Background(), url)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FetchError", err)
	}

	allowed := NewCSVClient(&config.Config{CSVMaxBytes: 1 << 20, CSVFetchAllowPrivate: true}, zerolog.Nop())
	table, err := allowed.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("Fetch with private addresses allowed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(table.Rows))
	}
}

func TestPublicDial_Blocked(t *testing.T) {
	for _, addr := range []string{"127.0.0.1:80", "[::1]:80", "10.1.2.3:443", "169.254.169.254:80", "0.0.0.0:80"} {
		conn, err := publicDial(addr)
		if conn != nil {
			conn.Close()
		}
		if !errors.Is(err, ErrBlockedAddress) {
			t.Errorf("publicDial(%s) err = %v, want ErrBlockedAddress", addr, err)
		}
	}
}

func TestBlockedIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.0.0.8", true},
		{"172.16.4.1", true},
		{"192.168.1.10", true},
		{"169.254.169.254", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"8.8.8.8", false},
		{"151.101.1.69", false},
		{"2606:4700::1111", false},
	}
	for _, tt := range tests {
		if got := blockedIP(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("blockedIP(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}
