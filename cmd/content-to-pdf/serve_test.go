package main

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/server"
)

// ---------------------------------------------------------------------------
// TestServe - Listen and graceful shutdown
// ---------------------------------------------------------------------------

func TestServe(t *testing.T) {
	t.Parallel()

	t.Run("shuts down on cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		hs := server.HTTPServer("127.0.0.1:0", http.NotFoundHandler())

		done := make(chan error, 1)
		go func() { done <- serve(ctx, hs, logger.Nop()) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve() = %v, want nil", err)
			}
		case <-time.After(shutdownTimeout):
			t.Fatal("serve() did not return after cancel")
		}
	})

	t.Run("address in use", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer ln.Close()

		hs := server.HTTPServer(ln.Addr().String(), http.NotFoundHandler())
		err = serve(context.Background(), hs, logger.Nop())
		if err == nil || !strings.Contains(err.Error(), "listening on") {
			t.Errorf("serve() = %v, want listen error", err)
		}
	})
}
