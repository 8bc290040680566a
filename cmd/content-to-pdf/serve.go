package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/cache"
	"github.com/PlanB-Network/content-to-pdf/internal/config"
	"github.com/PlanB-Network/content-to-pdf/internal/github"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/server"
)

const shutdownTimeout = 10 * time.Second

// runServe starts the HTTP service backed by the remote content repository.
func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger, env *Environment) error {
	var ch cache.Cache
	switch ttl := cfg.CacheTTL(); {
	case ttl == 0:
		ch = cache.Nop{}
	case cfg.Cache.RedisURL != "":
		rdb, err := cache.DialRedis(ctx, cfg.Cache.RedisURL, ttl)
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("closing redis", "error", err)
			}
		}()
		ch = rdb
	default:
		ch = cache.NewMemory(ttl)
	}

	opts := []github.Option{
		github.WithToken(cfg.Content.Token),
		github.WithRepository(cfg.Content.Owner, cfg.Content.Repo, cfg.Content.Branch),
		github.WithBaseURLs("", "", cfg.Content.LocalesURL),
		github.WithCache(ch),
		github.WithLogger(log),
	}
	if cfg.Content.GuidesDir != "" {
		opts = append(opts, github.WithGuides(os.DirFS(cfg.Content.GuidesDir)))
	}
	client := github.New(opts...)

	pages, css, err := loadAssets(cfg)
	if err != nil {
		return err
	}
	gen, err := contenttopdf.NewGenerator(client,
		contenttopdf.WithPages(pages),
		contenttopdf.WithStyle(css),
		contenttopdf.WithLogger(log),
		contenttopdf.WithClock(env.Now),
	)
	if err != nil {
		return err
	}

	pdf := env.NewRenderer(contenttopdf.ResolvePoolSize(cfg.PDF.Workers), cfg.PDFTimeout())
	defer func() {
		if err := pdf.Close(); err != nil {
			log.Warn("closing browsers", "error", err)
		}
	}()

	srv := server.New(gen, client,
		server.WithPDFRenderer(pdf),
		server.WithLogger(log),
		server.WithCORSOrigin(cfg.Server.CORSOrigin),
	)
	hs := server.HTTPServer(":"+strconv.Itoa(cfg.Server.Port), srv)
	return serve(ctx, hs, log)
}

// serve listens on hs.Addr until ctx is cancelled, then drains in-flight
// requests.
func serve(ctx context.Context, hs *http.Server, log *logger.Logger) error {
	ln, err := net.Listen("tcp", hs.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", hs.Addr, err)
	}
	log.Info("server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
