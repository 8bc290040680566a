package contenttopdf

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// RendererPool manages browser-backed PDF converters for parallel rendering.
// Each converter has its own browser instance. Converters are created
// lazily on first acquire to avoid startup delay.
type RendererPool struct {
	size         int
	newConverter func() pdfConverter
	converters   []pdfConverter
	sem          chan pdfConverter
	mu           sync.Mutex
	created      int
	closed       bool
}

// NewRendererPool creates a pool with capacity for n browsers, each
// bounding page loads by timeout.
func NewRendererPool(n int, timeout time.Duration) *RendererPool {
	return newRendererPool(n, func() pdfConverter { return newRodConverter(timeout) })
}

func newRendererPool(n int, factory func() pdfConverter) *RendererPool {
	if n < 1 {
		n = 1
	}

	return &RendererPool{
		size:         n,
		newConverter: factory,
		converters:   make([]pdfConverter, 0, n),
		sem:          make(chan pdfConverter, n),
	}
}

// Render prints a generated document to PDF. Blocks while every browser is
// busy, until ctx is done.
func (p *RendererPool) Render(ctx context.Context, res *Result) ([]byte, error) {
	if res == nil || res.HTML == "" {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidRequest)
	}

	conv, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(conv)

	pdf, err := conv.ToPDF(ctx, res.HTML, &pdfOptions{FooterTemplate: res.Footer})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return pdf, nil
}

// acquire gets a converter from the pool, creating one if needed.
func (p *RendererPool) acquire(ctx context.Context) (pdfConverter, error) {
	// Try to get an existing converter (non-blocking)
	select {
	case conv, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conv, nil
	default:
	}

	// Check if we can create a new converter
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		conv := p.newConverter()
		p.converters = append(p.converters, conv)
		p.mu.Unlock()
		return conv, nil
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released
	select {
	case conv, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conv, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a converter to the pool.
// The lock is held while sending: the channel has room for every created
// converter, so the send never blocks, and Close cannot close it midway.
func (p *RendererPool) release(conv pdfConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- conv
}

// Close releases all browser resources.
// Returns an aggregated error if multiple converters fail to close.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, conv := range converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
