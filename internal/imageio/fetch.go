package imageio

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/example/woundmark/internal/logging"
)

func logger() *slog.Logger { return logging.Logger() }

// Request identifies one decode. Seq grows with every request so a consumer
// can tell whether a completion is still the one it is waiting for.
type Request struct {
	Seq uint64
	Ref string
}

// Result is delivered when a decode finishes.
type Result struct {
	Request Request
	Image   image.Image
	Err     error
}

// DecodeFunc decodes the image behind ref.
type DecodeFunc func(ctx context.Context, ref string) (image.Image, error)

// Fetcher runs decodes off the event loop. Only one decode is in flight:
// starting a new one cancels the previous. Results are delivered on a
// channel the event loop drains; a cancelled decode may still deliver, so
// consumers must compare Request.Seq.
type Fetcher struct {
	decode  DecodeFunc
	results chan Result

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewFetcher creates a fetcher using decode, or Decode when nil.
func NewFetcher(decode DecodeFunc) *Fetcher {
	if decode == nil {
		decode = Decode
	}
	return &Fetcher{decode: decode, results: make(chan Result, 4)}
}

// Results returns the completion channel.
func (f *Fetcher) Results() <-chan Result { return f.results }

// Fetch starts decoding req.Ref, superseding any decode in flight.
func (f *Fetcher) Fetch(req Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		img, err := f.decode(ctx, req.Ref)
		if ctx.Err() != nil {
			logger().Debug("decode superseded", "seq", req.Seq)
			return
		}
		f.results <- Result{Request: req, Image: img, Err: err}
	}()
}

// Close cancels any decode in flight, waits for it and closes Results.
func (f *Fetcher) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Unlock()
	go func() {
		for range f.results {
		}
	}()
	f.wg.Wait()
	close(f.results)
}
