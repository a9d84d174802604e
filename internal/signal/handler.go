// Package signal cancels the CLI context on SIGINT or SIGTERM so that a
// running pipeline, in particular the notarization wait, stops promptly.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler owns a context that is canceled on the first interrupt.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler manages context lifecycle
	cancel      context.CancelFunc
	sigChan     chan os.Signal
	interrupted chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := pipeline.Execute(h.Context(), run)
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		sigChan:     make(chan os.Signal, 1),
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
	}
	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()
	return h
}

// Context returns the cancellable context.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed once a signal has been received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// WasInterrupted reports whether a signal canceled the context.
func (h *Handler) WasInterrupted() bool {
	select {
	case <-h.interrupted:
		return true
	default:
		return false
	}
}

// Stop releases the signal subscription and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) trigger() {
	h.once.Do(func() {
		close(h.interrupted)
		h.cancel()
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigChan:
			h.trigger()
		}
	}
}
