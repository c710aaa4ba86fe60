// Package browser drives a headless Chrome session for pages that only
// render their prices client-side. One Session serves a whole batch; a failed
// fetch recreates it instead of aborting the run.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"precoscan/pkg/logger"
)

// Options configures a browser session.
type Options struct {
	Headless      bool
	PageLoadDelay time.Duration
	// FetchTimeout bounds one page load end to end; zero means the default.
	FetchTimeout time.Duration
}

// Session owns one Chrome process and its root browser context. Not safe for
// concurrent use; the scrape loop is sequential on purpose.
type Session struct {
	parent        context.Context
	opts          Options
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewSession starts Chrome and verifies it answers. The parent context bounds
// the whole session lifetime.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{parent: ctx, opts: opts}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) start() error {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("lang", "pt-BR"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1366, 900),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(s.parent, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("start browser: %w", err)
	}

	s.allocCtx, s.allocCancel = allocCtx, allocCancel
	s.browserCtx, s.browserCancel = browserCtx, browserCancel

	logger.Log.Info().Bool("headless", s.opts.Headless).Dur("page_load_delay", s.opts.PageLoadDelay).Msg("browser session started")
	return nil
}

// Restart tears the current Chrome down and launches a fresh one. Used after
// a fetch failure so one wedged tab cannot poison the rest of the batch.
func (s *Session) Restart() error {
	logger.Log.Warn().Msg("restarting browser session")
	s.shutdown()
	return s.start()
}

// Close shuts the session down.
func (s *Session) Close() {
	s.shutdown()
	logger.Log.Info().Msg("browser session closed")
}

func (s *Session) shutdown() {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
}
