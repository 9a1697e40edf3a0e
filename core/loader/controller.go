// ABOUTME: Reader-mode load state machine driving a browser surface
// ABOUTME: All state changes run on one controller goroutine; blocking work resumes through load tokens

package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"manabi-reader/core/content"
	"manabi-reader/core/document"
	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/pipeline"
	"manabi-reader/core/reconcile"
)

const taskQueueSize = 64

// Options configures a Controller. Store and Browser are required.
type Options struct {
	Store      interfaces.ContentStore
	Browser    interfaces.BrowserSurface
	Fetcher    *content.Fetcher
	Pipeline   *pipeline.Pipeline
	Reconciler *reconcile.Reconciler
	// SiteRules is optional; nil skips site-specific cleanups.
	SiteRules    document.SiteRules
	Logger       interfaces.Logger
	FontSizePx   int
	Theme        document.Theme
	CollapseRuby bool
	// OnComplete runs on the controller goroutine once per concluded load.
	// It must not call back into the Controller synchronously.
	OnComplete func(url string)
	Now        func() time.Time
}

// loadToken scopes worker results to the load that started them.
type loadToken struct {
	url    string
	ctx    context.Context
	cancel context.CancelFunc
}

// Controller is the reader-mode load state machine for one reading surface.
type Controller struct {
	opts   Options
	logger interfaces.Logger

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	root      context.Context
	stop      context.CancelFunc

	// Fields below are touched only on the controller goroutine.
	state    LoadState
	token    *loadToken
	liveTok  *loadToken
	inflight int
}

// New starts a controller. Call Close to stop it.
func New(opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, &coreerrors.ValidationError{Field: "Store", Message: "content store is required"}
	}
	if opts.Browser == nil {
		return nil, &coreerrors.ValidationError{Field: "Browser", Message: "browser surface is required"}
	}
	if opts.Logger == nil {
		opts.Logger = interfaces.NopLogger{}
	}
	if opts.Fetcher == nil {
		opts.Fetcher = content.NewFetcher(nil, opts.Logger)
	}
	if opts.Pipeline == nil {
		opts.Pipeline = pipeline.New(pipeline.Options{Logger: opts.Logger})
	}
	if opts.Reconciler == nil {
		opts.Reconciler = reconcile.NewReconciler(opts.Store, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	root, stop := context.WithCancel(context.Background())
	c := &Controller{
		opts:   opts,
		logger: opts.Logger,
		tasks:  make(chan func(), taskQueueSize),
		done:   make(chan struct{}),
		root:   root,
		stop:   stop,
	}
	go c.run()
	return c, nil
}

func (c *Controller) run() {
	for {
		select {
		case fn := <-c.tasks:
			fn()
		case <-c.done:
			return
		}
	}
}

// Close stops the controller and cancels in-flight work. It is idempotent.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.stop()
		close(c.done)
	})
}

// post queues fn on the controller goroutine without waiting.
func (c *Controller) post(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.done:
	}
}

// exec runs fn on the controller goroutine and waits for it.
func (c *Controller) exec(fn func()) bool {
	finished := make(chan struct{})
	select {
	case c.tasks <- func() { defer close(finished); fn() }:
	case <-c.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-c.done:
		return false
	}
}

// await runs work off the controller goroutine and resumes on it. The
// resume is dropped when tok is no longer the current load token.
func await[T any](c *Controller, tok *loadToken, step string, work func(ctx context.Context) (T, error), resume func(T, error)) {
	c.inflight++
	go func() {
		v, err := runGuarded(tok.ctx, work)
		c.post(func() {
			c.inflight--
			if !c.isCurrent(tok) {
				c.logger.Debug("Dropping stale continuation", map[string]interface{}{
					"url":  tok.url,
					"step": step,
				})
				return
			}
			resume(v, err)
		})
	}()
}

func runGuarded[T any](ctx context.Context, work func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return work(ctx)
}

func (c *Controller) isCurrent(tok *loadToken) bool {
	return tok != nil && tok == c.token && tok.ctx.Err() == nil
}

// tokenFor returns the live token for url, superseding any other.
func (c *Controller) tokenFor(url string) *loadToken {
	if c.token != nil && c.token.ctx.Err() == nil && domain.MatchesReaderURL(c.token.url, url) {
		return c.token
	}
	c.cancelToken()
	ctx, cancel := context.WithCancel(c.root)
	c.token = &loadToken{url: url, ctx: ctx, cancel: cancel}
	return c.token
}

func (c *Controller) cancelToken() {
	if c.token != nil {
		c.token.cancel()
		c.token = nil
	}
}

func (c *Controller) fireCompletion(url string) {
	if !c.state.LoadStartedAt.IsZero() {
		c.logger.Debug("Reader load concluded", map[string]interface{}{
			"url":         url,
			"duration_ms": c.opts.Now().Sub(c.state.LoadStartedAt).Milliseconds(),
		})
		c.state.LoadStartedAt = time.Time{}
	}
	if c.opts.OnComplete != nil {
		c.opts.OnComplete(url)
	}
}

// BeginLoad starts a reader-mode load for url.
func (c *Controller) BeginLoad(url string, suppressSpinner bool, reason string) {
	c.exec(func() { c.beginLoad(url, suppressSpinner, reason) })
}

// CancelLoad cancels the pending load. url may be "" when the caller has none.
func (c *Controller) CancelLoad(url string) {
	c.exec(func() { c.cancelLoad(url) })
}

// MarkLoadComplete concludes the load for url.
func (c *Controller) MarkLoadComplete(url string) {
	c.exec(func() { c.markLoadComplete(url) })
}

// IsLoadPending reports whether url is the pending load, loader URLs resolved.
func (c *Controller) IsLoadPending(url string) bool {
	var pending bool
	c.exec(func() { pending = c.isLoadPending(url) })
	return pending
}

// ClearReadabilityCache drops cached extraction state for url.
func (c *Controller) ClearReadabilityCache(url, reason string) {
	c.exec(func() { c.clearReadabilityCache(url, reason) })
}

// Handle queues a navigation event from the browser surface. Events are
// processed in the order they are handled.
func (c *Controller) Handle(ev NavigationEvent) {
	c.post(func() {
		switch ev.Kind {
		case EventCommitted:
			c.onNavigationCommitted(ev)
		case EventFinished:
			c.onNavigationFinished(ev)
		case EventFailed:
			c.onNavigationFailed(ev)
		}
	})
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() LoadState {
	var s LoadState
	c.exec(func() { s = c.state.clone() })
	return s
}
