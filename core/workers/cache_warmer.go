// ABOUTME: Cache warmer pre-renders reader documents for records without stored content
// ABOUTME: Provides a managed worker pool fed from the content store

package workers

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"manabi-reader/core/content"
	"manabi-reader/core/document"
	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/core/interfaces"
	"manabi-reader/core/pipeline"
	"manabi-reader/core/reconcile"
	"manabi-reader/pkg/utils/compress"
)

// RecordSource lists records whose content has not been fetched yet.
type RecordSource interface {
	RecordsWithoutContent(ctx context.Context, limit int) ([]*domain.ContentRecord, error)
}

// WarmStore is the store surface the warmer reads from and writes to.
type WarmStore interface {
	interfaces.ContentStore
	RecordSource
}

// WarmJob asks the pool to warm one record.
type WarmJob struct {
	Record  *domain.ContentRecord
	Context context.Context
	// ResultCh is optional and receives exactly one result.
	ResultCh chan<- WarmResult
}

// WarmResult reports the outcome for one record.
type WarmResult struct {
	URL string
	Err error
}

// Dependencies are the collaborators a CacheWarmer needs. Store, Fetcher and
// Pipeline are required.
type Dependencies struct {
	Store      WarmStore
	Fetcher    *content.Fetcher
	Pipeline   *pipeline.Pipeline
	Reconciler *reconcile.Reconciler
	SiteRules  document.SiteRules
	Logger     interfaces.Logger
}

// WorkerConfig holds configuration for the cache warmer
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int
	// BatchSize bounds how many records WarmPending lists per call.
	BatchSize  int
	JobTimeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers: 2,
		QueueSize:  100,
		BatchSize:  50,
		JobTimeout: 30 * time.Second,
	}
}

// CacheWarmer manages background reader document warming
type CacheWarmer struct {
	deps     Dependencies
	config   WorkerConfig
	jobQueue chan *WarmJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
}

// worker represents an individual worker goroutine
type worker struct {
	id       int
	jobQueue <-chan *WarmJob
	deps     Dependencies
	timeout  time.Duration
	ctx      context.Context
	wg       *sync.WaitGroup
}

// NewCacheWarmer creates a new cache warmer
func NewCacheWarmer(deps Dependencies, config WorkerConfig) (*CacheWarmer, error) {
	if deps.Store == nil || deps.Fetcher == nil || deps.Pipeline == nil {
		return nil, &coreerrors.ValidationError{Field: "deps", Message: "store, fetcher and pipeline are required"}
	}
	if deps.Logger == nil {
		deps.Logger = interfaces.NopLogger{}
	}
	if deps.Reconciler == nil {
		deps.Reconciler = reconcile.NewReconciler(deps.Store, deps.Logger)
	}

	defaults := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CacheWarmer{
		deps:     deps,
		config:   config,
		jobQueue: make(chan *WarmJob, config.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start starts the worker pool
func (cw *CacheWarmer) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return nil
	}
	if cw.ctx.Err() != nil {
		return ErrWorkerStopped
	}

	for i := 0; i < cw.config.MaxWorkers; i++ {
		w := &worker{
			id:       i,
			jobQueue: cw.jobQueue,
			deps:     cw.deps,
			timeout:  cw.config.JobTimeout,
			ctx:      cw.ctx,
			wg:       &cw.wg,
		}
		cw.wg.Add(1)
		go w.run()
	}

	cw.running = true
	cw.deps.Logger.Info("Cache warmer started", map[string]interface{}{
		"workers": cw.config.MaxWorkers,
	})
	return nil
}

// Stop stops the worker pool. Queued jobs that have not started are dropped.
func (cw *CacheWarmer) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	cw.cancel()
	close(cw.jobQueue)
	cw.wg.Wait()

	cw.running = false
	return nil
}

// SubmitJob submits a job to the worker pool
func (cw *CacheWarmer) SubmitJob(job *WarmJob) error {
	if job == nil || job.Record == nil {
		return &coreerrors.ValidationError{Field: "job", Message: "record is required"}
	}
	if job.Context == nil {
		job.Context = context.Background()
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if !cw.running {
		return ErrWorkerNotRunning
	}

	select {
	case cw.jobQueue <- job:
		return nil
	case <-job.Context.Done():
		return job.Context.Err()
	case <-time.After(5 * time.Second):
		return ErrQueueFull
	}
}

// WarmPending lists up to one batch of records without content and queues
// them. It returns the number of jobs queued.
func (cw *CacheWarmer) WarmPending(ctx context.Context, resultCh chan<- WarmResult) (int, error) {
	records, err := cw.deps.Store.RecordsWithoutContent(ctx, cw.config.BatchSize)
	if err != nil {
		return 0, coreerrors.WrapError(err, "list records without content")
	}

	queued := 0
	for _, rec := range records {
		if !domain.IsHTTPURL(rec.URL) {
			continue
		}
		if err := cw.SubmitJob(&WarmJob{Record: rec, Context: ctx, ResultCh: resultCh}); err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}

// run is the main loop for each worker
func (w *worker) run() {
	defer w.wg.Done()

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			w.processJob(job)
		case <-w.ctx.Done():
			return
		}
	}
}

// processJob warms a single record and reports the outcome
func (w *worker) processJob(job *WarmJob) {
	ctx, cancel := context.WithTimeout(job.Context, w.timeout)
	defer cancel()

	err := w.warm(ctx, job.Record)
	switch {
	case err == nil:
		w.deps.Logger.Debug("Warmed reader document", map[string]interface{}{
			"worker": w.id,
			"url":    job.Record.URL,
		})
	case coreerrors.IsExtractionUnavailable(err) || coreerrors.IsExtractionFailed(err) || err == ErrNothingToWarm:
		w.deps.Logger.Debug("Record has no reader document to warm", map[string]interface{}{
			"worker": w.id,
			"url":    job.Record.URL,
			"reason": err.Error(),
		})
	default:
		w.deps.Logger.Warn("Failed to warm reader document", map[string]interface{}{
			"worker": w.id,
			"url":    job.Record.URL,
			"error":  err.Error(),
		})
	}

	if job.ResultCh != nil {
		select {
		case job.ResultCh <- WarmResult{URL: job.Record.URL, Err: err}:
		case <-job.Context.Done():
		}
	}
}

func (w *worker) warm(ctx context.Context, rec *domain.ContentRecord) error {
	html, err := w.deps.Fetcher.DisplayableHTML(ctx, rec)
	if err != nil {
		return err
	}
	if strings.TrimSpace(html) == "" {
		return ErrNothingToWarm
	}

	out, err := w.deps.Pipeline.Run(ctx, pipeline.Input{
		URL:              rec.URL,
		HTML:             html,
		MinContentLength: rec.MinContentLength(),
	})
	if err != nil {
		return err
	}

	title := rec.Title
	if strings.TrimSpace(title) == "" {
		title = out.Result.Title
	}
	pageURL, _ := url.Parse(rec.URL)
	rendered, err := document.Render(out.Document, document.RenderOptions{
		ProcessOptions: document.ProcessOptions{
			URL:               pageURL,
			IsCacheWarmer:     true,
			DefaultTitle:      title,
			ImageURL:          rec.ImageURL,
			InjectHeaderImage: rec.InjectEntryImageIntoHeader,
		},
		Rules: w.deps.SiteRules,
	})
	if err != nil {
		return coreerrors.WrapError(err, "render warmed document")
	}
	encoded, err := compress.EncodeHTML(rendered)
	if err != nil {
		return coreerrors.WrapError(err, "encode warmed document")
	}

	byDefault := false
	err = w.deps.Store.WriteTransaction(ctx, rec.Ref(), func(r *domain.ContentRecord) error {
		byDefault = r.IsReaderModeByDefault
		if r.HasContent() {
			return nil
		}
		r.Content = encoded
		r.RSSContainsFullContent = true
		r.IsReaderModeAvailable = !r.IsReaderModeByDefault
		if strings.TrimSpace(r.Title) == "" && title != "" {
			r.Title = title
		}
		return nil
	})
	if err != nil {
		return coreerrors.WrapError(err, "store warmed document")
	}

	if byDefault {
		if _, err := w.deps.Reconciler.PropagateReaderModeDefaults(ctx, rec.URL, rec.Ref(), rendered, title); err != nil {
			return err
		}
	}
	return nil
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrWorkerStopped    = &WorkerError{Message: "worker pool has been stopped"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
	ErrNothingToWarm    = &WorkerError{Message: "no displayable html for record"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
