package loader

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/core/domain"
	coreerrors "manabi-reader/core/errors"
	"manabi-reader/infrastructure/store/memory"
)

type nullSurface struct{}

func (nullSurface) LoadURL(context.Context, string) error { return nil }
func (nullSurface) LoadHTML(context.Context, []byte, string, string, string) error {
	return nil
}
func (nullSurface) EvaluateScript(context.Context, string, *domain.FrameRef, map[string]interface{}) (interface{}, error) {
	return nil, nil
}
func (nullSurface) CurrentURL() string { return "" }

type completions struct {
	mu   sync.Mutex
	urls []string
}

func (c *completions) record(url string) {
	c.mu.Lock()
	c.urls = append(c.urls, url)
	c.mu.Unlock()
}

func (c *completions) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.urls...)
}

func newTestController(t *testing.T, store *memory.Store) (*Controller, *completions) {
	t.Helper()
	if store == nil {
		store = memory.NewStore()
	}
	done := &completions{}
	c, err := New(Options{Store: store, Browser: nullSurface{}, OnComplete: done.record})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, done
}

func waitIdle(t *testing.T, c *Controller) {
	t.Helper()
	require.Eventually(t, func() bool { return Idle(c) }, 2*time.Second, 5*time.Millisecond)
}

const (
	pageA = "https://example.com/news/a"
	pageB = "https://example.com/news/b"
)

func TestNew_RequiresStoreAndBrowser(t *testing.T) {
	_, err := New(Options{Browser: nullSurface{}})
	assert.True(t, coreerrors.IsValidation(err))

	_, err = New(Options{Store: memory.NewStore()})
	assert.True(t, coreerrors.IsValidation(err))
}

func TestBeginLoad_ThenComplete(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	s := c.Snapshot()
	assert.True(t, s.IsLoading)
	assert.Equal(t, pageA, s.PendingURL)
	assert.True(t, c.IsLoadPending(domain.LoaderURL(pageA)))

	c.MarkLoadComplete(pageA)
	s = c.Snapshot()
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.PendingURL)
	assert.Equal(t, pageA, s.LastRenderedURL)
	assert.Equal(t, []string{pageA}, done.all())

	// A repeat completion for the rendered page still reports.
	c.MarkLoadComplete(pageA)
	assert.Equal(t, []string{pageA, pageA}, done.all())
}

func TestBeginLoad_IdempotentForSameURL(t *testing.T) {
	c, _ := newTestController(t, nil)

	c.BeginLoad(pageA, true, "first")
	assert.False(t, c.Snapshot().IsLoading)

	c.BeginLoad(pageA+"#section", false, "second")
	s := c.Snapshot()
	assert.Equal(t, pageA, s.PendingURL)
	assert.True(t, s.IsLoading)
}

func TestBeginLoad_SupersedesPendingLoad(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	c.BeginLoad(pageB, false, "test")
	c.MarkLoadComplete(pageA)

	s := c.Snapshot()
	assert.Equal(t, pageB, s.PendingURL)
	assert.True(t, s.IsLoading)
	assert.Empty(t, done.all())
}

func TestCancelLoad_WithoutPendingFiresCompletion(t *testing.T) {
	c, done := newTestController(t, nil)

	c.CancelLoad("")
	c.CancelLoad(pageA)

	assert.Equal(t, []string{domain.BlankURL, pageA}, done.all())
	assert.False(t, c.Snapshot().IsLoading)
}

func TestCancelLoad_ClearsPendingState(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	c.exec(func() { c.armSyntheticCommitExpectation(pageA) })
	c.CancelLoad(pageA)

	s := c.Snapshot()
	assert.Empty(t, s.PendingURL)
	assert.Empty(t, s.ExpectedSyntheticCommitURL)
	assert.False(t, s.IsLoading)
	assert.Equal(t, []string{pageA}, done.all())
}

func TestCancelLoad_IgnoresRenderedPageWhileAnotherIsPending(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageB, false, "test")
	c.exec(func() { c.state.LastRenderedURL = pageA })
	c.CancelLoad(pageA)

	assert.Equal(t, pageB, c.Snapshot().PendingURL)
	assert.Empty(t, done.all())
}

func TestEmptyExtraction_SnippetConcludesImmediately(t *testing.T) {
	c, done := newTestController(t, nil)
	snippet := domain.SnippetURL("K1")

	c.BeginLoad(snippet, false, "test")
	c.exec(func() {
		c.armSyntheticCommitExpectation(snippet)
		c.concludeWithoutReader(snippet)
	})

	s := c.Snapshot()
	assert.Empty(t, s.PendingURL)
	assert.False(t, s.IsLoading)
	assert.Empty(t, s.ExpectedSyntheticCommitURL)
	assert.Equal(t, snippet, s.LastFallbackURL)
	assert.Equal(t, []string{snippet}, done.all())
}

func TestEmptyExtraction_DefersUntilSyntheticCommit(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	c.exec(func() {
		c.armSyntheticCommitExpectation(pageA)
		c.concludeWithoutReader(pageA)
	})
	assert.Equal(t, pageA, c.Snapshot().PendingURL)
	assert.Empty(t, done.all())

	c.Handle(Committed(pageA))
	waitIdle(t, c)

	s := c.Snapshot()
	assert.Empty(t, s.PendingURL)
	assert.Equal(t, pageA, s.LastFallbackURL)
	assert.Equal(t, []string{pageA}, done.all())
}

func TestSyntheticCommit_RequiresExactURL(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveRecord(ctx, &domain.ContentRecord{URL: pageA}))
	require.NoError(t, store.SaveRecord(ctx, &domain.ContentRecord{URL: pageA + "/"}))
	c, done := newTestController(t, store)

	c.BeginLoad(pageA, false, "test")
	c.exec(func() { c.armSyntheticCommitExpectation(pageA) })

	c.Handle(Committed(pageA + "/"))
	waitIdle(t, c)

	s := c.Snapshot()
	assert.Equal(t, pageA, s.ExpectedSyntheticCommitURL)
	assert.Equal(t, pageA, s.PendingURL)
	assert.Empty(t, done.all())

	c.Handle(Committed(pageA))
	waitIdle(t, c)

	s = c.Snapshot()
	assert.Empty(t, s.ExpectedSyntheticCommitURL)
	assert.Empty(t, s.PendingURL)
	assert.Equal(t, []string{pageA}, done.all())
}

func TestNavigationFailed_CancelsPendingLoad(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	c.Handle(Failed(pageA))
	waitIdle(t, c)

	assert.Empty(t, c.Snapshot().PendingURL)
	assert.Equal(t, []string{pageA}, done.all())
}

func TestCommit_NewPageCancelsOtherPendingLoad(t *testing.T) {
	c, done := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	c.Handle(Committed(pageB))
	waitIdle(t, c)

	s := c.Snapshot()
	assert.Empty(t, s.PendingURL)
	assert.Equal(t, pageB, s.CommittedURL)
	assert.Equal(t, []string{pageA}, done.all())
}

func TestClearReadabilityCache(t *testing.T) {
	c, _ := newTestController(t, nil)

	c.BeginLoad(pageA, false, "test")
	c.MarkLoadComplete(pageA)
	require.Equal(t, pageA, c.Snapshot().LastRenderedURL)

	c.ClearReadabilityCache(pageB, "unrelated")
	assert.Equal(t, pageA, c.Snapshot().LastRenderedURL)

	c.ClearReadabilityCache(pageA, "font changed")
	s := c.Snapshot()
	assert.Empty(t, s.LastRenderedURL)
	assert.Nil(t, s.Extracted)
}

func TestBeginLoad_RenderedReaderDocumentShortCircuits(t *testing.T) {
	c, done := newTestController(t, nil)

	c.exec(func() {
		c.state.ReaderMode = true
		c.state.LastRenderedURL = pageA
		c.state.setExtracted(pageA, &domain.ExtractionResult{HTML: "<p>hi</p>"})
	})
	c.BeginLoad(pageA, false, "test")

	s := c.Snapshot()
	assert.Empty(t, s.PendingURL)
	assert.False(t, s.IsLoading)
	assert.Empty(t, done.all())
}

func TestStaleContinuationIsDropped(t *testing.T) {
	c, _ := newTestController(t, nil)
	release := make(chan struct{})
	var resumed bool

	c.exec(func() {
		tok := c.tokenFor(pageA)
		await(c, tok, "test",
			func(context.Context) (int, error) {
				<-release
				return 1, nil
			},
			func(int, error) { resumed = true })
	})
	c.BeginLoad(pageB, false, "test")
	close(release)
	waitIdle(t, c)

	var got bool
	c.exec(func() { got = resumed })
	assert.False(t, got)
}

func TestAwait_RecoversPanics(t *testing.T) {
	c, _ := newTestController(t, nil)
	errs := make(chan error, 1)

	c.exec(func() {
		await(c, c.tokenFor(pageA), "test",
			func(context.Context) (int, error) { panic("boom") },
			func(_ int, err error) { errs <- err })
	})

	select {
	case err := <-errs:
		assert.ErrorContains(t, err, "boom")
	case <-time.After(2 * time.Second):
		t.Fatal("continuation never ran")
	}
}
