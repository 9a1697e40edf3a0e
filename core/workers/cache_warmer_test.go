package workers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/core/content"
	"manabi-reader/core/domain"
	"manabi-reader/core/pipeline"
	"manabi-reader/infrastructure/http/standard"
	"manabi-reader/infrastructure/store/memory"
	"manabi-reader/pkg/utils/compress"
)

func longArticle(title string) string {
	p := "<p>" + strings.Repeat("The ferry crossed the bay each morning while gulls followed the wake toward the harbour wall. ", 6) + "</p>"
	return fmt.Sprintf(`<html><head><title>%s</title></head><body><article><h1>%s</h1>%s</article></body></html>`,
		title, title, strings.Repeat(p, 6))
}

func newOrigin(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/story", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(longArticle("Ferry Notes")))
	})
	mux.HandleFunc("/menu", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><nav><a href="/">Home</a></nav></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newWarmer(t *testing.T, store *memory.Store) *CacheWarmer {
	t.Helper()
	cw, err := NewCacheWarmer(Dependencies{
		Store:    store,
		Fetcher:  content.NewFetcher(standard.NewClient(5*time.Second), nil),
		Pipeline: pipeline.New(pipeline.Options{}),
	}, WorkerConfig{MaxWorkers: 2, QueueSize: 8})
	require.NoError(t, err)
	require.NoError(t, cw.Start())
	t.Cleanup(func() { _ = cw.Stop() })
	return cw
}

func saveRecord(t *testing.T, store *memory.Store, kind domain.RecordKind, u string, byDefault bool) *domain.ContentRecord {
	t.Helper()
	rec := &domain.ContentRecord{
		Kind:                       kind,
		URL:                        u,
		CompoundKey:                domain.CompoundKey(u),
		MeaningfulContentMinLength: 140,
		IsReaderModeByDefault:      byDefault,
	}
	require.NoError(t, store.SaveRecord(context.Background(), rec))
	return rec
}

func collect(t *testing.T, ch <-chan WarmResult, n int) map[string]error {
	t.Helper()
	out := map[string]error{}
	for i := 0; i < n; i++ {
		select {
		case r := <-ch:
			out[r.URL] = r.Err
		case <-time.After(10 * time.Second):
			t.Fatalf("timed out waiting for %d results, got %d", n, len(out))
		}
	}
	return out
}

func TestNewCacheWarmer_RequiresDependencies(t *testing.T) {
	_, err := NewCacheWarmer(Dependencies{}, WorkerConfig{})
	assert.Error(t, err)
}

func TestSubmitJob_NotRunning(t *testing.T) {
	cw, err := NewCacheWarmer(Dependencies{
		Store:    memory.NewStore(),
		Fetcher:  content.NewFetcher(nil, nil),
		Pipeline: pipeline.New(pipeline.Options{}),
	}, WorkerConfig{})
	require.NoError(t, err)

	err = cw.SubmitJob(&WarmJob{Record: &domain.ContentRecord{URL: "https://example.com/a"}})
	assert.Equal(t, ErrWorkerNotRunning, err)
}

func TestStop_CannotRestart(t *testing.T) {
	cw := newWarmer(t, memory.NewStore())
	require.NoError(t, cw.Stop())
	assert.Equal(t, ErrWorkerStopped, cw.Start())
}

func TestWarmPending_StoresRenderedDocument(t *testing.T) {
	srv := newOrigin(t)
	store := memory.NewStore()
	rec := saveRecord(t, store, domain.KindBookmark, srv.URL+"/story", false)
	cw := newWarmer(t, store)

	results := make(chan WarmResult, 4)
	queued, err := cw.WarmPending(context.Background(), results)
	require.NoError(t, err)
	require.Equal(t, 1, queued)

	got := collect(t, results, 1)
	require.NoError(t, got[rec.URL])

	stored := store.Get(rec.Ref())
	require.NotNil(t, stored)
	require.True(t, stored.HasContent())
	assert.True(t, stored.IsReaderModeAvailable)
	assert.True(t, stored.RSSContainsFullContent)
	assert.False(t, stored.IsReaderModeByDefault)
	assert.Equal(t, "Ferry Notes", stored.Title)

	html, err := compress.DecodeHTML(stored.Content)
	require.NoError(t, err)
	assert.Contains(t, html, "harbour wall")
	assert.Contains(t, html, `id="reader-content"`)
	assert.NotContains(t, html, "data-manabi-light-theme")
}

func TestWarmPending_PropagatesWhenReaderModeIsDefault(t *testing.T) {
	srv := newOrigin(t)
	store := memory.NewStore()
	primary := saveRecord(t, store, domain.KindHistory, srv.URL+"/story", true)
	sibling := &domain.ContentRecord{
		Kind:        domain.KindFeedEntry,
		URL:         primary.URL,
		CompoundKey: primary.CompoundKey,
		Content:     compress.MustEncodeHTML("<p>summary</p>"),
	}
	require.NoError(t, store.SaveRecord(context.Background(), sibling))
	cw := newWarmer(t, store)

	results := make(chan WarmResult, 1)
	require.NoError(t, cw.SubmitJob(&WarmJob{Record: primary, Context: context.Background(), ResultCh: results}))
	require.NoError(t, collect(t, results, 1)[primary.URL])

	stored := store.Get(primary.Ref())
	assert.True(t, stored.HasContent())
	assert.False(t, stored.IsReaderModeAvailable)

	updated := store.Get(sibling.Ref())
	assert.True(t, updated.IsReaderModeByDefault)
	html, err := compress.DecodeHTML(updated.Content)
	require.NoError(t, err)
	assert.Equal(t, "<p>summary</p>", html)
}

func TestWarmPending_SkipsNonArticlesAndLocalURLs(t *testing.T) {
	srv := newOrigin(t)
	store := memory.NewStore()
	menu := saveRecord(t, store, domain.KindHistory, srv.URL+"/menu", false)
	saveRecord(t, store, domain.KindHistory, "file:///tmp/notes.html", false)
	cw := newWarmer(t, store)

	results := make(chan WarmResult, 4)
	queued, err := cw.WarmPending(context.Background(), results)
	require.NoError(t, err)
	require.Equal(t, 1, queued)

	got := collect(t, results, 1)
	assert.Error(t, got[menu.URL])
	assert.False(t, store.Get(menu.Ref()).HasContent())
}

func TestWarm_KeepsContentWrittenMeanwhile(t *testing.T) {
	srv := newOrigin(t)
	store := memory.NewStore()
	rec := saveRecord(t, store, domain.KindBookmark, srv.URL+"/story", false)
	require.NoError(t, store.WriteTransaction(context.Background(), rec.Ref(), func(r *domain.ContentRecord) error {
		r.Content = compress.MustEncodeHTML("<p>saved by reader</p>")
		return nil
	}))
	cw := newWarmer(t, store)

	results := make(chan WarmResult, 1)
	require.NoError(t, cw.SubmitJob(&WarmJob{Record: rec, Context: context.Background(), ResultCh: results}))
	require.NoError(t, collect(t, results, 1)[rec.URL])

	html, err := compress.DecodeHTML(store.Get(rec.Ref()).Content)
	require.NoError(t, err)
	assert.Equal(t, "<p>saved by reader</p>", html)
}
