package recorder

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manabi-reader/core/domain"
	"manabi-reader/core/loader"
)

type eventLog struct {
	mu     sync.Mutex
	events []loader.NavigationEvent
}

func (l *eventLog) handle(ev loader.NavigationEvent) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) kinds() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, ev := range l.events {
		out = append(out, ev.Kind.String()+" "+ev.URL)
	}
	return out
}

func TestSurface_LoadHTMLEchoesCommit(t *testing.T) {
	s := NewSurface()
	log := &eventLog{}
	s.Attach(log.handle)

	err := s.LoadHTML(context.Background(), []byte("<p>x</p>"), "text/html", "UTF-8", "https://example.com/a")
	require.NoError(t, err)

	assert.Equal(t, []string{"committed https://example.com/a", "finished https://example.com/a"}, log.kinds())
	assert.Equal(t, "https://example.com/a", s.CurrentURL())
	assert.Equal(t, "<p>x</p>", s.Page("https://example.com/a"))

	loads := s.Loads()
	require.Len(t, loads, 1)
	assert.True(t, loads[0].Synthetic)
	assert.Equal(t, "text/html", loads[0].MimeType)
}

func TestSurface_DeferEcho(t *testing.T) {
	s := NewSurface()
	s.DeferEcho = true
	log := &eventLog{}
	s.Attach(log.handle)

	require.NoError(t, s.LoadHTML(context.Background(), []byte("x"), "text/html", "UTF-8", "https://example.com/a"))
	assert.Empty(t, log.kinds())

	s.Flush()
	assert.Len(t, log.kinds(), 2)
}

func TestSurface_EvaluateScript(t *testing.T) {
	s := NewSurface()
	s.Navigate("https://example.com/a", "<html><body>live</body></html>")

	v, err := s.EvaluateScript(context.Background(), "document.documentElement.outerHTML", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>live</body></html>", v)

	frame := &domain.FrameRef{ID: "ad-frame"}
	_, err = s.EvaluateScript(context.Background(), "document.open(); document.write(html); document.close();", frame, map[string]interface{}{"html": "<p>framed</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>framed</p>", s.Frame("ad-frame"))
	assert.Len(t, s.Scripts(), 2)
}

func TestSurface_SetFrameAnswersFrameReads(t *testing.T) {
	s := NewSurface()
	s.SetFrame("story", "<p>inside</p>")

	v, err := s.EvaluateScript(context.Background(), "document.documentElement.outerHTML", &domain.FrameRef{ID: "story"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "<p>inside</p>", v)
	assert.Empty(t, s.Loads())
}

func TestSurface_FailLoads(t *testing.T) {
	s := NewSurface()
	s.FailLoads = true

	assert.ErrorIs(t, s.LoadURL(context.Background(), "https://example.com"), ErrLoadFailed)
	assert.ErrorIs(t, s.LoadHTML(context.Background(), nil, "text/html", "UTF-8", "https://example.com"), ErrLoadFailed)
	assert.Empty(t, s.Loads())
}

func TestSurface_CanceledContext(t *testing.T) {
	s := NewSurface()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.LoadURL(ctx, "https://example.com"), context.Canceled)
	_, err := s.EvaluateScript(ctx, "1", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
