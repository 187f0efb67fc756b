package social

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	contentRepo "memberportal/database/repository/content"
	"memberportal/database/repository/repotest"
	"memberportal/models"
	"memberportal/services/content"
	"memberportal/services/tasks"

	qt "github.com/frankban/quicktest"
	"github.com/hibiken/asynq"
)

const page = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Spring Fundraiser Recap">
<meta property="og:image" content="/img/recap.jpg">
<meta name="description" content="Thanks to everyone who came.">
</head><body><meta property="og:title" content="ignored"></body></html>`

func TestParseOpenGraph(t *testing.T) {
	c := qt.New(t)
	base, _ := url.Parse("https://news.example.org/posts/42")
	md, err := ParseOpenGraph(strings.NewReader(page), base)
	c.Assert(err, qt.IsNil)
	c.Assert(md, qt.DeepEquals, Metadata{
		Title:       "Spring Fundraiser Recap",
		Description: "Thanks to everyone who came.",
		Image:       "https://news.example.org/img/recap.jpg",
	})
}

func TestParseOpenGraphFallsBackToTitle(t *testing.T) {
	c := qt.New(t)
	md, err := ParseOpenGraph(strings.NewReader(`<html><head><title> Plain page </title></head></html>`), nil)
	c.Assert(err, qt.IsNil)
	c.Assert(md.Title, qt.Equals, "Plain page")
	c.Assert(md.Image, qt.Equals, "")
}

type fakeFetcher struct {
	md    Metadata
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context, string) (Metadata, error) {
	f.calls++
	return f.md, f.err
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func newSvc(queue Enqueuer, fetcher Fetcher) (*Service, *repotest.MemorySocialStore) {
	store := repotest.NewMemorySocialStore()
	mgr := content.NewManager[models.SocialPost](contentRepo.SocialCollection, store, content.PinnedFirst)
	return NewService(store, mgr, queue, fetcher), store
}

func TestCreateEnqueuesEnrichment(t *testing.T) {
	c := qt.New(t)
	q := &fakeQueue{}
	svc, _ := newSvc(q, &fakeFetcher{})

	post, err := svc.Create(context.Background(), &models.SocialPost{Platform: "instagram", URL: "https://instagram.com/p/abc"})
	c.Assert(err, qt.IsNil)
	c.Assert(q.tasks, qt.HasLen, 1)
	c.Assert(q.tasks[0].Type(), qt.Equals, tasks.TypeSocialEnrich)

	p, err := tasks.ParseEnrichPayload(q.tasks[0])
	c.Assert(err, qt.IsNil)
	c.Assert(p.PostID, qt.Equals, post.ID)
}

func TestCreateSkipsEnrichmentWhenComplete(t *testing.T) {
	c := qt.New(t)
	q := &fakeQueue{}
	svc, _ := newSvc(q, &fakeFetcher{})
	_, err := svc.Create(context.Background(), &models.SocialPost{
		Platform: "facebook", URL: "https://facebook.com/x", Title: "Ready", ThumbnailURL: "https://cdn.example.org/t.jpg",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(q.tasks, qt.HasLen, 0)
}

func TestCreateEnrichesInlineWhenQueueFails(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	q := &fakeQueue{err: errors.New("redis down")}
	fetcher := &fakeFetcher{md: Metadata{Title: "Spring fair", Image: "https://cdn.example.org/fair.jpg"}}
	svc, store := newSvc(q, fetcher)

	post, err := svc.Create(ctx, &models.SocialPost{Platform: "x", URL: "https://x.com/s/1"})
	c.Assert(err, qt.IsNil)
	c.Assert(q.tasks, qt.HasLen, 0)
	c.Assert(fetcher.calls, qt.Equals, 1)

	got, err := store.Get(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.URL, qt.Equals, "https://x.com/s/1")
	c.Assert(got.Title, qt.Equals, "Spring fair")
	c.Assert(got.ThumbnailURL, qt.Equals, "https://cdn.example.org/fair.jpg")
}

func TestCreateSurvivesQueueAndFetchFailure(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	fetcher := &fakeFetcher{err: errors.New("timeout")}
	svc, store := newSvc(&fakeQueue{err: errors.New("redis down")}, fetcher)

	post, err := svc.Create(ctx, &models.SocialPost{Platform: "x", URL: "https://x.com/s/2"})
	c.Assert(err, qt.IsNil)
	c.Assert(fetcher.calls, qt.Equals, 1)
	got, err := store.Get(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "")
}

func TestCreateDoesNotEnrichInlineForDuplicateTask(t *testing.T) {
	c := qt.New(t)
	fetcher := &fakeFetcher{}
	svc, _ := newSvc(&fakeQueue{err: asynq.ErrDuplicateTask}, fetcher)
	_, err := svc.Create(context.Background(), &models.SocialPost{Platform: "x", URL: "https://x.com/s/3"})
	c.Assert(err, qt.IsNil)
	c.Assert(fetcher.calls, qt.Equals, 0)
}

func TestEnrichFillsOnlyMissingFields(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	fetcher := &fakeFetcher{md: Metadata{Title: "Fetched", Image: "https://cdn.example.org/og.jpg"}}
	svc, store := newSvc(nil, fetcher)

	post, err := svc.Create(ctx, &models.SocialPost{Platform: "instagram", URL: "https://instagram.com/p/1", Title: "Ours"})
	c.Assert(err, qt.IsNil)
	c.Assert(fetcher.calls, qt.Equals, 1)

	got, err := store.Get(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "Ours")
	c.Assert(got.ThumbnailURL, qt.Equals, "https://cdn.example.org/og.jpg")
	c.Assert(got.EnrichedAt, qt.Not(qt.IsNil))
}

func TestHandleEnrichTaskSkipsRetryForMissingPost(t *testing.T) {
	c := qt.New(t)
	svc, _ := newSvc(nil, &fakeFetcher{})
	task, _, err := tasks.NewEnrichTask(tasks.EnrichPayload{PostID: "gone", URL: "https://example.org"})
	c.Assert(err, qt.IsNil)

	err = svc.HandleEnrichTask(context.Background(), task)
	c.Assert(errors.Is(err, asynq.SkipRetry), qt.IsTrue)

	err = svc.HandleEnrichTask(context.Background(), asynq.NewTask(tasks.TypeSocialEnrich, []byte("{")))
	c.Assert(errors.Is(err, asynq.SkipRetry), qt.IsTrue)
}

func TestTogglePinTwiceRestores(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	svc, _ := newSvc(&fakeQueue{}, &fakeFetcher{})
	post, err := svc.Create(ctx, &models.SocialPost{Platform: "instagram", URL: "https://instagram.com/p/2"})
	c.Assert(err, qt.IsNil)

	once, err := svc.TogglePin(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(once.Pinned, qt.IsTrue)
	twice, err := svc.TogglePin(ctx, post.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(twice.Pinned, qt.Equals, post.Pinned)

	_, err = svc.TogglePin(ctx, "missing")
	c.Assert(err, qt.ErrorIs, content.ErrNotFound)
}

func TestHTTPFetcher(t *testing.T) {
	c := qt.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	md, err := NewHTTPFetcher().Fetch(context.Background(), srv.URL+"/posts/42")
	c.Assert(err, qt.IsNil)
	c.Assert(md.Title, qt.Equals, "Spring Fundraiser Recap")
	c.Assert(md.Image, qt.Equals, srv.URL+"/img/recap.jpg")

	_, err = NewHTTPFetcher().Fetch(context.Background(), "ftp://example.org")
	c.Assert(err, qt.Not(qt.IsNil))
}
