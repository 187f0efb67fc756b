package content

import (
	"context"
	"strings"
	"testing"
	"time"

	contentRepo "memberportal/database/repository/content"
	"memberportal/database/repository/repotest"
	"memberportal/models"

	qt "github.com/frankban/quicktest"
)

type fixture struct {
	svc      *Service
	programs *repotest.MemoryStore[models.Program]
	events   *repotest.MemoryStore[models.Event]
	social   *repotest.MemorySocialStore
}

func newFixture() fixture {
	f := fixture{
		programs: repotest.NewMemoryStore[models.Program](contentRepo.ProgramsCollection),
		events:   repotest.NewMemoryStore[models.Event](contentRepo.EventsCollection),
		social:   repotest.NewMemorySocialStore(),
	}
	f.svc = NewService(Stores{
		Programs:      f.programs,
		Events:        f.events,
		Opportunities: repotest.NewMemoryStore[models.Opportunity](contentRepo.OpportunitiesCollection),
		Gallery:       repotest.NewMemoryStore[models.GalleryImage](contentRepo.GalleryCollection),
		Social:        f.social,
		Applications:  repotest.NewMemoryAll(),
	})
	return f
}

func TestMissingCollectionReadsEmpty(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	f.programs.Missing = true

	programs, err := f.svc.FetchPrograms(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(programs, qt.IsNotNil)
	c.Assert(programs, qt.HasLen, 0)

	events, err := f.svc.FetchEvents(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(events, qt.HasLen, 0)

	apps, err := f.svc.FetchApplications(context.Background(), models.KindVolunteer)
	c.Assert(err, qt.IsNil)
	c.Assert(apps, qt.HasLen, 0)
}

func TestEventsSoonestFirst(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	for _, e := range []models.Event{
		{Title: "Gala", Date: base.AddDate(0, 2, 0)},
		{Title: "Workshop", Date: base},
		{Title: "Picnic", Date: base.AddDate(0, 1, 0)},
	} {
		e := e
		_, err := f.svc.Events.Create(ctx, &e)
		c.Assert(err, qt.IsNil)
	}

	events, err := f.svc.FetchEvents(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(titles(events, func(e *models.Event) string { return e.Title }), qt.DeepEquals, []string{"Workshop", "Picnic", "Gala"})
}

func TestProgramsNewestFirst(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.Programs.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := f.svc.Programs.Create(ctx, &models.Program{Title: title})
		c.Assert(err, qt.IsNil)
	}
	programs, err := f.svc.FetchPrograms(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(titles(programs, func(p *models.Program) string { return p.Title }), qt.DeepEquals, []string{"Third", "Second", "First"})
}

func TestSocialPinnedFirst(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.Social.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	var ids []string
	for _, u := range []string{"https://x.com/1", "https://x.com/2", "https://x.com/3"} {
		p, err := f.svc.Social.Create(ctx, &models.SocialPost{Platform: "x", URL: u})
		c.Assert(err, qt.IsNil)
		ids = append(ids, p.ID)
	}
	_, err := f.social.TogglePin(ctx, ids[0])
	c.Assert(err, qt.IsNil)

	posts, err := f.svc.FetchSocialPosts(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(titles(posts, func(p *models.SocialPost) string { return p.URL }), qt.DeepEquals,
		[]string{"https://x.com/1", "https://x.com/3", "https://x.com/2"})
}

func TestUpdateKeepsIdentityAndCreation(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.Programs.now = func() time.Time { return fixed }

	created, err := f.svc.Programs.Create(ctx, &models.Program{Title: "Mentoring", Track: "Leadership"})
	c.Assert(err, qt.IsNil)
	createdAt := created.CreatedAt

	updated, err := f.svc.Programs.Update(ctx, created.ID, &models.Program{Title: "Mentoring 2.0", Track: "Leadership"})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.ID, qt.Equals, created.ID)
	c.Assert(updated.CreatedAt.Equal(createdAt), qt.IsTrue)

	got, err := f.svc.Programs.Get(ctx, created.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Title, qt.Equals, "Mentoring 2.0")

	c.Assert(f.svc.Programs.Delete(ctx, created.ID), qt.IsNil)
	c.Assert(f.svc.Programs.Delete(ctx, created.ID), qt.ErrorIs, ErrNotFound)
	_, err = f.svc.Programs.Update(ctx, created.ID, &models.Program{Title: "Gone"})
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}

func TestCreateValidates(t *testing.T) {
	c := qt.New(t)
	f := newFixture()
	_, err := f.svc.Programs.Create(context.Background(), &models.Program{Title: "  "})
	c.Assert(err, qt.ErrorIs, models.ErrInvalidContent)
	_, err = f.svc.Social.Create(context.Background(), &models.SocialPost{Platform: "x", URL: "javascript:alert(1)"})
	c.Assert(err, qt.ErrorIs, models.ErrInvalidContent)
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	c := qt.New(t)
	out := RenderMarkdown("**Bold** line\nnext <script>alert(1)</script>")
	c.Assert(strings.Contains(out, "<strong>Bold</strong>"), qt.IsTrue)
	c.Assert(strings.Contains(out, "<br"), qt.IsTrue)
	c.Assert(strings.Contains(out, "<script>"), qt.IsFalse)
	c.Assert(RenderMarkdown(""), qt.Equals, "")
}

func titles[T any](items []*T, key func(*T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, key(it))
	}
	return out
}
