package applications

import (
	"context"
	"errors"
	"testing"

	applicationRepo "memberportal/database/repository/application"
	"memberportal/database/repository/repotest"
	"memberportal/models"

	qt "github.com/frankban/quicktest"
)

type fakeUsers struct {
	users    map[string]*models.User
	promoted []string
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("no such user")
}

func (f *fakeUsers) PromoteToVolunteer(_ context.Context, id string) (*models.User, error) {
	f.promoted = append(f.promoted, id)
	return f.users[id], nil
}

type fakeNotifier struct {
	apps []*models.Application
}

func (f *fakeNotifier) NotifyApplicationStatus(_ context.Context, _ *models.User, app *models.Application) error {
	f.apps = append(f.apps, app)
	return nil
}

type fakeMailer struct {
	sent int
	err  error
}

func (f *fakeMailer) SendApplicationReceived(context.Context, *models.Application) error {
	f.sent++
	return f.err
}

func newService() (*Service, map[models.ApplicationKind]applicationRepo.ApplicationRepository) {
	repos := repotest.NewMemoryAll()
	return NewService(repos), repos
}

func TestDuplicateEmailRejectedCaseInsensitively(t *testing.T) {
	c := qt.New(t)
	svc, repos := newService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, models.KindProgram, Submission{Email: "a@x.com", FullName: "Al", Target: "Leadership"}, nil)
	c.Assert(err, qt.IsNil)

	exists, err := svc.Exists(ctx, models.KindProgram, " A@X.COM ")
	c.Assert(err, qt.IsNil)
	c.Assert(exists, qt.IsTrue)

	_, err = svc.Submit(ctx, models.KindProgram, Submission{Email: " A@X.com", FullName: "Al Again", Target: "Leadership"}, nil)
	c.Assert(err, qt.ErrorIs, ErrAlreadyApplied)

	apps, err := repos[models.KindProgram].List(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(apps, qt.HasLen, 1)

	// The same address may still RSVP to an event.
	_, err = svc.Submit(ctx, models.KindEventRSVP, Submission{Email: "a@x.com", FullName: "Al", Target: "Gala"}, nil)
	c.Assert(err, qt.IsNil)
}

// racyRepo hides existing rows from the pre-check, as a concurrent submitter would see.
type racyRepo struct {
	applicationRepo.ApplicationRepository
}

func (racyRepo) Exists(context.Context, string) (bool, error) { return false, nil }

func TestUniqueIndexIsTheEnforcement(t *testing.T) {
	c := qt.New(t)
	inner := repotest.NewMemoryApplicationRepo()
	svc := NewService(map[models.ApplicationKind]applicationRepo.ApplicationRepository{
		models.KindProgram: racyRepo{inner},
	})
	ctx := context.Background()
	sub := Submission{Email: "a@x.com", FullName: "Al", Target: "Leadership"}

	_, err := svc.Submit(ctx, models.KindProgram, sub, nil)
	c.Assert(err, qt.IsNil)
	_, err = svc.Submit(ctx, models.KindProgram, sub, nil)
	c.Assert(err, qt.ErrorIs, ErrAlreadyApplied)

	apps, _ := inner.List(ctx)
	c.Assert(apps, qt.HasLen, 1)
}

func TestMissingFields(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()

	_, err := svc.Submit(context.Background(), models.KindProgram, Submission{Email: "  ", FullName: "Al"}, nil)
	c.Assert(err, qt.ErrorIs, ErrMissingFields)
	var mf *MissingFieldsError
	c.Assert(errors.As(err, &mf), qt.IsTrue)
	c.Assert(mf.Fields, qt.DeepEquals, []string{"email", "target"})

	_, err = svc.Submit(context.Background(), models.KindVolunteer, Submission{Email: "v@x.com", FullName: "Vi"}, nil)
	c.Assert(err, qt.ErrorIs, ErrMissingFields)

	_, err = svc.Submit(context.Background(), "bogus", Submission{}, nil)
	c.Assert(err, qt.ErrorIs, ErrUnknownKind)
}

func TestVolunteerSignUpPromotesMember(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", Role: models.RoleMember}}}
	mailer := &fakeMailer{err: errors.New("mail down")}
	svc.Users = users
	svc.Mailer = mailer

	app, err := svc.Submit(context.Background(), models.KindVolunteer,
		Submission{Email: "v@x.com", FullName: "Vi", Availability: "Weekends", Skills: []string{" Cooking ", ""}},
		users.users["u1"])
	c.Assert(err, qt.IsNil)
	c.Assert(app.Target, qt.Equals, DefaultVolunteerArea)
	c.Assert(app.Skills, qt.DeepEquals, []string{"Cooking"})
	c.Assert(app.UserID, qt.Equals, "u1")
	c.Assert(users.promoted, qt.DeepEquals, []string{"u1"})
	c.Assert(mailer.sent, qt.Equals, 1)
}

func TestSetStatusNotifiesApplicant(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", FCMToken: "tok"}}}
	notifier := &fakeNotifier{}
	svc.Users = users
	svc.Notifier = notifier
	ctx := context.Background()

	app, err := svc.Submit(ctx, models.KindProgram, Submission{Email: "a@x.com", FullName: "Al", Target: "Leadership"}, users.users["u1"])
	c.Assert(err, qt.IsNil)

	updated, err := svc.SetStatus(ctx, models.KindProgram, app.ID, models.StatusAccepted)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Status, qt.Equals, models.StatusAccepted)
	c.Assert(notifier.apps, qt.HasLen, 1)

	_, err = svc.SetStatus(ctx, models.KindProgram, app.ID, "maybe")
	c.Assert(err, qt.ErrorIs, ErrInvalidStatus)
	_, err = svc.SetStatus(ctx, models.KindProgram, "missing", models.StatusRejected)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	c.Assert(svc.Delete(ctx, models.KindProgram, app.ID), qt.IsNil)
	c.Assert(svc.Delete(ctx, models.KindProgram, app.ID), qt.ErrorIs, ErrNotFound)
}
