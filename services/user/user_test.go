package user

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"memberportal/database/repository/repotest"
	userRepo "memberportal/database/repository/user"
	"memberportal/models"
	"memberportal/services/session"

	"firebase.google.com/go/v4/auth"
	qt "github.com/frankban/quicktest"
)

type fakeHosted struct {
	tokens  map[string]*auth.Token
	revoked []string
}

func (f *fakeHosted) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if t, ok := f.tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("bad token")
}

func (f *fakeHosted) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeHosted) PasswordResetLink(_ context.Context, email string) (string, error) {
	return "https://hosted.example/reset?email=" + email, nil
}

type fakeMailer struct {
	links []string
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, _ string, link string) error {
	f.links = append(f.links, link)
	return nil
}

func newService() (*DefaultUserService, *repotest.MemoryUserRepo) {
	repo := repotest.NewMemoryUserRepo()
	return &DefaultUserService{
		Repo:     repo,
		Broker:   session.NewBroker(nil),
		TokenTTL: time.Hour,
		ResetURL: "https://portal.example/reset-password",
	}, repo
}

func TestSignUpThenCompleteProfile(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, "jane@test.com", "secret1")
	c.Assert(err, qt.IsNil)
	c.Assert(resp.Token, qt.Not(qt.Equals), "")
	c.Assert(resp.NextPath, qt.Equals, session.PathCompleteProfile)
	c.Assert(session.IsProfileComplete(resp.User), qt.IsFalse)

	u, err := svc.CompleteProfile(ctx, resp.User.ID, ProfileCompletion{
		DisplayName: "Jane Doe",
		Role:        "volunteer",
		Interests:   []string{"Leadership"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(u.ProfileComplete, qt.IsTrue)
	c.Assert(u.Role, qt.Equals, models.RoleVolunteer)
	c.Assert(u.Interests, qt.DeepEquals, []string{"Leadership"})

	stored, err := svc.GetUser(ctx, u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(session.StateOf(stored), qt.Equals, session.StateAuthenticatedComplete)
}

func TestSignUpValidation(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "jane@test.com", "12345")
	c.Assert(err, qt.ErrorIs, ErrWeakPassword)

	_, err = svc.SignUp(ctx, "  ", "secret1")
	c.Assert(err, qt.ErrorIs, ErrMissingCredentials)

	_, err = svc.SignUp(ctx, "Jane@Test.com", "secret1")
	c.Assert(err, qt.IsNil)
	_, err = svc.SignUp(ctx, "jane@test.com ", "secret2")
	c.Assert(err, qt.ErrorIs, ErrEmailTaken)
}

func TestCompleteProfileRejectsPlaceholderAndAdmin(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	ctx := context.Background()
	resp, err := svc.SignUp(ctx, "a@x.com", "secret1")
	c.Assert(err, qt.IsNil)

	_, err = svc.CompleteProfile(ctx, resp.User.ID, ProfileCompletion{DisplayName: session.DefaultDisplayName})
	c.Assert(err, qt.ErrorIs, ErrInvalidName)

	_, err = svc.CompleteProfile(ctx, resp.User.ID, ProfileCompletion{DisplayName: "Al", Role: "admin"})
	c.Assert(err, qt.ErrorIs, ErrInvalidRole)
}

func TestSignInAndSignOut(t *testing.T) {
	c := qt.New(t)
	svc, repo := newService()
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "a@x.com", "secret1")
	c.Assert(err, qt.IsNil)

	_, err = svc.SignIn(ctx, "a@x.com", "wrong-pass")
	c.Assert(err, qt.ErrorIs, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@x.com", "secret1")
	c.Assert(err, qt.ErrorIs, ErrInvalidCredentials)

	resp, err := svc.SignIn(ctx, "A@X.com", "secret1")
	c.Assert(err, qt.IsNil)

	auth := session.NewTokenAuthContext(repo, nil, svc.Broker)
	events, cancel := auth.Subscribe(resp.User.ID)
	defer cancel()

	got, err := auth.CurrentUser(ctx, session.Credentials{Token: resp.Token})
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, resp.User.ID)

	c.Assert(svc.SignOut(ctx, resp.User.ID, resp.Token, false), qt.IsNil)
	_, err = auth.CurrentUser(ctx, session.Credentials{Token: resp.Token})
	c.Assert(err, qt.ErrorIs, session.ErrInvalidSession)
	c.Assert((<-events).Kind, qt.Equals, session.KindSignedOut)
}

func TestSignInWithOAuthLinksByEmail(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	hosted := &fakeHosted{tokens: map[string]*auth.Token{
		"good": {UID: "fb-1", Claims: map[string]interface{}{"email": "Jane@Test.com", "picture": "https://img/j.png"}},
	}}
	svc.Hosted = hosted
	ctx := context.Background()

	local, err := svc.SignUp(ctx, "jane@test.com", "secret1")
	c.Assert(err, qt.IsNil)

	resp, err := svc.SignInWithOAuth(ctx, "good")
	c.Assert(err, qt.IsNil)
	c.Assert(resp.User.ID, qt.Equals, local.User.ID)
	c.Assert(resp.User.FirebaseUID, qt.Equals, "fb-1")
	c.Assert(resp.User.AvatarURL, qt.Equals, "https://img/j.png")

	_, err = svc.SignInWithOAuth(ctx, "forged")
	c.Assert(err, qt.ErrorIs, ErrInvalidIDToken)

	c.Assert(svc.SignOut(ctx, resp.User.ID, resp.Token, true), qt.IsNil)
	c.Assert(hosted.revoked, qt.DeepEquals, []string{"fb-1"})
}

func TestSignInWithOAuthCreatesIncompleteAccount(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	svc.Hosted = &fakeHosted{tokens: map[string]*auth.Token{
		"new": {UID: "fb-2", Claims: map[string]interface{}{"email": "new@x.com"}},
	}}
	resp, err := svc.SignInWithOAuth(context.Background(), "new")
	c.Assert(err, qt.IsNil)
	c.Assert(resp.NextPath, qt.Equals, session.PathCompleteProfile)
	c.Assert(resp.User.DisplayName, qt.Equals, session.DefaultDisplayName)
}

func TestSignInWithOAuthDisabled(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SignInWithOAuth(context.Background(), "any")
	qt.Assert(t, err, qt.ErrorIs, ErrHostedAuthDisabled)
}

func TestPasswordResetIsSingleUse(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	mailer := &fakeMailer{}
	svc.Mailer = mailer
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a@x.com", "secret1")
	c.Assert(err, qt.IsNil)

	c.Assert(svc.RequestPasswordReset(ctx, "unknown@x.com"), qt.IsNil)
	c.Assert(mailer.links, qt.HasLen, 0)

	c.Assert(svc.RequestPasswordReset(ctx, "A@x.com"), qt.IsNil)
	c.Assert(mailer.links, qt.HasLen, 1)
	link, err := url.Parse(mailer.links[0])
	c.Assert(err, qt.IsNil)
	token := link.Query().Get("token")

	c.Assert(svc.ResetPassword(ctx, token, "brand-new"), qt.IsNil)
	c.Assert(svc.ResetPassword(ctx, token, "again-new"), qt.ErrorIs, ErrInvalidResetToken)

	_, err = svc.SignIn(ctx, "a@x.com", "secret1")
	c.Assert(err, qt.ErrorIs, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "a@x.com", "brand-new")
	c.Assert(err, qt.IsNil)
}

func TestSessionTokenCannotResetPassword(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	resp, err := svc.SignUp(context.Background(), "a@x.com", "secret1")
	c.Assert(err, qt.IsNil)
	err = svc.ResetPassword(context.Background(), resp.Token, "brand-new")
	c.Assert(err, qt.ErrorIs, ErrInvalidResetToken)
}

func TestChangeRoleIsAdminOnly(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	ctx := context.Background()
	member, err := svc.SignUp(ctx, "m@x.com", "secret1")
	c.Assert(err, qt.IsNil)

	_, err = svc.ChangeRole(ctx, member.User, member.User.ID, models.RoleAdmin)
	c.Assert(err, qt.ErrorIs, ErrForbidden)

	admin := session.DemoAdminUser()
	u, err := svc.ChangeRole(ctx, admin, member.User.ID, models.RoleVolunteer)
	c.Assert(err, qt.IsNil)
	c.Assert(u.Role, qt.Equals, models.RoleVolunteer)

	_, err = svc.ChangeRole(ctx, admin, member.User.ID, "owner")
	c.Assert(err, qt.ErrorIs, ErrInvalidRole)
}

func TestVolunteerHours(t *testing.T) {
	c := qt.New(t)
	svc, _ := newService()
	ctx := context.Background()
	resp, err := svc.SignUp(ctx, "v@x.com", "secret1")
	c.Assert(err, qt.IsNil)

	u, err := svc.AddVolunteerHours(ctx, resp.User.ID, 2.5)
	c.Assert(err, qt.IsNil)
	u, err = svc.AddVolunteerHours(ctx, resp.User.ID, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(u.VolunteerHours, qt.Equals, 3.5)

	_, err = svc.AddVolunteerHours(ctx, resp.User.ID, 0)
	c.Assert(err, qt.ErrorIs, ErrInvalidVolunteerHour)
	_, err = svc.AddVolunteerHours(ctx, "missing", 1)
	c.Assert(err, qt.ErrorIs, ErrUserNotFound)
}

// racingRepo runs a set of writes from another request between a service's
// read and its save, once.
type racingRepo struct {
	*repotest.MemoryUserRepo
	interleave func(ctx context.Context, id string)
}

func (r *racingRepo) UpdateFields(ctx context.Context, id string, c userRepo.Changes) (*models.User, error) {
	if f := r.interleave; f != nil {
		r.interleave = nil
		f(ctx, id)
	}
	return r.MemoryUserRepo.UpdateFields(ctx, id, c)
}

func TestSavesKeepConcurrentSessionHoursAndRoleWrites(t *testing.T) {
	ctx := context.Background()
	name := "Renamed"
	saves := map[string]func(svc *DefaultUserService, id string) error{
		"UpdateProfile": func(svc *DefaultUserService, id string) error {
			_, err := svc.UpdateProfile(ctx, id, models.ProfileUpdate{DisplayName: &name})
			return err
		},
		"CompleteProfile": func(svc *DefaultUserService, id string) error {
			_, err := svc.CompleteProfile(ctx, id, ProfileCompletion{DisplayName: name, Role: models.RoleVolunteer})
			return err
		},
		"ChangePassword": func(svc *DefaultUserService, id string) error {
			return svc.ChangePassword(ctx, id, "secret1", "secret2")
		},
	}
	for op, save := range saves {
		t.Run(op, func(t *testing.T) {
			c := qt.New(t)
			svc, mem := newService()
			repo := &racingRepo{MemoryUserRepo: mem}
			svc.Repo = repo

			resp, err := svc.SignUp(ctx, "race@x.com", "secret1")
			c.Assert(err, qt.IsNil)
			repo.interleave = func(ctx context.Context, id string) {
				c.Check(mem.RemoveTokenHash(ctx, id, ""), qt.IsNil)
				_, err := mem.AddVolunteerHours(ctx, id, 5)
				c.Check(err, qt.IsNil)
				_, err = mem.SetRole(ctx, id, models.RoleAdmin)
				c.Check(err, qt.IsNil)
			}

			c.Assert(save(svc, resp.User.ID), qt.IsNil)
			c.Assert(repo.interleave, qt.IsNil)

			stored, err := mem.GetByID(ctx, resp.User.ID)
			c.Assert(err, qt.IsNil)
			c.Assert(stored.TokenHashes, qt.HasLen, 0)
			c.Assert(stored.VolunteerHours, qt.Equals, 5.0)
			c.Assert(stored.Role, qt.Equals, models.RoleAdmin)

			auth := session.NewTokenAuthContext(repo, nil, svc.Broker)
			_, err = auth.CurrentUser(ctx, session.Credentials{Token: resp.Token})
			c.Assert(err, qt.ErrorIs, session.ErrInvalidSession)
		})
	}
}
