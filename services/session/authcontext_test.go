package session

import (
	"context"
	"testing"
	"time"

	"memberportal/database/repository/repotest"
	"memberportal/models"
	"memberportal/utils"

	qt "github.com/frankban/quicktest"
)

func seedUser(c *qt.C, repo *repotest.MemoryUserRepo) (*models.User, string) {
	u := &models.User{ID: utils.NewID(), Email: "jane@test.com", DisplayName: "Jane Doe", Role: models.RoleMember}
	c.Assert(repo.Create(context.Background(), u), qt.IsNil)
	token, err := utils.GenerateToken(u.ID, u.Email, time.Hour)
	c.Assert(err, qt.IsNil)
	c.Assert(repo.AddTokenHash(context.Background(), u.ID, utils.HashToken(token)), qt.IsNil)
	return u, token
}

func TestTokenAuthContextResolvesUser(t *testing.T) {
	c := qt.New(t)
	repo := repotest.NewMemoryUserRepo()
	u, token := seedUser(c, repo)
	auth := NewTokenAuthContext(repo, nil, NewBroker(nil))

	got, err := auth.CurrentUser(context.Background(), Credentials{Token: token})
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, u.ID)

	anon, err := auth.CurrentUser(context.Background(), Credentials{})
	c.Assert(err, qt.IsNil)
	c.Assert(anon, qt.IsNil)
}

func TestTokenAuthContextRejectsRevokedToken(t *testing.T) {
	c := qt.New(t)
	repo := repotest.NewMemoryUserRepo()
	u, token := seedUser(c, repo)
	auth := NewTokenAuthContext(repo, nil, NewBroker(nil))

	c.Assert(repo.RemoveTokenHash(context.Background(), u.ID, utils.HashToken(token)), qt.IsNil)
	_, err := auth.CurrentUser(context.Background(), Credentials{Token: token})
	c.Assert(err, qt.ErrorIs, ErrInvalidSession)

	_, err = auth.CurrentUser(context.Background(), Credentials{Token: "not-a-token"})
	c.Assert(err, qt.ErrorIs, ErrInvalidSession)
}

func TestDemoAdminOnlyWhenAllowed(t *testing.T) {
	c := qt.New(t)
	repo := repotest.NewMemoryUserRepo()
	base := NewTokenAuthContext(repo, nil, NewBroker(nil))

	strict := WithDemoAdmin(base, false)
	u, err := strict.CurrentUser(context.Background(), Credentials{DemoAdmin: true})
	c.Assert(err, qt.IsNil)
	c.Assert(u, qt.IsNil)

	demo := WithDemoAdmin(base, true)
	u, err = demo.CurrentUser(context.Background(), Credentials{DemoAdmin: true})
	c.Assert(err, qt.IsNil)
	c.Assert(u.IsAdmin(), qt.IsTrue)
	c.Assert(StateOf(u), qt.Equals, StateAuthenticatedComplete)

	u, err = demo.CurrentUser(context.Background(), Credentials{})
	c.Assert(err, qt.IsNil)
	c.Assert(u, qt.IsNil)
}
