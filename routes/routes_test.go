package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memberportal/config"
	contentRepo "memberportal/database/repository/content"
	"memberportal/database/repository/repotest"
	"memberportal/handlers"
	"memberportal/models"
	"memberportal/services/applications"
	"memberportal/services/content"
	"memberportal/services/donation"
	"memberportal/services/media"
	"memberportal/services/session"
	"memberportal/services/settings"
	"memberportal/services/social"
	"memberportal/services/storage"
	"memberportal/services/user"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
)

type portal struct {
	router *gin.Engine
	users  *repotest.MemoryUserRepo
	blobs  *storage.MemoryStore
}

func newPortal(t *testing.T) *portal {
	blobs := storage.NewMemoryStore("https://portal.example/media/")
	p := newPortalWith(t, blobs)
	p.blobs = blobs
	return p
}

// newPortalWith builds the portal over blobs; nil means no image storage.
func newPortalWith(t *testing.T, blobs storage.BlobStore) *portal {
	gin.SetMode(gin.TestMode)
	config.AppConfig.SessionTTL = time.Hour
	config.AppConfig.AllowedOrigins = nil

	users := repotest.NewMemoryUserRepo()
	broker := session.NewBroker(nil)
	tokenAuth := session.NewTokenAuthContext(users, nil, broker)
	userService := &user.DefaultUserService{
		Repo:     users,
		Tokens:   tokenAuth,
		Broker:   broker,
		TokenTTL: time.Hour,
		ResetURL: "https://portal.example/signin",
	}

	appRepos := repotest.NewMemoryAll()
	socialPosts := repotest.NewMemorySocialStore()
	contentService := content.NewService(content.Stores{
		Programs:      repotest.NewMemoryStore[models.Program](contentRepo.ProgramsCollection),
		Events:        repotest.NewMemoryStore[models.Event](contentRepo.EventsCollection),
		Opportunities: repotest.NewMemoryStore[models.Opportunity](contentRepo.OpportunitiesCollection),
		Gallery:       repotest.NewMemoryStore[models.GalleryImage](contentRepo.GalleryCollection),
		Social:        socialPosts,
		Applications:  appRepos,
	})
	applicationService := applications.NewService(appRepos)
	applicationService.Users = userService

	var uploader *media.Uploader
	if blobs != nil {
		uploader = media.NewUploader(blobs, 2)
	}
	hb := handlers.NewHandlerBundle(handlers.Services{
		AuthContext:  tokenAuth,
		Users:        userService,
		Content:      contentService,
		Applications: applicationService,
		Donations:    donation.NewService(repotest.NewMemoryDonationRepo(), nil, "usd", "", 1_000_000),
		Settings:     settings.NewService(repotest.NewMemorySettingsRepo(), nil),
		Social:       social.NewService(socialPosts, contentService.Social, nil, social.NewHTTPFetcher()),
		Uploader:     uploader,
		Blobs:        blobs,
	})

	r := gin.New()
	RegisterRoutes(r, hb)
	return &portal{router: r, users: users}
}

func (p *portal) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w
}

func (p *portal) signUp(c *qt.C, email string) user.AuthResponse {
	w := p.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": email, "password": "secret123"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))
	var resp user.AuthResponse
	c.Assert(json.Unmarshal(w.Body.Bytes(), &resp), qt.IsNil)
	return resp
}

func (p *portal) promote(c *qt.C, id, role string) {
	_, err := p.users.SetRole(context.Background(), id, role)
	c.Assert(err, qt.IsNil)
}

func TestSignUpThenOnboarding(t *testing.T) {
	c := qt.New(t)
	p := newPortal(t)

	resp := p.signUp(c, "Jane@Example.org")
	c.Assert(resp.NextPath, qt.Equals, session.PathCompleteProfile)
	c.Assert(resp.Token, qt.Not(qt.Equals), "")

	w := p.do(http.MethodGet, session.PathHome, resp.Token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusFound)
	c.Assert(w.Header().Get("Location"), qt.Equals, session.PathCompleteProfile)

	w = p.do(http.MethodPost, "/api/me/complete", resp.Token, map[string]any{
		"displayName": "Jane Doe",
		"role":        models.RoleMember,
	})
	c.Assert(w.Code, qt.Equals, http.StatusOK, qt.Commentf("body: %s", w.Body.String()))

	w = p.do(http.MethodGet, session.PathHome, resp.Token, nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var page handlers.PageModel
	c.Assert(json.Unmarshal(w.Body.Bytes(), &page), qt.IsNil)
	c.Assert(page.Page, qt.Equals, "home")
	c.Assert(page.State, qt.Equals, session.StateAuthenticatedComplete)

	w = p.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "jane@example.org", "password": "secret123"})
	c.Assert(w.Code, qt.Equals, http.StatusConflict)
}

func TestSignOutRevokesToken(t *testing.T) {
	c := qt.New(t)
	p := newPortal(t)
	resp := p.signUp(c, "sam@example.org")

	c.Assert(p.do(http.MethodGet, "/api/me", resp.Token, nil).Code, qt.Equals, http.StatusOK)
	c.Assert(p.do(http.MethodPost, "/api/auth/signout", resp.Token, nil).Code, qt.Equals, http.StatusOK)
	c.Assert(p.do(http.MethodGet, "/api/me", resp.Token, nil).Code, qt.Equals, http.StatusUnauthorized)
}

func TestApplicationSubmissions(t *testing.T) {
	c := qt.New(t)
	p := newPortal(t)
	form := map[string]any{"email": "A@Example.org", "fullName": "Ann", "target": "Art Club"}

	c.Assert(p.do(http.MethodPost, "/api/applications/programs", "", form).Code, qt.Equals, http.StatusCreated)

	form["email"] = "a@example.org"
	c.Assert(p.do(http.MethodPost, "/api/applications/programs", "", form).Code, qt.Equals, http.StatusConflict)

	w := p.do(http.MethodGet, "/api/applications/programs/exists?email=a@example.org", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.JSONEquals, map[string]bool{"exists": true})

	w = p.do(http.MethodPost, "/api/applications/event_rsvps", "", map[string]any{"email": "b@example.org"})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(w.Body.String(), qt.Contains, "fullName")

	c.Assert(p.do(http.MethodPost, "/api/applications/bogus", "", form).Code, qt.Equals, http.StatusNotFound)
}

func TestAdminRoutesCheckRole(t *testing.T) {
	c := qt.New(t)
	p := newPortal(t)

	c.Assert(p.do(http.MethodGet, "/api/admin/users", "", nil).Code, qt.Equals, http.StatusUnauthorized)

	member := p.signUp(c, "member@example.org")
	c.Assert(p.do(http.MethodGet, "/api/admin/users", member.Token, nil).Code, qt.Equals, http.StatusForbidden)

	admin := p.signUp(c, "admin@example.org")
	p.promote(c, admin.User.ID, models.RoleAdmin)

	w := p.do(http.MethodPost, "/api/admin/programs", admin.Token, map[string]any{"title": "Art Club", "description": "**Fridays**"})
	c.Assert(w.Code, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", w.Body.String()))

	w = p.do(http.MethodPost, "/api/admin/programs", admin.Token, map[string]any{"title": " "})
	c.Assert(w.Code, qt.Equals, http.StatusBadRequest)

	w = p.do(http.MethodGet, "/api/programs", "", nil)
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	var programs []map[string]any
	c.Assert(json.Unmarshal(w.Body.Bytes(), &programs), qt.IsNil)
	c.Assert(programs, qt.HasLen, 1)
	c.Assert(programs[0]["title"], qt.Equals, "Art Club")
	c.Assert(programs[0]["descriptionHtml"], qt.Contains, "<strong>Fridays</strong>")

	c.Assert(p.do(http.MethodGet, "/api/admin/users", admin.Token, nil).Code, qt.Equals, http.StatusOK)
}

func TestDonationsWithoutGateway(t *testing.T) {
	c := qt.New(t)
	p := newPortal(t)

	w := p.do(http.MethodPost, "/api/donations/checkout", "", map[string]any{"amountMinor": 500, "email": "d@example.org"})
	c.Assert(w.Code, qt.Equals, http.StatusServiceUnavailable)
}
