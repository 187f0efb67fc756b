package handlers

import (
	"context"
	"net/http"

	"memberportal/config"
	"memberportal/middleware"
	"memberportal/models"
	"memberportal/services/content"
	"memberportal/services/donation"
	"memberportal/services/session"
	"memberportal/services/settings"
	"memberportal/services/user"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// PageModel is what every page route answers with once the gate lets it through.
type PageModel struct {
	Page     string             `json:"page"`
	State    session.State      `json:"state"`
	User     *models.User       `json:"user"`
	Settings models.AppSettings `json:"settings"`
	Data     any                `json:"data,omitempty"`
}

// PageHandler assembles page models for the navigation shell.
type PageHandler struct {
	Content   *content.Service
	Settings  *settings.Service
	Users     user.UserService
	Donations *donation.Service
}

type pageLoader func(ctx context.Context, u *models.User) (any, error)

// Page renders the model for name, loading its data with load (which may be nil).
func (h *PageHandler) Page(name string, load pageLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		u := middleware.CurrentUser(c)
		model := PageModel{
			Page:     name,
			State:    middleware.GateState(c),
			User:     u,
			Settings: h.Settings.Current(ctx),
		}
		if load != nil {
			data, err := load(ctx, u)
			if err != nil {
				respondError(c, err)
				return
			}
			model.Data = data
		}
		c.JSON(http.StatusOK, model)
	}
}

func (h *PageHandler) Landing(ctx context.Context, _ *models.User) (any, error) {
	var programs []*models.Program
	var events []*models.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { programs, err = h.Content.FetchPrograms(gctx); return })
	g.Go(func() (err error) { events, err = h.Content.FetchEvents(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gin.H{
		"programs": content.ProgramViews(programs),
		"events":   content.EventViews(events),
	}, nil
}

func (h *PageHandler) AdminLogin(context.Context, *models.User) (any, error) {
	return gin.H{"demoAdminAvailable": config.DemoAdminAllowed()}, nil
}

func (h *PageHandler) CompleteProfile(ctx context.Context, _ *models.User) (any, error) {
	programs, err := h.Content.FetchPrograms(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	interests := []string{}
	for _, p := range programs {
		if p.Track != "" && !seen[p.Track] {
			seen[p.Track] = true
			interests = append(interests, p.Track)
		}
	}
	return gin.H{
		"roles":     []string{models.RoleMember, models.RoleVolunteer},
		"interests": interests,
	}, nil
}

// Home loads every feed the member dashboard shows at once.
func (h *PageHandler) Home(ctx context.Context, _ *models.User) (any, error) {
	var (
		programs []*models.Program
		events   []*models.Event
		opps     []*models.Opportunity
		posts    []*models.SocialPost
		gallery  []*models.GalleryImage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { programs, err = h.Content.FetchPrograms(gctx); return })
	g.Go(func() (err error) { events, err = h.Content.FetchEvents(gctx); return })
	g.Go(func() (err error) { opps, err = h.Content.FetchOpportunities(gctx); return })
	g.Go(func() (err error) { posts, err = h.Content.FetchSocialPosts(gctx); return })
	g.Go(func() (err error) { gallery, err = h.Content.FetchGallery(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gin.H{
		"programs":      content.ProgramViews(programs),
		"events":        content.EventViews(events),
		"opportunities": content.OpportunityViews(opps),
		"social":        posts,
		"gallery":       gallery,
	}, nil
}

func (h *PageHandler) Programs(ctx context.Context, _ *models.User) (any, error) {
	items, err := h.Content.FetchPrograms(ctx)
	return content.ProgramViews(items), err
}

func (h *PageHandler) Events(ctx context.Context, _ *models.User) (any, error) {
	items, err := h.Content.FetchEvents(ctx)
	return content.EventViews(items), err
}

func (h *PageHandler) Opportunities(ctx context.Context, _ *models.User) (any, error) {
	items, err := h.Content.FetchOpportunities(ctx)
	return content.OpportunityViews(items), err
}

func (h *PageHandler) Volunteer(ctx context.Context, u *models.User) (any, error) {
	items, err := h.Content.FetchOpportunities(ctx)
	if err != nil {
		return nil, err
	}
	var volunteering []*models.Opportunity
	for _, o := range items {
		if o.Kind == models.OpportunityVolunteer {
			volunteering = append(volunteering, o)
		}
	}
	hours := 0.0
	if u != nil {
		hours = u.VolunteerHours
	}
	return gin.H{
		"opportunities":  content.OpportunityViews(volunteering),
		"volunteerHours": hours,
		"isVolunteer":    u != nil && u.Role == models.RoleVolunteer,
	}, nil
}

func (h *PageHandler) Donate(context.Context, *models.User) (any, error) {
	return h.Donations.Form(), nil
}

func (h *PageHandler) Profile(_ context.Context, u *models.User) (any, error) {
	return gin.H{"profileComplete": session.IsProfileComplete(u)}, nil
}

// AdminOverview counts what is waiting for the back office.
func (h *PageHandler) AdminOverview(ctx context.Context, _ *models.User) (any, error) {
	counts := make(map[models.ApplicationKind]int, len(models.Kinds))
	pending := make(map[models.ApplicationKind]int, len(models.Kinds))
	apps := make([][]models.Application, len(models.Kinds))
	var volunteers, members []models.User

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.Kinds {
		g.Go(func() (err error) { apps[i], err = h.Content.FetchApplications(gctx, kind); return })
	}
	g.Go(func() (err error) { volunteers, err = h.Users.ListUsers(gctx, models.RoleVolunteer); return })
	g.Go(func() (err error) { members, err = h.Users.ListUsers(gctx, ""); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, kind := range models.Kinds {
		counts[kind] = len(apps[i])
		for _, a := range apps[i] {
			if a.Status == models.StatusPending {
				pending[kind]++
			}
		}
	}
	return gin.H{
		"applications": counts,
		"pending":      pending,
		"volunteers":   len(volunteers),
		"users":        len(members),
	}, nil
}

func (h *PageHandler) AdminApplications(ctx context.Context, _ *models.User) (any, error) {
	out := make(map[models.ApplicationKind][]models.Application, len(models.Kinds))
	for _, kind := range models.Kinds {
		apps, err := h.Content.FetchApplications(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = apps
	}
	return out, nil
}

func (h *PageHandler) AdminSocial(ctx context.Context, _ *models.User) (any, error) {
	return h.Content.FetchSocialPosts(ctx)
}

func (h *PageHandler) AdminGallery(ctx context.Context, _ *models.User) (any, error) {
	return h.Content.FetchGallery(ctx)
}

func (h *PageHandler) AdminContent(ctx context.Context, _ *models.User) (any, error) {
	var (
		programs []*models.Program
		events   []*models.Event
		opps     []*models.Opportunity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { programs, err = h.Content.FetchPrograms(gctx); return })
	g.Go(func() (err error) { events, err = h.Content.FetchEvents(gctx); return })
	g.Go(func() (err error) { opps, err = h.Content.FetchOpportunities(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gin.H{"programs": programs, "events": events, "opportunities": opps}, nil
}

func (h *PageHandler) AdminVolunteers(ctx context.Context, _ *models.User) (any, error) {
	return h.Users.ListUsers(ctx, models.RoleVolunteer)
}

func (h *PageHandler) AdminSettings(context.Context, *models.User) (any, error) {
	status, lastErr := h.Settings.Status()
	body := gin.H{"status": status}
	if lastErr != nil {
		body["error"] = lastErr.Error()
	}
	return body, nil
}
