package routes

import (
	"time"

	"memberportal/config"
	"memberportal/handlers"
	"memberportal/middleware"
	"memberportal/services/session"
	"memberportal/services/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes registers the navigation shell. Every page passes the gate.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	p := hb.Pages
	pages := r.Group("")
	pages.Use(middleware.Gate())
	{
		pages.GET(session.PathLanding, p.Page("landing", p.Landing))
		pages.GET(session.PathSignIn, p.Page("signin", nil))
		pages.GET(session.PathSignUp, p.Page("signup", nil))
		pages.GET(session.PathCompleteProfile, p.Page("complete-profile", p.CompleteProfile))
		pages.GET(session.PathHome, p.Page("home", p.Home))
		pages.GET(session.PathPrograms, p.Page("programs", p.Programs))
		pages.GET(session.PathEvents, p.Page("events", p.Events))
		pages.GET(session.PathOpportunities, p.Page("opportunities", p.Opportunities))
		pages.GET(session.PathVolunteer, p.Page("volunteer", p.Volunteer))
		pages.GET(session.PathDonate, p.Page("donate", p.Donate))
		pages.GET(session.PathProfile, p.Page("profile", p.Profile))

		pages.GET(session.PathAdminLogin, p.Page("admin-login", p.AdminLogin))
		pages.GET(session.PathAdmin, p.Page("admin", p.AdminOverview))
		pages.GET(session.PathAdminApplications, p.Page("admin-applications", p.AdminApplications))
		pages.GET(session.PathAdminSocial, p.Page("admin-social", p.AdminSocial))
		pages.GET(session.PathAdminGallery, p.Page("admin-gallery", p.AdminGallery))
		pages.GET(session.PathAdminContent, p.Page("admin-content", p.AdminContent))
		pages.GET(session.PathAdminVolunteers, p.Page("admin-volunteers", p.AdminVolunteers))
		pages.GET(session.PathAdminSettings, p.Page("admin-settings", p.AdminSettings))
	}
}

// RegisterAuthRoutes registers sign-up, sign-in and password endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.Auth.SignUpHandler)
		api.POST("/signin", hb.Auth.SignInHandler)
		api.POST("/oauth", hb.Auth.OAuthHandler)
		api.POST("/password/forgot", hb.Auth.ForgotPasswordHandler)
		api.POST("/password/reset", hb.Auth.ResetPasswordHandler)
		api.POST("/signout", middleware.RequireUser(), hb.Auth.SignOutHandler)
	}
}

// RegisterUserRoutes registers the signed-in user's own endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.RequireUser())
	{
		api.GET("/me", hb.Profile.MeHandler)
		api.PATCH("/me", hb.Profile.UpdateProfileHandler)
		api.POST("/me/complete", hb.Profile.CompleteProfileHandler)
		api.PUT("/me/password", hb.Auth.ChangePasswordHandler)
		api.GET("/session/events", handlers.SessionEventsHandler(hb.AuthContext))
	}
}

// RegisterPublicRoutes registers content reads, submissions and donations.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/programs", hb.Content.ProgramsHandler)
		api.GET("/events", hb.Content.EventsHandler)
		api.GET("/opportunities", hb.Content.OpportunitiesHandler)
		api.GET("/gallery", hb.Content.GalleryHandler)
		api.GET("/social", hb.Content.SocialHandler)
		api.GET("/settings", hb.Content.SettingsHandler)

		api.POST("/applications/:kind", hb.Applications.SubmitHandler)
		api.GET("/applications/:kind/exists", hb.Applications.ExistsHandler)

		api.POST("/donations/checkout", hb.Donations.CheckoutHandler)
		api.POST("/donations/webhook", hb.Donations.WebhookHandler)
	}
}

// RegisterAdminRoutes sets up the back office. The role is checked on every request.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAdmin())
	{
		crud(admin, "/programs", hb.Programs.List, hb.Programs.Get, hb.Programs.Create, hb.Programs.Update, hb.Programs.Delete)
		crud(admin, "/events", hb.Events.List, hb.Events.Get, hb.Events.Create, hb.Events.Update, hb.Events.Delete)
		crud(admin, "/opportunities", hb.Opportunities.List, hb.Opportunities.Get, hb.Opportunities.Create, hb.Opportunities.Update, hb.Opportunities.Delete)
		crud(admin, "/gallery", hb.Gallery.List, hb.Gallery.Get, hb.Gallery.Create, hb.Gallery.Update, hb.Uploads.DeleteGalleryImageHandler)
		crud(admin, "/social", hb.Social.List, hb.Social.Get, hb.Admin.CreateSocialPostHandler, hb.Social.Update, hb.Social.Delete)

		admin.POST("/gallery/upload", hb.Uploads.GalleryUploadHandler)
		admin.POST("/social/:id/pin", hb.Admin.TogglePinHandler)

		admin.GET("/applications/:kind", hb.Admin.ApplicationsHandler)
		admin.PUT("/applications/:kind/:id/status", hb.Admin.ApplicationStatusHandler)
		admin.DELETE("/applications/:kind/:id", hb.Admin.DeleteApplicationHandler)

		admin.GET("/users", hb.Admin.UsersHandler)
		admin.PUT("/users/:id/role", hb.Admin.ChangeRoleHandler)
		admin.DELETE("/users/:id", hb.Admin.DeleteUserHandler)
		admin.GET("/volunteers", hb.Admin.VolunteersHandler)
		admin.POST("/volunteers/:id/hours", hb.Admin.VolunteerHoursHandler)

		admin.GET("/donations", hb.Admin.DonationsHandler)

		admin.GET("/settings", hb.Settings.GetHandler)
		admin.PUT("/settings", hb.Settings.SaveHandler)
	}
}

func crud(g *gin.RouterGroup, path string, list, get, create, update, del gin.HandlerFunc) {
	g.GET(path, list)
	g.POST(path, create)
	g.GET(path+"/:id", get)
	g.PUT(path+"/:id", update)
	g.DELETE(path+"/:id", del)
}

// RegisterMediaRoute serves in-process blobs when that backend is in use.
func RegisterMediaRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Media != nil {
		r.GET(storage.MediaPrefix+"/*path", hb.Media.ServeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := config.AppConfig.AllowedOrigins
	allowAll := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowAll,
		MaxAge:           12 * time.Hour,
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Authenticate(hb.AuthContext))

	RegisterHealthRoute(r)
	RegisterMediaRoute(r, hb)
	RegisterPageRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
