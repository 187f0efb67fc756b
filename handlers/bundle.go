package handlers

import (
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
)

// HandlerBundle groups every endpoint handler for route registration.
type HandlerBundle struct {
	AuthContext session.AuthContext

	Auth         *AuthHandler
	Profile      *ProfileHandler
	Content      *ContentHandler
	Applications *ApplicationHandler
	Donations    *DonationHandler
	Pages        *PageHandler
	Settings     *SettingsHandler
	Uploads      *UploadHandler
	Admin        *AdminHandler
	// Media is set only when blobs are kept in process.
	Media *MediaHandler

	// Back-office CRUD per content collection.
	Programs      *CRUDHandler[models.Program, *models.Program]
	Events        *CRUDHandler[models.Event, *models.Event]
	Opportunities *CRUDHandler[models.Opportunity, *models.Opportunity]
	Gallery       *CRUDHandler[models.GalleryImage, *models.GalleryImage]
	Social        *CRUDHandler[models.SocialPost, *models.SocialPost]
}

// Services are the dependencies the handlers are built from.
type Services struct {
	AuthContext  session.AuthContext
	Users        user.UserService
	Content      *content.Service
	Applications *applications.Service
	Donations    *donation.Service
	Settings     *settings.Service
	Social       *social.Service
	Uploader     *media.Uploader
	Blobs        storage.BlobStore
}

func NewHandlerBundle(s Services) *HandlerBundle {
	hb := &HandlerBundle{
		AuthContext:  s.AuthContext,
		Auth:         NewAuthHandler(s.Users),
		Profile:      NewProfileHandler(s.Users),
		Content:      NewContentHandler(s.Content, s.Settings),
		Applications: NewApplicationHandler(s.Applications),
		Donations:    NewDonationHandler(s.Donations),
		Pages: &PageHandler{
			Content:   s.Content,
			Settings:  s.Settings,
			Users:     s.Users,
			Donations: s.Donations,
		},
		Settings: NewSettingsHandler(s.Settings),
		Uploads:  NewUploadHandler(s.Uploader, s.Blobs, s.Content.Gallery),
		Admin: &AdminHandler{
			UserService:  s.Users,
			Content:      s.Content,
			Applications: s.Applications,
			Social:       s.Social,
			Donations:    s.Donations,
		},
		Programs:      NewCRUDHandler(s.Content.Programs),
		Events:        NewCRUDHandler(s.Content.Events),
		Opportunities: NewCRUDHandler(s.Content.Opportunities),
		Gallery:       NewCRUDHandler(s.Content.Gallery),
		Social:        NewCRUDHandler(s.Content.Social),
	}
	if mem, ok := s.Blobs.(*storage.MemoryStore); ok {
		hb.Media = &MediaHandler{Store: mem}
	}
	return hb
}
