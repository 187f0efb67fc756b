package handlers

import (
	"net/http"

	"memberportal/services/content"
	"memberportal/services/settings"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves the public read endpoints.
type ContentHandler struct {
	Content  *content.Service
	Settings *settings.Service
}

func NewContentHandler(cs *content.Service, ss *settings.Service) *ContentHandler {
	return &ContentHandler{Content: cs, Settings: ss}
}

func (h *ContentHandler) ProgramsHandler(c *gin.Context) {
	items, err := h.Content.FetchPrograms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, content.ProgramViews(items))
}

func (h *ContentHandler) EventsHandler(c *gin.Context) {
	items, err := h.Content.FetchEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, content.EventViews(items))
}

func (h *ContentHandler) OpportunitiesHandler(c *gin.Context) {
	items, err := h.Content.FetchOpportunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, content.OpportunityViews(items))
}

func (h *ContentHandler) GalleryHandler(c *gin.Context) {
	items, err := h.Content.FetchGallery(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) SocialHandler(c *gin.Context) {
	items, err := h.Content.FetchSocialPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) SettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Settings.Current(c.Request.Context()))
}
