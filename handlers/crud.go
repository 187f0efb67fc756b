package handlers

import (
	"net/http"

	"memberportal/models"
	"memberportal/services/content"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
)

// CRUDHandler exposes one content collection to the back office.
type CRUDHandler[T any, P interface {
	*T
	models.Record
}] struct {
	Manager *content.Manager[T, P]
}

func NewCRUDHandler[T any, P interface {
	*T
	models.Record
}](m *content.Manager[T, P]) *CRUDHandler[T, P] {
	return &CRUDHandler[T, P]{Manager: m}
}

func (h *CRUDHandler[T, P]) List(c *gin.Context) {
	items, err := h.Manager.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CRUDHandler[T, P]) Get(c *gin.Context) {
	item, err := h.Manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CRUDHandler[T, P]) Create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	created, err := h.Manager.Create(c.Request.Context(), &doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update replaces the whole record; the last write wins.
func (h *CRUDHandler[T, P]) Update(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	updated, err := h.Manager.Update(c.Request.Context(), c.Param("id"), &doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CRUDHandler[T, P]) Delete(c *gin.Context) {
	if err := h.Manager.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.Manager.Name() + " deleted"})
}
