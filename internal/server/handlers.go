package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/logging"
)

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ContactHandler serves the contact collection.
type ContactHandler struct {
	manager *contact.Manager
	repo    contact.Repository
	log     *logging.Logger
}

// createContactRequest uses pointers so JSON null and absent keys both read as missing.
type createContactRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

// List returns all contacts in insertion order.
func (h *ContactHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.AllContacts())
}

// Create validates and stores a new contact.
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	created, err := contact.Save(h.manager, h.repo, req.FirstName, req.LastName, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, contact.ErrInvalidContact) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("saving contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save contact"})
		return
	}

	h.log.Info("contact added", "last_name", created.LastName, "phone", created.PhoneNumber)
	c.JSON(http.StatusCreated, created)
}
