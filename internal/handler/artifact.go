package handler

import (
	"context"
	"errors"
	"net/http"

	"quotation/internal/artifact"
	"quotation/internal/model"

	"github.com/gin-gonic/gin"
)

// ArtifactStore persists model artifacts
type ArtifactStore interface {
	artifact.Saver
	ListArtifacts(ctx context.Context) ([]model.ModelArtifact, error)
}

// ArtifactHandler handles model artifact HTTP requests
type ArtifactHandler struct {
	store ArtifactStore
	opts  artifact.Options
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(store ArtifactStore, opts artifact.Options) *ArtifactHandler {
	return &ArtifactHandler{
		store: store,
		opts:  opts,
	}
}

// Publish handles POST /api/v1/artifacts. The document is built before it is
// stored so a broken model never reaches the table.
func (h *ArtifactHandler) Publish(c *gin.Context) {
	var doc artifact.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := artifact.Publish(c.Request.Context(), h.store, &doc, h.opts)
	if err != nil {
		if errors.Is(err, artifact.ErrInvalidArtifact) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish artifact: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// List handles GET /api/v1/artifacts
func (h *ArtifactHandler) List(c *gin.Context) {
	artifacts, err := h.store.ListArtifacts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list artifacts: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"artifacts": artifacts})
}
