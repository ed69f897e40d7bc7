package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"quotation/internal/model"
	"quotation/internal/quotation"
	"quotation/internal/service"

	"github.com/gin-gonic/gin"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
	}
}

// Create handles POST /api/v1/quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.quotationService.Quote(c.Request.Context(), &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Quotation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreateStream handles POST /api/v1/quotations/stream - SSE progress for one quotation
func (h *QuotationHandler) CreateStream(c *gin.Context) {
	var req model.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"project_reference": req.ProjectReference})
	flusher.Flush()

	response, err := h.quotationService.QuoteStream(c.Request.Context(), &req, func(event string, data any) error {
		sendSSE(c, event, data)
		flusher.Flush()
		return c.Request.Context().Err()
	})
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error(), "status": statusFor(err)})
		flusher.Flush()
		return
	}

	sendSSE(c, "quote", response)
	sendSSE(c, "done", nil)
	flusher.Flush()
}

// Variants handles GET /api/v1/variants
func (h *QuotationHandler) Variants(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"variants": h.quotationService.Variants()})
}

// Schema handles GET /api/v1/schema
func (h *QuotationHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.quotationService.Schema())
}

// statusFor maps engine errors onto HTTP status codes
func statusFor(err error) int {
	var (
		unknownRegion *quotation.UnknownRegionError
		invalidCost   *quotation.InvalidCostError
	)
	switch {
	case errors.As(err, &unknownRegion):
		return http.StatusBadRequest
	case errors.As(err, &invalidCost):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
