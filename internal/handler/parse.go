package handler

import (
	"errors"
	"net/http"

	"roomnlu/internal/model"
	"roomnlu/internal/service"

	"github.com/gin-gonic/gin"
)

// ParseHandler handles parse-related HTTP requests
type ParseHandler struct {
	parseService *service.ParseService
}

// NewParseHandler creates a new parse handler
func NewParseHandler(parseService *service.ParseService) *ParseHandler {
	return &ParseHandler{
		parseService: parseService,
	}
}

// Parse handles POST /api/v1/parse
func (h *ParseHandler) Parse(c *gin.Context) {
	var req model.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InputError: utterance is required"})
		return
	}

	resp, err := h.parseService.Parse(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyUtterance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "InputError: utterance is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ParseError: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetParse handles GET /api/v1/parse/:id
func (h *ParseHandler) GetParse(c *gin.Context) {
	parseID := c.Param("id")

	entry, err := h.parseService.GetParse(c.Request.Context(), parseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ParseError: " + err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ParseError: no parse found for id " + parseID})
		return
	}

	c.JSON(http.StatusOK, entry)
}
