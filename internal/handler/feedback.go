package handler

import (
	"net/http"

	"roomnlu/internal/model"
	"roomnlu/internal/service"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	parseService *service.ParseService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(parseService *service.ParseService) *FeedbackHandler {
	return &FeedbackHandler{
		parseService: parseService,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InputError: " + err.Error()})
		return
	}

	validVerdicts := map[string]bool{
		"correct":      true,
		"wrong_intent": true,
		"wrong_slots":  true,
		"wrong_values": true,
	}

	if !validVerdicts[req.Verdict] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InputError: verdict must be one of: correct, wrong_intent, wrong_slots, wrong_values"})
		return
	}

	if err := h.parseService.LogFeedback(c.Request.Context(), req.ParseID, req.Verdict); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "FeedbackError: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
