package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
	"github.com/muthuvel01/goldpledge/internal/service/recommend"
)

// RecommendationHandler exposes the personalized recommendation flow.
type RecommendationHandler struct {
	svc    *recommend.Service
	logger *zap.Logger
}

// NewRecommendationHandler constructs the HTTP handler adapter.
func NewRecommendationHandler(svc *recommend.Service, logger *zap.Logger) *RecommendationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationHandler{svc: svc, logger: logger}
}

// Generate validates the input and performs the single text-generation call.
func (h *RecommendationHandler) Generate(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Recommend(c.Request.Context(), req)
	if err != nil {
		var fieldErr *recommend.FieldError
		switch {
		case errors.As(err, &fieldErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "fields": gin.H{fieldErr.Field: fieldErr.Message}})
		case errors.Is(err, recommend.ErrDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendations are not available"})
		default:
			h.logger.Error("failed generating recommendations", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate recommendations, please try again later"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
