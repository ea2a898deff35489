package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
	"github.com/muthuvel01/goldpledge/pkg/clients/anthropic"
)

// ErrDisabled is returned when no text-generation client is configured.
var ErrDisabled = errors.New("recommendations are disabled")

// FieldError carries a validation failure for a single input field. When one
// is returned, no call to the text-generation endpoint was made.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service runs the stateless recommendation flow.
type Service struct {
	client   anthropic.Client
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService wires a new recommendation service. A nil client disables the
// flow without disabling the rest of the application.
func NewService(client anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		validate: validator.New(),
		logger:   logger,
	}
}

// Recommend validates the input, invokes the generative endpoint once and
// returns the generated text. Validation failures short-circuit before any
// network call.
func (s *Service) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResponse, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, asFieldError(err)
	}

	if s.client == nil {
		return nil, ErrDisabled
	}

	text, err := s.client.GenerateRecommendations(ctx, req.UserHistory, req.UserSegmentation)
	if err != nil {
		s.logger.Error("recommendation generation failed", zap.Error(err))
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	return &models.RecommendationResponse{Recommendations: text}, nil
}

func asFieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	first := verrs[0]
	switch first.Field() {
	case "UserHistory":
		return &FieldError{Field: "userHistory", Message: "please provide more details about your activity"}
	case "UserSegmentation":
		return &FieldError{Field: "userSegmentation", Message: "user segment is required"}
	default:
		return &FieldError{Field: first.Field(), Message: "invalid value"}
	}
}
