package models

// RecommendationRequest is the input of the personalized recommendation flow.
type RecommendationRequest struct {
	UserHistory      string `json:"userHistory" validate:"required,min=10"`
	UserSegmentation string `json:"userSegmentation" validate:"required"`
}

// RecommendationResponse carries the generated recommendation text.
type RecommendationResponse struct {
	Recommendations string `json:"recommendations"`
}
