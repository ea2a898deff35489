package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
	"github.com/muthuvel01/goldpledge/internal/service/loans"
)

// LoanHandler exposes the loan CRUD surface over HTTP.
type LoanHandler struct {
	svc    loans.Service
	logger *zap.Logger
}

// NewLoanHandler constructs the HTTP handler adapter.
func NewLoanHandler(svc loans.Service, logger *zap.Logger) *LoanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanHandler{svc: svc, logger: logger}
}

// Create validates and persists a new loan. The list view is not refreshed
// here; open subscriptions deliver the new record.
func (h *LoanHandler) Create(c *gin.Context) {
	var req models.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid loan payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "fields": bindingFieldErrors(err)})
		return
	}

	loan, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		var fieldErr *loans.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "fields": gin.H{fieldErr.Field: fieldErr.Message}})
			return
		}
		h.logger.Error("failed creating loan", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to create loan"})
		return
	}

	c.JSON(http.StatusCreated, loan)
}

// List serves the filtered loan list. Search and status behave exactly like
// the list view's client-side predicate.
func (h *LoanHandler) List(c *gin.Context) {
	searchTerm := c.Query("search")
	status := c.DefaultQuery("status", loans.StatusAll)

	result, err := h.svc.List(c.Request.Context(), searchTerm, status)
	if err != nil {
		h.logger.Error("failed listing loans", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to list loans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": result, "count": len(result)})
}

// Get serves one loan by identifier.
func (h *LoanHandler) Get(c *gin.Context) {
	loan, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
			return
		}
		h.logger.Error("failed fetching loan", zap.Error(err), zap.String("loan_id", c.Param("id")))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to fetch loan"})
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Delete removes a loan permanently. The confirmation step lives in the
// client; the call itself is not undoable.
func (h *LoanHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, models.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
			return
		}
		h.logger.Error("failed deleting loan", zap.Error(err), zap.String("loan_id", c.Param("id")))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to delete loan"})
		return
	}

	c.Status(http.StatusNoContent)
}

type paymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// ApplyPayment records a repayment against a loan.
func (h *LoanHandler) ApplyPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "fields": bindingFieldErrors(err)})
		return
	}

	loan, err := h.svc.ApplyPayment(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		if errors.Is(err, models.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
			return
		}
		var fieldErr *loans.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "fields": gin.H{fieldErr.Field: fieldErr.Message}})
			return
		}
		h.logger.Error("failed applying payment", zap.Error(err), zap.String("loan_id", c.Param("id")))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to apply payment"})
		return
	}

	c.JSON(http.StatusOK, loan)
}

// bindingFieldErrors flattens gin binding failures into field messages so the
// client can render them next to the offending inputs.
func bindingFieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				fields[fe.Field()] = "is required"
			case "min":
				fields[fe.Field()] = "is too short"
			case "gt":
				fields[fe.Field()] = "must be greater than " + fe.Param()
			case "gte":
				fields[fe.Field()] = "must be at least " + fe.Param()
			default:
				fields[fe.Field()] = "is invalid"
			}
		}
	}

	return fields
}
