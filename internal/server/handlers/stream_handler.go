package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
	"github.com/muthuvel01/goldpledge/internal/service/loans"
	"github.com/muthuvel01/goldpledge/internal/store/live"
)

// StreamHandler serves live loan snapshots over server-sent events. Each
// connection owns one subscription; a client disconnect cancels the request
// context, which tears the change feed down.
type StreamHandler struct {
	source    live.Source[models.Loan]
	docSource live.DocSource[models.Loan]
	logger    *zap.Logger
}

// NewStreamHandler constructs the SSE adapter over the change sources.
func NewStreamHandler(source live.Source[models.Loan], docSource live.DocSource[models.Loan], logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{source: source, docSource: docSource, logger: logger}
}

// Loans streams full snapshots of the loan list, re-materialized on every
// store change. An optional status query parameter narrows the result set.
func (h *StreamHandler) Loans(c *gin.Context) {
	query := &live.Query{}
	if status := c.Query("status"); status != "" && status != loans.StatusAll {
		query.Status = normalizeStatus(status)
	}

	sub := live.Collection(c.Request.Context(), h.source, query)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				return false
			}
			if snap.Err != nil {
				h.logger.Warn("loan stream failed", zap.Error(snap.Err))
				c.SSEvent("error", gin.H{"error": "live updates interrupted"})
				return false
			}
			c.SSEvent("snapshot", gin.H{"loans": snap.Data, "count": len(snap.Data)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Loan streams snapshots of a single loan. A nil payload means the document
// does not exist, or no longer does.
func (h *StreamHandler) Loan(c *gin.Context) {
	sub := live.Document(c.Request.Context(), h.docSource, c.Param("id"))
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				return false
			}
			if snap.Err != nil {
				h.logger.Warn("loan document stream failed", zap.Error(snap.Err), zap.String("loan_id", c.Param("id")))
				c.SSEvent("error", gin.H{"error": "live updates interrupted"})
				return false
			}
			c.SSEvent("snapshot", gin.H{"loan": snap.Data})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// normalizeStatus maps the lowercase filter values the views send to the
// stored enumeration.
func normalizeStatus(status string) string {
	switch status {
	case "active":
		return models.LoanStatusActive
	case "closed":
		return models.LoanStatusClosed
	default:
		return status
	}
}
