package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
	"github.com/muthuvel01/goldpledge/internal/store/live"
)

// LoanSource adapts the loans collection to the live subscription layer using
// MongoDB change streams. One change stream is opened per subscription and
// released by the returned stop function.
type LoanSource struct {
	repo   *LoanRepository
	logger *zap.Logger
}

// NewLoanSource builds a collection-level change source over repo.
func NewLoanSource(repo *LoanRepository, logger *zap.Logger) *LoanSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanSource{repo: repo, logger: logger}
}

// Materialize runs the query once, ordered by start date descending.
func (s *LoanSource) Materialize(ctx context.Context, q live.Query) ([]models.Loan, error) {
	return s.repo.List(ctx, q.Status)
}

// Changes opens a change stream covering the whole loans collection. Inserts,
// updates and deletes all trigger a re-materialization; the query's own
// filtering happens in Materialize.
func (s *LoanSource) Changes(ctx context.Context, _ live.Query) (<-chan struct{}, <-chan error, func(), error) {
	return watchChanges(ctx, s.repo.loans, mongo.Pipeline{}, s.logger)
}

// LoanDocSource is the single-document counterpart of LoanSource.
type LoanDocSource struct {
	repo   *LoanRepository
	logger *zap.Logger
}

// NewLoanDocSource builds a document-level change source over repo.
func NewLoanDocSource(repo *LoanRepository, logger *zap.Logger) *LoanDocSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanDocSource{repo: repo, logger: logger}
}

// Get fetches the document once; an absent document yields (nil, nil) so the
// subscription can distinguish "gone" from "failed".
func (s *LoanDocSource) Get(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrLoanNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return loan, nil
}

// Changes opens a change stream scoped to the document identifier.
func (s *LoanDocSource) Changes(ctx context.Context, id string) (<-chan struct{}, <-chan error, func(), error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: invalid identifier %q", models.ErrLoanNotFound, id)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: oid}}}},
	}
	return watchChanges(ctx, s.repo.loans, pipeline, s.logger)
}

func watchChanges(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, logger *zap.Logger) (<-chan struct{}, <-chan error, func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := coll.Watch(streamCtx, pipeline)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	changes := make(chan struct{}, 1)
	errs := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(changes)

		for stream.Next(streamCtx) {
			select {
			case changes <- struct{}{}:
			case <-streamCtx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			errs <- err
		}
	}()

	stop := func() {
		cancel()
		<-done
		if err := stream.Close(context.Background()); err != nil {
			logger.Warn("failed to close change stream", zap.Error(err))
		}
	}

	return changes, errs, stop, nil
}
