package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/muthuvel01/goldpledge/internal/domain/models"
)

const (
	loansCollection   = "loans"
	reportsCollection = "daily_reports"
)

// LoanRepository persists loans in the loans collection. The store owns all
// persisted state; callers only ever hold read snapshots.
type LoanRepository struct {
	loans   *mongo.Collection
	reports *mongo.Collection
	logger  *zap.Logger
}

// NewLoanRepository builds a loan repository over the given store.
func NewLoanRepository(store *Store, logger *zap.Logger) *LoanRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanRepository{
		loans:   store.Collection(loansCollection),
		reports: store.Collection(reportsCollection),
		logger:  logger,
	}
}

// Insert writes a new loan document and returns the store-assigned identifier.
func (r *LoanRepository) Insert(ctx context.Context, loan models.Loan) (string, error) {
	result, err := r.loans.InsertOne(ctx, loan)
	if err != nil {
		return "", fmt.Errorf("failed to insert loan: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	r.logger.Info("loan created", zap.String("loan_id", oid.Hex()))
	return oid.Hex(), nil
}

// Get fetches a loan by identifier.
func (r *LoanRepository) Get(ctx context.Context, id string) (*models.Loan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid identifier %q", models.ErrLoanNotFound, id)
	}

	var loan models.Loan
	if err := r.loans.FindOne(ctx, bson.M{"_id": oid}).Decode(&loan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to fetch loan %s: %w", id, err)
	}

	return &loan, nil
}

// List returns loans ordered by start date descending, optionally restricted
// to one status. The ordering is the only one the views consume.
func (r *LoanRepository) List(ctx context.Context, status string) ([]models.Loan, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "loanStartDate", Value: -1}})
	cursor, err := r.loans.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			r.logger.Warn("failed to close loans cursor", zap.Error(err))
		}
	}()

	var loans []models.Loan
	if err := cursor.All(ctx, &loans); err != nil {
		return nil, fmt.Errorf("failed to decode loans: %w", err)
	}

	return loans, nil
}

// Delete removes a loan by identifier. There is no soft delete and no undo.
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid identifier %q", models.ErrLoanNotFound, id)
	}

	result, err := r.loans.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrLoanNotFound
	}

	r.logger.Info("loan deleted", zap.String("loan_id", id))
	return nil
}

// UpdateBalances overwrites the repayment fields of a loan.
func (r *LoanRepository) UpdateBalances(ctx context.Context, id string, paidAmount, pendingBalance float64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid identifier %q", models.ErrLoanNotFound, id)
	}

	update := bson.M{"$set": bson.M{
		"paidAmount":     paidAmount,
		"pendingBalance": pendingBalance,
	}}

	result, err := r.loans.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update loan %s balances: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrLoanNotFound
	}

	return nil
}

// SaveDailyReport stores an aggregated loan-book summary.
func (r *LoanRepository) SaveDailyReport(ctx context.Context, report models.DailyLoanReport) error {
	if _, err := r.reports.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}
