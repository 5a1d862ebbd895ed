package translog

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/tool"
	"github.com/fatflowers/pledge/pkg/types"
)

// ScanFields are the columns admin scans may filter and sort on.
var ScanFields = []string{"id", "payment_id", "sequence", "intent", "state", "created_at", "response"}

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.PaymentTransaction `json:"items"`
	Total int64                        `json:"total"`
}

// Service owns the payment_transaction table. Rows are only inserted.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Append records one provider exchange of a payment with the next sequence
// number. Callers serialize appends per payment; the unique
// (payment_id, sequence) index rejects a racing writer.
func (s *Service) Append(ctx context.Context, paymentID string, intent types.TransactionIntent, state string, success bool, raw []byte) (*models.PaymentTransaction, error) {
	row := &models.PaymentTransaction{
		ID:        tool.GenerateUUIDV7(),
		PaymentID: paymentID,
		Intent:    intent,
		State:     state,
		Success:   success,
		Response:  datatypes.JSON(raw),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.PaymentTransaction{}).
			Where("payment_id = ?", paymentID).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read last sequence: %w", err)
		}
		row.Sequence = last + 1
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append payment transaction: %w", err)
	}
	return row, nil
}

// List returns the log of one payment in sequence order.
func (s *Service) List(ctx context.Context, paymentID string) ([]models.PaymentTransaction, error) {
	var rows []models.PaymentTransaction
	if err := s.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	return rows, nil
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// Scan implements paginated admin listing with filters
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}
	for _, f := range req.Filters {
		if f == nil {
			return nil, fmt.Errorf("nil filter")
		}
		if err := f.Validate(ScanFields); err != nil {
			return nil, err
		}
	}
	if req.SortBy != "" {
		if err := (&types.CommonFilter{Field: req.SortBy}).Validate(ScanFields); err != nil {
			return nil, fmt.Errorf("invalid sort field: %w", err)
		}
	}

	tx := s.db.WithContext(ctx).Model(&models.PaymentTransaction{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment transactions: %w", err)
	}

	var rows []*models.PaymentTransaction

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}

	return &ScanResponse{Items: rows, Total: total}, nil
}

// Module exposes the transaction log via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
