package store

import (
	"context"

	"brokerage/internal/models"
)

type RejectionStore struct {
	db DB
}

func NewRejectionStore(db DB) *RejectionStore {
	return &RejectionStore{db: db}
}

func (s *RejectionStore) Create(ctx context.Context, tx Execer, rejection models.BrokerRejection) error {
	query := `
		INSERT INTO broker_rejections (id, broker_id, broker_name, inquiry_id, city, area, property_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		rejection.ID, rejection.BrokerID, rejection.BrokerName, rejection.InquiryID,
		rejection.City, rejection.Area, rejection.PropertyType,
	)
	return err
}

// ListByBroker is read-only; acknowledging a notice is a separate call.
func (s *RejectionStore) ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.BrokerRejection, error) {
	var rejections []models.BrokerRejection
	err := s.db.SelectContext(ctx, &rejections, `
		SELECT * FROM broker_rejections
		WHERE broker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, brokerID, limit, offset)
	return rejections, err
}

func (s *RejectionStore) MarkNotified(ctx context.Context, tx Execer, rejectionID string) error {
	_, err := tx.ExecContext(ctx, `UPDATE broker_rejections SET notified = true WHERE id = $1`, rejectionID)
	return err
}

// Acknowledge deletes the notice, scoped to its owner.
func (s *RejectionStore) Acknowledge(ctx context.Context, tx Execer, rejectionID, brokerID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM broker_rejections WHERE id = $1 AND broker_id = $2`, rejectionID, brokerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
