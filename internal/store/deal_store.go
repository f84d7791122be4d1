package store

import (
	"context"
	"time"

	"brokerage/internal/models"
)

type DealStore struct {
	db DB
}

func NewDealStore(db DB) *DealStore {
	return &DealStore{db: db}
}

func (s *DealStore) Create(ctx context.Context, tx Execer, deal models.Deal) error {
	query := `
		INSERT INTO deals (id, inquiry_id, broker_post_id, status, interview_scheduled_at, customer_notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		deal.ID, deal.InquiryID, deal.BrokerPostID, deal.Status,
		deal.InterviewScheduledAt, deal.CustomerNotes,
	)
	return err
}

func (s *DealStore) GetByID(ctx context.Context, dealID string) (models.Deal, error) {
	var deal models.Deal
	err := s.db.GetContext(ctx, &deal, `SELECT * FROM deals WHERE id = $1`, dealID)
	return deal, err
}

func (s *DealStore) GetByInquiry(ctx context.Context, inquiryID string) (models.Deal, error) {
	var deal models.Deal
	err := s.db.GetContext(ctx, &deal, `SELECT * FROM deals WHERE inquiry_id = $1`, inquiryID)
	return deal, err
}

// SetReview records the customer review and completes the deal. Review notes
// land in rating_notes; the acceptance-time customer_notes stay untouched.
func (s *DealStore) SetReview(ctx context.Context, tx Execer, dealID string, rating int, commissionAmount int64, notes string, reviewedAt time.Time) error {
	query := `
		UPDATE deals
		SET broker_rating = $1, commission_amount = $2, rating_notes = $3,
		    status = 'completed', updated_at = $4
		WHERE id = $5
	`
	_, err := tx.ExecContext(ctx, query, rating, commissionAmount, notes, reviewedAt, dealID)
	return err
}

func (s *DealStore) DeleteByInquiry(ctx context.Context, tx Execer, inquiryID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM deals WHERE inquiry_id = $1`, inquiryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
