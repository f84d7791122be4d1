package store

import (
	"context"

	"brokerage/internal/models"
)

type InquiryStore struct {
	db DB
}

func NewInquiryStore(db DB) *InquiryStore {
	return &InquiryStore{db: db}
}

// InquiryState is the workflow position of an inquiry derived from the
// presence of its offer and deal rows.
const (
	StateNoOffer       = "no_offer"
	StateOfferPending  = "offer_pending"
	StateDealPending   = "deal_pending"
	StateDealCompleted = "deal_completed"
)

type InquiryWithState struct {
	models.Inquiry
	State        string  `db:"state" json:"state"`
	BrokerPostID *string `db:"broker_post_id" json:"broker_post_id,omitempty"`
	DealID       *string `db:"deal_id" json:"deal_id,omitempty"`
}

func (s *InquiryStore) Create(ctx context.Context, tx Execer, inquiry models.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, transaction_type, city, area, property_type, bedrooms, bathrooms, min_price, max_price, min_size, max_size, furnished)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.ExecContext(ctx, query,
		inquiry.ID, inquiry.TransactionType, inquiry.City, inquiry.Area, inquiry.PropertyType,
		inquiry.Bedrooms, inquiry.Bathrooms, inquiry.MinPrice, inquiry.MaxPrice,
		inquiry.MinSize, inquiry.MaxSize, inquiry.Furnished,
	)
	return err
}

func (s *InquiryStore) GetByID(ctx context.Context, inquiryID string) (models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.GetContext(ctx, &inquiry, `SELECT * FROM inquiries WHERE id = $1`, inquiryID)
	return inquiry, err
}

func (s *InquiryStore) List(ctx context.Context, limit, offset int) ([]InquiryWithState, error) {
	var rows []InquiryWithState
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.*,
		       bp.id AS broker_post_id,
		       d.id AS deal_id,
		       CASE
		           WHEN d.id IS NULL AND bp.id IS NULL THEN 'no_offer'
		           WHEN d.id IS NULL THEN 'offer_pending'
		           WHEN d.status = 'completed' THEN 'deal_completed'
		           ELSE 'deal_pending'
		       END AS state
		FROM inquiries i
		LEFT JOIN broker_posts bp ON bp.inquiry_id = i.id
		LEFT JOIN deals d ON d.inquiry_id = i.id
		ORDER BY i.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}

// Delete removes the inquiry row and reports whether it existed. Offer and
// deal rows go with it via ON DELETE CASCADE; TeardownInquiry still deletes
// them explicitly first so the ordering is deterministic.
func (s *InquiryStore) Delete(ctx context.Context, tx Execer, inquiryID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM inquiries WHERE id = $1`, inquiryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
