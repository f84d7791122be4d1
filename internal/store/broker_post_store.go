package store

import (
	"context"

	"brokerage/internal/models"
)

type BrokerPostStore struct {
	db DB
}

func NewBrokerPostStore(db DB) *BrokerPostStore {
	return &BrokerPostStore{db: db}
}

func (s *BrokerPostStore) Create(ctx context.Context, tx Execer, post models.BrokerPost) error {
	query := `
		INSERT INTO broker_posts (id, inquiry_id, broker_id, broker_name, broker_phone, commission, notes, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		post.ID, post.InquiryID, post.BrokerID, post.BrokerName,
		post.BrokerPhone, post.Commission, post.Notes, post.Media,
	)
	return err
}

func (s *BrokerPostStore) GetByInquiry(ctx context.Context, inquiryID string) (models.BrokerPost, error) {
	var post models.BrokerPost
	err := s.db.GetContext(ctx, &post, `SELECT * FROM broker_posts WHERE inquiry_id = $1`, inquiryID)
	return post, err
}

func (s *BrokerPostStore) DeleteByInquiry(ctx context.Context, tx Execer, inquiryID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM broker_posts WHERE inquiry_id = $1`, inquiryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
