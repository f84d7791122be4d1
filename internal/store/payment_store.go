package store

import (
	"context"

	"brokerage/internal/models"
)

type PaymentStore struct {
	db DB
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Log(ctx context.Context, tx Execer, payment models.PaymentLog) error {
	query := `
		INSERT INTO payment_logs (id, broker_id, amount, payment_method, card_last4, gateway_reference, status, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		payment.ID, payment.BrokerID, payment.Amount, payment.PaymentMethod,
		payment.CardLast4, payment.GatewayReference, payment.Status, payment.PaymentDate,
	)
	return err
}

func (s *PaymentStore) ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.PaymentLog, error) {
	var payments []models.PaymentLog
	err := s.db.SelectContext(ctx, &payments, `
		SELECT * FROM payment_logs
		WHERE broker_id = $1
		ORDER BY payment_date DESC
		LIMIT $2 OFFSET $3
	`, brokerID, limit, offset)
	return payments, err
}
