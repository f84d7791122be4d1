package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brokerage/internal/db"
	"brokerage/internal/models"
	"brokerage/internal/store"
)

var (
	ErrNotBroker      = errors.New("account is not a broker")
	ErrInvalidPayment = errors.New("invalid payment amount")
)

type BillingProfileStore interface {
	GetByID(ctx context.Context, userID string) (models.UserProfile, error)
	MarkPaid(ctx context.Context, tx store.Execer, userID string, trialEnd time.Time) error
}

type PaymentStore interface {
	Log(ctx context.Context, tx store.Execer, payment models.PaymentLog) error
	ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.PaymentLog, error)
}

// BillingService owns the broker trial/payment gate. Card data never lands
// here beyond the last four digits and the gateway's opaque reference.
type BillingService struct {
	txRunner db.TxRunner
	profiles BillingProfileStore
	payments PaymentStore

	extension time.Duration
}

func NewBillingService(txRunner db.TxRunner, profiles BillingProfileStore, payments PaymentStore, paidExtensionDays int) *BillingService {
	return &BillingService{
		txRunner:  txRunner,
		profiles:  profiles,
		payments:  payments,
		extension: time.Duration(paidExtensionDays) * 24 * time.Hour,
	}
}

type PaymentRequest struct {
	BrokerID         string
	Amount           int64
	PaymentMethod    string
	CardLast4        string
	GatewayReference string
}

// CompletePayment marks the broker paid, extends the access window, and
// records the payment.
func (s *BillingService) CompletePayment(ctx context.Context, req PaymentRequest) (models.PaymentLog, error) {
	if req.Amount <= 0 {
		return models.PaymentLog{}, ErrInvalidPayment
	}
	profile, err := s.profiles.GetByID(ctx, req.BrokerID)
	if err != nil {
		return models.PaymentLog{}, err
	}
	if profile.UserType != models.UserTypeBroker {
		return models.PaymentLog{}, ErrNotBroker
	}
	now := time.Now()
	method := req.PaymentMethod
	if method == "" {
		method = "card"
	}
	payment := models.PaymentLog{
		ID:               uuid.NewString(),
		BrokerID:         req.BrokerID,
		Amount:           req.Amount,
		PaymentMethod:    method,
		CardLast4:        req.CardLast4,
		GatewayReference: req.GatewayReference,
		Status:           "completed",
		PaymentDate:      now,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.profiles.MarkPaid(ctx, tx, req.BrokerID, now.Add(s.extension)); err != nil {
			return err
		}
		return s.payments.Log(ctx, tx, payment)
	})
	if err != nil {
		return models.PaymentLog{}, err
	}
	return payment, nil
}

func (s *BillingService) ListPayments(ctx context.Context, brokerID string, limit, offset int) ([]models.PaymentLog, error) {
	return s.payments.ListByBroker(ctx, brokerID, limit, offset)
}
