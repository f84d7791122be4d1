package handlers

import (
	"context"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/services"
	"brokerage/internal/store"
)

type ProfileStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ProfileInput) error
	GetByEmail(ctx context.Context, email string) (models.UserProfile, error)
	GetByID(ctx context.Context, userID string) (models.UserProfile, error)
}

type InquiryStore interface {
	GetByID(ctx context.Context, inquiryID string) (models.Inquiry, error)
	List(ctx context.Context, limit, offset int) ([]store.InquiryWithState, error)
}

type PropertyStore interface {
	Create(ctx context.Context, tx store.Execer, property models.Property) error
	GetByID(ctx context.Context, propertyID string) (models.Property, error)
	Update(ctx context.Context, tx store.Execer, property models.Property, updatedAt time.Time) (int64, error)
	Delete(ctx context.Context, tx store.Execer, propertyID, brokerID string) (int64, error)
	ListActive(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error)
	ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error)
}

type RejectionStore interface {
	ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.BrokerRejection, error)
	MarkNotified(ctx context.Context, tx store.Execer, rejectionID string) error
	Acknowledge(ctx context.Context, tx store.Execer, rejectionID, brokerID string) (int64, error)
}

type WorkflowService interface {
	SubmitInquiry(ctx context.Context, input services.InquiryInput) (models.Inquiry, error)
	AcceptInquiry(ctx context.Context, req services.AcceptInquiryRequest) (models.BrokerPost, error)
	RejectInquiry(ctx context.Context, inquiryID string) error
	WithdrawOffer(ctx context.Context, inquiryID, brokerID string) error
	AcceptOffer(ctx context.Context, inquiryID, customerNotes string) (services.AcceptOfferResult, error)
	SubmitReview(ctx context.Context, dealID string, rating int, commissionAmount int64, notes string) (models.Deal, error)
	DeleteDeal(ctx context.Context, dealID string) error
	RequestProperty(ctx context.Context, propertyID string) (services.PropertyRequestResult, error)
}

type BillingService interface {
	CompletePayment(ctx context.Context, req services.PaymentRequest) (models.PaymentLog, error)
	ListPayments(ctx context.Context, brokerID string, limit, offset int) ([]models.PaymentLog, error)
}

type MediaStorage interface {
	PresignUpload(ctx context.Context, userID, filename, contentType string) (uploadURL, objectURL string, err error)
	Delete(ctx context.Context, objectURL string) error
}
