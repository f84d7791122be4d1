package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"brokerage/internal/auth"
	"brokerage/internal/config"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/services"
	"brokerage/internal/store"
	"brokerage/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubProfileStore struct {
	createFn     func(ctx context.Context, tx store.Execer, input store.ProfileInput) error
	getByEmailFn func(ctx context.Context, email string) (models.UserProfile, error)
	getByIDFn    func(ctx context.Context, userID string) (models.UserProfile, error)
}

func (s stubProfileStore) Create(ctx context.Context, tx store.Execer, input store.ProfileInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubProfileStore) GetByEmail(ctx context.Context, email string) (models.UserProfile, error) {
	if s.getByEmailFn == nil {
		return models.UserProfile{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubProfileStore) GetByID(ctx context.Context, userID string) (models.UserProfile, error) {
	if s.getByIDFn == nil {
		return models.UserProfile{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubInquiryStore struct {
	getByIDFn func(ctx context.Context, inquiryID string) (models.Inquiry, error)
	listFn    func(ctx context.Context, limit, offset int) ([]store.InquiryWithState, error)
}

func (s stubInquiryStore) GetByID(ctx context.Context, inquiryID string) (models.Inquiry, error) {
	if s.getByIDFn == nil {
		return models.Inquiry{}, nil
	}
	return s.getByIDFn(ctx, inquiryID)
}

func (s stubInquiryStore) List(ctx context.Context, limit, offset int) ([]store.InquiryWithState, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubPropertyStore struct {
	createFn       func(ctx context.Context, tx store.Execer, property models.Property) error
	getByIDFn      func(ctx context.Context, propertyID string) (models.Property, error)
	updateFn       func(ctx context.Context, tx store.Execer, property models.Property, updatedAt time.Time) (int64, error)
	deleteFn       func(ctx context.Context, tx store.Execer, propertyID, brokerID string) (int64, error)
	listActiveFn   func(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error)
	listByBrokerFn func(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error)
}

func (s stubPropertyStore) Create(ctx context.Context, tx store.Execer, property models.Property) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, property)
}

func (s stubPropertyStore) GetByID(ctx context.Context, propertyID string) (models.Property, error) {
	if s.getByIDFn == nil {
		return models.Property{}, nil
	}
	return s.getByIDFn(ctx, propertyID)
}

func (s stubPropertyStore) Update(ctx context.Context, tx store.Execer, property models.Property, updatedAt time.Time) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, property, updatedAt)
}

func (s stubPropertyStore) Delete(ctx context.Context, tx store.Execer, propertyID, brokerID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, propertyID, brokerID)
}

func (s stubPropertyStore) ListActive(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error) {
	if s.listActiveFn == nil {
		return nil, nil
	}
	return s.listActiveFn(ctx, brokerID, limit, offset)
}

func (s stubPropertyStore) ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error) {
	if s.listByBrokerFn == nil {
		return nil, nil
	}
	return s.listByBrokerFn(ctx, brokerID, limit, offset)
}

type stubRejectionStore struct {
	listByBrokerFn func(ctx context.Context, brokerID string, limit, offset int) ([]models.BrokerRejection, error)
	markNotifiedFn func(ctx context.Context, tx store.Execer, rejectionID string) error
	acknowledgeFn  func(ctx context.Context, tx store.Execer, rejectionID, brokerID string) (int64, error)
}

func (s stubRejectionStore) ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.BrokerRejection, error) {
	if s.listByBrokerFn == nil {
		return nil, nil
	}
	return s.listByBrokerFn(ctx, brokerID, limit, offset)
}

func (s stubRejectionStore) MarkNotified(ctx context.Context, tx store.Execer, rejectionID string) error {
	if s.markNotifiedFn == nil {
		return nil
	}
	return s.markNotifiedFn(ctx, tx, rejectionID)
}

func (s stubRejectionStore) Acknowledge(ctx context.Context, tx store.Execer, rejectionID, brokerID string) (int64, error) {
	if s.acknowledgeFn == nil {
		return 1, nil
	}
	return s.acknowledgeFn(ctx, tx, rejectionID, brokerID)
}

type stubWorkflow struct {
	submitInquiryFn   func(ctx context.Context, input services.InquiryInput) (models.Inquiry, error)
	acceptInquiryFn   func(ctx context.Context, req services.AcceptInquiryRequest) (models.BrokerPost, error)
	rejectInquiryFn   func(ctx context.Context, inquiryID string) error
	withdrawOfferFn   func(ctx context.Context, inquiryID, brokerID string) error
	acceptOfferFn     func(ctx context.Context, inquiryID, customerNotes string) (services.AcceptOfferResult, error)
	submitReviewFn    func(ctx context.Context, dealID string, rating int, commissionAmount int64, notes string) (models.Deal, error)
	deleteDealFn      func(ctx context.Context, dealID string) error
	requestPropertyFn func(ctx context.Context, propertyID string) (services.PropertyRequestResult, error)
}

func (s stubWorkflow) SubmitInquiry(ctx context.Context, input services.InquiryInput) (models.Inquiry, error) {
	if s.submitInquiryFn == nil {
		return models.Inquiry{}, nil
	}
	return s.submitInquiryFn(ctx, input)
}

func (s stubWorkflow) AcceptInquiry(ctx context.Context, req services.AcceptInquiryRequest) (models.BrokerPost, error) {
	if s.acceptInquiryFn == nil {
		return models.BrokerPost{}, nil
	}
	return s.acceptInquiryFn(ctx, req)
}

func (s stubWorkflow) RejectInquiry(ctx context.Context, inquiryID string) error {
	if s.rejectInquiryFn == nil {
		return nil
	}
	return s.rejectInquiryFn(ctx, inquiryID)
}

func (s stubWorkflow) WithdrawOffer(ctx context.Context, inquiryID, brokerID string) error {
	if s.withdrawOfferFn == nil {
		return nil
	}
	return s.withdrawOfferFn(ctx, inquiryID, brokerID)
}

func (s stubWorkflow) AcceptOffer(ctx context.Context, inquiryID, customerNotes string) (services.AcceptOfferResult, error) {
	if s.acceptOfferFn == nil {
		return services.AcceptOfferResult{}, nil
	}
	return s.acceptOfferFn(ctx, inquiryID, customerNotes)
}

func (s stubWorkflow) SubmitReview(ctx context.Context, dealID string, rating int, commissionAmount int64, notes string) (models.Deal, error) {
	if s.submitReviewFn == nil {
		return models.Deal{}, nil
	}
	return s.submitReviewFn(ctx, dealID, rating, commissionAmount, notes)
}

func (s stubWorkflow) DeleteDeal(ctx context.Context, dealID string) error {
	if s.deleteDealFn == nil {
		return nil
	}
	return s.deleteDealFn(ctx, dealID)
}

func (s stubWorkflow) RequestProperty(ctx context.Context, propertyID string) (services.PropertyRequestResult, error) {
	if s.requestPropertyFn == nil {
		return services.PropertyRequestResult{}, nil
	}
	return s.requestPropertyFn(ctx, propertyID)
}

type stubBilling struct {
	completePaymentFn func(ctx context.Context, req services.PaymentRequest) (models.PaymentLog, error)
	listPaymentsFn    func(ctx context.Context, brokerID string, limit, offset int) ([]models.PaymentLog, error)
}

func (s stubBilling) CompletePayment(ctx context.Context, req services.PaymentRequest) (models.PaymentLog, error) {
	if s.completePaymentFn == nil {
		return models.PaymentLog{}, nil
	}
	return s.completePaymentFn(ctx, req)
}

func (s stubBilling) ListPayments(ctx context.Context, brokerID string, limit, offset int) ([]models.PaymentLog, error) {
	if s.listPaymentsFn == nil {
		return nil, nil
	}
	return s.listPaymentsFn(ctx, brokerID, limit, offset)
}

type stubMediaStorage struct {
	presignFn func(ctx context.Context, userID, filename, contentType string) (string, string, error)
	deleteFn  func(ctx context.Context, objectURL string) error
}

func (s stubMediaStorage) PresignUpload(ctx context.Context, userID, filename, contentType string) (string, string, error) {
	if s.presignFn == nil {
		return "https://example.com/upload", "https://example.com/media/file", nil
	}
	return s.presignFn(ctx, userID, filename, contentType)
}

func (s stubMediaStorage) Delete(ctx context.Context, objectURL string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, objectURL)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		TrialDays:      30,
	}
}

func newTestHandler(txRunner fakeTxRunner, profiles ProfileStore, inquiries InquiryStore, properties PropertyStore, rejections RejectionStore, workflow WorkflowService, billing BillingService) *Handler {
	return New(txRunner, testConfig(), profiles, inquiries, properties, rejections, workflow, billing, stubMediaStorage{}, websocket.NewHub())
}

func newTestHandlerWithMedia(properties PropertyStore, media MediaStorage) *Handler {
	return New(fakeTxRunner{}, testConfig(), stubProfileStore{}, stubInquiryStore{}, properties, stubRejectionStore{}, stubWorkflow{}, stubBilling{}, media, websocket.NewHub())
}

// withIdentity simulates the auth middleware having already run.
func withIdentity(req *http.Request, userID, userType string) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), userID, userType))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func testToken(t *testing.T, userID, userType string) string {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, userType, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func stringPtr(value string) *string {
	return &value
}
