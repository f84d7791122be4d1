package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/store"
	"brokerage/internal/validator"
	"brokerage/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type memInquiryStore struct {
	rows map[string]models.Inquiry
}

func newMemInquiryStore() *memInquiryStore {
	return &memInquiryStore{rows: make(map[string]models.Inquiry)}
}

func (s *memInquiryStore) Create(_ context.Context, _ store.Execer, inquiry models.Inquiry) error {
	s.rows[inquiry.ID] = inquiry
	return nil
}

func (s *memInquiryStore) GetByID(_ context.Context, inquiryID string) (models.Inquiry, error) {
	inquiry, ok := s.rows[inquiryID]
	if !ok {
		return models.Inquiry{}, sql.ErrNoRows
	}
	return inquiry, nil
}

func (s *memInquiryStore) Delete(_ context.Context, _ store.Execer, inquiryID string) (int64, error) {
	if _, ok := s.rows[inquiryID]; !ok {
		return 0, nil
	}
	delete(s.rows, inquiryID)
	return 1, nil
}

type memBrokerPostStore struct {
	byInquiry map[string]models.BrokerPost
}

func newMemBrokerPostStore() *memBrokerPostStore {
	return &memBrokerPostStore{byInquiry: make(map[string]models.BrokerPost)}
}

func (s *memBrokerPostStore) Create(_ context.Context, _ store.Execer, post models.BrokerPost) error {
	if _, ok := s.byInquiry[post.InquiryID]; ok {
		return errDuplicate
	}
	s.byInquiry[post.InquiryID] = post
	return nil
}

func (s *memBrokerPostStore) GetByInquiry(_ context.Context, inquiryID string) (models.BrokerPost, error) {
	post, ok := s.byInquiry[inquiryID]
	if !ok {
		return models.BrokerPost{}, sql.ErrNoRows
	}
	return post, nil
}

func (s *memBrokerPostStore) DeleteByInquiry(_ context.Context, _ store.Execer, inquiryID string) (int64, error) {
	if _, ok := s.byInquiry[inquiryID]; !ok {
		return 0, nil
	}
	delete(s.byInquiry, inquiryID)
	return 1, nil
}

type memDealStore struct {
	byID      map[string]models.Deal
	byInquiry map[string]string
}

func newMemDealStore() *memDealStore {
	return &memDealStore{byID: make(map[string]models.Deal), byInquiry: make(map[string]string)}
}

func (s *memDealStore) Create(_ context.Context, _ store.Execer, deal models.Deal) error {
	if _, ok := s.byInquiry[deal.InquiryID]; ok {
		return errDuplicate
	}
	s.byID[deal.ID] = deal
	s.byInquiry[deal.InquiryID] = deal.ID
	return nil
}

func (s *memDealStore) GetByID(_ context.Context, dealID string) (models.Deal, error) {
	deal, ok := s.byID[dealID]
	if !ok {
		return models.Deal{}, sql.ErrNoRows
	}
	return deal, nil
}

func (s *memDealStore) GetByInquiry(_ context.Context, inquiryID string) (models.Deal, error) {
	dealID, ok := s.byInquiry[inquiryID]
	if !ok {
		return models.Deal{}, sql.ErrNoRows
	}
	return s.byID[dealID], nil
}

func (s *memDealStore) SetReview(_ context.Context, _ store.Execer, dealID string, rating int, commissionAmount int64, notes string, reviewedAt time.Time) error {
	deal, ok := s.byID[dealID]
	if !ok {
		return sql.ErrNoRows
	}
	deal.Status = models.DealStatusCompleted
	deal.BrokerRating = &rating
	deal.CommissionAmount = &commissionAmount
	deal.RatingNotes = notes
	deal.UpdatedAt = reviewedAt
	s.byID[dealID] = deal
	return nil
}

func (s *memDealStore) DeleteByInquiry(_ context.Context, _ store.Execer, inquiryID string) (int64, error) {
	dealID, ok := s.byInquiry[inquiryID]
	if !ok {
		return 0, nil
	}
	delete(s.byID, dealID)
	delete(s.byInquiry, inquiryID)
	return 1, nil
}

type memRegistrationStore struct {
	byBroker map[string]models.BrokerRegistration
	numbers  map[string]bool
}

func newMemRegistrationStore() *memRegistrationStore {
	return &memRegistrationStore{
		byBroker: make(map[string]models.BrokerRegistration),
		numbers:  make(map[string]bool),
	}
}

func (s *memRegistrationStore) Create(_ context.Context, _ store.Execer, registration models.BrokerRegistration) error {
	if s.numbers[registration.RegistrationNumber] {
		return errDuplicate
	}
	s.byBroker[registration.BrokerID] = registration
	s.numbers[registration.RegistrationNumber] = true
	return nil
}

func (s *memRegistrationStore) GetByBroker(_ context.Context, brokerID string) (models.BrokerRegistration, error) {
	registration, ok := s.byBroker[brokerID]
	if !ok {
		return models.BrokerRegistration{}, sql.ErrNoRows
	}
	return registration, nil
}

func (s *memRegistrationStore) NumberExists(_ context.Context, number string) (bool, error) {
	return s.numbers[number], nil
}

type memRejectionStore struct {
	rows []models.BrokerRejection
}

func (s *memRejectionStore) Create(_ context.Context, _ store.Execer, rejection models.BrokerRejection) error {
	s.rows = append(s.rows, rejection)
	return nil
}

type memPropertyStore struct {
	rows map[string]models.Property
}

func (s *memPropertyStore) GetByID(_ context.Context, propertyID string) (models.Property, error) {
	property, ok := s.rows[propertyID]
	if !ok {
		return models.Property{}, sql.ErrNoRows
	}
	return property, nil
}

type memProfileStore struct {
	rows map[string]models.UserProfile
}

func (s *memProfileStore) GetByID(_ context.Context, userID string) (models.UserProfile, error) {
	profile, ok := s.rows[userID]
	if !ok {
		return models.UserProfile{}, sql.ErrNoRows
	}
	return profile, nil
}

type captureHub struct {
	notices map[string][]websocket.RejectionNotice
}

func newCaptureHub() *captureHub {
	return &captureHub{notices: make(map[string][]websocket.RejectionNotice)}
}

func (h *captureHub) BroadcastRejection(brokerID string, notice websocket.RejectionNotice) {
	h.notices[brokerID] = append(h.notices[brokerID], notice)
}

var errDuplicate error = &pq.Error{Code: "23505"}

type workflowFixture struct {
	service       *WorkflowService
	inquiries     *memInquiryStore
	posts         *memBrokerPostStore
	deals         *memDealStore
	registrations *memRegistrationStore
	rejections    *memRejectionStore
	properties    *memPropertyStore
	profiles      *memProfileStore
	hub           *captureHub
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		inquiries:     newMemInquiryStore(),
		posts:         newMemBrokerPostStore(),
		deals:         newMemDealStore(),
		registrations: newMemRegistrationStore(),
		rejections:    &memRejectionStore{},
		properties:    &memPropertyStore{rows: make(map[string]models.Property)},
		profiles:      &memProfileStore{rows: make(map[string]models.UserProfile)},
		hub:           newCaptureHub(),
	}
	f.service = NewWorkflowService(fakeTxRunner{}, f.inquiries, f.posts, f.deals, f.registrations, f.rejections, f.properties, f.profiles, f.hub, time.Minute, "5")
	return f
}

func testBroker(id string) models.UserProfile {
	return models.UserProfile{
		ID:       id,
		UserType: models.UserTypeBroker,
		FullName: "Ali Hassan",
		Phone:    "+20 100 123 4567",
	}
}

func (f *workflowFixture) submitInquiry(t *testing.T) models.Inquiry {
	t.Helper()
	inquiry, err := f.service.SubmitInquiry(context.Background(), InquiryInput{
		TransactionType: models.TransactionRent,
		City:            "Cairo",
		Area:            "Maadi",
		PropertyType:    "apartment",
	})
	if err != nil {
		t.Fatalf("submit inquiry: %v", err)
	}
	return inquiry
}

func (f *workflowFixture) acceptInquiry(t *testing.T, inquiryID, brokerID string) models.BrokerPost {
	t.Helper()
	post, err := f.service.AcceptInquiry(context.Background(), AcceptInquiryRequest{
		InquiryID:  inquiryID,
		Broker:     testBroker(brokerID),
		Commission: "5",
		Notes:      "available this week",
	})
	if err != nil {
		t.Fatalf("accept inquiry: %v", err)
	}
	return post
}

func TestSubmitInquiryDefaultsToRent(t *testing.T) {
	f := newWorkflowFixture()
	inquiry, err := f.service.SubmitInquiry(context.Background(), InquiryInput{City: "Cairo"})
	if err != nil {
		t.Fatalf("submit inquiry: %v", err)
	}
	if inquiry.TransactionType != models.TransactionRent {
		t.Fatalf("expected rent default, got %s", inquiry.TransactionType)
	}
	if _, ok := f.inquiries.rows[inquiry.ID]; !ok {
		t.Fatalf("inquiry not persisted")
	}
}

func TestSubmitInquiryInvalidTransactionType(t *testing.T) {
	f := newWorkflowFixture()
	_, err := f.service.SubmitInquiry(context.Background(), InquiryInput{TransactionType: "lease"})
	if !errors.Is(err, validator.ErrInvalidTransactionType) {
		t.Fatalf("expected transaction type error, got %v", err)
	}
}

func TestAcceptInquirySnapshotsBroker(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	post := f.acceptInquiry(t, inquiry.ID, "broker-1")
	if post.BrokerID == nil || *post.BrokerID != "broker-1" {
		t.Fatalf("broker id not linked")
	}
	if post.BrokerName != "Ali Hassan" || post.BrokerPhone != "+20 100 123 4567" {
		t.Fatalf("broker snapshot missing: %+v", post)
	}
	if post.Commission != "5" {
		t.Fatalf("unexpected commission: %s", post.Commission)
	}
}

func TestAcceptInquiryOnlyOnce(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")

	_, err := f.service.AcceptInquiry(context.Background(), AcceptInquiryRequest{
		InquiryID:  inquiry.ID,
		Broker:     testBroker("broker-2"),
		Commission: "4",
	})
	if !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("expected ErrAlreadyAccepted, got %v", err)
	}
}

func TestAcceptInquiryValidation(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)

	broker := testBroker("broker-1")
	broker.FullName = ""
	if _, err := f.service.AcceptInquiry(context.Background(), AcceptInquiryRequest{
		InquiryID: inquiry.ID, Broker: broker, Commission: "5",
	}); !errors.Is(err, ErrMissingBrokerName) {
		t.Fatalf("expected ErrMissingBrokerName, got %v", err)
	}

	for _, commission := range []string{"0", "-1", "101", "abc", ""} {
		_, err := f.service.AcceptInquiry(context.Background(), AcceptInquiryRequest{
			InquiryID: inquiry.ID, Broker: testBroker("broker-1"), Commission: commission,
		})
		if !errors.Is(err, ErrInvalidCommission) {
			t.Fatalf("expected ErrInvalidCommission for %q, got %v", commission, err)
		}
	}

	if _, err := f.service.AcceptInquiry(context.Background(), AcceptInquiryRequest{
		InquiryID: "missing", Broker: testBroker("broker-1"), Commission: "5",
	}); !errors.Is(err, ErrInquiryNotFound) {
		t.Fatalf("expected ErrInquiryNotFound, got %v", err)
	}
}

func TestRejectInquiryTearsDownAndNotifies(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")

	if err := f.service.RejectInquiry(context.Background(), inquiry.ID); err != nil {
		t.Fatalf("reject inquiry: %v", err)
	}
	if len(f.inquiries.rows) != 0 || len(f.posts.byInquiry) != 0 {
		t.Fatalf("inquiry chain not torn down")
	}
	if len(f.rejections.rows) != 1 {
		t.Fatalf("expected one rejection snapshot, got %d", len(f.rejections.rows))
	}
	rejection := f.rejections.rows[0]
	if rejection.City != "Cairo" || rejection.BrokerName != "Ali Hassan" {
		t.Fatalf("rejection snapshot incomplete: %+v", rejection)
	}
	notices := f.hub.notices["broker-1"]
	if len(notices) != 1 || notices[0].InquiryID != inquiry.ID {
		t.Fatalf("expected one broadcast to broker-1, got %+v", notices)
	}
}

func TestRejectInquiryWithoutOffer(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)

	if err := f.service.RejectInquiry(context.Background(), inquiry.ID); err != nil {
		t.Fatalf("reject inquiry: %v", err)
	}
	if len(f.rejections.rows) != 0 {
		t.Fatalf("no rejection snapshot expected without an offer")
	}
	if len(f.hub.notices) != 0 {
		t.Fatalf("no broadcast expected without an offer")
	}
	if len(f.inquiries.rows) != 0 {
		t.Fatalf("inquiry should be deleted")
	}
}

func TestRejectInquiryMissing(t *testing.T) {
	f := newWorkflowFixture()
	if err := f.service.RejectInquiry(context.Background(), "missing"); !errors.Is(err, ErrInquiryNotFound) {
		t.Fatalf("expected ErrInquiryNotFound, got %v", err)
	}
}

func TestWithdrawOffer(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")

	if err := f.service.WithdrawOffer(context.Background(), inquiry.ID, "broker-2"); !errors.Is(err, ErrNotOfferOwner) {
		t.Fatalf("expected ErrNotOfferOwner, got %v", err)
	}
	if err := f.service.WithdrawOffer(context.Background(), inquiry.ID, "broker-1"); err != nil {
		t.Fatalf("withdraw offer: %v", err)
	}
	if len(f.inquiries.rows) != 0 || len(f.posts.byInquiry) != 0 {
		t.Fatalf("withdraw must tear down the inquiry chain")
	}
	if len(f.rejections.rows) != 0 {
		t.Fatalf("broker-side withdrawal must not create a rejection notice")
	}
}

func TestWithdrawOfferBlockedByDeal(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")
	if _, err := f.service.AcceptOffer(context.Background(), inquiry.ID, ""); err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	if err := f.service.WithdrawOffer(context.Background(), inquiry.ID, "broker-1"); !errors.Is(err, ErrDealExists) {
		t.Fatalf("expected ErrDealExists, got %v", err)
	}
}

func TestAcceptOfferFormsDealAndRegistration(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")

	before := time.Now()
	result, err := f.service.AcceptOffer(context.Background(), inquiry.ID, "call after 6pm")
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	if result.Deal.Status != models.DealStatusPending {
		t.Fatalf("expected pending deal, got %s", result.Deal.Status)
	}
	if result.Deal.CustomerNotes != "call after 6pm" {
		t.Fatalf("customer notes not carried through")
	}
	lead := result.Deal.InterviewScheduledAt.Sub(before)
	if lead < 55*time.Second || lead > 65*time.Second {
		t.Fatalf("interview not scheduled one minute out: %v", lead)
	}
	if !regexp.MustCompile(`^BR-\d{4}-\d{6}$`).MatchString(result.RegistrationNumber) {
		t.Fatalf("unexpected registration number: %s", result.RegistrationNumber)
	}

	if _, err := f.service.AcceptOffer(context.Background(), inquiry.ID, ""); !errors.Is(err, ErrDealExists) {
		t.Fatalf("expected ErrDealExists on second accept, got %v", err)
	}
}

func TestAcceptOfferWithoutOffer(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	if _, err := f.service.AcceptOffer(context.Background(), inquiry.ID, ""); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestAcceptOfferReusesRegistrationNumber(t *testing.T) {
	f := newWorkflowFixture()

	first := f.submitInquiry(t)
	f.acceptInquiry(t, first.ID, "broker-1")
	one, err := f.service.AcceptOffer(context.Background(), first.ID, "")
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	second := f.submitInquiry(t)
	f.acceptInquiry(t, second.ID, "broker-1")
	two, err := f.service.AcceptOffer(context.Background(), second.ID, "")
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	if one.RegistrationNumber != two.RegistrationNumber {
		t.Fatalf("same broker must keep one registration number: %s vs %s", one.RegistrationNumber, two.RegistrationNumber)
	}
}

func TestAcceptOfferDetachedBrokerGetsNoNumber(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	post := f.acceptInquiry(t, inquiry.ID, "broker-1")

	// Simulate the broker account being deleted after the offer was made.
	post.BrokerID = nil
	f.posts.byInquiry[inquiry.ID] = post

	result, err := f.service.AcceptOffer(context.Background(), inquiry.ID, "")
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	if result.RegistrationNumber != "" {
		t.Fatalf("detached broker must not get a registration number")
	}
}

func TestEnsureRegistrationNumbersNeverCollide(t *testing.T) {
	f := newWorkflowFixture()
	now := time.Now()
	pattern := regexp.MustCompile(`^BR-\d{4}-\d{6}$`)
	seen := make(map[string]string, 250)
	for i := 0; i < 250; i++ {
		brokerID := fmt.Sprintf("broker-%d", i)
		number, err := f.service.ensureRegistration(context.Background(), nil, brokerID, now)
		if err != nil {
			t.Fatalf("ensure registration for %s: %v", brokerID, err)
		}
		if !pattern.MatchString(number) {
			t.Fatalf("malformed registration number %q for %s", number, brokerID)
		}
		if holder, taken := seen[number]; taken {
			t.Fatalf("number %s issued to both %s and %s", number, holder, brokerID)
		}
		seen[number] = brokerID
	}
}

// collideOnceRegistrationStore passes the pre-check but fails the first
// insert with a unique violation, the window where a concurrent allocation
// can land between NumberExists and Create.
type collideOnceRegistrationStore struct {
	*memRegistrationStore
	collisions int
}

func (s *collideOnceRegistrationStore) Create(ctx context.Context, tx store.Execer, registration models.BrokerRegistration) error {
	if s.collisions == 0 {
		s.collisions++
		return errDuplicate
	}
	return s.memRegistrationStore.Create(ctx, tx, registration)
}

func TestEnsureRegistrationRetriesAfterCollision(t *testing.T) {
	f := newWorkflowFixture()
	registrations := &collideOnceRegistrationStore{memRegistrationStore: newMemRegistrationStore()}
	service := NewWorkflowService(fakeTxRunner{}, f.inquiries, f.posts, f.deals, registrations, f.rejections, f.properties, f.profiles, f.hub, time.Minute, "5")

	number, err := service.ensureRegistration(context.Background(), nil, "broker-1", time.Now())
	if err != nil {
		t.Fatalf("ensure registration: %v", err)
	}
	if registrations.collisions != 1 {
		t.Fatalf("expected exactly one collision, got %d", registrations.collisions)
	}
	if number == "" || !registrations.numbers[number] {
		t.Fatalf("fresh number not persisted after collision: %q", number)
	}
	stored, err := registrations.GetByBroker(context.Background(), "broker-1")
	if err != nil || stored.RegistrationNumber != number {
		t.Fatalf("broker not linked to retried number: %+v, %v", stored, err)
	}
}

type takenRegistrationStore struct{}

func (takenRegistrationStore) Create(context.Context, store.Execer, models.BrokerRegistration) error {
	return errDuplicate
}

func (takenRegistrationStore) GetByBroker(context.Context, string) (models.BrokerRegistration, error) {
	return models.BrokerRegistration{}, sql.ErrNoRows
}

func (takenRegistrationStore) NumberExists(context.Context, string) (bool, error) {
	return true, nil
}

func TestEnsureRegistrationExhaustion(t *testing.T) {
	f := newWorkflowFixture()
	service := NewWorkflowService(fakeTxRunner{}, f.inquiries, f.posts, f.deals, takenRegistrationStore{}, f.rejections, f.properties, f.profiles, f.hub, time.Minute, "5")
	_, err := service.ensureRegistration(context.Background(), nil, "broker-1", time.Now())
	if !errors.Is(err, ErrNumbersExhausted) {
		t.Fatalf("expected ErrNumbersExhausted, got %v", err)
	}
}

func TestSubmitReviewCompletesDeal(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")
	result, err := f.service.AcceptOffer(context.Background(), inquiry.ID, "call after 6pm")
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	deal, err := f.service.SubmitReview(context.Background(), result.Deal.ID, 4, 250000, "smooth deal")
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if deal.Status != models.DealStatusCompleted {
		t.Fatalf("expected completed deal, got %s", deal.Status)
	}
	stored, _ := f.deals.GetByID(context.Background(), result.Deal.ID)
	if stored.Status != models.DealStatusCompleted || stored.BrokerRating == nil || *stored.BrokerRating != 4 {
		t.Fatalf("review not persisted: %+v", stored)
	}
	if stored.CommissionAmount == nil || *stored.CommissionAmount != 250000 {
		t.Fatalf("commission amount not persisted")
	}
	if stored.RatingNotes != "smooth deal" {
		t.Fatalf("rating notes not persisted: %+v", stored)
	}
	if stored.CustomerNotes != "call after 6pm" {
		t.Fatalf("review must not overwrite acceptance notes: %+v", stored)
	}
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	f := newWorkflowFixture()
	for _, rating := range []int{0, 6, -1} {
		if _, err := f.service.SubmitReview(context.Background(), "deal-1", rating, 0, ""); !errors.Is(err, validator.ErrInvalidRating) {
			t.Fatalf("expected ErrInvalidRating for %d, got %v", rating, err)
		}
	}
	if _, err := f.service.SubmitReview(context.Background(), "missing", 3, 0, ""); !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDeleteDealTearsDownChain(t *testing.T) {
	f := newWorkflowFixture()
	inquiry := f.submitInquiry(t)
	f.acceptInquiry(t, inquiry.ID, "broker-1")
	result, err := f.service.AcceptOffer(context.Background(), inquiry.ID, "")
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	if err := f.service.DeleteDeal(context.Background(), result.Deal.ID); err != nil {
		t.Fatalf("delete deal: %v", err)
	}
	if len(f.deals.byID) != 0 || len(f.posts.byInquiry) != 0 || len(f.inquiries.rows) != 0 {
		t.Fatalf("deal deletion must remove deal, offer, and inquiry")
	}
}

func TestRequestProperty(t *testing.T) {
	f := newWorkflowFixture()
	price := int64(15000)
	f.properties.rows["prop-1"] = models.Property{
		ID:              "prop-1",
		BrokerID:        "broker-1",
		TransactionType: models.TransactionRent,
		City:            "Cairo",
		Area:            "Zamalek",
		PropertyType:    "apartment",
		Price:           &price,
		IsActive:        true,
		Media:           `["https://cdn.example.com/a.jpg"]`,
	}
	f.profiles.rows["broker-1"] = testBroker("broker-1")

	result, err := f.service.RequestProperty(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("request property: %v", err)
	}
	if result.Inquiry.City != "Cairo" || result.Inquiry.MinPrice == nil || *result.Inquiry.MinPrice != price {
		t.Fatalf("inquiry not seeded from property: %+v", result.Inquiry)
	}
	if result.Post.InquiryID != result.Inquiry.ID {
		t.Fatalf("offer not attached to the new inquiry")
	}
	if result.Post.Commission != "5" {
		t.Fatalf("expected default commission, got %s", result.Post.Commission)
	}
	if result.Post.BrokerName != "Ali Hassan" {
		t.Fatalf("broker snapshot missing on synthesized offer")
	}
}

func TestRequestPropertyInactive(t *testing.T) {
	f := newWorkflowFixture()
	f.properties.rows["prop-1"] = models.Property{ID: "prop-1", BrokerID: "broker-1", IsActive: false}

	if _, err := f.service.RequestProperty(context.Background(), "prop-1"); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound for inactive listing, got %v", err)
	}
	if _, err := f.service.RequestProperty(context.Background(), "missing"); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound for missing listing, got %v", err)
	}
}

func TestDecodeMedia(t *testing.T) {
	if got := DecodeMedia(`["a","b"]`); len(got) != 2 || got[0] != "a" {
		t.Fatalf("unexpected decode: %v", got)
	}
	if got := DecodeMedia(""); got != nil {
		t.Fatalf("expected nil for empty input")
	}
	if got := DecodeMedia("not-json"); got != nil {
		t.Fatalf("expected nil for invalid input")
	}
	if !strings.HasPrefix(encodeMedia(nil), "[]") {
		t.Fatalf("empty media must encode to []")
	}
}
