package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"brokerage/internal/db"
	"brokerage/internal/models"
	"brokerage/internal/store"
	"brokerage/internal/validator"
	"brokerage/internal/websocket"
)

var (
	ErrInquiryNotFound    = errors.New("inquiry not found")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrDealNotFound       = errors.New("deal not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrAlreadyAccepted    = errors.New("inquiry already has an offer")
	ErrDealExists         = errors.New("a deal already exists for this inquiry")
	ErrNotOfferOwner      = errors.New("offer belongs to a different broker")
	ErrMissingBrokerName  = errors.New("broker name is required")
	ErrInvalidCommission  = errors.New("commission must be between 0 and 100")
	ErrNumbersExhausted   = errors.New("could not allocate a unique registration number")
)

const registrationAttempts = 50

type InquiryStore interface {
	Create(ctx context.Context, tx store.Execer, inquiry models.Inquiry) error
	GetByID(ctx context.Context, inquiryID string) (models.Inquiry, error)
	Delete(ctx context.Context, tx store.Execer, inquiryID string) (int64, error)
}

type BrokerPostStore interface {
	Create(ctx context.Context, tx store.Execer, post models.BrokerPost) error
	GetByInquiry(ctx context.Context, inquiryID string) (models.BrokerPost, error)
	DeleteByInquiry(ctx context.Context, tx store.Execer, inquiryID string) (int64, error)
}

type DealStore interface {
	Create(ctx context.Context, tx store.Execer, deal models.Deal) error
	GetByID(ctx context.Context, dealID string) (models.Deal, error)
	GetByInquiry(ctx context.Context, inquiryID string) (models.Deal, error)
	SetReview(ctx context.Context, tx store.Execer, dealID string, rating int, commissionAmount int64, notes string, reviewedAt time.Time) error
	DeleteByInquiry(ctx context.Context, tx store.Execer, inquiryID string) (int64, error)
}

type RegistrationStore interface {
	Create(ctx context.Context, tx store.Execer, registration models.BrokerRegistration) error
	GetByBroker(ctx context.Context, brokerID string) (models.BrokerRegistration, error)
	NumberExists(ctx context.Context, number string) (bool, error)
}

type RejectionStore interface {
	Create(ctx context.Context, tx store.Execer, rejection models.BrokerRejection) error
}

type PropertyStore interface {
	GetByID(ctx context.Context, propertyID string) (models.Property, error)
}

type ProfileStore interface {
	GetByID(ctx context.Context, userID string) (models.UserProfile, error)
}

type RejectionHub interface {
	BroadcastRejection(brokerID string, notice websocket.RejectionNotice)
}

// WorkflowService owns the inquiry -> offer -> deal lifecycle. Every
// multi-row change runs inside one transaction; the one-offer-per-inquiry
// and one-deal-per-inquiry invariants are backed by unique constraints, so
// a concurrent double accept loses with a 23505 rather than a silent
// duplicate.
type WorkflowService struct {
	txRunner      db.TxRunner
	inquiries     InquiryStore
	posts         BrokerPostStore
	deals         DealStore
	registrations RegistrationStore
	rejections    RejectionStore
	properties    PropertyStore
	profiles      ProfileStore
	hub           RejectionHub

	interviewLead     time.Duration
	defaultCommission decimal.Decimal
}

func NewWorkflowService(txRunner db.TxRunner, inquiries InquiryStore, posts BrokerPostStore, deals DealStore, registrations RegistrationStore, rejections RejectionStore, properties PropertyStore, profiles ProfileStore, hub RejectionHub, interviewLead time.Duration, defaultCommission string) *WorkflowService {
	commission, err := decimal.NewFromString(defaultCommission)
	if err != nil || commission.LessThanOrEqual(decimal.Zero) {
		commission = decimal.NewFromInt(5)
	}
	return &WorkflowService{
		txRunner:          txRunner,
		inquiries:         inquiries,
		posts:             posts,
		deals:             deals,
		registrations:     registrations,
		rejections:        rejections,
		properties:        properties,
		profiles:          profiles,
		hub:               hub,
		interviewLead:     interviewLead,
		defaultCommission: commission,
	}
}

type InquiryInput struct {
	TransactionType string
	City            string
	Area            string
	PropertyType    string
	Bedrooms        *int
	Bathrooms       *int
	MinPrice        *int64
	MaxPrice        *int64
	MinSize         *int
	MaxSize         *int
	Furnished       bool
}

func (s *WorkflowService) SubmitInquiry(ctx context.Context, input InquiryInput) (models.Inquiry, error) {
	if input.TransactionType == "" {
		input.TransactionType = models.TransactionRent
	}
	if err := validator.ValidateTransactionType(input.TransactionType); err != nil {
		return models.Inquiry{}, err
	}
	inquiry := models.Inquiry{
		ID:              uuid.NewString(),
		TransactionType: input.TransactionType,
		City:            input.City,
		Area:            input.Area,
		PropertyType:    input.PropertyType,
		Bedrooms:        input.Bedrooms,
		Bathrooms:       input.Bathrooms,
		MinPrice:        input.MinPrice,
		MaxPrice:        input.MaxPrice,
		MinSize:         input.MinSize,
		MaxSize:         input.MaxSize,
		Furnished:       input.Furnished,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.inquiries.Create(ctx, tx, inquiry)
	})
	if err != nil {
		return models.Inquiry{}, err
	}
	return inquiry, nil
}

type AcceptInquiryRequest struct {
	InquiryID  string
	Broker     models.UserProfile
	Commission string
	Notes      string
	Media      []string
}

// AcceptInquiry creates the broker's offer against an inquiry. At most one
// offer per inquiry: the pre-check gives a clean error on the common path
// and UNIQUE(inquiry_id) settles the race.
func (s *WorkflowService) AcceptInquiry(ctx context.Context, req AcceptInquiryRequest) (models.BrokerPost, error) {
	if req.Broker.FullName == "" {
		return models.BrokerPost{}, ErrMissingBrokerName
	}
	commission, err := parseCommission(req.Commission)
	if err != nil {
		return models.BrokerPost{}, err
	}
	if _, err := s.inquiries.GetByID(ctx, req.InquiryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BrokerPost{}, ErrInquiryNotFound
		}
		return models.BrokerPost{}, err
	}
	if _, err := s.posts.GetByInquiry(ctx, req.InquiryID); err == nil {
		return models.BrokerPost{}, ErrAlreadyAccepted
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.BrokerPost{}, err
	}

	brokerID := req.Broker.ID
	post := models.BrokerPost{
		ID:          uuid.NewString(),
		InquiryID:   req.InquiryID,
		BrokerID:    &brokerID,
		BrokerName:  req.Broker.FullName,
		BrokerPhone: req.Broker.Phone,
		Commission:  commission.String(),
		Notes:       req.Notes,
		Media:       encodeMedia(req.Media),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.posts.Create(ctx, tx, post)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.BrokerPost{}, ErrAlreadyAccepted
		}
		return models.BrokerPost{}, err
	}
	return post, nil
}

// RejectInquiry is the customer-side rejection: snapshot a rejection notice
// for the broker (if an offer exists), then tear the whole inquiry down.
func (s *WorkflowService) RejectInquiry(ctx context.Context, inquiryID string) error {
	inquiry, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInquiryNotFound
		}
		return err
	}
	post, err := s.posts.GetByInquiry(ctx, inquiryID)
	hasOffer := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var rejection models.BrokerRejection
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if hasOffer {
			rejection = models.BrokerRejection{
				ID:           uuid.NewString(),
				BrokerID:     post.BrokerID,
				BrokerName:   post.BrokerName,
				InquiryID:    inquiry.ID,
				City:         inquiry.City,
				Area:         inquiry.Area,
				PropertyType: inquiry.PropertyType,
			}
			if err := s.rejections.Create(ctx, tx, rejection); err != nil {
				return err
			}
		}
		return s.teardownInquiry(ctx, tx, inquiryID)
	})
	if err != nil {
		return err
	}
	if hasOffer && post.BrokerID != nil {
		s.hub.BroadcastRejection(*post.BrokerID, websocket.RejectionNotice{
			RejectionID: rejection.ID,
			InquiryID:   inquiry.ID,
			City:        inquiry.City,
			Area:        inquiry.Area,
			Message:     "your offer was rejected",
		})
	}
	return nil
}

// WithdrawOffer is the broker-side retraction. Once a deal exists the offer
// can no longer be withdrawn; the deal must be deleted instead.
func (s *WorkflowService) WithdrawOffer(ctx context.Context, inquiryID, brokerID string) error {
	post, err := s.posts.GetByInquiry(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOfferNotFound
		}
		return err
	}
	if post.BrokerID == nil || *post.BrokerID != brokerID {
		return ErrNotOfferOwner
	}
	if _, err := s.deals.GetByInquiry(ctx, inquiryID); err == nil {
		return ErrDealExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.teardownInquiry(ctx, tx, inquiryID)
	})
}

type AcceptOfferResult struct {
	Deal               models.Deal
	RegistrationNumber string
}

// AcceptOffer forms the deal. The broker registration number is resolved
// through the offer's broker id; offers whose broker account has since been
// deleted get no number.
func (s *WorkflowService) AcceptOffer(ctx context.Context, inquiryID, customerNotes string) (AcceptOfferResult, error) {
	if _, err := s.inquiries.GetByID(ctx, inquiryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AcceptOfferResult{}, ErrInquiryNotFound
		}
		return AcceptOfferResult{}, err
	}
	post, err := s.posts.GetByInquiry(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AcceptOfferResult{}, ErrOfferNotFound
		}
		return AcceptOfferResult{}, err
	}
	if _, err := s.deals.GetByInquiry(ctx, inquiryID); err == nil {
		return AcceptOfferResult{}, ErrDealExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return AcceptOfferResult{}, err
	}

	now := time.Now()
	deal := models.Deal{
		ID:                   uuid.NewString(),
		InquiryID:            inquiryID,
		BrokerPostID:         post.ID,
		Status:               models.DealStatusPending,
		InterviewScheduledAt: now.Add(s.interviewLead),
		CustomerNotes:        customerNotes,
	}
	var registrationNumber string
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.deals.Create(ctx, tx, deal); err != nil {
			return err
		}
		if post.BrokerID == nil {
			return nil
		}
		number, err := s.ensureRegistration(ctx, tx, *post.BrokerID, now)
		if err != nil {
			return err
		}
		registrationNumber = number
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return AcceptOfferResult{}, ErrDealExists
		}
		return AcceptOfferResult{}, err
	}
	return AcceptOfferResult{Deal: deal, RegistrationNumber: registrationNumber}, nil
}

func (s *WorkflowService) SubmitReview(ctx context.Context, dealID string, rating int, commissionAmount int64, notes string) (models.Deal, error) {
	if err := validator.ValidateRating(rating); err != nil {
		return models.Deal{}, err
	}
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Deal{}, ErrDealNotFound
		}
		return models.Deal{}, err
	}
	now := time.Now()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.deals.SetReview(ctx, tx, dealID, rating, commissionAmount, notes, now)
	})
	if err != nil {
		return models.Deal{}, err
	}
	deal.Status = models.DealStatusCompleted
	deal.BrokerRating = &rating
	deal.CommissionAmount = &commissionAmount
	deal.RatingNotes = notes
	deal.UpdatedAt = now
	return deal, nil
}

// DeleteDeal tears down the deal's entire inquiry chain, equivalent to a
// post-acceptance rejection.
func (s *WorkflowService) DeleteDeal(ctx context.Context, dealID string) error {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDealNotFound
		}
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.teardownInquiry(ctx, tx, deal.InquiryID)
	})
}

// teardownInquiry deletes deal, offer, and inquiry in a fixed order inside
// the caller's transaction. Every rejection path funnels through here.
func (s *WorkflowService) teardownInquiry(ctx context.Context, tx *sqlx.Tx, inquiryID string) error {
	if _, err := s.deals.DeleteByInquiry(ctx, tx, inquiryID); err != nil {
		return err
	}
	if _, err := s.posts.DeleteByInquiry(ctx, tx, inquiryID); err != nil {
		return err
	}
	rows, err := s.inquiries.Delete(ctx, tx, inquiryID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

type PropertyRequestResult struct {
	Inquiry models.Inquiry
	Post    models.BrokerPost
}

// RequestProperty lets a customer ask for a listed property directly. It
// synthesizes the inquiry and the broker's offer in one step, seeded from
// the property's own attributes and the default commission.
func (s *WorkflowService) RequestProperty(ctx context.Context, propertyID string) (PropertyRequestResult, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PropertyRequestResult{}, ErrPropertyNotFound
		}
		return PropertyRequestResult{}, err
	}
	if !property.IsActive {
		return PropertyRequestResult{}, ErrPropertyNotFound
	}
	broker, err := s.profiles.GetByID(ctx, property.BrokerID)
	if err != nil {
		return PropertyRequestResult{}, err
	}

	inquiry := models.Inquiry{
		ID:              uuid.NewString(),
		TransactionType: property.TransactionType,
		City:            property.City,
		Area:            property.Area,
		PropertyType:    property.PropertyType,
		Bedrooms:        property.Bedrooms,
		Bathrooms:       property.Bathrooms,
		MinPrice:        property.Price,
		MaxPrice:        property.Price,
		MinSize:         property.Size,
		MaxSize:         property.Size,
		Furnished:       property.Furnished,
	}
	brokerID := property.BrokerID
	post := models.BrokerPost{
		ID:          uuid.NewString(),
		InquiryID:   inquiry.ID,
		BrokerID:    &brokerID,
		BrokerName:  broker.FullName,
		BrokerPhone: broker.Phone,
		Commission:  s.defaultCommission.String(),
		Notes:       fmt.Sprintf("direct request for property %s", property.ID),
		Media:       property.Media,
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.inquiries.Create(ctx, tx, inquiry); err != nil {
			return err
		}
		return s.posts.Create(ctx, tx, post)
	})
	if err != nil {
		return PropertyRequestResult{}, err
	}
	return PropertyRequestResult{Inquiry: inquiry, Post: post}, nil
}

// ensureRegistration returns the broker's registration number, allocating a
// BR-<year>-<6 digits> one on first use. Collisions are retried against the
// stored set; the space is a million numbers per year so exhaustion within
// the attempt bound means something is very wrong.
func (s *WorkflowService) ensureRegistration(ctx context.Context, tx *sqlx.Tx, brokerID string, now time.Time) (string, error) {
	existing, err := s.registrations.GetByBroker(ctx, brokerID)
	if err == nil {
		return existing.RegistrationNumber, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	for attempt := 0; attempt < registrationAttempts; attempt++ {
		number := fmt.Sprintf("BR-%d-%06d", now.Year(), rand.Intn(1000000))
		exists, err := s.registrations.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		registration := models.BrokerRegistration{
			ID:                 uuid.NewString(),
			BrokerID:           brokerID,
			RegistrationNumber: number,
			RegistrationDate:   now,
			IsActive:           true,
		}
		if err := s.registrations.Create(ctx, tx, registration); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return "", err
		}
		return number, nil
	}
	return "", ErrNumbersExhausted
}

func parseCommission(raw string) (decimal.Decimal, error) {
	commission, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidCommission
	}
	if commission.LessThanOrEqual(decimal.Zero) || commission.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrInvalidCommission
	}
	return commission, nil
}

func encodeMedia(media []string) string {
	if len(media) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(media)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// DecodeMedia is the inverse of the stored media representation.
func DecodeMedia(raw string) []string {
	if raw == "" {
		return nil
	}
	var media []string
	if err := json.Unmarshal([]byte(raw), &media); err != nil {
		return nil
	}
	return media
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
