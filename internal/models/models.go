package models

import "time"

const (
	UserTypeUser   = "user"
	UserTypeBroker = "broker"
)

const (
	TransactionRent = "rent"
	TransactionSale = "sale"
)

const (
	DealStatusPending   = "pending"
	DealStatusCompleted = "completed"
)

type UserProfile struct {
	ID             string     `db:"id" json:"id"`
	UserType       string     `db:"user_type" json:"user_type"`
	FullName       string     `db:"full_name" json:"full_name"`
	Email          string     `db:"email" json:"email"`
	Phone          string     `db:"phone" json:"phone"`
	NationalID     string     `db:"national_id" json:"national_id,omitempty"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	LicenseImage   *string    `db:"license_image" json:"license_image,omitempty"`
	HasPaid        bool       `db:"has_paid" json:"has_paid"`
	TrialStartDate *time.Time `db:"trial_start_date" json:"trial_start_date,omitempty"`
	TrialEndDate   *time.Time `db:"trial_end_date" json:"trial_end_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// IsTrialActive reports whether a broker account may use broker features.
// Paid accounts are always active; unpaid accounts are active until their
// trial window closes. Non-broker accounts are never trial-active.
func (u UserProfile) IsTrialActive(now time.Time) bool {
	if u.UserType != UserTypeBroker {
		return false
	}
	if u.HasPaid {
		return true
	}
	return u.TrialEndDate != nil && now.Before(*u.TrialEndDate)
}

type Inquiry struct {
	ID              string    `db:"id" json:"id"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	City            string    `db:"city" json:"city"`
	Area            string    `db:"area" json:"area"`
	PropertyType    string    `db:"property_type" json:"property_type"`
	Bedrooms        *int      `db:"bedrooms" json:"bedrooms,omitempty"`
	Bathrooms       *int      `db:"bathrooms" json:"bathrooms,omitempty"`
	MinPrice        *int64    `db:"min_price" json:"min_price,omitempty"`
	MaxPrice        *int64    `db:"max_price" json:"max_price,omitempty"`
	MinSize         *int      `db:"min_size" json:"min_size,omitempty"`
	MaxSize         *int      `db:"max_size" json:"max_size,omitempty"`
	Furnished       bool      `db:"furnished" json:"furnished"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// BrokerPost is a broker's offer against exactly one inquiry. BrokerID is
// nullable: the name/phone snapshot keeps the offer readable after the
// broker account is deleted.
type BrokerPost struct {
	ID          string    `db:"id" json:"id"`
	InquiryID   string    `db:"inquiry_id" json:"inquiry_id"`
	BrokerID    *string   `db:"broker_id" json:"broker_id,omitempty"`
	BrokerName  string    `db:"broker_name" json:"broker_name"`
	BrokerPhone string    `db:"broker_phone" json:"broker_phone"`
	Commission  string    `db:"commission" json:"commission"`
	Notes       string    `db:"notes" json:"notes"`
	Media       string    `db:"media" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Deal links an accepted offer to its inquiry. CustomerNotes is captured at
// acceptance, RatingNotes at review; the two never overwrite each other.
type Deal struct {
	ID                   string    `db:"id" json:"id"`
	InquiryID            string    `db:"inquiry_id" json:"inquiry_id"`
	BrokerPostID         string    `db:"broker_post_id" json:"broker_post_id"`
	Status               string    `db:"status" json:"status"`
	InterviewScheduledAt time.Time `db:"interview_scheduled_at" json:"interview_scheduled_at"`
	BrokerRating         *int      `db:"broker_rating" json:"broker_rating,omitempty"`
	CommissionAmount     *int64    `db:"commission_amount" json:"commission_amount,omitempty"`
	CommissionPaid       bool      `db:"commission_paid" json:"commission_paid"`
	CustomerNotes        string    `db:"customer_notes" json:"customer_notes"`
	RatingNotes          string    `db:"rating_notes" json:"rating_notes"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

type Property struct {
	ID              string    `db:"id" json:"id"`
	BrokerID        string    `db:"broker_id" json:"broker_id"`
	TransactionType string    `db:"transaction_type" json:"transaction_type"`
	City            string    `db:"city" json:"city"`
	Area            string    `db:"area" json:"area"`
	PropertyType    string    `db:"property_type" json:"property_type"`
	Bedrooms        *int      `db:"bedrooms" json:"bedrooms,omitempty"`
	Bathrooms       *int      `db:"bathrooms" json:"bathrooms,omitempty"`
	Price           *int64    `db:"price" json:"price,omitempty"`
	Size            *int      `db:"size" json:"size,omitempty"`
	Furnished       bool      `db:"furnished" json:"furnished"`
	Notes           string    `db:"notes" json:"notes"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	Media           string    `db:"media" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type BrokerRegistration struct {
	ID                 string    `db:"id" json:"id"`
	BrokerID           string    `db:"broker_id" json:"broker_id"`
	RegistrationNumber string    `db:"registration_number" json:"registration_number"`
	RegistrationDate   time.Time `db:"registration_date" json:"registration_date"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// BrokerRejection is a notification snapshot written when a customer rejects
// an offer. InquiryID has no foreign key: the inquiry is torn down in the
// same transaction that creates this row.
type BrokerRejection struct {
	ID           string    `db:"id" json:"id"`
	BrokerID     *string   `db:"broker_id" json:"broker_id,omitempty"`
	BrokerName   string    `db:"broker_name" json:"broker_name"`
	InquiryID    string    `db:"inquiry_id" json:"inquiry_id"`
	City         string    `db:"city" json:"city"`
	Area         string    `db:"area" json:"area"`
	PropertyType string    `db:"property_type" json:"property_type"`
	Notified     bool      `db:"notified" json:"notified"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PaymentLog records a completed broker payment. Only the gateway reference
// and card last-4 are persisted, never the card number.
type PaymentLog struct {
	ID               string    `db:"id" json:"id"`
	BrokerID         string    `db:"broker_id" json:"broker_id"`
	Amount           int64     `db:"amount" json:"amount"`
	PaymentMethod    string    `db:"payment_method" json:"payment_method"`
	CardLast4        string    `db:"card_last4" json:"card_last4"`
	GatewayReference string    `db:"gateway_reference" json:"gateway_reference"`
	Status           string    `db:"status" json:"status"`
	PaymentDate      time.Time `db:"payment_date" json:"payment_date"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
