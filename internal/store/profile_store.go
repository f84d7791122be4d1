package store

import (
	"context"
	"time"

	"brokerage/internal/models"
)

type ProfileStore struct {
	db DB
}

func NewProfileStore(db DB) *ProfileStore {
	return &ProfileStore{db: db}
}

type ProfileInput struct {
	ID             string
	UserType       string
	FullName       string
	Email          string
	Phone          string
	NationalID     string
	PasswordHash   string
	LicenseImage   *string
	TrialStartDate *time.Time
	TrialEndDate   *time.Time
}

func (s *ProfileStore) Create(ctx context.Context, tx Execer, input ProfileInput) error {
	query := `
		INSERT INTO user_profiles (id, user_type, full_name, email, phone, national_id, password_hash, license_image, trial_start_date, trial_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserType, input.FullName, input.Email, input.Phone,
		input.NationalID, input.PasswordHash, input.LicenseImage,
		input.TrialStartDate, input.TrialEndDate,
	)
	return err
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.GetContext(ctx, &profile, `SELECT * FROM user_profiles WHERE email = $1`, email)
	return profile, err
}

func (s *ProfileStore) GetByID(ctx context.Context, userID string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.GetContext(ctx, &profile, `SELECT * FROM user_profiles WHERE id = $1`, userID)
	return profile, err
}

// MarkPaid flips the payment flag and pushes the trial window out to the
// given end date.
func (s *ProfileStore) MarkPaid(ctx context.Context, tx Execer, userID string, trialEnd time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE user_profiles SET has_paid = true, trial_end_date = $1 WHERE id = $2`,
		trialEnd, userID,
	)
	return err
}
