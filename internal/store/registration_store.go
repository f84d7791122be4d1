package store

import (
	"context"

	"brokerage/internal/models"
)

type RegistrationStore struct {
	db DB
}

func NewRegistrationStore(db DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) Create(ctx context.Context, tx Execer, registration models.BrokerRegistration) error {
	query := `
		INSERT INTO broker_registrations (id, broker_id, registration_number, registration_date, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query,
		registration.ID, registration.BrokerID, registration.RegistrationNumber,
		registration.RegistrationDate, registration.IsActive,
	)
	return err
}

func (s *RegistrationStore) GetByBroker(ctx context.Context, brokerID string) (models.BrokerRegistration, error) {
	var registration models.BrokerRegistration
	err := s.db.GetContext(ctx, &registration, `SELECT * FROM broker_registrations WHERE broker_id = $1`, brokerID)
	return registration, err
}

func (s *RegistrationStore) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM broker_registrations WHERE registration_number = $1)`, number)
	return exists, err
}
