package store

import (
	"context"
	"time"

	"brokerage/internal/models"
)

type PropertyStore struct {
	db DB
}

func NewPropertyStore(db DB) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) Create(ctx context.Context, tx Execer, property models.Property) error {
	query := `
		INSERT INTO properties (id, broker_id, transaction_type, city, area, property_type, bedrooms, bathrooms, price, size, furnished, notes, is_active, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := tx.ExecContext(ctx, query,
		property.ID, property.BrokerID, property.TransactionType, property.City,
		property.Area, property.PropertyType, property.Bedrooms, property.Bathrooms,
		property.Price, property.Size, property.Furnished, property.Notes,
		property.IsActive, property.Media,
	)
	return err
}

func (s *PropertyStore) GetByID(ctx context.Context, propertyID string) (models.Property, error) {
	var property models.Property
	err := s.db.GetContext(ctx, &property, `SELECT * FROM properties WHERE id = $1`, propertyID)
	return property, err
}

// Update is owner-scoped: the row count reveals whether the property both
// exists and belongs to the acting broker.
func (s *PropertyStore) Update(ctx context.Context, tx Execer, property models.Property, updatedAt time.Time) (int64, error) {
	query := `
		UPDATE properties
		SET transaction_type = $1, city = $2, area = $3, property_type = $4,
		    bedrooms = $5, bathrooms = $6, price = $7, size = $8, furnished = $9,
		    notes = $10, is_active = $11, media = $12, updated_at = $13
		WHERE id = $14 AND broker_id = $15
	`
	result, err := tx.ExecContext(ctx, query,
		property.TransactionType, property.City, property.Area, property.PropertyType,
		property.Bedrooms, property.Bathrooms, property.Price, property.Size,
		property.Furnished, property.Notes, property.IsActive, property.Media,
		updatedAt, property.ID, property.BrokerID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *PropertyStore) Delete(ctx context.Context, tx Execer, propertyID, brokerID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1 AND broker_id = $2`, propertyID, brokerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListActive returns publicly visible properties, optionally scoped to one
// broker.
func (s *PropertyStore) ListActive(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error) {
	var properties []models.Property
	if brokerID != "" {
		err := s.db.SelectContext(ctx, &properties, `
			SELECT * FROM properties
			WHERE is_active = true AND broker_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, brokerID, limit, offset)
		return properties, err
	}
	err := s.db.SelectContext(ctx, &properties, `
		SELECT * FROM properties
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return properties, err
}

func (s *PropertyStore) ListByBroker(ctx context.Context, brokerID string, limit, offset int) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.SelectContext(ctx, &properties, `
		SELECT * FROM properties
		WHERE broker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, brokerID, limit, offset)
	return properties, err
}
