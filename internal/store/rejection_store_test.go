package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"brokerage/internal/models"
)

func TestRejectionStoreCreate(t *testing.T) {
	ctx := context.Background()
	brokerID := "broker-1"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO broker_rejections") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 7 || args[2] != "Ali Hassan" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewRejectionStore(stubDB{})
	err := store.Create(ctx, execer, models.BrokerRejection{
		ID:         "rej-1",
		BrokerID:   &brokerID,
		BrokerName: "Ali Hassan",
		InquiryID:  "inq-1",
		City:       "Cairo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRejectionStoreAcknowledgeScopedToOwner(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "WHERE id = $1 AND broker_id = $2") {
				t.Fatalf("acknowledge must be owner-scoped: %s", query)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewRejectionStore(stubDB{})
	rows, err := store.Acknowledge(ctx, execer, "rej-1", "broker-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected zero rows for foreign notice, got %d", rows)
	}
}

func TestRegistrationStoreNumberExists(t *testing.T) {
	ctx := context.Background()
	store := NewRegistrationStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "registration_number = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*bool) = true
			return nil
		},
	})
	exists, err := store.NumberExists(ctx, "BR-2026-123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected existing number")
	}
}
