package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"brokerage/internal/models"
)

func TestDealStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO deals") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 6 || args[3] != models.DealStatusPending {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewDealStore(stubDB{})
	err := store.Create(ctx, execer, models.Deal{
		ID:                   "deal-1",
		InquiryID:            "inq-1",
		BrokerPostID:         "post-1",
		Status:               models.DealStatusPending,
		InterviewScheduledAt: time.Now().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDealStoreSetReview(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "status = 'completed'") {
				t.Fatalf("review must complete the deal: %s", query)
			}
			if !strings.Contains(query, "rating_notes") || strings.Contains(query, "customer_notes") {
				t.Fatalf("review notes must not touch customer_notes: %s", query)
			}
			if len(args) != 5 || args[0] != 4 || args[1] != int64(250000) || args[2] != "smooth deal" || args[4] != "deal-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewDealStore(stubDB{})
	if err := store.SetReview(ctx, execer, "deal-1", 4, 250000, "smooth deal", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDealStoreDeleteByInquiry(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM deals WHERE inquiry_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewDealStore(stubDB{})
	rows, err := store.DeleteByInquiry(ctx, execer, "inq-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one row, got %d", rows)
	}
}
