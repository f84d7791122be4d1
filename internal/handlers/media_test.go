package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"brokerage/internal/models"
	"brokerage/internal/websocket"
)

func TestMediaUploadURL(t *testing.T) {
	handler := New(fakeTxRunner{}, testConfig(), stubProfileStore{}, stubInquiryStore{}, stubPropertyStore{}, stubRejectionStore{}, stubWorkflow{}, stubBilling{}, stubMediaStorage{
		presignFn: func(_ context.Context, userID, filename, contentType string) (string, string, error) {
			if userID != "broker-1" || filename != "flat.jpg" || contentType != "image/jpeg" {
				t.Fatalf("unexpected args: %s %s %s", userID, filename, contentType)
			}
			return "https://s3.example.com/upload", "https://cdn.example.com/media/broker-1/flat.jpg", nil
		},
	}, websocket.NewHub())

	body := []byte(`{"filename":"flat.jpg","content_type":"image/jpeg"}`)
	req := httptest.NewRequest(http.MethodPost, "/media/upload-url", bytes.NewReader(body))
	req = withIdentity(req, "broker-1", models.UserTypeBroker)
	rr := httptest.NewRecorder()
	handler.MediaUploadURL(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["upload_url"] != "https://s3.example.com/upload" {
		t.Fatalf("unexpected upload url: %v", payload["upload_url"])
	}
	if payload["object_url"] != "https://cdn.example.com/media/broker-1/flat.jpg" {
		t.Fatalf("unexpected object url: %v", payload["object_url"])
	}
}

func TestMediaUploadURLMissingFilename(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubInquiryStore{}, stubPropertyStore{}, stubRejectionStore{}, stubWorkflow{}, stubBilling{})

	body := []byte(`{"content_type":"image/jpeg"}`)
	req := httptest.NewRequest(http.MethodPost, "/media/upload-url", bytes.NewReader(body))
	req = withIdentity(req, "broker-1", models.UserTypeBroker)
	rr := httptest.NewRecorder()
	handler.MediaUploadURL(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
