package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
)

func TestSendTreatmentSuccess(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	svc := NewNightscoutService(ts.URL, "secret", 5*time.Second)
	instant := time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC)

	msg, err := svc.SendTreatment(context.Background(), domain.NormalizedTreatment{
		Instant:      instant,
		InsulinUnits: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/treatments.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "secret" {
		t.Errorf("token = %q", gotToken)
	}
	if gotBody["enteredBy"] != "image-web" || gotBody["eventType"] != "Insulin" {
		t.Errorf("unexpected payload: %v", gotBody)
	}
	if gotBody["insulin"] != 4.0 {
		t.Errorf("insulin = %v", gotBody["insulin"])
	}
	if gotBody["created_at"] != "2024-03-15T07:30:00Z" {
		t.Errorf("created_at = %v", gotBody["created_at"])
	}
	if !strings.Contains(msg, "2024-03-15T07:30:00Z") || !strings.Contains(msg, "4U") {
		t.Errorf("status line missing instant or units: %q", msg)
	}
}

func TestSendTreatmentNon200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"message":"Unauthorized"}`))
	}))
	defer ts.Close()

	svc := NewNightscoutService(ts.URL, "wrong", 5*time.Second)

	_, err := svc.SendTreatment(context.Background(), domain.NormalizedTreatment{
		Instant:      time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC),
		InsulinUnits: 4,
	})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeRelay) {
		t.Errorf("expected relay error type, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error missing status code: %v", err)
	}
	if !strings.Contains(err.Error(), `"message":"Unauthorized"`) {
		t.Errorf("error missing response body verbatim: %v", err)
	}
}

func TestSendTreatmentUnreachable(t *testing.T) {
	svc := NewNightscoutService("http://127.0.0.1:1", "t", 500*time.Millisecond)

	_, err := svc.SendTreatment(context.Background(), domain.NormalizedTreatment{
		Instant:      time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC),
		InsulinUnits: 1,
	})
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeRelay) {
		t.Errorf("expected relay error type, got %v", err)
	}
}
