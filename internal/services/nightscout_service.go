package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
)

// treatmentPayload is the Nightscout treatments API body.
type treatmentPayload struct {
	EnteredBy string  `json:"enteredBy"`
	EventType string  `json:"eventType"`
	Insulin   float64 `json:"insulin"`
	CreatedAt string  `json:"created_at"`
}

// NightscoutService submits normalized treatments to a Nightscout-compatible
// server. One synchronous attempt per record, no retries; resubmitting the
// same record creates a duplicate on the server side.
type NightscoutService struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewNightscoutService(baseURL, token string, timeout time.Duration) *NightscoutService {
	return &NightscoutService{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SendTreatment posts one treatment and returns a human-readable status
// line: "<instant>, <units>U" on HTTP 200, otherwise a relay error carrying
// the status code and the response body verbatim.
func (s *NightscoutService) SendTreatment(ctx context.Context, t domain.NormalizedTreatment) (string, error) {
	createdAt := t.Instant.Format(time.RFC3339)

	payload, err := json.Marshal(treatmentPayload{
		EnteredBy: domain.EnteredBy,
		EventType: domain.EventType,
		Insulin:   t.InsulinUnits,
		CreatedAt: createdAt,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeInternal, "MARSHAL", "Failed to encode treatment")
	}

	endpoint := fmt.Sprintf("%s/api/v1/treatments.json?token=%s", s.baseURL, url.QueryEscape(s.token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeRelay, "REQUEST", "Failed to build treatment request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeRelay, "RELAY", "Treatment server unreachable")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewRelayError(resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s, %gU", createdAt, t.InsulinUnits), nil
}
