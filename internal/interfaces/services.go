package interfaces

import (
	"context"

	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
)

// Extractor defines the contract for vision-model extraction
type Extractor interface {
	ExtractInsulinLog(ctx context.Context, jpegData []byte) (string, error)
}

// TreatmentRelay defines the contract for submitting one treatment to the
// tracking server. It returns a human-readable status line.
type TreatmentRelay interface {
	SendTreatment(ctx context.Context, t domain.NormalizedTreatment) (string, error)
}

// TreatmentProcessor defines the contract for the validate/normalize/relay
// loop over a batch of candidate records
type TreatmentProcessor interface {
	Process(ctx context.Context, records []domain.CandidateRecord) []string
}
