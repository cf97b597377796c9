package services

import (
	"encoding/json"
	"strings"

	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
)

// ParseModelOutput interprets raw model text as extracted candidate records.
// Strict JSON decoding is attempted first (a list, then a single object);
// any text that does not decode is kept verbatim as an unstructured message.
// Malformed input is a valid terminal outcome here, never an error.
func ParseModelOutput(raw string) domain.ExtractionResult {
	text := stripCodeFences(strings.TrimSpace(raw))

	var records []domain.CandidateRecord
	if err := json.Unmarshal([]byte(text), &records); err == nil {
		return domain.ExtractionResult{Kind: domain.KindRecordList, Records: records}
	}

	var single domain.CandidateRecord
	if err := json.Unmarshal([]byte(text), &single); err == nil {
		return domain.ExtractionResult{Kind: domain.KindSingleRecord, Records: []domain.CandidateRecord{single}}
	}

	return domain.ExtractionResult{Kind: domain.KindUnstructured, Text: raw}
}

// stripCodeFences removes a surrounding markdown code block, with or without
// a language tag, which vision models often wrap JSON in.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	trimmed := strings.TrimPrefix(s, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
