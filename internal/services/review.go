package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
)

// previewLine matches the rendered "DD-MM HH:MM – AMOUNT U" form a caller
// echoes back on confirmation.
var previewLine = regexp.MustCompile(`^(\d{1,2}-\d{1,2}|\d{4}-\d{2}-\d{2}) (\d{1,2}:\d{2}) – (\d+(?:\.\d+)?) ?U$`)

// BuildPreview renders candidate records as human-readable lines for the
// review step. Incomplete records are rendered with their raw contents so
// the operator sees what was extracted.
func BuildPreview(records []domain.CandidateRecord) []string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		if !rec.IsComplete() {
			lines = append(lines, fmt.Sprintf("(incomplete) %s", rec))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s – %gU", rec.Date, rec.Time, *rec.Insulin))
	}
	return lines
}

// ParsePreviewLine re-parses one confirmed preview line back into a
// candidate record. Lines that do not match the preview pattern are
// reported to the caller, never silently dropped.
func ParsePreviewLine(line string) (domain.CandidateRecord, error) {
	m := previewLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return domain.CandidateRecord{}, apperrors.NewValidationError(fmt.Sprintf("Unparseable entry: %q", line))
	}
	units, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return domain.CandidateRecord{}, apperrors.NewValidationError(fmt.Sprintf("Unparseable amount in entry: %q", line))
	}
	return domain.CandidateRecord{Date: m[1], Time: m[2], Insulin: &units}, nil
}
