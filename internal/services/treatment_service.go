package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
	"github.com/vladimiradmaev/insulin-uploader/internal/interfaces"
	"github.com/vladimiradmaev/insulin-uploader/internal/logger"
)

// yearlessDate matches a day-first date without a year, e.g. "15-03" or "5-3".
var yearlessDate = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)

// TreatmentService validates extracted candidate records, resolves their
// wall-clock timestamps in the configured zone and relays the accepted ones.
type TreatmentService struct {
	relay    interfaces.TreatmentRelay
	location *time.Location
	now      func() time.Time
}

func NewTreatmentService(relay interfaces.TreatmentRelay, location *time.Location) *TreatmentService {
	return &TreatmentService{
		relay:    relay,
		location: location,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *TreatmentService) WithClock(now func() time.Time) *TreatmentService {
	s.now = now
	return s
}

// Process runs the validate/normalize/relay loop over a batch. Records are
// submitted strictly one at a time; a failed record never aborts its
// siblings. Every record yields exactly one human-readable outcome line.
func (s *TreatmentService) Process(ctx context.Context, records []domain.CandidateRecord) []string {
	messages := make([]string, 0, len(records))
	for _, rec := range records {
		messages = append(messages, s.processOne(ctx, rec))
	}
	return messages
}

func (s *TreatmentService) processOne(ctx context.Context, rec domain.CandidateRecord) string {
	if !rec.IsComplete() {
		logger.Warn("Record missing required fields", "record", rec.String())
		return fmt.Sprintf("Invalid record: %s", rec)
	}

	treatment, err := s.resolveInstant(rec)
	if err != nil {
		logger.Warn("Record rejected", "record", rec.String(), "error", err)
		return err.Error()
	}
	if treatment == nil {
		// Future-dated, deliberately skipped. The local wall-clock time is
		// reported so an operator can spot model misreads.
		local := s.localTime(rec)
		logger.Info("Skipping future-dated record", "local_time", local)
		return fmt.Sprintf("Skipped - future date: %s", local.Format("2006-01-02 15:04:05 -07:00"))
	}

	msg, err := s.relay.SendTreatment(ctx, *treatment)
	if err != nil {
		logger.Error("Relay failed", "record", rec.String(), "error", err)
		return err.Error()
	}
	return msg
}

// resolveInstant turns a complete candidate record into a UTC treatment.
// It returns (nil, nil) when the record is future-dated and must be skipped.
func (s *TreatmentService) resolveInstant(rec domain.CandidateRecord) (*domain.NormalizedTreatment, error) {
	dateStr := normalizeDate(rec.Date, s.now().In(s.location).Year())

	localDT, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+rec.Time, s.location)
	if err != nil {
		return nil, apperrors.NewDateParseError(err, dateStr+" "+rec.Time)
	}

	if localDT.After(s.now().In(s.location)) {
		return nil, nil
	}

	return &domain.NormalizedTreatment{
		Instant:      localDT.UTC(),
		InsulinUnits: *rec.Insulin,
	}, nil
}

// localTime re-derives the local wall-clock time of a record for the skip
// message; parse errors are impossible here since resolveInstant ran first.
func (s *TreatmentService) localTime(rec domain.CandidateRecord) time.Time {
	dateStr := normalizeDate(rec.Date, s.now().In(s.location).Year())
	t, _ := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+rec.Time, s.location)
	return t
}

// normalizeDate prepends the current calendar year to a year-less day-first
// date, zero-padding day and month. Dates already carrying a year pass
// through unchanged. Near the year boundary a year-less date is resolved
// against the year current at submission time, not image-capture time.
func normalizeDate(date string, currentYear int) string {
	m := yearlessDate.FindStringSubmatch(date)
	if m == nil {
		return date
	}
	day, month := m[1], m[2]
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return fmt.Sprintf("%d-%s-%s", currentYear, month, day)
}
