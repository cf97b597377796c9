package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnteredBy tags every relayed treatment with the submission channel.
const EnteredBy = "image-web"

// EventType is the Nightscout event type for an insulin dose.
const EventType = "Insulin"

// CandidateRecord is a dosage entry as extracted from the image, prior to
// validation. Date is either "DD-MM" (year-less) or "YYYY-MM-DD", Time is
// 24-hour "HH:MM". Insulin is a pointer so a missing amount is
// distinguishable from zero.
type CandidateRecord struct {
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Insulin *float64 `json:"insulin"`
}

// UnmarshalJSON tolerates the insulin amount arriving either as a JSON
// number or as a numeric string (optionally with a trailing "U"), both of
// which vision models produce for the same log sheet.
func (r *CandidateRecord) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date    string          `json:"date"`
		Time    string          `json:"time"`
		Insulin json.RawMessage `json:"insulin"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Date = raw.Date
	r.Time = raw.Time
	r.Insulin = nil

	if len(raw.Insulin) == 0 || string(raw.Insulin) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(raw.Insulin, &num); err == nil {
		r.Insulin = &num
		return nil
	}

	var str string
	if err := json.Unmarshal(raw.Insulin, &str); err != nil {
		return fmt.Errorf("insulin is neither a number nor a string: %s", raw.Insulin)
	}
	str = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(str), "U"))
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("insulin string %q is not numeric", str)
	}
	r.Insulin = &num
	return nil
}

// IsComplete reports whether all three required fields are present.
func (r CandidateRecord) IsComplete() bool {
	return r.Date != "" && r.Time != "" && r.Insulin != nil
}

func (r CandidateRecord) String() string {
	if r.Insulin == nil {
		return fmt.Sprintf("{date: %q, time: %q, insulin: <missing>}", r.Date, r.Time)
	}
	return fmt.Sprintf("{date: %q, time: %q, insulin: %g}", r.Date, r.Time, *r.Insulin)
}

// NormalizedTreatment is the validated, time-zone-resolved form of a
// candidate record, ready for relay. It is constructed once per accepted
// record, submitted, then discarded.
type NormalizedTreatment struct {
	Instant      time.Time // UTC
	InsulinUnits float64
}

// ExtractionKind discriminates the three shapes a model response can take.
type ExtractionKind int

const (
	// KindRecordList — the model returned a JSON list of candidate records.
	KindRecordList ExtractionKind = iota
	// KindSingleRecord — the model returned one candidate record object.
	KindSingleRecord
	// KindUnstructured — the model text was not valid JSON; the raw text is
	// kept as a human-readable "nothing extracted" message.
	KindUnstructured
)

// ExtractionResult is the tagged variant produced by the response parser.
// Records is populated for KindRecordList and KindSingleRecord, Text for
// KindUnstructured.
type ExtractionResult struct {
	Kind    ExtractionKind
	Records []CandidateRecord
	Text    string
}
