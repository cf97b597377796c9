package domain

import (
	"encoding/json"
	"testing"
)

func TestCandidateRecordUnmarshalInsulinShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `{"date":"15-03","time":"08:30","insulin":4}`, 4},
		{"fractional", `{"date":"15-03","time":"08:30","insulin":2.5}`, 2.5},
		{"numeric string", `{"date":"15-03","time":"08:30","insulin":"4"}`, 4},
		{"string with unit", `{"date":"15-03","time":"08:30","insulin":"4 U"}`, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec CandidateRecord
			if err := json.Unmarshal([]byte(tc.in), &rec); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Insulin == nil || *rec.Insulin != tc.want {
				t.Errorf("insulin = %v, want %g", rec.Insulin, tc.want)
			}
			if !rec.IsComplete() {
				t.Error("record should be complete")
			}
		})
	}
}

func TestCandidateRecordUnmarshalMissingInsulin(t *testing.T) {
	var rec CandidateRecord
	if err := json.Unmarshal([]byte(`{"date":"15-03","time":"08:30"}`), &rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Insulin != nil {
		t.Errorf("insulin should be nil, got %v", *rec.Insulin)
	}
	if rec.IsComplete() {
		t.Error("record missing insulin must not be complete")
	}
}

func TestCandidateRecordUnmarshalNonNumericInsulin(t *testing.T) {
	var rec CandidateRecord
	if err := json.Unmarshal([]byte(`{"date":"15-03","time":"08:30","insulin":"a lot"}`), &rec); err == nil {
		t.Fatal("expected error for non-numeric insulin")
	}
}

func TestCandidateRecordString(t *testing.T) {
	units := 4.0
	full := CandidateRecord{Date: "15-03", Time: "08:30", Insulin: &units}
	if got := full.String(); got != `{date: "15-03", time: "08:30", insulin: 4}` {
		t.Errorf("String() = %s", got)
	}

	partial := CandidateRecord{Date: "15-03"}
	if got := partial.String(); got != `{date: "15-03", time: "", insulin: <missing>}` {
		t.Errorf("String() = %s", got)
	}
}
