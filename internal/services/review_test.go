package services

import (
	"strings"
	"testing"

	"github.com/vladimiradmaev/insulin-uploader/internal/domain"
)

func TestBuildPreview(t *testing.T) {
	lines := BuildPreview([]domain.CandidateRecord{
		{Date: "15-03", Time: "08:30", Insulin: insulin(4)},
		{Date: "16-03", Time: "12:00", Insulin: insulin(2.5)},
		{Date: "17-03", Time: "09:00"}, // incomplete
	})

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "15-03 08:30 – 4U" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "16-03 12:00 – 2.5U" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "incomplete") {
		t.Errorf("incomplete record not marked: %q", lines[2])
	}
}

func TestParsePreviewLineRoundTrip(t *testing.T) {
	records := []domain.CandidateRecord{
		{Date: "15-03", Time: "08:30", Insulin: insulin(4)},
		{Date: "01-12", Time: "23:59", Insulin: insulin(0.5)},
	}

	for i, line := range BuildPreview(records) {
		rec, err := ParsePreviewLine(line)
		if err != nil {
			t.Fatalf("line %q did not re-parse: %v", line, err)
		}
		if rec.Date != records[i].Date || rec.Time != records[i].Time {
			t.Errorf("round trip changed record: %s -> %s", records[i], rec)
		}
		if rec.Insulin == nil || *rec.Insulin != *records[i].Insulin {
			t.Errorf("round trip changed insulin: %s -> %s", records[i], rec)
		}
	}
}

func TestParsePreviewLineVariants(t *testing.T) {
	cases := []struct {
		line    string
		wantErr bool
	}{
		{"15-03 08:30 – 4U", false},
		{"15-03 08:30 – 4 U", false},
		{"2024-03-15 08:30 – 4U", false},
		{"  15-03 08:30 – 4.5U  ", false},
		{"garbage", true},
		{"15-03 08:30 - 4U", true}, // hyphen instead of en dash
		{"15-03 – 4U", true},
		{"", true},
	}

	for _, tc := range cases {
		_, err := ParsePreviewLine(tc.line)
		if tc.wantErr && err == nil {
			t.Errorf("ParsePreviewLine(%q): expected error", tc.line)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("ParsePreviewLine(%q): unexpected error %v", tc.line, err)
		}
	}
}
