package document

import (
	"testing"
	"time"
)

func date(y int, m time.Month) time.Time {
	return time.Date(y, m, 15, 0, 0, 0, 0, time.UTC)
}

func TestAcademicYear(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2024, time.July), "2024-25"},
		{date(2024, time.December), "2024-25"},
		{date(2025, time.January), "2024-25"},
		{date(2025, time.June), "2024-25"},
		{date(2025, time.July), "2025-26"},
		{date(2099, time.August), "2099-00"},
	}

	for _, tc := range tests {
		if got := AcademicYear(tc.in); got != tc.want {
			t.Errorf("AcademicYear(%s): expected %q, got %q", tc.in.Format("2006-01"), tc.want, got)
		}
	}
}

func TestMonthFolderName(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2024, time.July), "1. July 24"},
		{date(2024, time.August), "2. August 24"},
		{date(2024, time.December), "6. December 24"},
		{date(2025, time.January), "7. January 25"},
		{date(2025, time.June), "12. June 25"},
		{date(2025, time.July), "1. July 25"},
	}

	for _, tc := range tests {
		if got := MonthFolderName(tc.in); got != tc.want {
			t.Errorf("MonthFolderName(%s): expected %q, got %q", tc.in.Format("2006-01"), tc.want, got)
		}
	}
}

func TestParticipantFolderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane doe", "Jane Doe"},
		{"JANE DOE", "Jane Doe"},
		{"  jane   doe  ", "Jane Doe"},
		{"sam", "Sam"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := ParticipantFolderName(tc.in); got != tc.want {
			t.Errorf("ParticipantFolderName(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
