package document

import (
	"fmt"
	"strings"
	"time"
)

// The document store follows the academic-year folder layout: years run
// July through June, with month folders numbered from July.

// AcademicYear returns the academic-year label for t, e.g. "2024-25".
func AcademicYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.July {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// MonthFolderName returns the month folder label for t, numbered from the
// start of the academic year, e.g. "1. July 24" or "12. June 25".
func MonthFolderName(t time.Time) string {
	index := int(t.Month()) - int(time.July) + 1
	if index <= 0 {
		index += 12
	}
	return fmt.Sprintf("%d. %s %02d", index, t.Month().String(), t.Year()%100)
}

// ParticipantFolderName returns the participant's folder name with each word
// title-cased, e.g. "jane doe" becomes "Jane Doe".
func ParticipantFolderName(displayName string) string {
	words := strings.Fields(strings.ToLower(displayName))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
