package schedule

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Event is the application-facing shape. Date and time are kept as two
// separate strings in the viewer's timezone; the storage layer owns the
// combined timestamp.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM, 24-hour
	Description string `json:"description"`
	Category    string `json:"category"`
	Recurrence  string `json:"recurrence"`
}

// EventDraft is an Event before the store assigned it an id.
type EventDraft struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Recurrence  string `json:"recurrence"`
}

const RecurrenceNone = "none"

// VocabEntry is one value of a closed vocabulary plus its display label.
type VocabEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var titleCaser = cases.Title(language.English)

func vocab(values ...string) []VocabEntry {
	entries := make([]VocabEntry, len(values))
	for i, value := range values {
		entries[i] = VocabEntry{
			Value: value,
			Label: titleCaser.String(value),
		}
	}
	return entries
}

// The two closed vocabularies, shared by form validation, the view-model
// and the vocabulary endpoint. Recurrence is recorded on events but never
// expanded into occurrences.
var (
	CategoryVocab   = vocab("work", "personal", "family", "health", "social")
	RecurrenceVocab = vocab(RecurrenceNone, "daily", "weekly", "monthly", "yearly")
)

func vocabHas(entries []VocabEntry, value string) bool {
	for _, entry := range entries {
		if entry.Value == value {
			return true
		}
	}
	return false
}

// ValidCategory reports whether value is empty or one of the five known
// categories.
func ValidCategory(value string) bool {
	return value == "" || vocabHas(CategoryVocab, value)
}

// ValidRecurrence reports whether value is empty or a known recurrence label.
func ValidRecurrence(value string) bool {
	return value == "" || vocabHas(RecurrenceVocab, value)
}

// ValidateDraft checks an incoming add/edit form against the data model.
func ValidateDraft(draft EventDraft) error {
	switch {
	case strings.TrimSpace(draft.Title) == "":
		return fmt.Errorf("ValidateDraft: title is blank")
	case draft.Date == "":
		return fmt.Errorf("ValidateDraft: date is blank")
	case draft.Time == "":
		return fmt.Errorf("ValidateDraft: time is blank")
	case !ValidCategory(draft.Category):
		return fmt.Errorf("ValidateDraft: unknown category %q", draft.Category)
	case !ValidRecurrence(draft.Recurrence):
		return fmt.Errorf("ValidateDraft: unknown recurrence %q", draft.Recurrence)
	}
	return nil
}
