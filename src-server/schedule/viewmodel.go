package schedule

import (
	"sort"
	"strings"
)

// Filter is the user-controlled input to the per-date projection: the
// selected calendar day, the free-text search box and the toggled category
// chips.
type Filter struct {
	Date       string   `json:"date"`
	Search     string   `json:"search"`
	Categories []string `json:"categories"`
}

func matchesSearch(event Event, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(event.Title), needle) ||
		strings.Contains(strings.ToLower(event.Description), needle)
}

func matchesCategories(event Event, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if event.Category == "" {
		return false
	}
	for _, category := range selected {
		if event.Category == category {
			return true
		}
	}
	return false
}

// EventsForDate is the pure projection behind the side panel: events on the
// selected day that also match the search text (case-insensitive substring
// on title or description) and the category toggle, AND of all three. The
// result is ordered by clock time; events sharing a time keep their source
// order.
func EventsForDate(events []Event, filter Filter) []Event {
	matched := make([]Event, 0, len(events))
	for _, event := range events {
		if event.Date != filter.Date {
			continue
		}
		if !matchesSearch(event, filter.Search) {
			continue
		}
		if !matchesCategories(event, filter.Categories) {
			continue
		}
		matched = append(matched, event)
	}
	// zero-padded HH:MM, lexical order is chronological order
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Time < matched[j].Time
	})
	return matched
}

// KnownCategories collects the distinct non-empty categories present in the
// collection, in first-seen order, for the filter chips.
func KnownCategories(events []Event) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, event := range events {
		if event.Category == "" {
			continue
		}
		if _, ok := seen[event.Category]; ok {
			continue
		}
		seen[event.Category] = struct{}{}
		categories = append(categories, event.Category)
	}
	return categories
}

// DayCounts buckets the whole collection by date for the calendar grid's
// badges. Search and category filters deliberately do not apply here.
func DayCounts(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, event := range events {
		counts[event.Date]++
	}
	return counts
}

// CountForDate is the single-day badge count.
func CountForDate(events []Event, date string) int {
	count := 0
	for _, event := range events {
		if event.Date == date {
			count++
		}
	}
	return count
}
