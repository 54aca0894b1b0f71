package schedule_test

import (
	"testing"

	"smartschedule/src-server/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []schedule.Event {
	return []schedule.Event{
		{ID: "a", Title: "Standup", Date: "2024-03-01", Time: "09:00", Category: "work"},
		{ID: "b", Title: "Gym", Date: "2024-03-01", Time: "08:00", Category: "health"},
	}
}

func TestEventsForDateOrdersByTime(t *testing.T) {
	got := schedule.EventsForDate(sampleEvents(), schedule.Filter{Date: "2024-03-01"})

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestEventsForDateSearchIsCaseInsensitive(t *testing.T) {
	got := schedule.EventsForDate(sampleEvents(), schedule.Filter{
		Date:   "2024-03-01",
		Search: "gym",
	})

	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got = schedule.EventsForDate(sampleEvents(), schedule.Filter{
		Date:   "2024-03-01",
		Search: "GYM",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestEventsForDateSearchMatchesDescription(t *testing.T) {
	events := sampleEvents()
	events[0].Description = "weekly sync with the team"

	got := schedule.EventsForDate(events, schedule.Filter{
		Date:   "2024-03-01",
		Search: "SYNC",
	})

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestEventsForDateFiltersByCategory(t *testing.T) {
	got := schedule.EventsForDate(sampleEvents(), schedule.Filter{
		Date:       "2024-03-01",
		Categories: []string{"work"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestEventsForDatePredicatesAreANDed(t *testing.T) {
	// search matches B, category matches A, so nothing survives both
	got := schedule.EventsForDate(sampleEvents(), schedule.Filter{
		Date:       "2024-03-01",
		Search:     "gym",
		Categories: []string{"work"},
	})

	assert.Empty(t, got)
}

func TestEventsForDateUncategorizedExcludedByChips(t *testing.T) {
	events := append(sampleEvents(), schedule.Event{
		ID: "c", Title: "Errands", Date: "2024-03-01", Time: "12:00",
	})

	got := schedule.EventsForDate(events, schedule.Filter{
		Date:       "2024-03-01",
		Categories: []string{"work", "health"},
	})
	require.Len(t, got, 2)

	// with no chips toggled the uncategorized event is back
	got = schedule.EventsForDate(events, schedule.Filter{Date: "2024-03-01"})
	assert.Len(t, got, 3)
}

func TestEventsForDateIsIdempotent(t *testing.T) {
	filter := schedule.Filter{Date: "2024-03-01", Search: "m"}

	first := schedule.EventsForDate(sampleEvents(), filter)
	second := schedule.EventsForDate(sampleEvents(), filter)

	assert.Equal(t, first, second)
}

func TestEventsForDateSortIsStable(t *testing.T) {
	events := []schedule.Event{
		{ID: "x", Title: "One", Date: "2024-03-01", Time: "10:00"},
		{ID: "y", Title: "Two", Date: "2024-03-01", Time: "10:00"},
		{ID: "z", Title: "Three", Date: "2024-03-01", Time: "09:30"},
	}

	got := schedule.EventsForDate(events, schedule.Filter{Date: "2024-03-01"})

	require.Len(t, got, 3)
	assert.Equal(t, "z", got[0].ID)
	// equal keys keep source order
	assert.Equal(t, "x", got[1].ID)
	assert.Equal(t, "y", got[2].ID)
}

func TestKnownCategories(t *testing.T) {
	events := append(sampleEvents(),
		schedule.Event{ID: "c", Title: "Dinner", Date: "2024-03-02", Time: "19:00"},
		schedule.Event{ID: "d", Title: "Review", Date: "2024-03-02", Time: "10:00", Category: "work"},
	)

	got := schedule.KnownCategories(events)

	assert.Equal(t, []string{"work", "health"}, got)
}

func TestDayCountsIgnoreFilters(t *testing.T) {
	events := append(sampleEvents(), schedule.Event{
		ID: "c", Title: "Dentist", Date: "2024-03-02", Time: "10:00", Category: "health",
	})

	counts := schedule.DayCounts(events)

	assert.Equal(t, 2, counts["2024-03-01"])
	assert.Equal(t, 1, counts["2024-03-02"])
	assert.Equal(t, 0, counts["2024-03-03"])
	assert.Equal(t, 2, schedule.CountForDate(events, "2024-03-01"))
}

func TestValidateDraft(t *testing.T) {
	valid := schedule.EventDraft{Title: "Gym", Date: "2024-03-01", Time: "08:00", Category: "health", Recurrence: "weekly"}
	assert.NoError(t, schedule.ValidateDraft(valid))

	blankTitle := valid
	blankTitle.Title = "   "
	assert.Error(t, schedule.ValidateDraft(blankTitle))

	badCategory := valid
	badCategory.Category = "hobby"
	assert.Error(t, schedule.ValidateDraft(badCategory))

	badRecurrence := valid
	badRecurrence.Recurrence = "fortnightly"
	assert.Error(t, schedule.ValidateDraft(badRecurrence))

	// category and recurrence are both optional
	bare := schedule.EventDraft{Title: "Gym", Date: "2024-03-01", Time: "08:00"}
	assert.NoError(t, schedule.ValidateDraft(bare))
}

func TestVocabularies(t *testing.T) {
	require.Len(t, schedule.CategoryVocab, 5)
	assert.Equal(t, schedule.VocabEntry{Value: "work", Label: "Work"}, schedule.CategoryVocab[0])

	require.Len(t, schedule.RecurrenceVocab, 5)
	assert.Equal(t, "none", schedule.RecurrenceVocab[0].Value)

	assert.True(t, schedule.ValidCategory(""))
	assert.True(t, schedule.ValidCategory("social"))
	assert.False(t, schedule.ValidCategory("Social"))
}
