package schedule_test

import (
	"testing"
	"time"

	"smartschedule/src-server/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineSplitRoundTrip(t *testing.T) {
	locations := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+5:30", 5*3600+1800),
		time.FixedZone("UTC-8", -8*3600),
	}
	pairs := [][2]string{
		{"2024-03-01", "09:00"},
		{"2024-03-01", "00:00"},
		{"2024-12-31", "23:59"},
		{"2024-02-29", "12:30"},
	}

	for _, loc := range locations {
		for _, pair := range pairs {
			unix, err := schedule.CombineDateTime(pair[0], pair[1], loc)
			require.NoError(t, err, "combine %v in %v", pair, loc)

			date, clock := schedule.SplitTimestamp(unix, loc)
			assert.Equal(t, pair[0], date, "date in %v", loc)
			assert.Equal(t, pair[1], clock, "time in %v", loc)
		}
	}
}

func TestCombineUsesLocalDayBoundary(t *testing.T) {
	// 00:30 local in UTC+8 falls on the previous day in UTC; splitting in
	// the same location must still give back the submitted local day
	loc := time.FixedZone("UTC+8", 8*3600)

	unix, err := schedule.CombineDateTime("2024-03-01", "00:30", loc)
	require.NoError(t, err)

	utcDate, _ := schedule.SplitTimestamp(unix, time.UTC)
	assert.Equal(t, "2024-02-29", utcDate)

	date, clock := schedule.SplitTimestamp(unix, loc)
	assert.Equal(t, "2024-03-01", date)
	assert.Equal(t, "00:30", clock)
}

func TestCombineRejectsGarbage(t *testing.T) {
	_, err := schedule.CombineDateTime("01/03/2024", "09:00", time.UTC)
	assert.Error(t, err)

	_, err = schedule.CombineDateTime("2024-03-01", "9am", time.UTC)
	assert.Error(t, err)
}
