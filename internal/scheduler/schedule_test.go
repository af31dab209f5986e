package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t77yq/reqsched/internal/model"
)

func TestBuildSchedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 59, 58, 0, time.UTC)
	url := "http://example.test/ping"

	schedule, err := BuildSchedule([]string{"10:00:00", " 10:00:05", "11:00:00 "}, url, now)
	require.NoError(t, err)
	require.Len(t, schedule.Tasks, 3)

	assert.Equal(t, now, schedule.Reference)
	assert.Equal(t, url, schedule.URL)

	// Insertion order follows the input list
	assert.Equal(t, "10:00:00", schedule.Tasks[0].Raw)
	assert.Equal(t, "10:00:05", schedule.Tasks[1].Raw)
	assert.Equal(t, "11:00:00", schedule.Tasks[2].Raw)

	assert.Equal(t, 2*time.Second, schedule.Tasks[0].Delay)
	assert.Equal(t, 7*time.Second, schedule.Tasks[1].Delay)

	seen := make(map[string]bool)
	for _, task := range schedule.Tasks {
		assert.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID], "task IDs must be unique")
		seen[task.ID] = true

		assert.Equal(t, url, task.URL)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		assert.GreaterOrEqual(t, task.Delay, time.Duration(0))
		assert.Equal(t, task.FireAt.Sub(now), task.Delay)
	}
}

func TestBuildScheduleMalformedTokenFailsWholeSchedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	schedule, err := BuildSchedule([]string{"10:00:00", "25:00:00", "11:00:00"}, "http://example.test", now)
	require.Error(t, err)
	assert.Nil(t, schedule)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "25:00:00", parseErr.Token)
}

func TestBuildScheduleEmpty(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	schedule, err := BuildSchedule(nil, "http://example.test", now)
	assert.ErrorIs(t, err, ErrEmptySchedule)
	assert.Nil(t, schedule)
}

func TestBuildScheduleSharedReference(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	// All delays are measured from the same reference instant, so tasks just
	// past midnight keep their relative ordering.
	schedule, err := BuildSchedule([]string{"00:00:01", "00:00:02", "00:00:03"}, "http://example.test", now)
	require.NoError(t, err)
	require.Len(t, schedule.Tasks, 3)

	assert.Equal(t, 2*time.Second, schedule.Tasks[0].Delay)
	assert.Equal(t, 3*time.Second, schedule.Tasks[1].Delay)
	assert.Equal(t, 4*time.Second, schedule.Tasks[2].Delay)
}
