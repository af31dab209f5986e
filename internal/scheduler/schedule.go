package scheduler

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/t77yq/reqsched/internal/model"
)

// BuildSchedule parses every timestamp token against a single reference
// instant and returns the complete schedule for one run. Any malformed token
// fails the whole schedule so that no request is silently dropped. Task order
// follows the input list.
func BuildSchedule(tokens []string, url string, now time.Time) (*model.Schedule, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptySchedule
	}

	schedule := &model.Schedule{
		Reference: now,
		URL:       url,
		Tasks:     make([]*model.RequestTask, 0, len(tokens)),
	}

	for _, token := range tokens {
		raw := strings.TrimSpace(token)
		fireAt, err := ParseTimestamp(raw, now)
		if err != nil {
			return nil, err
		}

		schedule.Tasks = append(schedule.Tasks, &model.RequestTask{
			ID:     uuid.New().String(),
			Raw:    raw,
			URL:    url,
			FireAt: fireAt,
			Delay:  fireAt.Sub(now),
			Status: model.TaskStatusPending,
		})
	}

	return schedule, nil
}
