package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/t77yq/reqsched/internal/model"
	"github.com/t77yq/reqsched/internal/storage"
)

// Requester issues the single GET request for a fired task.
type Requester interface {
	Execute(ctx context.Context, task *model.RequestTask) (*model.TaskResult, error)
}

// Dispatcher fires every task of a schedule at its target time. All waits run
// concurrently; a failure on one task never aborts or delays its siblings.
type Dispatcher struct {
	logger    *zap.Logger
	requester Requester
	history   storage.RequestHistoryStorage
}

// NewDispatcher creates a new dispatcher. History may be nil when no record
// of fired requests should be kept.
func NewDispatcher(requester Requester, history storage.RequestHistoryStorage, logger *zap.Logger) (*Dispatcher, error) {
	if requester == nil {
		return nil, ErrNilRequester
	}
	return &Dispatcher{
		logger:    logger,
		requester: requester,
		history:   history,
	}, nil
}

// Run dispatches the schedule and returns once every task has completed its
// wait-and-request cycle. Cancelling ctx stops still-pending waits without
// affecting tasks that already fired. Request failures are reported in the
// summary, not as an error.
func (d *Dispatcher) Run(ctx context.Context, schedule *model.Schedule) (*model.DispatchSummary, error) {
	if schedule == nil || len(schedule.Tasks) == 0 {
		return nil, ErrEmptySchedule
	}

	d.logger.Info("Dispatching schedule",
		zap.Int("tasks", len(schedule.Tasks)),
		zap.String("url", schedule.URL),
		zap.Time("reference", schedule.Reference))

	summary := &model.DispatchSummary{Scheduled: len(schedule.Tasks)}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, task := range schedule.Tasks {
		wg.Add(1)
		go func(task *model.RequestTask) {
			defer wg.Done()

			status := d.runTask(ctx, task)

			mu.Lock()
			switch status {
			case model.TaskStatusCompleted:
				summary.Completed++
			case model.TaskStatusCanceled:
				summary.Canceled++
			default:
				summary.Failed++
			}
			mu.Unlock()
		}(task)
	}
	wg.Wait()

	d.logger.Info("Dispatch complete",
		zap.Int("scheduled", summary.Scheduled),
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Int("canceled", summary.Canceled))

	return summary, nil
}

// runTask waits until the task's target time, fires its request and records
// the outcome. The returned status is the task's final status.
func (d *Dispatcher) runTask(ctx context.Context, task *model.RequestTask) model.TaskStatus {
	d.logger.Debug("Waiting for target time",
		zap.String("task_id", task.ID),
		zap.String("timestamp", task.Raw),
		zap.Duration("delay", task.Delay))

	timer := time.NewTimer(time.Until(task.FireAt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		task.Status = model.TaskStatusCanceled
		d.logger.Warn("Task canceled before firing",
			zap.String("task_id", task.ID),
			zap.String("timestamp", task.Raw))
		return task.Status
	case <-timer.C:
	}

	firedAt := time.Now()
	task.FiredAt = &firedAt
	task.Status = model.TaskStatusRunning

	record := &storage.RequestRecord{
		ID:          uuid.New().String(),
		TaskID:      task.ID,
		URL:         task.URL,
		Status:      model.TaskStatusRunning,
		ScheduledAt: task.FireAt,
		FiredAt:     firedAt,
	}
	if d.history != nil {
		if err := d.history.Store(ctx, record); err != nil {
			d.logger.Error("Failed to store request record",
				zap.String("task_id", task.ID),
				zap.Error(err))
		}
	}

	result, err := d.requester.Execute(ctx, task)

	completedAt := time.Now()
	task.CompletedAt = &completedAt

	switch {
	case err != nil:
		task.Status = model.TaskStatusFailed
		task.ErrorMessage = err.Error()
		d.logger.Error("Request failed",
			zap.String("task_id", task.ID),
			zap.String("timestamp", task.Raw),
			zap.String("url", task.URL),
			zap.Error(err))
	case result.Status == model.TaskStatusFailed:
		task.Status = model.TaskStatusFailed
		task.ErrorMessage = result.Error
		d.logger.Error("Request failed",
			zap.String("task_id", task.ID),
			zap.String("timestamp", task.Raw),
			zap.String("url", task.URL),
			zap.Int("status_code", result.StatusCode),
			zap.String("error", result.Error))
	default:
		task.Status = model.TaskStatusCompleted
		d.logger.Info("Request completed",
			zap.String("task_id", task.ID),
			zap.String("timestamp", task.Raw),
			zap.String("url", task.URL),
			zap.Int("status_code", result.StatusCode),
			zap.Duration("lag", firedAt.Sub(task.FireAt)))
	}

	if d.history != nil {
		record.Status = task.Status
		record.Error = task.ErrorMessage
		record.CompletedAt = &completedAt
		record.Duration = completedAt.Sub(firedAt)
		if result != nil {
			record.StatusCode = result.StatusCode
		}
		// Background context so the outcome is recorded even when the run
		// context was canceled mid-request.
		if err := d.history.Update(context.Background(), record); err != nil {
			d.logger.Error("Failed to update request record",
				zap.String("task_id", task.ID),
				zap.Error(err))
		}
	}

	return task.Status
}
