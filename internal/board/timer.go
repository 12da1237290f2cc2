package board

import (
	"context"
	"log/slog"
	"time"

	"taskboard/internal/models"
)

// Timer lifecycle:
//
//	idle -> running -> paused -> running ... -> completed
//
// Reset returns any state to idle. Elapsed minutes are banked on pause and
// stop; while running the live value is derived from TimerStartedAt.

// StartTimer begins or resumes timing. A running timer returns
// ErrTimerRunning and a completed one ErrTimerCompleted.
func StartTimer(t *models.Task, now time.Time) error {
	switch t.TimerStatus {
	case models.TimerRunning:
		return ErrTimerRunning
	case models.TimerCompleted:
		return ErrTimerCompleted
	}
	t.TimerStatus = models.TimerRunning
	t.TimerStartedAt = now.UTC().Format(time.RFC3339Nano)
	return nil
}

// PauseTimer banks the whole minutes since the timer started. It reports
// false and changes nothing when the timer is not running.
func PauseTimer(t *models.Task, now time.Time) bool {
	if t.TimerStatus != models.TimerRunning {
		return false
	}
	t.ElapsedMinutes += runningMinutes(*t, now)
	t.TimerStatus = models.TimerPaused
	t.TimerStartedAt = ""
	return true
}

// StopTimer finishes timing. A task whose final elapsed time exceeds its
// estimate is flagged over budget. Stopping a completed timer is a no-op.
func StopTimer(t *models.Task, now time.Time) bool {
	if t.TimerStatus == models.TimerCompleted {
		return false
	}
	if t.TimerStatus == models.TimerRunning {
		t.ElapsedMinutes += runningMinutes(*t, now)
	}
	t.TimerStatus = models.TimerCompleted
	t.TimerStartedAt = ""
	if t.EstimatedMinutes > 0 && t.ElapsedMinutes > t.EstimatedMinutes {
		t.OverBudget = true
	}
	return true
}

// ResetTimer returns the timer to idle with nothing banked.
func ResetTimer(t *models.Task) {
	t.TimerStatus = models.TimerIdle
	t.ElapsedMinutes = 0
	t.TimerStartedAt = ""
	t.OverBudget = false
}

// DisplayElapsed is the live elapsed time in minutes for presentation. It
// never mutates the task; callers recompute it on every tick.
func DisplayElapsed(t models.Task, now time.Time) int {
	if t.TimerStatus != models.TimerRunning {
		return t.ElapsedMinutes
	}
	return t.ElapsedMinutes + runningMinutes(t, now)
}

func runningMinutes(t models.Task, now time.Time) int {
	started, err := time.Parse(time.RFC3339Nano, t.TimerStartedAt)
	if err != nil {
		return 0
	}
	d := now.Sub(started)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

func timerPatch(t models.Task) models.TaskPatch {
	return models.TaskPatch{
		TimerStatus:    ptr(t.TimerStatus),
		ElapsedMinutes: ptr(t.ElapsedMinutes),
		TimerStartedAt: ptr(t.TimerStartedAt),
		OverBudget:     ptr(t.OverBudget),
	}
}

// StartTimer starts the timer of task id.
func (e *Engine) StartTimer(ctx context.Context, id string) error {
	return e.updateTimer(ctx, id, "start timer", func(t *models.Task, now time.Time) (bool, error) {
		return true, StartTimer(t, now)
	})
}

// PauseTimer pauses the timer of task id; not running is a no-op.
func (e *Engine) PauseTimer(ctx context.Context, id string) error {
	return e.updateTimer(ctx, id, "pause timer", func(t *models.Task, now time.Time) (bool, error) {
		return PauseTimer(t, now), nil
	})
}

// StopTimer completes the timer of task id.
func (e *Engine) StopTimer(ctx context.Context, id string) error {
	return e.updateTimer(ctx, id, "stop timer", func(t *models.Task, now time.Time) (bool, error) {
		return StopTimer(t, now), nil
	})
}

// ResetTimer zeroes the timer of task id regardless of its state.
func (e *Engine) ResetTimer(ctx context.Context, id string) error {
	return e.updateTimer(ctx, id, "reset timer", func(t *models.Task, _ time.Time) (bool, error) {
		ResetTimer(t)
		return true, nil
	})
}

func (e *Engine) updateTimer(ctx context.Context, id, op string, fn func(*models.Task, time.Time) (bool, error)) error {
	e.mu.Lock()
	pos := e.indexOf(id)
	if pos < 0 {
		e.mu.Unlock()
		return nil
	}
	t := &e.view[pos]
	changed, err := fn(t, e.clock.Now())
	if err != nil || !changed {
		e.mu.Unlock()
		return err
	}
	b := &batch{}
	*b.patch(id) = timerPatch(*t)
	status := t.TimerStatus
	e.mu.Unlock()

	e.logger.Debug("timer updated", slog.String("id", id), slog.String("timer", string(status)))
	return e.persist(ctx, op, b)
}
