// Package reminder implements the daily sweep that turns care-guide
// cadences into watering, fertilizing and repotting notifications.
package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/plant-pal/internal/models"
	"github.com/xaenox/plant-pal/internal/storage"
)

// approxMonthDays is the fixed month length used by the repotting
// window check, matching the guide's month-based cadence.
const approxMonthDays = 30

// TextGenerator produces the short reminder message. Optional: when nil
// or failing, the fixed message templates below are used.
type TextGenerator interface {
	ReminderText(ctx context.Context, plantName, kind string, daysSince int) (string, error)
}

// Notifier pushes freshly created notifications to an external channel.
// Optional; delivery failure never fails the sweep.
type Notifier interface {
	Push(ctx context.Context, n models.Notification) error
}

// PlantOutcome is the per-plant result of one sweep. A failed lookup for
// one plant surfaces here instead of aborting the whole run.
type PlantOutcome struct {
	PlantID   string
	PlantName string
	Due       []models.Notification
	Err       error
}

// SweepReport summarizes one scheduler run.
type SweepReport struct {
	Outcomes []PlantOutcome
	Created  int
	Err      error
}

type Scheduler struct {
	storage  storage.Storage
	texts    TextGenerator
	notifier Notifier
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewScheduler(store storage.Storage, texts TextGenerator, notifier Notifier, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		storage:  store,
		texts:    texts,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Start runs the sweep once immediately, then on every tick until ctx is
// cancelled. It blocks. The scheduler has no synchronous caller, so run
// failures are logged rather than returned.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	report := s.Sweep(ctx)
	if report.Err != nil {
		s.logger.Error("Reminder sweep failed", zap.Error(report.Err))
		return
	}
	failed := 0
	for _, o := range report.Outcomes {
		if o.Err != nil {
			failed++
			s.logger.Warn("Reminder check failed for plant",
				zap.String("plant_id", o.PlantID),
				zap.String("plant_name", o.PlantName),
				zap.Error(o.Err))
		}
	}
	s.logger.Info("Reminder sweep complete",
		zap.Int("plants", len(report.Outcomes)),
		zap.Int("notifications", report.Created),
		zap.Int("failures", failed))
}

// Sweep decides, for every plant with a reminder schedule, which
// notifications are due, then inserts them in one batch. Per-plant
// decisions are independent units of work; only the initial plant list
// read and the final batch write can fail the run as a whole.
func (s *Scheduler) Sweep(ctx context.Context) SweepReport {
	plants, err := s.storage.ListPlants(ctx)
	if err != nil {
		return SweepReport{Err: fmt.Errorf("list plants: %w", err)}
	}

	report := SweepReport{}
	var due []models.Notification
	for i := range plants {
		outcome := s.checkPlant(ctx, &plants[i])
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Err == nil {
			due = append(due, outcome.Due...)
		}
	}

	if len(due) > 0 {
		if err := s.storage.InsertNotifications(ctx, due); err != nil {
			report.Err = fmt.Errorf("insert notifications: %w", err)
			return report
		}
		s.push(ctx, due)
	}
	report.Created = len(due)
	return report
}

func (s *Scheduler) checkPlant(ctx context.Context, plant *models.Plant) PlantOutcome {
	outcome := PlantOutcome{PlantID: plant.ID, PlantName: plant.PlantName}

	if plant.CareGuide == nil || plant.CareGuide.Reminders == nil {
		return outcome
	}
	schedule := plant.CareGuide.Reminders
	now := s.now()
	daysSinceAdded := models.DaysGrowing(plant.CreatedAt, now)

	if schedule.WateringDays > 0 {
		days, err := s.daysSinceLast(ctx, plant.ID, models.NotificationWatering, schedule.WateringDays, now)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		if days >= schedule.WateringDays {
			outcome.Due = append(outcome.Due, s.notification(ctx, plant, models.NotificationWatering,
				fmt.Sprintf("Water your %s! It has been %d days.", plant.PlantName, days), days))
		}
	}

	if schedule.FertilizingDays > 0 {
		days, err := s.daysSinceLast(ctx, plant.ID, models.NotificationFertilizing, schedule.FertilizingDays, now)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		if days >= schedule.FertilizingDays {
			outcome.Due = append(outcome.Due, s.notification(ctx, plant, models.NotificationFertilizing,
				fmt.Sprintf("Your %s needs fertilizing! Keep it thriving.", plant.PlantName), days))
		}
	}

	// Repotting fires when the elapsed-day count crosses a multiple
	// of the month cadence, not off notification history.
	if schedule.RepottingMonths > 0 && daysSinceAdded%(schedule.RepottingMonths*approxMonthDays) < 1 {
		outcome.Due = append(outcome.Due, s.notification(ctx, plant, models.NotificationRepotting,
			fmt.Sprintf("Consider repotting your %s - it may be getting root-bound!", plant.PlantName), daysSinceAdded))
	}

	return outcome
}

// daysSinceLast returns whole days since the most recent notification of
// the given type. A plant never notified counts as already overdue.
func (s *Scheduler) daysSinceLast(ctx context.Context, plantID string, typ models.NotificationType, cadenceDays int, now time.Time) (int, error) {
	last, err := s.storage.LatestNotification(ctx, plantID, typ)
	if err != nil {
		return 0, fmt.Errorf("latest %s notification: %w", typ, err)
	}
	if last == nil {
		return cadenceDays + 1, nil
	}
	return models.DaysGrowing(last.CreatedAt, now), nil
}

func (s *Scheduler) notification(ctx context.Context, plant *models.Plant, typ models.NotificationType, fallback string, daysSince int) models.Notification {
	message := fallback
	if s.texts != nil {
		if text, err := s.texts.ReminderText(ctx, plant.PlantName, string(typ), daysSince); err == nil && text != "" {
			message = text
		} else if err != nil {
			s.logger.Warn("Reminder text generation failed, using fallback",
				zap.String("plant_id", plant.ID),
				zap.Error(err))
		}
	}
	return models.Notification{
		UserID:  plant.UserID,
		PlantID: plant.ID,
		Type:    typ,
		Message: message,
	}
}

func (s *Scheduler) push(ctx context.Context, created []models.Notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range created {
		if err := s.notifier.Push(ctx, n); err != nil {
			s.logger.Warn("Notification push failed",
				zap.String("notification_id", n.ID),
				zap.Error(err))
		}
	}
}
