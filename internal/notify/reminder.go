package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/robfig/cron/v3"
)

// ReminderSource lists the appointments a reminder run should consider.
type ReminderSource interface {
	ListAppointmentsForDateAll(ctx context.Context, date string, statuses []string) ([]*models.Appointment, error)
}

// Reminder sends day-before WhatsApp reminders for confirmed appointments on
// a cron schedule.
type Reminder struct {
	source   ReminderSource
	notifier Notifier
	log      *slog.Logger
	cron     *cron.Cron
}

func NewReminder(source ReminderSource, notifier Notifier, log *slog.Logger) *Reminder {
	return &Reminder{
		source:   source,
		notifier: notifier,
		log:      log,
		cron:     cron.New(),
	}
}

// Start schedules the reminder job. spec is a standard cron expression,
// e.g. "0 9 * * *" for every day at 09:00.
func (r *Reminder) Start(spec string) error {
	const op = "notify.Reminder.Start"

	if _, err := r.cron.AddFunc(spec, r.Run); err != nil {
		return err
	}

	r.cron.Start()
	r.log.Info("Reminder job scheduled", slog.String("op", op), slog.String("spec", spec))

	return nil
}

func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Run sends reminders for tomorrow's confirmed appointments. Failures are
// logged per appointment; one bad record never stops the batch.
func (r *Reminder) Run() {
	const op = "notify.Reminder.Run"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	appointments, err := r.source.ListAppointmentsForDateAll(ctx, tomorrow, []string{string(models.AppointmentConfirmed)})
	if err != nil {
		r.log.Error("Reminder scan failed", slog.String("op", op), sl.Err(err))
		return
	}

	if len(appointments) == 0 {
		r.log.Debug("No appointments to remind", slog.String("op", op), slog.String("date", tomorrow))
		return
	}

	r.log.Info("Sending reminders",
		slog.String("op", op),
		slog.String("date", tomorrow),
		slog.Int("count", len(appointments)),
	)

	for _, apt := range appointments {
		r.notifier.AppointmentReminder(ctx, apt)
	}
}
