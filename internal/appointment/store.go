package appointment

import (
	"context"
	"log/slog"

	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/pkg/sl"
)

// Remote is the appointment slice of the remote collection API.
type Remote interface {
	ListAppointments(ctx context.Context, designerID string, date *string) ([]*models.Appointment, error)
}

// Store supplies the occupied times that narrow a designer's slot grid.
type Store struct {
	remote Remote
	log    *slog.Logger
}

func New(remote Remote, log *slog.Logger) *Store {
	return &Store{remote: remote, log: log}
}

// NormalizeTime truncates a time value to HH:MM. The remote column is a TIME
// and can come back with a seconds component.
func NormalizeTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}

	return t
}

// OccupiedTimes returns the set of HH:MM times consumed by non-cancelled
// appointments for the designer on the date. A failed load yields an empty
// set: the calendar stays open rather than closed, matching the original
// product behavior.
func (s *Store) OccupiedTimes(ctx context.Context, designerID, date string) map[string]struct{} {
	const op = "appointment.Store.OccupiedTimes"

	occupied := map[string]struct{}{}

	appointments, err := s.remote.ListAppointments(ctx, designerID, &date)
	if err != nil {
		s.log.Warn("Appointment load failed, treating date as unoccupied",
			slog.String("op", op),
			slog.String("designer_id", designerID),
			slog.String("date", date),
			sl.Err(err),
		)
		return occupied
	}

	for _, apt := range appointments {
		if apt == nil || apt.Status == models.AppointmentCancelled {
			continue
		}
		occupied[NormalizeTime(apt.Time)] = struct{}{}
	}

	return occupied
}
