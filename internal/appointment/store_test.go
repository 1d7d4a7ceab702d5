package appointment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Djatila/studionailart-sub001/internal/appointment"
	"github.com/Djatila/studionailart-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	appointments []*models.Appointment
	err          error
}

func (f *fakeRemote) ListAppointments(_ context.Context, _ string, _ *string) ([]*models.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.appointments, nil
}

func newStore(remote *fakeRemote) *appointment.Store {
	return appointment.New(remote, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNormalizeTime(t *testing.T) {
	assert.Equal(t, "10:00", appointment.NormalizeTime("10:00:00"))
	assert.Equal(t, "10:00", appointment.NormalizeTime("10:00"))
	assert.Equal(t, "9:00", appointment.NormalizeTime("9:00"))
	assert.Equal(t, "", appointment.NormalizeTime(""))
}

func TestOccupiedTimesSkipsCancelled(t *testing.T) {
	remote := &fakeRemote{
		appointments: []*models.Appointment{
			{Time: "10:00:00", Status: models.AppointmentPending},
			{Time: "13:00", Status: models.AppointmentConfirmed},
			{Time: "15:00", Status: models.AppointmentCancelled},
			{Time: "17:00", Status: models.AppointmentCompleted},
			nil,
		},
	}

	occupied := newStore(remote).OccupiedTimes(context.Background(), "designer-1", "2026-03-10")

	assert.Equal(t, map[string]struct{}{
		"10:00": {},
		"13:00": {},
		"17:00": {},
	}, occupied)
}

func TestOccupiedTimesFailOpen(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}

	occupied := newStore(remote).OccupiedTimes(context.Background(), "designer-1", "2026-03-10")

	require.NotNil(t, occupied)
	assert.Empty(t, occupied)
}
