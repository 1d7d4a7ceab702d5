package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Djatila/studionailart-sub001/api"
	"github.com/Djatila/studionailart-sub001/internal/appointment"
	"github.com/Djatila/studionailart-sub001/internal/availability"
	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/internal/storage/localcache"
	"github.com/Djatila/studionailart-sub001/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for the remote store across every slice the service
// and its adapters consume.
type fakeBackend struct {
	availabilityRows []*models.AvailabilityRow
	appointments     []*models.Appointment

	insertedAppointments []*models.Appointment
	statusUpdates        map[string]models.AppointmentStatus

	listAvailabilityErr error
	listAppointmentsErr error
	insertErr           error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{statusUpdates: map[string]models.AppointmentStatus{}}
}

func (f *fakeBackend) ListAvailability(_ context.Context, designerID string) ([]*models.AvailabilityRow, error) {
	if f.listAvailabilityErr != nil {
		return nil, f.listAvailabilityErr
	}

	var out []*models.AvailabilityRow
	for _, row := range f.availabilityRows {
		if row.DesignerID == designerID {
			out = append(out, row)
		}
	}

	return out, nil
}

func (f *fakeBackend) InsertAvailability(_ context.Context, _ *models.AvailabilityRow) (string, error) {
	return "e4a7f1b2-0c3d-4e5f-8a9b-1c2d3e4f5a6b", nil
}

func (f *fakeBackend) UpdateAvailabilityFlag(_ context.Context, _ string, _ bool) error {
	return nil
}

func (f *fakeBackend) DeleteAvailability(_ context.Context, _ string) error {
	return nil
}

func (f *fakeBackend) ListAppointments(_ context.Context, designerID string, date *string) ([]*models.Appointment, error) {
	if f.listAppointmentsErr != nil {
		return nil, f.listAppointmentsErr
	}

	var out []*models.Appointment
	for _, apt := range f.appointments {
		if apt.DesignerID != designerID {
			continue
		}
		if date != nil && apt.Date != *date {
			continue
		}
		out = append(out, apt)
	}

	return out, nil
}

func (f *fakeBackend) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	for _, apt := range f.appointments {
		if apt.ID == id {
			if status, ok := f.statusUpdates[id]; ok {
				updated := *apt
				updated.Status = status
				return &updated, nil
			}
			return apt, nil
		}
	}

	return nil, response.ErrNotFound
}

func (f *fakeBackend) InsertAppointment(_ context.Context, apt *models.Appointment) error {
	if f.insertErr != nil {
		return f.insertErr
	}

	f.insertedAppointments = append(f.insertedAppointments, apt)
	f.appointments = append(f.appointments, apt)

	return nil
}

func (f *fakeBackend) UpdateAppointmentStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	for _, apt := range f.appointments {
		if apt.ID == id {
			f.statusUpdates[id] = status
			return nil
		}
	}

	return response.ErrNotFound
}

func (f *fakeBackend) ListDesigners(_ context.Context) ([]*models.Designer, error) {
	return []*models.Designer{{ID: "designer-1", Name: "Ana", IsActive: true}}, nil
}

func (f *fakeBackend) GetDesigner(_ context.Context, id string) (*models.Designer, error) {
	if id == "designer-1" {
		return &models.Designer{ID: "designer-1", Name: "Ana", IsActive: true}, nil
	}

	return nil, response.ErrNotFound
}

func (f *fakeBackend) ListServices(_ context.Context, _ string) ([]*models.Service, error) {
	return nil, nil
}

func (f *fakeBackend) InsertService(_ context.Context, _ *models.Service) error {
	return nil
}

func (f *fakeBackend) DeleteService(_ context.Context, _ string) error {
	return nil
}

type fakeLocker struct {
	denied   bool
	err      error
	locked   []string
	unlocked []string
}

func (f *fakeLocker) Lock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.denied {
		return false, nil
	}

	f.locked = append(f.locked, key)

	return true, nil
}

func (f *fakeLocker) Unlock(_ context.Context, key string) error {
	f.unlocked = append(f.unlocked, key)
	return nil
}

func newTestService(t *testing.T, backend *fakeBackend, locker *fakeLocker) *Service {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := localcache.New(filepath.Join(t.TempDir(), "cache.json"))

	s := NewService(backend, availability.New(backend, cache, log), appointment.New(backend, log), locker, nil, log)
	s.now = func() time.Time {
		return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	}

	return s
}

func strptr(s string) *string { return &s }

func TestAvailableSlotsOpenDay(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	got, err := s.AvailableSlots(context.Background(), "designer-1", "2026-03-10")

	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "10:00", "13:00", "15:00", "17:00"}, got.Slots)
	assert.False(t, got.DayBlocked)
}

func TestAvailableSlotsBlocksAndAppointments(t *testing.T) {
	backend := newFakeBackend()
	backend.availabilityRows = []*models.AvailabilityRow{
		{
			ID:           "e4a7f1b2-0c3d-4e5f-8a9b-1c2d3e4f5a6b",
			DesignerID:   "designer-1",
			StartTime:    "08:00",
			EndTime:      "09:00",
			IsAvailable:  false,
			SpecificDate: strptr("2026-03-10"),
		},
	}
	backend.appointments = []*models.Appointment{
		{ID: "a1", DesignerID: "designer-1", Date: "2026-03-10", Time: "13:00:00", Status: models.AppointmentConfirmed},
		{ID: "a2", DesignerID: "designer-1", Date: "2026-03-10", Time: "17:00", Status: models.AppointmentCancelled},
	}

	s := newTestService(t, backend, &fakeLocker{})

	got, err := s.AvailableSlots(context.Background(), "designer-1", "2026-03-10")

	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "15:00", "17:00"}, got.Slots)
}

func TestAvailableSlotsFullDayBlocked(t *testing.T) {
	backend := newFakeBackend()
	backend.availabilityRows = []*models.AvailabilityRow{
		{
			ID:           "e4a7f1b2-0c3d-4e5f-8a9b-1c2d3e4f5a6b",
			DesignerID:   "designer-1",
			StartTime:    "00:00",
			EndTime:      "23:59",
			IsAvailable:  false,
			SpecificDate: strptr("2026-03-10"),
		},
	}

	s := newTestService(t, backend, &fakeLocker{})

	got, err := s.AvailableSlots(context.Background(), "designer-1", "2026-03-10")

	require.NoError(t, err)
	assert.Empty(t, got.Slots)
	assert.True(t, got.DayBlocked)
}

func TestAvailableSlotsInvalidDate(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	_, err := s.AvailableSlots(context.Background(), "designer-1", "not-a-date")

	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestAvailableSlotsSameForAllCallers(t *testing.T) {
	backend := newFakeBackend()
	backend.availabilityRows = []*models.AvailabilityRow{
		{
			ID:           "e4a7f1b2-0c3d-4e5f-8a9b-1c2d3e4f5a6b",
			DesignerID:   "designer-1",
			StartTime:    "10:00",
			EndTime:      "11:00",
			IsAvailable:  false,
			SpecificDate: strptr("2026-03-10"),
		},
	}

	s := newTestService(t, backend, &fakeLocker{})

	first, err := s.AvailableSlots(context.Background(), "designer-1", "2026-03-10")
	require.NoError(t, err)

	second, err := s.AvailableSlots(context.Background(), "designer-1", "2026-03-10T00:00:00")
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func validAppointmentRequest() *api.AppointmentRequest {
	return &api.AppointmentRequest{
		DesignerID:  "designer-1",
		ClientName:  "Maria",
		ClientPhone: "+5511999990000",
		Service:     "Manicure",
		Date:        "2026-03-10",
		Time:        "10:00",
		Price:       80,
	}
}

func TestCreateAppointment(t *testing.T) {
	backend := newFakeBackend()
	locker := &fakeLocker{}
	s := newTestService(t, backend, locker)

	got, err := s.CreateAppointment(context.Background(), validAppointmentRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "10:00", got.Time)

	require.Len(t, backend.insertedAppointments, 1)
	assert.Equal(t, []string{"booking:designer-1:2026-03-10:10:00"}, locker.locked)
	assert.Equal(t, locker.locked, locker.unlocked)
}

func TestCreateAppointmentMissingFields(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	req := validAppointmentRequest()
	req.ClientName = ""

	_, err := s.CreateAppointment(context.Background(), req)

	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestCreateAppointmentDayBlocked(t *testing.T) {
	backend := newFakeBackend()
	backend.availabilityRows = []*models.AvailabilityRow{
		{
			ID:           "e4a7f1b2-0c3d-4e5f-8a9b-1c2d3e4f5a6b",
			DesignerID:   "designer-1",
			StartTime:    "00:00",
			EndTime:      "23:59",
			IsAvailable:  false,
			SpecificDate: strptr("2026-03-10"),
		},
	}

	s := newTestService(t, backend, &fakeLocker{})

	_, err := s.CreateAppointment(context.Background(), validAppointmentRequest())

	assert.ErrorIs(t, err, response.ErrDayBlocked)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	backend := newFakeBackend()
	backend.appointments = []*models.Appointment{
		{ID: "a1", DesignerID: "designer-1", Date: "2026-03-10", Time: "10:00", Status: models.AppointmentPending},
	}

	s := newTestService(t, backend, &fakeLocker{})

	_, err := s.CreateAppointment(context.Background(), validAppointmentRequest())

	assert.ErrorIs(t, err, response.ErrSlotNotAvailable)
}

func TestCreateAppointmentOffGridTime(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	req := validAppointmentRequest()
	req.Time = "11:30"

	_, err := s.CreateAppointment(context.Background(), req)

	assert.ErrorIs(t, err, response.ErrSlotNotAvailable)
}

func TestCreateAppointmentLockDenied(t *testing.T) {
	backend := newFakeBackend()
	s := newTestService(t, backend, &fakeLocker{denied: true})

	_, err := s.CreateAppointment(context.Background(), validAppointmentRequest())

	assert.ErrorIs(t, err, response.ErrLocked)
	assert.Empty(t, backend.insertedAppointments)
}

func TestCreateAppointmentSecondsTruncated(t *testing.T) {
	backend := newFakeBackend()
	s := newTestService(t, backend, &fakeLocker{})

	req := validAppointmentRequest()
	req.Time = "10:00:00"
	req.Date = "2026-03-10T00:00:00"

	got, err := s.CreateAppointment(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Time)
	assert.Equal(t, "2026-03-10", got.Date)
}

func TestCancelAppointment(t *testing.T) {
	backend := newFakeBackend()
	backend.appointments = []*models.Appointment{
		{ID: "a1", DesignerID: "designer-1", Date: "2026-03-10", Time: "10:00", Status: models.AppointmentPending},
	}

	s := newTestService(t, backend, &fakeLocker{})

	got, err := s.CancelAppointment(context.Background(), "a1")

	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
}

func TestSetStatusUnknownAppointment(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	_, err := s.ConfirmAppointment(context.Background(), "missing")

	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestCancelledSlotIsBookableAgain(t *testing.T) {
	backend := newFakeBackend()
	backend.appointments = []*models.Appointment{
		{ID: "a1", DesignerID: "designer-1", Date: "2026-03-10", Time: "10:00", Status: models.AppointmentCancelled},
	}

	s := newTestService(t, backend, &fakeLocker{})

	got, err := s.CreateAppointment(context.Background(), validAppointmentRequest())

	require.NoError(t, err)
	assert.Equal(t, "10:00", got.Time)
}

func TestCreateBlockHourPath(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	hour := 23
	got, err := s.CreateBlock(context.Background(), "designer-1", &api.AvailabilityBlockRequest{
		SpecificDate: "2026-03-10",
		Hour:         &hour,
	})

	require.NoError(t, err)
	assert.Equal(t, "23:00", got.StartTime)
	assert.Equal(t, "00:00", got.EndTime)
	require.NotNil(t, got.RemoteOK)
	require.NotNil(t, got.LocalOK)
	assert.True(t, *got.RemoteOK)
	assert.True(t, *got.LocalOK)
}

func TestListBlocksOmitsWriteFlags(t *testing.T) {
	backend := newFakeBackend()
	backend.availabilityRows = []*models.AvailabilityRow{
		{
			ID:           "e4a7f1b2-0c3d-4e5f-8a9b-1c2d3e4f5a6b",
			DesignerID:   "designer-1",
			StartTime:    "10:00",
			EndTime:      "11:00",
			IsAvailable:  false,
			SpecificDate: strptr("2026-03-10"),
		},
	}

	s := newTestService(t, backend, &fakeLocker{})

	blocks := s.ListBlocks(context.Background(), "designer-1")

	require.Len(t, blocks, 1)
	assert.Nil(t, blocks[0].RemoteOK)
	assert.Nil(t, blocks[0].LocalOK)
}

func TestCreateBlockValidation(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	cases := []struct {
		name string
		req  api.AvailabilityBlockRequest
	}{
		{"bad date", api.AvailabilityBlockRequest{SpecificDate: "soon", StartTime: "10:00", EndTime: "11:00"}},
		{"bad start", api.AvailabilityBlockRequest{SpecificDate: "2026-03-10", StartTime: "25:00", EndTime: "11:00"}},
		{"bad end", api.AvailabilityBlockRequest{SpecificDate: "2026-03-10", StartTime: "10:00", EndTime: "xx"}},
		{"inverted range", api.AvailabilityBlockRequest{SpecificDate: "2026-03-10", StartTime: "11:00", EndTime: "10:00"}},
		{"hour out of range", api.AvailabilityBlockRequest{SpecificDate: "2026-03-10", Hour: intptr(24)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateBlock(context.Background(), "designer-1", &tc.req)
			assert.ErrorIs(t, err, response.ErrBadRequest)
		})
	}
}

func intptr(i int) *int { return &i }

func TestToggleBlockNotFound(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{})

	_, err := s.ToggleBlock(context.Background(), "local-9-9-zzz")

	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestCreateAppointmentLockError(t *testing.T) {
	s := newTestService(t, newFakeBackend(), &fakeLocker{err: errors.New("redis down")})

	_, err := s.CreateAppointment(context.Background(), validAppointmentRequest())

	require.Error(t, err)
	assert.NotErrorIs(t, err, response.ErrLocked)
}
