package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Djatila/studionailart-sub001/api"
	"github.com/Djatila/studionailart-sub001/internal/appointment"
	"github.com/Djatila/studionailart-sub001/internal/availability"
	"github.com/Djatila/studionailart-sub001/internal/lock"
	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/internal/notify"
	"github.com/Djatila/studionailart-sub001/internal/slots"
	"github.com/Djatila/studionailart-sub001/pkg/response"

	"github.com/google/uuid"
)

// Store is the slice of the remote storage the service consumes directly.
// Availability reads go through the availability.Store adapter instead, so
// the is_available inversion stays in one place.
type Store interface {
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	InsertAppointment(ctx context.Context, apt *models.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	ListAppointments(ctx context.Context, designerID string, date *string) ([]*models.Appointment, error)

	ListDesigners(ctx context.Context) ([]*models.Designer, error)
	GetDesigner(ctx context.Context, id string) (*models.Designer, error)

	ListServices(ctx context.Context, designerID string) ([]*models.Service, error)
	InsertService(ctx context.Context, svc *models.Service) error
	DeleteService(ctx context.Context, id string) error
}

type Service struct {
	store        Store
	blocks       *availability.Store
	appointments *appointment.Store
	locker       lock.Locker
	notifier     notify.Notifier
	log          *slog.Logger
	now          func() time.Time
}

func NewService(store Store, blocks *availability.Store, appointments *appointment.Store, locker lock.Locker, notifier notify.Notifier, log *slog.Logger) *Service {
	return &Service{
		store:        store,
		blocks:       blocks,
		appointments: appointments,
		locker:       locker,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Slots

// AvailableSlots resolves the bookable times for a designer and date. Both
// the admin calendar and the client booking flow call this one method; any
// two callers with the same inputs see the same slot list.
func (s *Service) AvailableSlots(ctx context.Context, designerID, date string) (*api.SlotsResponse, error) {
	const op = "service.AvailableSlots"

	if _, err := time.Parse("2006-01-02", slots.NormalizeDate(date)); err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}

	blocks := s.blocks.LoadBlocks(ctx, designerID)
	occupied := s.appointments.OccupiedTimes(ctx, designerID, slots.NormalizeDate(date))

	grid := slots.GridFor(s.now())
	available := slots.Resolve(grid, blocks, date, occupied)

	return &api.SlotsResponse{
		DesignerID: designerID,
		Date:       slots.NormalizeDate(date),
		Slots:      available,
		DayBlocked: slots.IsFullDayBlocked(blocks, date),
	}, nil
}

// Availability blocks

func (s *Service) ListBlocks(ctx context.Context, designerID string) []api.AvailabilityBlockResponse {
	blocks := s.blocks.LoadBlocks(ctx, designerID)

	result := make([]api.AvailabilityBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, readBlockResponse(b))
	}

	return result
}

func (s *Service) CreateBlock(ctx context.Context, designerID string, req *api.AvailabilityBlockRequest) (*api.AvailabilityBlockResponse, error) {
	const op = "service.CreateBlock"

	if _, err := time.Parse("2006-01-02", slots.NormalizeDate(req.SpecificDate)); err != nil {
		return nil, fmt.Errorf("%s: invalid specific_date: %w", op, response.ErrBadRequest)
	}

	var (
		block models.AvailabilityBlock
		res   availability.WriteResult
	)

	if req.Hour != nil {
		if *req.Hour < 0 || *req.Hour > 23 {
			return nil, fmt.Errorf("%s: invalid hour: %w", op, response.ErrBadRequest)
		}
		block, res = s.blocks.BlockHour(ctx, designerID, req.SpecificDate, *req.Hour)
	} else {
		if _, err := time.Parse("15:04", req.StartTime); err != nil {
			return nil, fmt.Errorf("%s: invalid start_time: %w", op, response.ErrBadRequest)
		}
		if _, err := time.Parse("15:04", req.EndTime); err != nil {
			return nil, fmt.Errorf("%s: invalid end_time: %w", op, response.ErrBadRequest)
		}
		if req.StartTime >= req.EndTime {
			return nil, fmt.Errorf("%s: start_time must precede end_time: %w", op, response.ErrBadRequest)
		}
		block, res = s.blocks.CreateBlock(ctx, designerID, req.SpecificDate, req.StartTime, req.EndTime)
	}

	if !res.RemoteOK && !res.LocalOK {
		return nil, fmt.Errorf("%s: block not persisted anywhere", op)
	}

	resp := blockResponse(block, res)

	return &resp, nil
}

func (s *Service) DeleteBlock(ctx context.Context, id string) error {
	const op = "service.DeleteBlock"

	res := s.blocks.DeleteBlock(ctx, id)
	if !res.RemoteOK && !res.LocalOK {
		return fmt.Errorf("%s: delete reached no backend", op)
	}

	return nil
}

func (s *Service) ToggleBlock(ctx context.Context, id string) (*api.AvailabilityBlockResponse, error) {
	const op = "service.ToggleBlock"

	block, res, found := s.blocks.ToggleBlock(ctx, id)
	if !found {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	resp := blockResponse(block, res)

	return &resp, nil
}

// readBlockResponse leaves the per-backend write flags unset: they describe
// a write outcome, and a listed block may have been served from either
// backend.
func readBlockResponse(b models.AvailabilityBlock) api.AvailabilityBlockResponse {
	return api.AvailabilityBlockResponse{
		ID:           b.ID,
		DesignerID:   b.DesignerID,
		SpecificDate: b.SpecificDate,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		IsActive:     b.IsActive,
	}
}

func blockResponse(b models.AvailabilityBlock, res availability.WriteResult) api.AvailabilityBlockResponse {
	resp := readBlockResponse(b)
	resp.RemoteOK = &res.RemoteOK
	resp.LocalOK = &res.LocalOK

	return resp
}

// Appointments

func (s *Service) CreateAppointment(ctx context.Context, req *api.AppointmentRequest) (*api.AppointmentResponse, error) {
	const op = "service.CreateAppointment"

	if req.DesignerID == "" || req.ClientName == "" || req.ClientPhone == "" || req.Service == "" {
		return nil, fmt.Errorf("%s: missing required fields: %w", op, response.ErrBadRequest)
	}

	date := slots.NormalizeDate(req.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}
	requested := appointment.NormalizeTime(req.Time)

	resolved, err := s.AvailableSlots(ctx, req.DesignerID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resolved.DayBlocked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrDayBlocked)
	}
	if !contains(resolved.Slots, requested) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
	}

	lockKey := lock.BookingKey(req.DesignerID, date, requested)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	apt := &models.Appointment{
		ID:          uuid.NewString(),
		DesignerID:  req.DesignerID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Service:     req.Service,
		Date:        date,
		Time:        requested,
		Price:       req.Price,
		Status:      models.AppointmentPending,
	}

	if err := s.store.InsertAppointment(ctx, apt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.notifier != nil {
		s.notifier.AppointmentCreated(ctx, apt)
	}

	return appointmentResponse(apt), nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	const op = "service.GetAppointment"

	apt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return appointmentResponse(apt), nil
}

func (s *Service) ListAppointments(ctx context.Context, designerID string, date *string) ([]*api.AppointmentResponse, error) {
	const op = "service.ListAppointments"

	appointments, err := s.store.ListAppointments(ctx, designerID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.AppointmentResponse, 0, len(appointments))
	for _, apt := range appointments {
		result = append(result, appointmentResponse(apt))
	}

	return result, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	return s.setAppointmentStatus(ctx, id, models.AppointmentCancelled)
}

func (s *Service) ConfirmAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	return s.setAppointmentStatus(ctx, id, models.AppointmentConfirmed)
}

func (s *Service) CompleteAppointment(ctx context.Context, id string) (*api.AppointmentResponse, error) {
	return s.setAppointmentStatus(ctx, id, models.AppointmentCompleted)
}

func (s *Service) setAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) (*api.AppointmentResponse, error) {
	const op = "service.setAppointmentStatus"

	err := s.store.UpdateAppointmentStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetAppointment(ctx, id)
}

func appointmentResponse(apt *models.Appointment) *api.AppointmentResponse {
	return &api.AppointmentResponse{
		ID:          apt.ID,
		DesignerID:  apt.DesignerID,
		ClientName:  apt.ClientName,
		ClientPhone: apt.ClientPhone,
		ClientEmail: apt.ClientEmail,
		Service:     apt.Service,
		Date:        apt.Date,
		Time:        appointment.NormalizeTime(apt.Time),
		Price:       apt.Price,
		Status:      string(apt.Status),
	}
}

// Designers

func (s *Service) ListDesigners(ctx context.Context) ([]*api.DesignerResponse, error) {
	const op = "service.ListDesigners"

	designers, err := s.store.ListDesigners(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.DesignerResponse, 0, len(designers))
	for _, d := range designers {
		result = append(result, designerResponse(d))
	}

	return result, nil
}

func (s *Service) GetDesigner(ctx context.Context, id string) (*api.DesignerResponse, error) {
	const op = "service.GetDesigner"

	d, err := s.store.GetDesigner(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return designerResponse(d), nil
}

func designerResponse(d *models.Designer) *api.DesignerResponse {
	return &api.DesignerResponse{
		ID:       d.ID,
		Name:     d.Name,
		Email:    d.Email,
		Phone:    d.Phone,
		PixKey:   d.PixKey,
		IsActive: d.IsActive,
	}
}

// Services catalog

func (s *Service) ListServices(ctx context.Context, designerID string) ([]*api.ServiceResponse, error) {
	const op = "service.ListServices"

	services, err := s.store.ListServices(ctx, designerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, serviceResponse(svc))
	}

	return result, nil
}

func (s *Service) CreateService(ctx context.Context, designerID string, req *api.ServiceRequest) (*api.ServiceResponse, error) {
	const op = "service.CreateService"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrBadRequest)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%s: invalid price: %w", op, response.ErrBadRequest)
	}

	svc := &models.Service{
		ID:              uuid.NewString(),
		DesignerID:      designerID,
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	}

	if err := s.store.InsertService(ctx, svc); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return serviceResponse(svc), nil
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	const op = "service.DeleteService"

	err := s.store.DeleteService(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func serviceResponse(svc *models.Service) *api.ServiceResponse {
	return &api.ServiceResponse{
		ID:              svc.ID,
		DesignerID:      svc.DesignerID,
		Name:            svc.Name,
		Price:           svc.Price,
		DurationMinutes: svc.DurationMinutes,
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}
