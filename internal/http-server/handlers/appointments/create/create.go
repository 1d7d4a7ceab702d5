package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Djatila/studionailart-sub001/api"
	"github.com/Djatila/studionailart-sub001/pkg/response"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AppointmentCreator interface {
	CreateAppointment(ctx context.Context, req *api.AppointmentRequest) (*api.AppointmentResponse, error)
}

type Request struct {
	api.AppointmentRequest
}

type Response struct {
	response.Response
	Appointment api.AppointmentResponse `json:"appointment,omitempty"`
}

func New(log *slog.Logger, creator AppointmentCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.DesignerID == "" {
			log.Error("designer_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "designer_id is required"))
			return
		}

		appointment, err := creator.CreateAppointment(r.Context(), &req.AppointmentRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("Invalid appointment request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid appointment request"))
			return
		}

		if errors.Is(err, response.ErrDayBlocked) {
			log.Error("Day is fully blocked", slog.String("date", req.Date))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.DAY_BLOCKED), "day is fully blocked"))
			return
		}

		if errors.Is(err, response.ErrSlotNotAvailable) {
			log.Error("Slot is not available", slog.String("date", req.Date), slog.String("time", req.Time))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.SLOT_NOT_AVAILABLE), "slot is not available"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("Slot is locked by another booking")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.LOCKED), "slot is being booked by someone else"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("Appointment conflict")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "appointment already exists"))
			return
		}

		if err != nil {
			log.Error("Failed to create appointment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create appointment"))
			return
		}

		log.Info("Appointment created", slog.Any("appointment", appointment))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Appointment: *appointment,
		})
	}
}
