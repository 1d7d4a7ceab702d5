package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Djatila/studionailart-sub001/api"
	"github.com/Djatila/studionailart-sub001/pkg/response"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type AppointmentLister interface {
	ListAppointments(ctx context.Context, designerID string, date *string) ([]*api.AppointmentResponse, error)
}

type Response struct {
	response.Response
	Appointments []api.AppointmentResponse `json:"appointments"`
}

func New(log *slog.Logger, lister AppointmentLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		designerID := chi.URLParam(r, "id")
		if designerID == "" {
			log.Error("designer id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "designer id is required"))
			return
		}

		var date *string
		if d := r.URL.Query().Get("date"); d != "" {
			date = &d
		}

		appointments, err := lister.ListAppointments(r.Context(), designerID, date)

		if err != nil {
			log.Error("Failed to list appointments", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list appointments"))
			return
		}

		log.Info("Appointments listed", slog.String("designer_id", designerID), slog.Int("count", len(appointments)))

		result := make([]api.AppointmentResponse, len(appointments))
		for i, apt := range appointments {
			result[i] = *apt
		}

		render.JSON(w, r, Response{
			Appointments: result,
		})
	}
}
