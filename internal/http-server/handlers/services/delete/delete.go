package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Djatila/studionailart-sub001/pkg/response"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ServiceDeleter interface {
	DeleteService(ctx context.Context, serviceID string) error
}

func New(log *slog.Logger, deleter ServiceDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		serviceID := chi.URLParam(r, "id")
		if serviceID == "" {
			log.Error("service id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "service id is required"))
			return
		}

		err := deleter.DeleteService(r.Context(), serviceID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("service not found", slog.String("service_id", serviceID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "service not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete service", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete service"))
			return
		}

		log.Info("Service deleted", slog.String("service_id", serviceID))

		w.WriteHeader(http.StatusNoContent)
	}
}
