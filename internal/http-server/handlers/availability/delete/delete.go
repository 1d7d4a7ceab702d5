package delete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Djatila/studionailart-sub001/pkg/response"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type BlockDeleter interface {
	DeleteBlock(ctx context.Context, id string) error
}

func New(log *slog.Logger, deleter BlockDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		// deleting an id that is not present anywhere is a no-op, not a 404
		if err := deleter.DeleteBlock(r.Context(), id); err != nil {
			log.Error("Failed to delete block", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete block"))
			return
		}

		log.Info("Block deleted", slog.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
