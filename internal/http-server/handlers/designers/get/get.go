package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Djatila/studionailart-sub001/api"
	"github.com/Djatila/studionailart-sub001/pkg/response"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type DesignerGetter interface {
	GetDesigner(ctx context.Context, id string) (*api.DesignerResponse, error)
	ListDesigners(ctx context.Context) ([]*api.DesignerResponse, error)
}

type Response struct {
	response.Response
	Designer  *api.DesignerResponse  `json:"designer,omitempty"`
	Designers []api.DesignerResponse `json:"designers,omitempty"`
}

func New(log *slog.Logger, getter DesignerGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.designers.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			designer, err := getter.GetDesigner(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("resource not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get designer", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get designer"))
				return
			}

			log.Info("Designer retrieved", slog.String("id", id))
			render.JSON(w, r, Response{Designer: designer})
			return
		}

		designers, err := getter.ListDesigners(r.Context())

		if err != nil {
			log.Error("Failed to list designers", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list designers"))
			return
		}

		log.Info("Designers listed", slog.Int("count", len(designers)))

		result := make([]api.DesignerResponse, len(designers))
		for i, d := range designers {
			result[i] = *d
		}

		render.JSON(w, r, Response{Designers: result})
	}
}
