package get

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

type ServiceLister interface {
	ListServices(ctx context.Context, designerID string) ([]*api.ServiceResponse, error)
}

type Response struct {
	response.Response
	Services []api.ServiceResponse `json:"services"`
}

func New(log *slog.Logger, lister ServiceLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.services.get.New"

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

		services, err := lister.ListServices(r.Context(), designerID)

		if err != nil {
			log.Error("Failed to list services", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list services"))
			return
		}

		log.Info("Services listed", slog.String("designer_id", designerID), slog.Int("count", len(services)))

		result := make([]api.ServiceResponse, len(services))
		for i, svc := range services {
			result[i] = *svc
		}

		render.JSON(w, r, Response{
			Services: result,
		})
	}
}
