package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Djatila/studionailart-sub001/api"
	"github.com/Djatila/studionailart-sub001/pkg/response"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type BlockLister interface {
	ListBlocks(ctx context.Context, designerID string) []api.AvailabilityBlockResponse
}

type Response struct {
	response.Response
	Blocks []api.AvailabilityBlockResponse `json:"blocks"`
}

func New(log *slog.Logger, lister BlockLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

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

		blocks := lister.ListBlocks(r.Context(), designerID)

		log.Info("Blocks listed", slog.String("designer_id", designerID), slog.Int("count", len(blocks)))

		render.JSON(w, r, Response{
			Blocks: blocks,
		})
	}
}
