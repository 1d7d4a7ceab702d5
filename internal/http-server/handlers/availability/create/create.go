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
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type BlockCreator interface {
	CreateBlock(ctx context.Context, designerID string, req *api.AvailabilityBlockRequest) (*api.AvailabilityBlockResponse, error)
}

type Request struct {
	api.AvailabilityBlockRequest
}

type Response struct {
	response.Response
	Block api.AvailabilityBlockResponse `json:"block,omitempty"`
}

func New(log *slog.Logger, creator BlockCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.create.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.SpecificDate == "" {
			log.Error("specific_date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "specific_date is required"))
			return
		}

		block, err := creator.CreateBlock(r.Context(), designerID, &req.AvailabilityBlockRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("Invalid block request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid block request"))
			return
		}

		if err != nil {
			log.Error("Failed to create block", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create block"))
			return
		}

		log.Info("Block created", slog.Any("block", block))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Block: *block,
		})
	}
}
