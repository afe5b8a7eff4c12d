// Package handler exposes the incentive module over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/models"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	"github.com/ICELANF/behavioral-health-project-sub001/pkg/platform/httputil"
	"github.com/ICELANF/behavioral-health-project-sub001/pkg/requestcontext"
)

// Service defines the incentive operations the handler exposes.
type Service interface {
	Grant(ctx context.Context, req *models.GrantRequest) (*models.PipelineResult, error)
	Confirm(ctx context.Context, counterpart, requester id.UserID, eventType models.EventType, behaviorID id.BehaviorID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the incentive routes on the router. Auth and request
// plumbing middleware are applied by the caller so tests can exercise
// the handlers directly.
func (h *Handler) Register(r chi.Router) {
	r.Post("/points/grant", h.handleGrantPoints)
	r.Post("/points/confirm", h.handleConfirmInteraction)
}

// handleGrantPoints runs one point-award attempt through the gating
// pipeline and returns the sanitized decision.
func (h *Handler) handleGrantPoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	wireReq, ok := httputil.DecodeAndPrepare[models.GrantPointsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	wireReq.Normalize()

	// When the caller is authenticated the token subject wins over the
	// body so a client can never award points to someone else.
	if authedUser := requestcontext.UserID(ctx); !authedUser.IsNil() {
		wireReq.UserID = authedUser.String()
	}

	req, err := wireReq.ToDomain()
	if err != nil {
		h.logger.WarnContext(ctx, "invalid grant request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Grant(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "grant request failed",
			"request_id", requestID,
			"event_type", req.EventType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.NewGrantPointsResponse(result))
}

// handleConfirmInteraction records a counterpart's acknowledgement of a
// pending interaction. The original requester resubmits the grant after
// this succeeds.
func (h *Handler) handleConfirmInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ConfirmInteractionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	req.Normalize()

	if authedUser := requestcontext.UserID(ctx); !authedUser.IsNil() {
		req.CounterpartUserID = authedUser.String()
	}

	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	err := h.service.Confirm(ctx,
		id.UserID(req.CounterpartUserID),
		id.UserID(req.RequesterUserID),
		models.EventType(req.EventType),
		id.BehaviorID(req.BehaviorID),
	)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm interaction failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ConfirmInteractionResponse{Confirmed: true})
}
