package models

import (
	"strings"
	"time"

	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
	dErrors "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain-errors"
)

// GrantPointsRequest is the wire shape of a point-award attempt.
type GrantPointsRequest struct {
	UserID            string            `json:"user_id"`
	EventType         string            `json:"event_type"`
	BasePoints        int               `json:"base_points"`
	PointCategory     string            `json:"point_category,omitempty"`
	BehaviorID        string            `json:"behavior_id,omitempty"`
	QualityScore      *float64          `json:"quality_score,omitempty"`
	CounterpartUserID string            `json:"counterpart_user_id,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	Timestamp         *time.Time        `json:"timestamp,omitempty"`
}

func (r *GrantPointsRequest) Normalize() {
	if r == nil {
		return
	}
	r.UserID = strings.TrimSpace(r.UserID)
	r.EventType = strings.TrimSpace(strings.ToLower(r.EventType))
	r.PointCategory = strings.TrimSpace(strings.ToLower(r.PointCategory))
	r.BehaviorID = strings.TrimSpace(r.BehaviorID)
	r.CounterpartUserID = strings.TrimSpace(r.CounterpartUserID)
}

// ToDomain validates the wire request and builds the domain GrantRequest.
// Follows validation order: Required -> Syntax -> Semantic.
func (r *GrantPointsRequest) ToDomain() (*GrantRequest, error) {
	if r == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return nil, err
	}

	req := &GrantRequest{
		UserID:            userID,
		EventType:         EventType(r.EventType),
		BasePoints:        r.BasePoints,
		Category:          PointCategory(r.PointCategory),
		BehaviorID:        id.BehaviorID(r.BehaviorID),
		QualityScore:      r.QualityScore,
		CounterpartUserID: id.UserID(r.CounterpartUserID),
		Metadata:          r.Metadata,
	}
	if r.Timestamp != nil {
		req.Timestamp = *r.Timestamp
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// ConfirmInteractionRequest is the wire shape of a counterpart confirming
// that an interaction occurred.
type ConfirmInteractionRequest struct {
	CounterpartUserID string `json:"counterpart_user_id"`
	RequesterUserID   string `json:"requester_user_id"`
	EventType         string `json:"event_type"`
	BehaviorID        string `json:"behavior_id"`
}

func (r *ConfirmInteractionRequest) Normalize() {
	if r == nil {
		return
	}
	r.CounterpartUserID = strings.TrimSpace(r.CounterpartUserID)
	r.RequesterUserID = strings.TrimSpace(r.RequesterUserID)
	r.EventType = strings.TrimSpace(strings.ToLower(r.EventType))
	r.BehaviorID = strings.TrimSpace(r.BehaviorID)
}

func (r *ConfirmInteractionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.CounterpartUserID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "counterpart_user_id is required")
	}
	if r.RequesterUserID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "requester_user_id is required")
	}
	if r.EventType == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "event_type is required")
	}
	if r.BehaviorID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "behavior_id is required")
	}
	return nil
}
