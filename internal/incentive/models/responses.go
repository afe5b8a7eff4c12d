package models

// GrantPointsResponse is the API response for a processed grant request.
type GrantPointsResponse struct {
	FinalPoints         int               `json:"final_points"`
	OriginalPoints      int               `json:"original_points"`
	Awarded             bool              `json:"awarded"`
	PendingConfirmation bool              `json:"pending_confirmation"`
	Outcomes            []StrategyOutcome `json:"outcomes"`
	// Message carries the user-facing reason for a policy outcome
	// (cap reached, confirmation pending). Empty on plain awards.
	Message string `json:"message,omitempty"`
}

// NewGrantPointsResponse maps a pipeline result to its wire shape.
// Anomaly flags are deliberately absent: the acting user never sees them.
func NewGrantPointsResponse(result *PipelineResult) GrantPointsResponse {
	resp := GrantPointsResponse{
		FinalPoints:         result.FinalPoints,
		OriginalPoints:      result.OriginalPoints,
		Awarded:             result.Awarded,
		PendingConfirmation: result.PendingConfirmation,
		Outcomes:            sanitizeOutcomes(result.Outcomes),
	}
	if result.ShortCircuitedBy != "" {
		for _, o := range result.Outcomes {
			if o.Strategy == result.ShortCircuitedBy {
				resp.Message = o.Reason
				break
			}
		}
	}
	return resp
}

// sanitizeOutcomes strips anomaly outcomes from the user-visible list so
// detection is never telegraphed to the actor.
func sanitizeOutcomes(outcomes []StrategyOutcome) []StrategyOutcome {
	visible := make([]StrategyOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Verdict == VerdictFlagged {
			o = StrategyOutcome{
				Strategy: o.Strategy,
				Verdict:  VerdictAllow,
				Points:   o.Points,
			}
		}
		visible = append(visible, o)
	}
	return visible
}

// ConfirmInteractionResponse is the API response for a recorded confirmation.
type ConfirmInteractionResponse struct {
	Confirmed bool `json:"confirmed"`
}
