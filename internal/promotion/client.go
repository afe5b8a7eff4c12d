// Package promotion provides the HTTP client for the external
// leveling/promotion evaluator the growth-track gate notifies.
package promotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ICELANF/behavioral-health-project-sub001/internal/incentive/ports"
	id "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain"
)

const defaultTimeout = 2 * time.Second

// Client calls the promotion evaluator over HTTP. Every error it returns
// is swallowed by the growth-track strategy; the short timeout keeps a
// slow evaluator from holding up grant processing.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an evaluator client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type checkRequest struct {
	UserID       string `json:"user_id"`
	CurrentLevel int    `json:"current_level"`
}

// CheckPromotionEligibility asks the evaluator whether the user's
// promotion-readiness state changed.
func (c *Client) CheckPromotionEligibility(ctx context.Context, userID id.UserID, currentLevel int) (*ports.PromotionSignal, error) {
	body, err := json.Marshal(checkRequest{
		UserID:       userID.String(),
		CurrentLevel: currentLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal eligibility request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/promotion/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build eligibility request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call promotion evaluator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("promotion evaluator returned status %d", resp.StatusCode)
	}

	var signal ports.PromotionSignal
	if err := json.NewDecoder(resp.Body).Decode(&signal); err != nil {
		return nil, fmt.Errorf("decode evaluator response: %w", err)
	}
	return &signal, nil
}

var _ ports.PromotionEvaluator = (*Client)(nil)
