package payout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"banglabnb/config"
	"banglabnb/services/fault"
	"banglabnb/utils"

	"go.uber.org/zap"
)

// DisbursementClient pushes money to a host's payout method.
type DisbursementClient interface {
	Disburse(ctx context.Context, payoutID, hostID string, amount float64, method string) error
}

// HTTPDisbursementClient calls the gateway's disbursement API. Outside
// production it only logs the transfer, matching the sandbox gateway which
// has no disbursement endpoint.
type HTTPDisbursementClient struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

func NewHTTPDisbursementClient() *HTTPDisbursementClient {
	return &HTTPDisbursementClient{
		URL:    config.AppConfig.SSLCDisburseURL,
		APIKey: config.AppConfig.SSLCDisburseKey,
		HTTP:   &http.Client{Timeout: 15 * time.Second},
	}
}

type disburseResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Disburse transfers the amount to the host.
func (c *HTTPDisbursementClient) Disburse(ctx context.Context, payoutID, hostID string, amount float64, method string) error {
	if !config.IsProduction() {
		utils.GetLogger().Info("simulated disbursement",
			zap.String("payoutID", payoutID),
			zap.String("hostID", hostID),
			zap.Float64("amount", amount),
			zap.String("method", method))
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"reference": payoutID,
		"recipient": hostID,
		"amount":    amount,
		"method":    method,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal disbursement request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to build disbursement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fault.Upstream("disbursement gateway unreachable", err)
	}
	defer resp.Body.Close()

	var parsed disburseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fault.Upstream("invalid disbursement response", err)
	}
	if parsed.Status != "SUCCESS" {
		return fault.Upstream(fmt.Sprintf("disbursement refused: %s", parsed.Reason), nil)
	}
	return nil
}
