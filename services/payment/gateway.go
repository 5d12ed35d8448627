package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"banglabnb/config"
	"banglabnb/models"
	"banglabnb/services/fault"
)

// SessionRequest is what the gateway needs to open a hosted checkout session.
type SessionRequest struct {
	TransactionID string
	Amount        float64
	ProductName   string
	Customer      models.Customer
	ValueA        string // order kind, echoed back in callbacks
	ValueB        string // order id, echoed back in callbacks
}

// Session is the gateway's answer: the URL to redirect the payer to.
type Session struct {
	TransactionID  string `json:"transaction_id"`
	GatewayPageURL string `json:"gateway_page_url"`
}

// GatewayClient opens hosted checkout sessions with the payment gateway.
type GatewayClient interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// SSLCommerzClient implements GatewayClient against the SSLCommerz v4
// session API. Credentials and endpoints come from configuration so the
// sandbox and live environments differ only in config.
type SSLCommerzClient struct {
	StoreID   string
	StorePass string
	APIURL    string
	BaseURL   string // public API base for callback URLs
	ClientURL string
	HTTP      *http.Client
}

// NewSSLCommerzClient builds a client from the loaded configuration.
func NewSSLCommerzClient() *SSLCommerzClient {
	return &SSLCommerzClient{
		StoreID:   config.AppConfig.SSLCStoreID,
		StorePass: config.AppConfig.SSLCStorePass,
		APIURL:    config.AppConfig.SSLCAPIURL,
		BaseURL:   config.AppConfig.APIURL,
		ClientURL: config.AppConfig.ClientURL,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

// sessionResponse is the subset of the gateway's reply we consume.
type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// CreateSession opens a checkout session and returns its redirect URL.
func (c *SSLCommerzClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("store_id", c.StoreID)
	form.Set("store_passwd", c.StorePass)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", "BDT")
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", c.BaseURL+"/api/payments/success")
	form.Set("fail_url", c.BaseURL+"/api/payments/fail")
	form.Set("cancel_url", c.BaseURL+"/api/payments/cancel")
	form.Set("ipn_url", c.BaseURL+"/api/payments/ipn")
	form.Set("shipping_method", "NO")
	form.Set("product_name", req.ProductName)
	form.Set("product_category", "Travel")
	form.Set("product_profile", "general")
	form.Set("cus_name", req.Customer.Name)
	form.Set("cus_email", req.Customer.Email)
	form.Set("cus_add1", req.Customer.Address)
	form.Set("cus_city", "Dhaka")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", req.Customer.Phone)
	form.Set("value_a", req.ValueA)
	form.Set("value_b", req.ValueB)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fault.Upstream("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	var parsed sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fault.Upstream("invalid gateway response", err)
	}
	if parsed.Status != "SUCCESS" || parsed.GatewayPageURL == "" {
		return nil, fault.Upstream(fmt.Sprintf("gateway refused session: %s", parsed.FailedReason), nil)
	}

	return &Session{TransactionID: req.TransactionID, GatewayPageURL: parsed.GatewayPageURL}, nil
}
