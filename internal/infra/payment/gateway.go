// Package payment talks to the external stablecoin settlement gateway.
// The engine only needs capture semantics; rail internals stay behind
// the gateway.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"stagepass/internal/pkg/config"
	"stagepass/internal/pkg/errs"
	"stagepass/internal/usecase/commands"
)

type captureRequest struct {
	Wallet      string `json:"wallet"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type captureResponse struct {
	TransactionRef string `json:"transaction_ref"`
	Declined       bool   `json:"declined"`
	Reason         string `json:"reason"`
}

type GatewayClient struct {
	baseURL string
	client  *http.Client
}

func NewGatewayClient(cfg config.PaymentConfig) *GatewayClient {
	return &GatewayClient{
		baseURL: cfg.GatewayBaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Capture charges the wallet. A decline maps to ErrInsufficientFunds;
// anything else (timeouts included) maps to ErrGatewayFailure so the
// caller's compensation path runs.
func (g *GatewayClient) Capture(ctx context.Context, wallet string, amountCents int64, currency string) (commands.CaptureResult, error) {
	body, err := json.Marshal(captureRequest{
		Wallet:      wallet,
		AmountCents: amountCents,
		Currency:    currency,
	})
	if err != nil {
		return commands.CaptureResult{}, errs.Mark(err, errs.ErrGatewayFailure)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/captures", bytes.NewReader(body))
	if err != nil {
		return commands.CaptureResult{}, errs.Mark(err, errs.ErrGatewayFailure)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return commands.CaptureResult{}, errs.Mark(err, errs.ErrGatewayFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return commands.CaptureResult{}, errs.ErrInsufficientFunds
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return commands.CaptureResult{}, errs.Mark(
			fmt.Errorf("gateway returned status %d", resp.StatusCode), errs.ErrGatewayFailure)
	}

	var out captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return commands.CaptureResult{}, errs.Mark(err, errs.ErrGatewayFailure)
	}
	if out.Declined {
		return commands.CaptureResult{}, errs.ErrInsufficientFunds
	}
	return commands.CaptureResult{TransactionRef: out.TransactionRef}, nil
}
