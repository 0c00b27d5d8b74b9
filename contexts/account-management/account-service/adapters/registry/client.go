package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "keystone/contexts/account-management/account-service/domain/errors"
)

// Client validates affiliation passcodes against the external business
// registry. Every failure mode, including a timed-out call, maps to
// ErrPasscodeInvalid so callers never affiliate on an unverified passcode.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) ValidatePasscode(ctx context.Context, businessIdentifier, passcode string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"business_identifier": strings.TrimSpace(businessIdentifier),
		"passcode":            strings.TrimSpace(passcode),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/entities/validate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("registry passcode check failed",
			"event", "registry_call_failed",
			"module", "account-management/account-service",
			"layer", "adapter",
			"business_identifier", strings.TrimSpace(businessIdentifier),
			"error", err.Error(),
		)
		return domainerrors.ErrPasscodeInvalid
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domainerrors.ErrPasscodeInvalid
	}
	return nil
}
