package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/novelnest/novelnest-server/internal/logger"
	"github.com/novelnest/novelnest-server/internal/model"
)

var _ model.SMSDispatcher = (*IdeamartClient)(nil)

const (
	// DefaultIdeamartURL is the Ideamart SMS send endpoint.
	DefaultIdeamartURL = "https://api.ideamart.io/sms/send"
	statusSuccess      = "S1000"
	defaultTimeout     = 10 * time.Second
	maxResponseBytes   = 64 << 10
)

// IdeamartConfig holds gateway credentials.
type IdeamartConfig struct {
	URL           string
	ApplicationID string
	Password      string
	SourceAddress string
	Timeout       time.Duration
}

type ideamartRequest struct {
	ApplicationID        string   `json:"applicationId"`
	Password             string   `json:"password"`
	Message              string   `json:"message"`
	DestinationAddresses []string `json:"destinationAddresses"`
	SourceAddress        string   `json:"sourceAddress,omitempty"`
}

type ideamartResponse struct {
	StatusCode   string `json:"statusCode"`
	StatusDetail string `json:"statusDetail"`
	RequestID    string `json:"requestId"`
}

// IdeamartClient sends messages through the Ideamart SMS API.
type IdeamartClient struct {
	cfg    IdeamartConfig
	client *http.Client
	logger *logger.Logger
}

func NewIdeamartClient(cfg IdeamartConfig, logger *logger.Logger) *IdeamartClient {
	if cfg.URL == "" {
		cfg.URL = DefaultIdeamartURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &IdeamartClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Send posts text to mobileNumber. Anything but HTTP 2xx with statusCode
// S1000 is returned as *Error.
func (c *IdeamartClient) Send(ctx context.Context, mobileNumber, text string) error {
	body, err := json.Marshal(ideamartRequest{
		ApplicationID:        c.cfg.ApplicationID,
		Password:             c.cfg.Password,
		Message:              text,
		DestinationAddresses: []string{destination(mobileNumber)},
		SourceAddress:        c.cfg.SourceAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call sms gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read sms gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{HTTPStatus: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}

	var out ideamartResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return &Error{HTTPStatus: resp.StatusCode, Detail: "undecodable response body"}
	}
	if out.StatusCode != statusSuccess {
		return &Error{HTTPStatus: resp.StatusCode, StatusCode: out.StatusCode, Detail: out.StatusDetail}
	}

	c.logger.Debug("SMS gateway: message accepted", logger.Phone(mobileNumber), "request_id", out.RequestID)
	return nil
}

// destination renders a canonical number in the gateway's tel: form.
func destination(mobileNumber string) string {
	return "tel:" + strings.TrimPrefix(mobileNumber, "+")
}
