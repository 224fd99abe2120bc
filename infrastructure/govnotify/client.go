// Package govnotify sends email through the GOV.UK Notify REST API.
package govnotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"pair-programming-backend/domains/notification/application/port"
	"pair-programming-backend/shared/common/config"
	"pair-programming-backend/shared/common/logger"
)

const (
	DefaultBaseURL = "https://api.notifications.service.gov.uk"
	sendEmailPath  = "/v2/notifications/email"

	uuidLength = 36
	// <key name>-<service id>-<secret>
	minAPIKeyLength = 2*uuidLength + 1
)

var ErrInvalidAPIKey = errors.New("invalid gov notify api key")

type APIKey struct {
	ServiceID string
	Secret    string
}

// ParseAPIKey splits a Notify key into the service id and signing secret.
func ParseAPIKey(key string) (APIKey, error) {
	key = strings.TrimSpace(key)
	if len(key) < minAPIKeyLength {
		return APIKey{}, ErrInvalidAPIKey
	}

	secret := key[len(key)-uuidLength:]
	serviceID := key[len(key)-2*uuidLength-1 : len(key)-uuidLength-1]
	if _, err := uuid.Parse(secret); err != nil {
		return APIKey{}, fmt.Errorf("%w: secret is not a uuid", ErrInvalidAPIKey)
	}
	if _, err := uuid.Parse(serviceID); err != nil {
		return APIKey{}, fmt.Errorf("%w: service id is not a uuid", ErrInvalidAPIKey)
	}
	return APIKey{ServiceID: serviceID, Secret: secret}, nil
}

type EmailRequest struct {
	EmailAddress    string            `json:"email_address"`
	TemplateID      string            `json:"template_id"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Reference       string            `json:"reference,omitempty"`
}

type EmailResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	URI       string `json:"uri"`
	Content   struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	} `json:"content"`
}

// APIError is the error body Notify returns for non-2xx responses.
type APIError struct {
	StatusCode int `json:"status_code"`
	Errors     []struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("gov notify: status %d", e.StatusCode)
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msgs = append(msgs, item.Error+": "+item.Message)
	}
	return fmt.Sprintf("gov notify: status %d: %s", e.StatusCode, strings.Join(msgs, "; "))
}

func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	key        APIKey
	templateID string
	now        func() time.Time
	retry      func() backoff.BackOff
}

func NewClient(httpClient *http.Client, baseURL, apiKey, templateID string) (*Client, error) {
	key, err := ParseAPIKey(apiKey)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		templateID: templateID,
		now:        time.Now,
		retry: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.MaxElapsedTime = 10 * time.Second
			return policy
		},
	}, nil
}

// NewEmailSenderPort returns a Notify-backed sender, or DisabledSender when no
// key or template is configured.
func NewEmailSenderPort(httpClient *http.Client, cfg *config.AppConfig) (port.EmailSenderPort, error) {
	if cfg.GovNotifyAPIKey == "" || cfg.GovNotifyTemplateID == "" {
		logger.Warn("Gov Notify is not configured; pair emails will be skipped")
		return DisabledSender{}, nil
	}
	return NewClient(httpClient, cfg.GovNotifyBaseURL, cfg.GovNotifyAPIKey, cfg.GovNotifyTemplateID)
}

func (c *Client) token() (string, error) {
	claims := jwt.MapClaims{
		"iss": c.key.ServiceID,
		"iat": c.now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.key.Secret))
}

// SendPairEmail tells toEmail about their new partner using the configured template.
func (c *Client) SendPairEmail(ctx context.Context, toEmail, pairName, pairEmail string) (string, error) {
	resp, err := c.SendEmail(ctx, &EmailRequest{
		EmailAddress: toEmail,
		TemplateID:   c.templateID,
		Personalisation: map[string]string{
			"pair_name":  pairName,
			"pair_email": pairEmail,
		},
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// SendEmail posts req, retrying transport failures and 429/5xx responses.
func (c *Client) SendEmail(ctx context.Context, req *EmailRequest) (*EmailResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	op := func() (*EmailResponse, error) {
		resp, err := c.post(ctx, sendEmailPath, body)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}
	return backoff.RetryWithData(op, backoff.WithContext(c.retry(), ctx))
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*EmailResponse, error) {
	token, err := c.token()
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("signing notify token: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "pair-programming-backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil {
			apiErr.Errors = nil
		}
		apiErr.StatusCode = resp.StatusCode
		return nil, apiErr
	}

	out := &EmailResponse{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decoding notify response: %w", err))
	}
	return out, nil
}

// DisabledSender stands in for Notify when it is not configured. Every send
// fails with port.ErrDeliveryDisabled so callers can tell it from a real delivery.
type DisabledSender struct{}

func (DisabledSender) SendPairEmail(context.Context, string, string, string) (string, error) {
	return "", port.ErrDeliveryDisabled
}
