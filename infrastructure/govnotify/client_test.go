package govnotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-jwt/jwt/v5"

	"pair-programming-backend/domains/notification/application/port"
	"pair-programming-backend/shared/common/config"
)

const (
	testServiceID = "26785a09-ab16-4eb0-8407-a37497a57506"
	testSecret    = "3d844edf-8d35-48ac-975b-e847b4f122b0"
	testTemplate  = "f33517ff-2a88-4f6e-b855-c550268ce08a"
)

var testAPIKey = "pair_test-" + testServiceID + "-" + testSecret

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.Client(), server.URL+"/", testAPIKey, testTemplate)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.now = func() time.Time { return time.Unix(1760000000, 0) }
	client.retry = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
	}
	return client
}

func TestParseAPIKey(t *testing.T) {
	key, err := ParseAPIKey(testAPIKey)
	if err != nil {
		t.Fatalf("ParseAPIKey() error = %v", err)
	}
	if key.ServiceID != testServiceID || key.Secret != testSecret {
		t.Errorf("ParseAPIKey() = %+v", key)
	}

	invalid := []string{
		"",
		"short",
		"name-" + testServiceID + "-not-a-uuid-at-all-but-thirty-six!!",
		"name-not-a-uuid-at-all-but-thirty-six!!-" + testSecret,
	}
	for _, k := range invalid {
		if _, err := ParseAPIKey(k); !errors.Is(err, ErrInvalidAPIKey) {
			t.Errorf("ParseAPIKey(%q) error = %v, want ErrInvalidAPIKey", k, err)
		}
	}
}

func TestSendPairEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/notifications/email" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
			jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
		if err != nil || !token.Valid {
			t.Errorf("invalid token: %v", err)
		} else {
			claims := token.Claims.(jwt.MapClaims)
			if claims["iss"] != testServiceID || claims["iat"] != float64(1760000000) {
				t.Errorf("claims = %v", claims)
			}
		}

		var req EmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if req.EmailAddress != "ada@example.com" || req.TemplateID != testTemplate ||
			req.Personalisation["pair_name"] != "Grace" || req.Personalisation["pair_email"] != "grace@example.com" {
			t.Errorf("body = %+v", req)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"740e5834-3a29-46b4-9a6f-16142fde533a","content":{"subject":"Your pair"}}`))
	})

	id, err := client.SendPairEmail(context.Background(), "ada@example.com", "Grace", "grace@example.com")
	if err != nil {
		t.Fatalf("SendPairEmail() error = %v", err)
	}
	if id != "740e5834-3a29-46b4-9a6f-16142fde533a" {
		t.Errorf("id = %q", id)
	}
}

func TestSendEmailClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status_code":400,"errors":[{"error":"BadRequestError","message":"Can't send to this recipient using a team-only API key"}]}`))
	})

	_, err := client.SendPairEmail(context.Background(), "ada@example.com", "Grace", "grace@example.com")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || len(apiErr.Errors) != 1 || apiErr.Errors[0].Error != "BadRequestError" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !strings.Contains(err.Error(), "team-only API key") {
		t.Errorf("Error() = %q", err.Error())
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestSendEmailRetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	})

	id, err := client.SendPairEmail(context.Background(), "ada@example.com", "Grace", "grace@example.com")
	if err != nil {
		t.Fatalf("SendPairEmail() error = %v", err)
	}
	if id != "abc" || atomic.LoadInt32(&calls) != 2 {
		t.Errorf("id = %q after %d calls, want abc after 2", id, calls)
	}
}

func TestSendEmailGivesUpAfterRetries(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SendPairEmail(context.Background(), "ada@example.com", "Grace", "grace@example.com")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("error = %v, want 500 APIError", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestNewEmailSenderPort(t *testing.T) {
	sender, err := NewEmailSenderPort(nil, &config.AppConfig{})
	if err != nil {
		t.Fatalf("NewEmailSenderPort() error = %v", err)
	}
	if _, ok := sender.(DisabledSender); !ok {
		t.Fatalf("sender = %T, want DisabledSender", sender)
	}
	id, err := sender.SendPairEmail(context.Background(), "ada@example.com", "Grace", "grace@example.com")
	if id != "" || !errors.Is(err, port.ErrDeliveryDisabled) {
		t.Errorf("DisabledSender.SendPairEmail() = %q, %v, want ErrDeliveryDisabled", id, err)
	}

	sender, err = NewEmailSenderPort(nil, &config.AppConfig{GovNotifyAPIKey: testAPIKey, GovNotifyTemplateID: testTemplate})
	if err != nil {
		t.Fatalf("NewEmailSenderPort() error = %v", err)
	}
	client, ok := sender.(*Client)
	if !ok {
		t.Fatalf("sender = %T, want *Client", sender)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", client.baseURL)
	}

	if _, err := NewEmailSenderPort(nil, &config.AppConfig{GovNotifyAPIKey: "bad", GovNotifyTemplateID: testTemplate}); !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("error = %v, want ErrInvalidAPIKey", err)
	}
}
