package webhook_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/webhook"
)

const testSecret = types.WebhookSecret("it's a secret")

func TestSignVerifyRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(""),
		[]byte("{}"),
		[]byte(`{"action":"created"}`),
		bytes.Repeat([]byte("x"), 4096),
	}

	for _, payload := range payloads {
		sig := webhook.Sign(payload, testSecret)
		gt.NoError(t, webhook.VerifySignature(payload, sig, testSecret))
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"action":"created","alert":{"number":1}}`)
	sig := webhook.Sign(body, testSecret)

	t.Run("mutating one payload byte breaks verification", func(t *testing.T) {
		mutated := append([]byte{}, body...)
		mutated[0] ^= 0x01
		err := webhook.VerifySignature(mutated, sig, testSecret)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, webhook.ErrSignatureMismatch))
	})

	t.Run("mutating one signature byte breaks verification", func(t *testing.T) {
		// flip a hex digit past the prefix, staying valid hex
		mutated := []byte(sig)
		pos := len("sha256=")
		if mutated[pos] == '0' {
			mutated[pos] = '1'
		} else {
			mutated[pos] = '0'
		}
		err := webhook.VerifySignature(body, string(mutated), testSecret)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, webhook.ErrSignatureMismatch))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		err := webhook.VerifySignature(body, sig, "other secret")
		gt.True(t, errors.Is(err, webhook.ErrSignatureMismatch))
	})

	t.Run("empty header is a missing signature", func(t *testing.T) {
		err := webhook.VerifySignature(body, "", testSecret)
		gt.True(t, errors.Is(err, webhook.ErrMissingSignature))
	})

	t.Run("unrecognized algorithm is malformed", func(t *testing.T) {
		digest := strings.TrimPrefix(sig, "sha256=")
		err := webhook.VerifySignature(body, "sha1="+digest, testSecret)
		gt.True(t, errors.Is(err, webhook.ErrMalformedSignature))
	})

	t.Run("non-hex digest is malformed", func(t *testing.T) {
		err := webhook.VerifySignature(body, "sha256=zzzz", testSecret)
		gt.True(t, errors.Is(err, webhook.ErrMalformedSignature))
	})
}

func newWebhookRequest(t *testing.T, eventType string, body []byte, secret types.WebhookSecret) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "delivery-0001")
	req.Header.Set("X-Hub-Signature-256", webhook.Sign(body, secret))
	return req
}

func validBody() []byte {
	return []byte(`{
		"action": "created",
		"repository": {"id": 123, "full_name": "org/repo", "owner": {"login": "org"}},
		"sender": {"login": "alice"},
		"alert": {"number": 9, "state": "open", "rule": {"security_severity_level": "high"}}
	}`)
}

func TestValidatorOrder(t *testing.T) {
	t.Run("valid request passes all checks", func(t *testing.T) {
		v := webhook.NewValidator(testSecret)
		req := newWebhookRequest(t, "code_scanning_alert", validBody(), testSecret)

		result := gt.R1(v.Validate(req)).NoError(t)
		gt.V(t, result.EventType).Equal("code_scanning_alert")
		gt.V(t, result.DeliveryID).Equal(types.DeliveryID("delivery-0001"))
		gt.V(t, *result.Payload.Alert.Number).Equal(int64(9))
	})

	t.Run("missing event type header rejected first", func(t *testing.T) {
		v := webhook.NewValidator(testSecret)
		req := newWebhookRequest(t, "code_scanning_alert", validBody(), testSecret)
		req.Header.Del("X-GitHub-Event")

		_, err := v.Validate(req)
		gt.True(t, errors.Is(err, webhook.ErrMissingEventType))
	})

	t.Run("missing signature header rejected before size", func(t *testing.T) {
		v := webhook.NewValidator(testSecret, webhook.WithMaxPayloadSize(8))
		req := newWebhookRequest(t, "code_scanning_alert", validBody(), testSecret)
		req.Header.Del("X-Hub-Signature-256")

		_, err := v.Validate(req)
		gt.True(t, errors.Is(err, webhook.ErrMissingSignature))
	})

	t.Run("oversized body rejected before signature is computed", func(t *testing.T) {
		calls := 0
		restore := webhook.SwapDigestFunc(func(body []byte, secret types.WebhookSecret) string {
			calls++
			mac := hmac.New(sha256.New, []byte(secret))
			mac.Write(body)
			return hex.EncodeToString(mac.Sum(nil))
		})
		defer restore()

		v := webhook.NewValidator(testSecret, webhook.WithMaxPayloadSize(16))
		body := validBody()
		req := httptest.NewRequest(http.MethodPost, "/webhook/github", bytes.NewReader(body))
		req.Header.Set("X-GitHub-Event", "code_scanning_alert")
		req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")

		_, err := v.Validate(req)
		gt.True(t, errors.Is(err, webhook.ErrPayloadTooLarge))
		gt.V(t, calls).Equal(0)
	})

	t.Run("bad signature rejected before structure", func(t *testing.T) {
		v := webhook.NewValidator(testSecret)
		// structurally broken body, but the signature check must fail first
		body := []byte(`{"broken":`)
		req := newWebhookRequest(t, "code_scanning_alert", body, "wrong secret")

		_, err := v.Validate(req)
		gt.True(t, errors.Is(err, webhook.ErrSignatureMismatch))
	})

	t.Run("structure checked last", func(t *testing.T) {
		v := webhook.NewValidator(testSecret)
		body := []byte(`{"sender":{"login":"alice"}}`)
		req := newWebhookRequest(t, "code_scanning_alert", body, testSecret)

		_, err := v.Validate(req)
		gt.True(t, errors.Is(err, types.ErrInvalidPayload))
	})

	t.Run("declared content length over limit rejected", func(t *testing.T) {
		v := webhook.NewValidator(testSecret, webhook.WithMaxPayloadSize(1024))
		req := newWebhookRequest(t, "push", []byte("{}"), testSecret)
		req.ContentLength = 2048

		_, err := v.Validate(req)
		gt.True(t, errors.Is(err, webhook.ErrPayloadTooLarge))
	})
}
