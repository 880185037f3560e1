package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/safe"
)

// MaxPayloadSize bounds the webhook body before any parsing is attempted.
// GitHub caps webhook payloads at 25 MiB.
const MaxPayloadSize = 25 << 20

const signaturePrefix = "sha256="

var (
	ErrMissingEventType   = goerr.New("missing event type header")
	ErrMissingSignature   = goerr.New("missing signature header")
	ErrMalformedSignature = goerr.New("malformed signature header")
	ErrSignatureMismatch  = goerr.New("signature mismatch")
	ErrPayloadTooLarge    = goerr.New("payload too large")
)

// computeDigest is swappable in tests to assert that the size check
// short-circuits signature computation.
var computeDigest = func(body []byte, secret types.WebhookSecret) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign computes the signature header value for the given body and secret.
func Sign(body []byte, secret types.WebhookSecret) string {
	return signaturePrefix + computeDigest(body, secret)
}

// VerifySignature checks the claimed signature header against the HMAC-SHA256
// digest of body. The digest comparison is constant time.
func VerifySignature(body []byte, header string, secret types.WebhookSecret) error {
	if header == "" {
		return goerr.Wrap(ErrMissingSignature, "signature header is empty")
	}

	claimed, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return goerr.Wrap(ErrMalformedSignature, "signature header must be sha256=<hexdigest>")
	}
	if _, err := hex.DecodeString(claimed); err != nil {
		return goerr.Wrap(ErrMalformedSignature, "signature digest is not hex")
	}

	expected := computeDigest(body, secret)
	if !hmac.Equal([]byte(claimed), []byte(expected)) {
		return goerr.Wrap(ErrSignatureMismatch, "signature does not match payload")
	}

	return nil
}

// Result is the outcome of a successfully validated webhook request.
type Result struct {
	EventType  string
	DeliveryID types.DeliveryID
	Payload    *model.WebhookPayload
}

// Validator authenticates and structurally validates inbound webhook
// requests. Checks run in a fixed order: missing headers, size, signature,
// structure. The first failing check determines the rejection reason.
type Validator struct {
	secret  types.WebhookSecret
	maxSize int64
}

type ValidatorOption func(*Validator)

func WithMaxPayloadSize(n int64) ValidatorOption {
	return func(v *Validator) {
		v.maxSize = n
	}
}

func NewValidator(secret types.WebhookSecret, options ...ValidatorOption) *Validator {
	v := &Validator{
		secret:  secret,
		maxSize: MaxPayloadSize,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Validate applies the four boundary checks to an inbound request and
// returns the decoded payload. It is side-effect-free on failure.
func (x *Validator) Validate(r *http.Request) (*Result, error) {
	eventType := github.WebHookType(r)
	if eventType == "" {
		return nil, goerr.Wrap(ErrMissingEventType, "X-GitHub-Event header is absent")
	}
	sigHeader := r.Header.Get("X-Hub-Signature-256")
	if sigHeader == "" {
		return nil, goerr.Wrap(ErrMissingSignature, "signature header is absent",
			goerr.V("eventType", eventType),
		)
	}

	if r.ContentLength > x.maxSize {
		return nil, goerr.Wrap(ErrPayloadTooLarge, "declared content length exceeds limit",
			goerr.V("contentLength", r.ContentLength),
			goerr.V("limit", x.maxSize),
		)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, x.maxSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read webhook body")
	}
	defer safe.Close(r.Body)
	if int64(len(body)) > x.maxSize {
		return nil, goerr.Wrap(ErrPayloadTooLarge, "webhook body exceeds limit",
			goerr.V("limit", x.maxSize),
		)
	}

	if err := VerifySignature(body, sigHeader, x.secret); err != nil {
		return nil, err
	}

	payload, err := model.DecodeWebhook(eventType, body)
	if err != nil {
		return nil, err
	}
	payload.DeliveryID = types.DeliveryID(github.DeliveryID(r))

	return &Result{
		EventType:  eventType,
		DeliveryID: payload.DeliveryID,
		Payload:    payload,
	}, nil
}
