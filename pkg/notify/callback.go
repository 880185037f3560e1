package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/safe"
)

// Callback POSTs the payload JSON to a caller-supplied URL. Only http and
// https schemes are accepted; scheme-confusable strings like javascript:
// never validate.
type Callback struct {
	base
	httpClient interfaces.HTTPClient
}

func NewCallback(httpClient interfaces.HTTPClient, options ...Option) *Callback {
	ch := &Callback{
		base: base{
			kind: types.ChannelCallback,
			features: model.ChannelFeatures{
				MaxMessageLength: 65536,
			},
			limiter: newRateWindow(30, time.Minute),
		},
		httpClient: httpClient,
	}
	for _, opt := range options {
		opt(&ch.base)
	}
	return ch
}

func (x *Callback) ValidateRecipient(recipient string) bool {
	u, err := url.Parse(recipient)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func (x *Callback) Send(ctx context.Context, payload *model.NotificationPayload, recipient string) *model.DeliveryResult {
	return x.send(ctx, payload, recipient, x.transport)
}

func (x *Callback) transport(ctx context.Context, payload *model.NotificationPayload, recipient string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal notification payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, recipient, bytes.NewReader(body))
	if err != nil {
		return "", goerr.Wrap(err, "failed to build callback request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call callback URL")
	}
	defer safe.Close(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", goerr.New("callback returned non-2xx status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(msg)),
		)
	}
	return "", nil
}
