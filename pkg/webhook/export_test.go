package webhook

import "github.com/secmon-lab/argus/pkg/domain/types"

// SwapDigestFunc replaces the HMAC digest computation and returns a restore
// function, so tests can count how often the signature step runs.
func SwapDigestFunc(fn func(body []byte, secret types.WebhookSecret) string) func() {
	orig := computeDigest
	computeDigest = fn
	return func() {
		computeDigest = orig
	}
}
