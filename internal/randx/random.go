// Package randx provides random-token helpers backed by crypto/rand.
// All functions are safe for concurrent use.
package randx

import (
	"crypto/rand"
)

// alphanumeric is the 62-symbol alphabet used for generated tokens.
const alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Default token lengths: general-purpose secret keys, programmatic API keys,
// and per-account password salts.
const (
	SecretKeyLength = 25
	APIKeyLength    = 50
	SaltLength      = 16
)

// Token returns a string of exactly length characters drawn uniformly from
// [0-9a-zA-Z]. Collisions between calls are possible and accepted as
// negligible; callers that require uniqueness must check against their store.
//
// Bytes from the CSPRNG are rejection-sampled so every symbol is equally
// likely (248 = 4*62 is the largest multiple of 62 below 256).
func Token(length int) string {
	if length <= 0 {
		return ""
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms; treat a
			// failure as unrecoverable rather than degrade to weak tokens.
			panic("randx: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if b >= 248 {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out)
}
