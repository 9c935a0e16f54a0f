package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenSegments = 3

// DecodeTokenExpiry returns the instant carried in the exp claim of a
// session token.
//
// The signature is not verified. The token is issued by the cloud over TLS
// and only its expiry is needed to schedule a refresh.
func DecodeTokenExpiry(token string) (time.Time, error) {

	segments := strings.Split(token, ".")
	if len(segments) != tokenSegments {
		return time.Time{}, &CredentialDecodeError{
			Reason: "expected three dot separated segments",
		}
	}

	// Only the claims segment is read. The header is not ours to validate.
	parser := jwt.NewParser(jwt.WithPaddingAllowed())

	payload, err := parser.DecodeSegment(segments[1])
	if err != nil {
		return time.Time{}, &CredentialDecodeError{
			Reason: "invalid claims segment",
			Err:    err,
		}
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, &CredentialDecodeError{
			Reason: "claims segment is not json",
			Err:    err,
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, &CredentialDecodeError{
			Reason: "invalid exp claim",
			Err:    err,
		}
	}

	if exp == nil {
		return time.Time{}, &CredentialDecodeError{
			Reason: "missing exp claim",
		}
	}

	return exp.Time, nil
}

// TruncateToken shortens a credential for log output.
func TruncateToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:8] + "..." + token[len(token)-4:]
}
