package common

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultFeatureCode is accepted by the cloud for any client. Any non-empty
// hex string works.
const DefaultFeatureCode = "deadbeef"

// NewFeatureCode returns a random hex string identifying this client
// installation to the cloud.
func NewFeatureCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsValidFeatureCode checks that a configured feature code is non-empty hex.
func IsValidFeatureCode(code string) bool {
	if len(code) == 0 {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
