package common

import (
	"net/url"
	"strings"
)

// IsValidEndpoint checks that an endpoint is an absolute http(s) URL with a host.
func IsValidEndpoint(endpoint string) bool {

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	return len(parsed.Host) > 0
}

// IsAllDigits checks if a string contains only digits (0-9)
// This is optimized for speed by checking each byte directly
func IsAllDigits(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
