package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateAbsoluteURL trims and validates a URL string, returning a
// normalized value or an error if the URL is empty, relative, or not http(s).
func ValidateAbsoluteURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("URL is required")
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("URL must be absolute (http or https): %s", s)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL is missing a host: %s", s)
	}

	return s, nil
}
