package helpers

import (
	"net/url"
	"strings"
)

const MaxTickerLength = 15

// -----------------------------------------------------------------------------

// ValidateTicker checks a ticker against the allow-list: ASCII letters,
// digits and the symbols . - = ^ (e.g. BTC-USD, ^GSPC, EURUSD=X, BRK.B).
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return NewValidationError("ticker is empty")
	}
	if len(ticker) > MaxTickerLength {
		return NewValidationError("ticker %q is longer than %d characters", ticker, MaxTickerLength)
	}
	for _, r := range ticker {
		if !isTickerRune(r) {
			return NewValidationError("ticker %q contains invalid character %q", ticker, r)
		}
	}
	return nil
}

func isTickerRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune(".-=^", r)
	}
}

// -----------------------------------------------------------------------------

// EncodeTicker validates the ticker and percent-encodes it as a path segment.
func EncodeTicker(ticker string) (string, error) {
	if err := ValidateTicker(ticker); err != nil {
		return "", err
	}
	return url.PathEscape(ticker), nil
}

// -----------------------------------------------------------------------------

// JoinEndpoint appends one already-encoded path segment to base without
// doubling the slash.
func JoinEndpoint(base, segment string) string {
	return strings.TrimRight(base, "/") + "/" + segment
}
