package token

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	agenterrors "github.com/cursortools/usage-agent/internal/errors"
	"github.com/cursortools/usage-agent/internal/utils"
)

// FreshnessMargin is the minimum remaining lifetime, in seconds, a session
// token must have to be considered usable. Tokens inside this margin are
// treated as invalid so that re-authentication happens before real expiry.
const FreshnessMargin = 86400

const secondsPerDay = 86400

var payloadCleaner = strings.NewReplacer("%253A", ":", "%3A", ":")
var base64urlToStd = strings.NewReplacer("-", "+", "_", "/")

// DecodePayload extracts the claims object from the payload segment of a
// session token without verifying its signature. Dashboard session tokens
// arrive as cookie values of the form "user_xxx%3A%3A<jwt>", so the user-id
// prefix and any percent-encoded separators are stripped before the JWT
// segments are split.
func DecodePayload(rawToken string) (jwtlib.MapClaims, error) {
	cleaned := payloadCleaner.Replace(rawToken)
	if idx := strings.LastIndex(cleaned, "::"); idx >= 0 {
		cleaned = cleaned[idx+2:]
	}

	segments := strings.Split(cleaned, ".")
	if len(segments) < 2 {
		return nil, errors.Wrap(agenterrors.ErrMalformedToken, "[DecodePayload] token has fewer than two segments")
	}

	payload := base64urlToStd.Replace(segments[1])
	if rem := len(payload) % 4; rem != 0 {
		payload += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(agenterrors.ErrMalformedToken, "[DecodePayload] payload segment is not base64")
	}

	claims := jwtlib.MapClaims{}
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, errors.Wrap(agenterrors.ErrMalformedToken, "[DecodePayload] payload is not a JSON object")
	}

	return claims, nil
}

// Expiry returns the numeric exp claim in seconds since the epoch. A token
// that fails to decode, or whose exp claim is absent or non-numeric, reports
// ok=false rather than an error so that freshness checks stay predicates.
func Expiry(rawToken string) (int64, bool) {
	claims, err := DecodePayload(rawToken)
	if err != nil {
		return 0, false
	}
	exp, ok := utils.ToFloat64(claims["exp"])
	if !ok {
		return 0, false
	}
	return int64(exp), true
}

// IsValid reports whether the token has more than FreshnessMargin of life
// left at the given instant. A token expiring in under a day is reported
// invalid even though it is still literally accepted upstream.
func IsValid(rawToken string, now int64) bool {
	exp, ok := Expiry(rawToken)
	if !ok {
		return false
	}
	return exp-now > FreshnessMargin
}

// DaysRemaining returns floor((exp-now)/86400). An undecodable token or a
// missing exp claim yields exactly 0; a past expiry yields a negative count.
func DaysRemaining(rawToken string, now int64) int64 {
	exp, ok := Expiry(rawToken)
	if !ok {
		return 0
	}
	return int64(math.Floor(float64(exp-now) / secondsPerDay))
}
