// Package security implements the edge-security decisioning applied in
// front of every request: token-bucket rate limiting and user-agent bot
// detection. A degraded collaborator never takes the API down — decision
// errors fail open.
package security

import (
	"context"
	"strings"

	"github.com/ripplegram/backend/pkg/log"
)

// Reason categorizes why a request was denied.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonRateLimit Reason = "rate_limit"
	ReasonBot       Reason = "bot"
)

// Decision is the outcome of shield evaluation for one request.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Search-engine crawlers stay allowed; everything else matching a bot
// signature is denied.
var allowedBotAgents = []string{
	"googlebot",
	"bingbot",
	"duckduckbot",
	"yandexbot",
	"baiduspider",
}

var deniedBotAgents = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"curl/",
	"wget/",
	"python-requests",
	"go-http-client",
}

// Shield evaluates requests against the bot rules and the rate limiter.
type Shield struct {
	limiter RateLimiter
}

// NewShield creates a Shield. A nil limiter disables rate limiting (bot
// rules still apply).
func NewShield(limiter RateLimiter) *Shield {
	return &Shield{limiter: limiter}
}

// Protect evaluates one request. Each request consumes one token. Limiter
// failure fails open: the request proceeds and a warning is logged.
func (s *Shield) Protect(ctx context.Context, clientIP, userAgent string) Decision {
	if isDeniedBot(userAgent) {
		return Decision{Allowed: false, Reason: ReasonBot}
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, clientIP)
		if err != nil {
			log.L().Warn().Err(err).Str("client_ip", clientIP).Msg("shield limiter unavailable, failing open")
			return Decision{Allowed: true}
		}
		if !allowed {
			return Decision{Allowed: false, Reason: ReasonRateLimit}
		}
	}

	return Decision{Allowed: true}
}

func isDeniedBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, allowed := range allowedBotAgents {
		if strings.Contains(ua, allowed) {
			return false
		}
	}
	for _, denied := range deniedBotAgents {
		if strings.Contains(ua, denied) {
			return true
		}
	}
	return false
}
