package security

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

func TestShield_AllowsNormalBrowser(t *testing.T) {
	shield := NewShield(nil)

	decision := shield.Protect(context.Background(), "203.0.113.1", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonNone, decision.Reason)
}

func TestShield_DeniesBots(t *testing.T) {
	shield := NewShield(nil)

	for _, ua := range []string{
		"curl/8.4.0",
		"Wget/1.21",
		"python-requests/2.31.0",
		"Go-http-client/1.1",
		"MyScraper/0.1",
		"SomeCrawler (+http://example.com)",
	} {
		decision := shield.Protect(context.Background(), "203.0.113.1", ua)
		assert.False(t, decision.Allowed, "user agent %q should be denied", ua)
		assert.Equal(t, ReasonBot, decision.Reason)
	}
}

func TestShield_AllowsSearchEngineCrawlers(t *testing.T) {
	shield := NewShield(nil)

	for _, ua := range []string{
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
	} {
		decision := shield.Protect(context.Background(), "203.0.113.1", ua)
		assert.True(t, decision.Allowed, "user agent %q should be allowed", ua)
	}
}

func TestShield_RateLimitDenied(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	shield := NewShield(limiter)

	decision := shield.Protect(context.Background(), "203.0.113.1", "Mozilla/5.0")
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonRateLimit, decision.Reason)
	assert.Equal(t, 1, limiter.calls)
}

func TestShield_LimiterErrorFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	shield := NewShield(limiter)

	decision := shield.Protect(context.Background(), "203.0.113.1", "Mozilla/5.0")
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonNone, decision.Reason)
}

func TestShield_BotCheckPrecedesLimiter(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	shield := NewShield(limiter)

	decision := shield.Protect(context.Background(), "203.0.113.1", "curl/8.4.0")
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonBot, decision.Reason)
	assert.Equal(t, 0, limiter.calls, "denied bots must not consume tokens")
}
