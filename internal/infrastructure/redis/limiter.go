package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// allowScript counts requests in a fixed window: the first INCR on a key also
// arms its expiry.
const allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Limiter throttles passcode requests per mailbox across all instances.
// Redis trouble fails open: delivery availability beats strict throttling.
type Limiter struct {
	client evaler
	window time.Duration
	max    int
	prefix string
}

func NewLimiter(addr string, window time.Duration, max int) *Limiter {
	if addr == "" {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &Limiter{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		window: window,
		max:    max,
		prefix: "otp:rl:",
	}
}

// Allow reports whether another passcode may be issued for the email. A nil
// Limiter allows everything.
func (l *Limiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.client == nil {
		return true
	}
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	count, err := l.client.Eval(ctx, allowScript, []string{l.prefix + key}, seconds).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
