package httpapi

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// window tracks one client's usage of one route.
type window struct {
	start time.Time
	used  int
}

type limitKey struct {
	client string
	route  string
}

// RateLimiter allows Limit requests per client per route in each fixed
// Window (server.rate_limit and server.rate_limit_window). A busy forecast
// client therefore cannot exhaust its deposit budget.
type RateLimiter struct {
	Limit  int
	Window time.Duration

	mu      sync.Mutex
	windows map[limitKey]*window
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter starts a limiter whose idle windows are swept every Window.
func NewRateLimiter(limit int, every time.Duration) *RateLimiter {
	rl := &RateLimiter{
		Limit:   limit,
		Window:  every,
		windows: make(map[limitKey]*window),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (r *RateLimiter) sweepLoop() {
	if r.Window <= 0 {
		return
	}
	ticker := time.NewTicker(r.Window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

// sweep drops windows that have already ended.
func (r *RateLimiter) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, w := range r.windows {
		if now.Sub(w.start) >= r.Window {
			delete(r.windows, k)
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.once.Do(func() { close(r.stop) })
}

// Allow records a request from client on route. When the budget is spent it
// returns false and the time until the window resets.
func (r *RateLimiter) Allow(client, route string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	k := limitKey{client: client, route: route}
	w, ok := r.windows[k]
	if !ok || now.Sub(w.start) >= r.Window {
		w = &window{start: now}
		r.windows[k] = w
	}
	if w.used >= r.Limit {
		return false, w.start.Add(r.Window).Sub(now)
	}
	w.used++
	return true, 0
}

// RateLimitMiddleware rejects a client over its budget for route with 429
// and a Retry-After header.
func RateLimitMiddleware(limiter *RateLimiter, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		ok, wait := limiter.Allow(ip, route)
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded", Kind: "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
