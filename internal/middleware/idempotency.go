package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/forgo/mergington/api/internal/model"
)

// IdempotencyKeyHeader lets a client retry a roster change safely: repeats
// with the same key get the first response back instead of a second attempt.
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyStore remembers responses per (client, key, request)
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	done      chan struct{}
}

func (e *idempotencyEntry) inFlight() bool {
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep responses (default 24h)
	Cleanup time.Duration // Sweep interval (default 1h)
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = time.Hour
	}

	s := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}
	go s.cleanupLoop(cfg.Cleanup)
	return s
}

// Stop stops the sweeper. Safe to call more than once.
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if !e.inFlight() && e.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// claim returns the entry for key and whether the caller owns it. A
// non-owner must wait on entry.done and replay it.
func (s *IdempotencyStore) claim(key string, now time.Time) (*idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && (e.inFlight() || e.expiresAt.After(now)) {
		return e, false
	}
	e := &idempotencyEntry{done: make(chan struct{})}
	s.entries[key] = e
	return e, true
}

func (s *IdempotencyStore) finish(e *idempotencyEntry, rec *capturingWriter) {
	s.mu.Lock()
	e.status = rec.status
	e.headers = rec.handlerHeaders()
	e.body = rec.body.Bytes()
	e.expiresAt = time.Now().Add(s.ttl)
	s.mu.Unlock()
	close(e.done)
}

// abandon forgets an entry whose request panicked; waiters see status 0
func (s *IdempotencyStore) abandon(key string, e *idempotencyEntry) {
	s.mu.Lock()
	if s.entries[key] == e {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	close(e.done)
}

// fingerprint ties a key to the client and the exact request it was sent with
func fingerprint(client, key, method, path, query string) string {
	h := sha256.New()
	for _, part := range []string{client, key, method, path, query} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// capturingWriter tees the response so it can be replayed. outer is the
// header set before the handler ran; those entries belong to the enclosing
// middleware (request id, rate limit, content encoding) and are not stored.
type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
	outer  http.Header
}

// handlerHeaders returns the headers the wrapped handler added or changed
func (w *capturingWriter) handlerHeaders() http.Header {
	set := make(http.Header)
	for k, v := range w.Header() {
		if prev, ok := w.outer[k]; ok && slices.Equal(prev, v) {
			continue
		}
		set[k] = append([]string(nil), v...)
	}
	return set
}

func (w *capturingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func replay(w http.ResponseWriter, e *idempotencyEntry) {
	if e.status == 0 {
		model.NewInternalError("").WriteJSON(w)
		return
	}
	// Headers already set by outer middleware (request id, rate limit) describe
	// this request, not the original one.
	for k, v := range e.headers {
		if _, set := w.Header()[k]; set {
			continue
		}
		w.Header()[k] = append([]string(nil), v...)
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(e.status)
	_, _ = w.Write(e.body)
}

// Idempotency returns middleware that honours Idempotency-Key on POST and
// DELETE. Requests without the header are not tracked.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" || (r.Method != http.MethodPost && r.Method != http.MethodDelete) {
				next.ServeHTTP(w, r)
				return
			}

			fp := fingerprint(ClientKey(r), key, r.Method, r.URL.Path, r.URL.RawQuery)
			entry, owner := store.claim(fp, time.Now())
			if !owner {
				select {
				case <-entry.done:
					replay(w, entry)
				case <-r.Context().Done():
				}
				return
			}

			rec := &capturingWriter{ResponseWriter: w, status: http.StatusOK, outer: w.Header().Clone()}
			defer func() {
				if p := recover(); p != nil {
					store.abandon(fp, entry)
					panic(p)
				}
				store.finish(entry, rec)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
