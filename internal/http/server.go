package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"manoah/internal/cache"
	applog "manoah/internal/log"
	"manoah/internal/middleware/trace"
	"manoah/internal/services"
)

const summaryCacheKey = "summary"

type Server struct {
	http.Server
	svc         *services.LedgerService
	rateLimiter *rateLimiter
	logx        *applog.StructuredLogger

	// Cockpit summary is recomputed over every record on each call, so the
	// hot dashboard poll goes through a short TTL cache instead.
	summaryCache *cache.LRUCache[services.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.LedgerService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:          svc,
		rateLimiter:  newRateLimiter(),
		logx:         applog.NewStructuredLogger(applog.Default()),
		summaryCache: cache.NewLRUCache[services.Summary](1, 30*time.Second),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/{collection}", s.handleListRecords)
	mux.HandleFunc("POST /api/{collection}", s.handleCreateRecord)
	mux.HandleFunc("PUT /api/{collection}/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /api/{collection}/{id}", s.handleDeleteRecord)

	mux.HandleFunc("POST /api/{collection}/{id}/payments", s.handleAddPayment)
	mux.HandleFunc("PUT /api/{collection}/{id}/payments/{paymentID}", s.handleEditPayment)
	mux.HandleFunc("DELETE /api/{collection}/{id}/payments/{paymentID}", s.handleDeletePayment)

	mux.HandleFunc("POST /api/liabilities/{id}/transactions", s.handleAddTransaction)
	mux.HandleFunc("DELETE /api/liabilities/{id}/transactions/{txID}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/{collection}/groups", s.handleGroups)
	mux.HandleFunc("GET /api/billing-cycle", s.handleBillingCycle)

	mux.HandleFunc("GET /api/charges", s.handleListCharges)
	mux.HandleFunc("POST /api/charges", s.handleCreateCharge)
	mux.HandleFunc("POST /api/charges/{id}/approve", s.handleApproveCharge)
	mux.HandleFunc("DELETE /api/charges/{id}", s.handleRejectCharge)

	mux.HandleFunc("POST /api/smart-add", s.handleSmartAdd)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/insights/refresh", s.handleRefreshInsights)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/currencies", s.handleCurrencies)

	// Request-scoped loggers carry the trace request id into handler code.
	withLogger := applog.Middleware(applog.Default())
	withRequestID := applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})

	traced := trace.NewMiddleware(clientIP)
	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(withLogger(withRequestID(s.withProtection(mux)))),
	}

	return s
}

// withProtection adds security headers and rate limiting on mutations.
func (s *Server) withProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, considering proxies.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func (s *Server) invalidateSummary() {
	s.summaryCache.Delete(summaryCacheKey)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
