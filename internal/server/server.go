package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"bookbarter/internal/app"
	"bookbarter/internal/ratelimit"
	"bookbarter/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                        *app.App
	RedisAddr                  string
	RedisPassword              string
	RegisterRateLimitPerMinute int
	LookupRateLimitPerMinute   int
	TrustedProxies             *util.TrustedProxies
}

// Server exposes the lending ledger over HTTP.
type Server struct {
	app             *app.App
	mux             *http.ServeMux
	registerLimiter *ratelimit.FixedWindowLimiter
	lookupLimiter   *ratelimit.FixedWindowLimiter
	trustedProxies  *util.TrustedProxies
}

// New constructs the server with routes configured. Rate limits of 0
// disable limiting for that route.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app required")
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		trustedProxies: cfg.TrustedProxies,
	}
	if cfg.RegisterRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "barter:ratelimit:register", cfg.RegisterRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, err
		}
		s.registerLimiter = limiter
	}
	if cfg.LookupRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "barter:ratelimit:lookup", cfg.LookupRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, err
		}
		s.lookupLimiter = limiter
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("barter", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/loans", s.handleLoans)
	s.mux.HandleFunc("/loans/", s.handleLoanByID)
	s.mux.HandleFunc("/members/", s.handleMember)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allow(s.registerLimiter, r) {
		tooManyRequests(w)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rec, err := s.app.Register(r.Context(), app.RegisterInput{
		LenderPhone:   req.LenderPhone,
		LenderName:    req.LenderName,
		BorrowerPhone: req.BorrowerPhone,
		BorrowerName:  req.BorrowerName,
		BookTitle:     req.BookTitle,
		Author:        req.Author,
		Deposit:       req.Deposit,
	})
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// /loans/{id}/return
func (s *Server) handleLoanByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/loans/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" || len(parts) != 2 || parts[1] != "return" {
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := s.app.MarkReturned(r.Context(), id); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "returned"})
}

// /members/{phone}/loans
func (s *Server) handleMember(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/members/")
	parts := strings.SplitN(path, "/", 2)
	phone := parts[0]
	if phone == "" || len(parts) != 2 || parts[1] != "loans" {
		notFound(w, "not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if !s.allow(s.lookupLimiter, r) {
		tooManyRequests(w)
		return
	}
	view, err := s.app.Lookup(r.Context(), phone)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) allow(limiter *ratelimit.FixedWindowLimiter, r *http.Request) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(util.ClientIP(r, s.trustedProxies))
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, app.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, app.ErrInvalidPhone.Error())
	case errors.Is(err, app.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, app.ErrMemberNotFound.Error())
	case errors.Is(err, app.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, app.ErrLoanNotFound.Error())
	default:
		util.LoggerFromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func tooManyRequests(w http.ResponseWriter) {
	writeError(w, http.StatusTooManyRequests, "too many requests")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCodeForBarter(status, msg),
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

func errorCodeForBarter(status int, msg string) string {
	message := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case strings.HasPrefix(message, "validation failed"):
		return "BARTER_VALIDATION_FAILED"
	case message == strings.ToLower(app.ErrInvalidPhone.Error()):
		return "BARTER_INVALID_PHONE"
	case message == strings.ToLower(app.ErrMemberNotFound.Error()):
		return "BARTER_MEMBER_NOT_FOUND"
	case message == strings.ToLower(app.ErrLoanNotFound.Error()):
		return "BARTER_LOAN_NOT_FOUND"
	case message == "invalid json body":
		return "BARTER_INVALID_REQUEST"
	case message == "too many requests":
		return "RATE_LIMITED"
	case message == "method not allowed":
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case message == "not found":
		return "SYSTEM_NOT_FOUND"
	}

	switch status {
	case http.StatusBadRequest:
		return "BARTER_INVALID_REQUEST"
	case http.StatusNotFound:
		return "SYSTEM_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

type registerRequest struct {
	LenderPhone   string `json:"lenderPhone"`
	LenderName    string `json:"lenderName"`
	BorrowerPhone string `json:"borrowerPhone"`
	BorrowerName  string `json:"borrowerName"`
	BookTitle     string `json:"bookTitle"`
	Author        string `json:"author"`
	Deposit       string `json:"deposit"`
}
