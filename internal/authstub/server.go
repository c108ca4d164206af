package authstub

import (
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/logging"
	"github.com/dmitrijs2005/authflow/internal/shared"
	"github.com/gorilla/mux"
)

// Server is an http.Handler serving the authentication API.
type Server struct {
	router *mux.Router
	users  *userRepository
	tokens tokenIssuer
	mail   Mailer
	otp    func() (string, error)
	otpTTL time.Duration
	now    func() time.Time
	log    logging.Logger

	mu sync.Mutex
	// emailOTPs and loginOTPs are keyed by user id.
	emailOTPs map[string]pendingCode
	loginOTPs map[string]pendingCode
	// stepUp marks users that passed the OTP challenge and may now send
	// their password, until the deadline.
	stepUp      map[string]time.Time
	resetTokens map[string]pendingCode
}

type pendingCode struct {
	value   string
	userID  string
	expires time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMailer sets where codes and reset links are delivered.
func WithMailer(m Mailer) Option { return func(s *Server) { s.mail = m } }

// WithOTPGenerator replaces the random 6-digit code generator.
func WithOTPGenerator(fn func() string) Option {
	return func(s *Server) {
		s.otp = func() (string, error) { return fn(), nil }
	}
}

// WithSecret sets the HS256 signing key.
func WithSecret(secret []byte) Option { return func(s *Server) { s.tokens.secret = secret } }

// WithTokenTTL sets the session token lifetime.
func WithTokenTTL(d time.Duration) Option { return func(s *Server) { s.tokens.ttl = d } }

// WithOTPTTL sets how long codes, reset links and a passed OTP challenge
// stay valid.
func WithOTPTTL(d time.Duration) Option { return func(s *Server) { s.otpTTL = d } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
		s.tokens.now = now
	}
}

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option { return func(s *Server) { s.log = logging.OrNop(l) } }

// NewServer returns a stub with no users.
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		users:       newUserRepository(),
		tokens:      tokenIssuer{secret: []byte("dev-secret"), ttl: time.Hour, now: time.Now},
		otp:         func() (string, error) { return shared.RandomDigits(6) },
		otpTTL:      10 * time.Minute,
		now:         time.Now,
		log:         logging.NewNop(),
		emailOTPs:   make(map[string]pendingCode),
		loginOTPs:   make(map[string]pendingCode),
		stepUp:      make(map[string]time.Time),
		resetTokens: make(map[string]pendingCode),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mail == nil {
		s.mail = LogMailer{Log: s.log}
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router
	api.Use(s.logRequests)
	api.HandleFunc(authapi.PathRegister, s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathVerifyEmail, s.handleVerifyEmail).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathRequestOTP, s.handleRequestOTP).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathVerifyOTP, s.handleVerifyOTP).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathPasswordLogin, s.handlePasswordLogin).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathForgotPassword, s.handleForgotPassword).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathResetPassword, s.handleResetPassword).Methods(http.MethodPost)
	api.HandleFunc(authapi.PathProfile, s.handleProfile).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info(r.Context(), "request", "method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", s.now().Sub(started),
			"request_id", r.Header.Get(authapi.RequestIDHeader))
	})
}
