package authstub

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Response messages.
const (
	MsgInvalidBody      = "Invalid request body"
	MsgAllFields        = "All fields are required"
	MsgUserExists       = "User already exists"
	MsgOTPSent          = "OTP sent to your email"
	MsgUserNotFound     = "User not found"
	MsgInvalidOTP       = "Invalid or expired OTP"
	MsgEmailVerified    = "Email verified successfully"
	MsgVerifyEmailFirst = "Please verify your email first"
	MsgOTPVerified      = "OTP verified. Please enter your password"
	MsgOTPRequired      = "Please verify the OTP first"
	MsgBadCredentials   = "Invalid credentials"
	MsgLoginSuccess     = "Login successful"
	MsgResetSent        = "If that email is registered, a reset link has been sent"
	MsgInvalidReset     = "Invalid or expired token"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgPasswordReset    = "Password reset successful"
	MsgNoToken          = "No token provided"
	MsgInvalidToken     = "Invalid token"
	MsgTokenExpired     = "Token expired"
	MsgInternal         = "Internal server error"
)

const minPasswordLength = 6

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authapi.Credentials
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, MsgAllFields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	u, err := s.users.Create(User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Role:         "user",
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, errUserExists) {
		writeMessage(w, http.StatusConflict, MsgUserExists)
		return
	}
	if err != nil {
		s.internal(w, r, err)
		return
	}

	code, err := s.issueCode(s.emailOTPs, u.ID)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	if err := s.mail.Send(r.Context(), Mail{To: u.Email, Subject: "Verify your email", Code: code}); err != nil {
		s.internal(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, MsgOTPSent)
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := s.users.Find(req.Email)
	if err != nil {
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if !s.consumeCode(s.emailOTPs, u.ID, req.OTP) {
		writeMessage(w, http.StatusBadRequest, MsgInvalidOTP)
		return
	}
	if err := s.users.Update(u.ID, func(u *User) { u.Verified = true }); err != nil {
		s.internal(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, MsgEmailVerified)
}

func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := s.users.Find(req.Identifier)
	if err != nil {
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if !u.Verified {
		writeMessage(w, http.StatusForbidden, MsgVerifyEmailFirst)
		return
	}

	s.mu.Lock()
	delete(s.stepUp, u.ID)
	s.mu.Unlock()

	code, err := s.issueCode(s.loginOTPs, u.ID)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	if err := s.mail.Send(r.Context(), Mail{To: u.Email, Subject: "Your login code", Code: code}); err != nil {
		s.internal(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, MsgOTPSent)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		OTP        string `json:"otp"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := s.users.Find(req.Identifier)
	if err != nil {
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if !s.consumeCode(s.loginOTPs, u.ID, req.OTP) {
		writeMessage(w, http.StatusBadRequest, MsgInvalidOTP)
		return
	}

	s.mu.Lock()
	s.stepUp[u.ID] = s.now().Add(s.otpTTL)
	s.mu.Unlock()
	writeMessage(w, http.StatusOK, MsgOTPVerified)
}

func (s *Server) handlePasswordLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	u, err := s.users.Find(req.Identifier)
	if err != nil {
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}

	s.mu.Lock()
	deadline, ok := s.stepUp[u.ID]
	s.mu.Unlock()
	if !ok || s.now().After(deadline) {
		writeMessage(w, http.StatusForbidden, MsgOTPRequired)
		return
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	s.mu.Lock()
	delete(s.stepUp, u.ID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, authapi.LoginReply{Message: MsgLoginSuccess, Token: token})
}

// handleForgotPassword answers the same way whether or not the address is
// registered.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	if u, err := s.users.Find(req.Email); err == nil && normalize(u.Email) == normalize(req.Email) {
		token := uuid.NewString()
		s.mu.Lock()
		s.resetTokens[token] = pendingCode{value: token, userID: u.ID, expires: s.now().Add(s.otpTTL)}
		s.mu.Unlock()
		if err := s.mail.Send(r.Context(), Mail{To: u.Email, Subject: "Reset your password", Link: "/reset-password/" + token}); err != nil {
			s.log.Error(r.Context(), "reset mail failed", "error", err)
		}
	}
	writeMessage(w, http.StatusOK, MsgResetSent)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeMessage(w, http.StatusBadRequest, MsgPasswordTooShort)
		return
	}

	s.mu.Lock()
	rt, ok := s.resetTokens[req.Token]
	if ok {
		delete(s.resetTokens, req.Token)
	}
	s.mu.Unlock()
	if !ok || s.now().After(rt.expires) {
		writeMessage(w, http.StatusBadRequest, MsgInvalidReset)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.internal(w, r, err)
		return
	}
	if err := s.users.Update(rt.userID, func(u *User) { u.PasswordHash = hash }); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgInvalidReset)
		return
	}
	writeMessage(w, http.StatusOK, MsgPasswordReset)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		writeMessage(w, http.StatusUnauthorized, MsgNoToken)
		return
	}
	userID, err := s.tokens.UserID(strings.TrimSpace(raw))
	if errors.Is(err, errTokenExpired) {
		writeMessage(w, http.StatusUnauthorized, MsgTokenExpired)
		return
	}
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, MsgInvalidToken)
		return
	}
	u, err := s.users.Get(userID)
	if err != nil {
		writeMessage(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": authapi.UserProfile{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		IsVerified: u.Verified,
		CreatedAt:  u.CreatedAt,
	}})
}

// issueCode stores a fresh code for userID in codes, replacing any earlier
// one, and returns it.
func (s *Server) issueCode(codes map[string]pendingCode, userID string) (string, error) {
	code, err := s.otp()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	codes[userID] = pendingCode{value: code, userID: userID, expires: s.now().Add(s.otpTTL)}
	s.mu.Unlock()
	return code, nil
}

// consumeCode reports whether code matches the live code for userID. A
// matching code is used up.
func (s *Server) consumeCode(codes map[string]pendingCode, userID, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := codes[userID]
	if !ok || code == "" || pc.value != code {
		return false
	}
	delete(codes, userID)
	return !s.now().After(pc.expires)
}

func (s *Server) internal(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, MsgInternal)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgInvalidBody)
		return false
	}
	return true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, authapi.Reply{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
