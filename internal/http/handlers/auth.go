package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/http/respond"
	"github.com/houseofcharity/charity-be/internal/middleware"
	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/models/dto"
	"github.com/houseofcharity/charity-be/internal/storage"
)

const msgInvalidCredentials = "Invalid email or password"

// AuthHandler owns register, login, and token verification.
type AuthHandler struct {
	store          storage.UserStore
	tokens         *auth.TokenManager
	limiter        *middleware.RateLimiter
	verifyPassword bool
	log            *logrus.Entry
}

// AuthOptions tunes AuthHandler behavior.
type AuthOptions struct {
	// VerifyPassword checks the stored bcrypt hash at login. When false any
	// registered email can log in, matching the legacy behavior.
	VerifyPassword bool
	// Limiter throttles register and login per client. Nil disables throttling.
	Limiter *middleware.RateLimiter
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, opts AuthOptions, log *logrus.Entry) *AuthHandler {
	return &AuthHandler{
		store:          store,
		tokens:         tokens,
		limiter:        opts.Limiter,
		verifyPassword: opts.VerifyPassword,
		log:            log,
	}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST "+APIPrefix+"/auth/register", h.throttled(h.handleRegister))
	mux.Handle("POST "+APIPrefix+"/auth/login", h.throttled(h.handleLogin))
	mux.Handle("GET "+APIPrefix+"/auth/verify", authed(h.tokens, h.handleVerify))
}

func (h *AuthHandler) throttled(fn http.HandlerFunc) http.Handler {
	if h.limiter == nil {
		return fn
	}
	return h.limiter.Wrap(fn)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.UserData.UserType = strings.ToLower(strings.TrimSpace(req.UserData.UserType))
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if _, err := h.store.FindUserByEmail(r.Context(), req.Email); err == nil {
		respond.Error(w, http.StatusBadRequest, "User with this email already exists")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		serverError(w, h.log, "registration lookup failed", err)
		return
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		serverError(w, h.log, "hash password failed", err)
		return
	}

	created, err := h.store.CreateUser(r.Context(), newUser(req, passwordHash))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusBadRequest, "User with this email already exists")
		default:
			serverError(w, h.log, "create user failed", err)
		}
		return
	}

	token, err := h.tokens.Generate(created)
	if err != nil {
		serverError(w, h.log, "generate token failed", err)
		return
	}
	h.log.WithFields(logrus.Fields{"user_id": created.ID, "user_type": created.UserType}).Info("user registered")
	respond.JSON(w, http.StatusCreated, dto.AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    created.Session(),
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		respond.Error(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		serverError(w, h.log, "login lookup failed", err)
		return
	}
	if h.verifyPassword && !passwordMatches(user.PasswordHash, req.Password) {
		h.log.WithField("user_id", user.ID).Warn("login rejected: password mismatch")
		respond.Error(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		serverError(w, h.log, "generate token failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Session(),
	})
}

// handleVerify re-reads the user so the response reflects the current row, not the token snapshot.
func (h *AuthHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.FindUserByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, h.log, "verify lookup failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user": user.Session()})
}

func newUser(req dto.RegisterRequest, passwordHash string) models.User {
	p := req.UserData
	country := strings.TrimSpace(p.Country)
	if country == "" {
		country = models.DefaultCountry
	}
	return models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		UserType:     models.UserType(p.UserType),
		Name:         strings.TrimSpace(p.Name),
		Phone:        strings.TrimSpace(p.Phone),
		Address:      strings.TrimSpace(p.Address),
		City:         strings.TrimSpace(p.City),
		State:        strings.TrimSpace(p.State),
		Country:      country,
		Pincode:      strings.TrimSpace(p.Pincode),
		Description:  strings.TrimSpace(p.Description),
		Website:      strings.TrimSpace(p.Website),
		Verified:     false,
		PasswordHash: passwordHash,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// passwordMatches is false for accounts created before hashes were stored.
func passwordMatches(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
