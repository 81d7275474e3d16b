package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecolife-backend/internal/metrics"
	"ecolife-backend/internal/models"
	"ecolife-backend/internal/notify"
	"ecolife-backend/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	loginTokenTTL     = 15 * time.Minute
	loginWindow       = 10 * time.Minute
	maxLoginsInWindow = 5
)

// LoginTokenStore persists single-use sign-in tokens.
type LoginTokenStore interface {
	Create(ctx context.Context, token *models.LoginToken) error
	FindByToken(ctx context.Context, token string) (*models.LoginToken, error)
	MarkUsed(ctx context.Context, token string) (bool, error)
	CountRecentByEmail(ctx context.Context, email string, window time.Duration) (int64, error)
}

type UserStore interface {
	FindOrCreate(ctx context.Context, email string) (*models.User, error)
}

// SessionIssuer mints the bearer token handed out after a successful sign-in.
type SessionIssuer interface {
	Issue(userID, email string) (string, error)
}

type AuthHandler struct {
	tokens  LoginTokenStore
	users   UserStore
	issuer  SessionIssuer
	mailer  notify.Mailer
	baseURL string
	logger  *zap.Logger
	now     func() time.Time
}

func NewAuthHandler(tokens LoginTokenStore, users UserStore, issuer SessionIssuer, mailer notify.Mailer, baseURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:  tokens,
		users:   users,
		issuer:  issuer,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		now:     time.Now,
	}
}

// --- Request / Response types ---

type RequestLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// --- POST /api/auth/request ---

func (h *AuthHandler) RequestLogin(w http.ResponseWriter, r *http.Request) {
	var req RequestLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	count, err := h.tokens.CountRecentByEmail(r.Context(), req.Email, loginWindow)
	if err != nil {
		h.logger.Error("login_rate_check_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if count >= maxLoginsInWindow {
		writeError(w, http.StatusTooManyRequests, "too many login requests, please try again later")
		return
	}

	token := &models.LoginToken{
		Email:     req.Email,
		Token:     uuid.New().String(),
		ExpiresAt: h.now().Add(loginTokenTTL),
	}
	if err := h.tokens.Create(r.Context(), token); err != nil {
		h.logger.Error("login_token_create_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create login token")
		return
	}
	metrics.LoginLinksIssued.Inc()

	link := fmt.Sprintf("%s/api/auth/verify?token=%s", h.linkBase(r), url.QueryEscape(token.Token))
	if err := h.mailer.SendLoginLink(r.Context(), req.Email, link); err != nil {
		// The token exists either way; delivery is best effort
		h.logger.Warn("login_email_failed", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "login link generated (email delivery may be delayed)",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "login link sent to your email",
	})
}

// linkBase prefers the configured BASE_URL and falls back to the request's own host.
func (h *AuthHandler) linkBase(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// --- GET /api/auth/verify ---

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("token")
	if value == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	token, err := h.tokens.FindByToken(r.Context(), value)
	if err != nil {
		h.logger.Error("login_token_lookup_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if token == nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if token.IsExpired(h.now()) {
		writeError(w, http.StatusUnauthorized, "token has expired")
		return
	}
	if token.IsUsed {
		writeError(w, http.StatusUnauthorized, "token has already been used")
		return
	}

	redeemed, err := h.tokens.MarkUsed(r.Context(), value)
	if err != nil {
		h.logger.Error("login_token_mark_used_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if !redeemed {
		writeError(w, http.StatusUnauthorized, "token has already been used")
		return
	}

	user, err := h.users.FindOrCreate(r.Context(), token.Email)
	if err != nil {
		h.logger.Error("user_find_or_create_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	session, err := h.issuer.Issue(user.ID.Hex(), user.Email)
	if err != nil {
		h.logger.Error("session_issue_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	h.logger.Info("user_signed_in", zap.String("user_id", user.ID.Hex()))
	writeJSON(w, http.StatusOK, VerifyResponse{
		Token: session,
		User:  user,
	})
}
