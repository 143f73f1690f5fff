package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notshort/notshort/internal/auth"
	"github.com/notshort/notshort/internal/middleware"
	"github.com/notshort/notshort/internal/model"
	"github.com/notshort/notshort/internal/service"
	"github.com/notshort/notshort/internal/util"
)

// Handler bundles the HTTP endpoints.
type Handler struct {
	Sessions  *service.SessionService
	Shortener *service.ShortenerService
	Auth      *auth.Auth
	Logger    *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(sessions *service.SessionService, shortener *service.ShortenerService, a *auth.Auth, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Shortener: shortener, Auth: a, Logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	userID, err := h.Sessions.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			writeMessage(w, http.StatusConflict, "User already exists")
			return
		}
		h.Logger.Error("register failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	bundle, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.Logger.Error("login failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  bundle.AccessToken,
		"refresh_token": bundle.RefreshToken,
		"expires_in":    bundle.ExpiresIn,
		"token_type":    bundle.TokenType,
	})
}

// RefreshToken handles POST /refresh-token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeMessage(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	bundle, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			writeMessage(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		h.Logger.Error("refresh failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// Logout handles POST /logout. Always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.Sessions.Logout(r.Context(), req.RefreshToken); err != nil {
		h.Logger.Error("logout failed", zap.Error(err))
	}
	writeMessage(w, http.StatusOK, "Logout successful")
}

// bearerClaims extracts and validates the bearer token directly; the
// token-verify endpoints report expiry and tampering distinctly.
func (h *Handler) bearerClaims(r *http.Request) (*auth.Claims, string) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, "Missing or invalid Authorization header"
	}
	claims, err := h.Auth.ValidateAccessToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	if err != nil {
		return nil, err.Error()
	}
	return claims, ""
}

// VerifyToken handles POST /verify-token.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, errMsg := h.bearerClaims(r)
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"valid":   false,
			"message": errMsg,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"user_id": claims.Subject,
		"email":   claims.Email,
	})
}

// GetUser handles GET /user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	claims, errMsg := h.bearerClaims(r)
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, errMsg)
		return
	}

	user, err := h.Sessions.GetUser(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("get user failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{"id": user.ID, "email": user.Email},
	})
}

// subject re-checks the context even behind the auth middleware.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Missing user ID in token payload")
		return "", false
	}
	return userID, true
}

// ListShortURLs handles GET /shorten.
func (h *Handler) ListShortURLs(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	urls, err := h.Shortener.List(r.Context(), userID)
	if err != nil {
		h.Logger.Error("list short URLs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if urls == nil {
		urls = []*model.ShortURL{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"short_urls": urls})
}

// CreateShortURL handles POST /shorten.
func (h *Handler) CreateShortURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req model.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		writeError(w, http.StatusBadRequest, "URL must start with http:// or https://")
		return
	}

	rec, created, err := h.Shortener.Create(r.Context(), userID, url)
	if err != nil {
		if errors.Is(err, service.ErrSlugExhausted) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("create short URL failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Short URL already exists!",
			"data":    rec,
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Short URL created successfully!",
		"data":    rec,
	})
}

// UpdateShortURL handles PUT /shorten.
func (h *Handler) UpdateShortURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req model.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Slug == "" {
		writeError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	rec, changed, err := h.Shortener.Update(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugNotFound):
			writeError(w, http.StatusNotFound, "Short URL not found")
		case errors.Is(err, service.ErrSlugInUse):
			writeError(w, http.StatusBadRequest, "Slug already in use")
		default:
			h.Logger.Error("update short URL failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	message := "Short URL updated successfully!"
	if !changed {
		message = "Short URL already exists!"
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": message, "data": rec})
}

// DeleteShortURL handles DELETE /shorten.
func (h *Handler) DeleteShortURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req model.DeleteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.Shortener.Delete(r.Context(), userID, req.Slug); err != nil {
		h.Logger.Error("delete short URL failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Short URL deleted successfully!")
}

// ListVisits handles GET /shorten/visits.
func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	visits, err := h.Shortener.Visits(r.Context(), userID)
	if err != nil {
		h.Logger.Error("list visits failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if visits == nil {
		visits = []*model.Visit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"visits": visits})
}

// ListVisitsBySlug handles GET /shorten/visits/{slug}.
func (h *Handler) ListVisitsBySlug(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.subject(w, r)
	if !ok {
		return
	}

	slug := chi.URLParam(r, "slug")
	visits, err := h.Shortener.VisitsBySlug(r.Context(), userID, slug)
	if err != nil {
		if errors.Is(err, service.ErrSlugNotFound) {
			writeError(w, http.StatusNotFound, "Short URL not found")
			return
		}
		h.Logger.Error("list visits by slug failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if visits == nil {
		visits = []*model.Visit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"visits": visits})
}

// Redirect handles GET /{slug}: the public resolution path. The visit
// event goes out fire-and-forget before the redirect is written; broker
// trouble never delays or fails the response.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(chi.URLParam(r, "slug"), "/")
	if slug == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	rec, err := h.Shortener.Resolve(r.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrSlugNotFound) {
			http.Error(w, "Short URL not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("resolve failed", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.Shortener.EmitVisit(rec, util.ClientIP(r), r.UserAgent())

	w.Header().Set("Location", rec.URL)
	w.WriteHeader(http.StatusMovedPermanently)
}
