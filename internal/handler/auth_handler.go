package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"hospital-workflow-api/internal/apperr"
	"hospital-workflow-api/internal/auth"
	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/validate"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type tokenResponse struct {
	UserID       string `json:"userId"`
	Name         string `json:"name,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates a non-staff account. Staff accounts are provisioned by
// the seed migration, never through this endpoint.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		h.respondErr(w, err)
		return
	}

	var errs []validate.FieldError
	if req.Email == "" {
		errs = append(errs, validate.FieldError{Field: "email", Reason: "required"})
	}
	if req.Name == "" {
		errs = append(errs, validate.FieldError{Field: "name", Reason: "required"})
	}
	if len(req.Password) < 8 {
		errs = append(errs, validate.FieldError{Field: "password", Reason: "too short"})
	}
	if len(errs) > 0 {
		h.respondErr(w, apperr.WithDetails(apperr.ValidationError, errs))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		// unique violation = dup email; mapped to DUPLICATE_KEY
		h.respondErr(w, err)
		return
	}

	resp, err := h.issueTokens(r, u)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.respondErr(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}

	u, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		// same response for unknown email and bad password
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}

	resp, err := h.issueTokens(r, u)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	resp.Name = u.Name
	respond(w, http.StatusOK, resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh access/refresh pair is issued. Presenting an already-rotated token
// is treated as theft and revokes every live token for that user.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		h.respondErr(w, err)
		return
	}
	if req.RefreshToken == "" {
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}

	rt, err := h.store.RefreshTokenByHash(r.Context(), auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	if rt.Revoked {
		if err := h.store.RevokeAllRefreshTokens(r.Context(), rt.UserID); err != nil {
			h.log.Error().Err(err).Str("user_id", rt.UserID).Msg("revoke all refresh tokens")
		}
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	if time.Now().After(rt.ExpiresAt) {
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}

	u, err := h.store.UserByID(r.Context(), rt.UserID)
	if err != nil {
		h.respondErr(w, apperr.New(apperr.Unauthorized))
		return
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		h.respondErr(w, err)
		return
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(r.Context(), rt.ID, newID, u.ID, hash, time.Now().Add(refreshTokenTTL)); err != nil {
		h.respondErr(w, err)
		return
	}

	access, err := auth.MakeToken(u.ID, u.Staff, h.secret)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, tokenResponse{UserID: u.ID, Token: access, RefreshToken: raw})
}

func (h *Handler) issueTokens(r *http.Request, u *model.User) (*tokenResponse, error) {
	access, err := auth.MakeToken(u.ID, u.Staff, h.secret)
	if err != nil {
		return nil, err
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if _, err := h.store.CreateRefreshToken(r.Context(), u.ID, hash, time.Now().Add(refreshTokenTTL)); err != nil {
		return nil, err
	}
	return &tokenResponse{UserID: u.ID, Token: access, RefreshToken: raw}, nil
}
