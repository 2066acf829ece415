package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/service"
)

// LoginHandler exchanges credentials for a bearer token.
type LoginHandler struct {
	authService *service.AuthService
	logger      zerolog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(authService *service.AuthService, logger zerolog.Logger) *LoginHandler {
	return &LoginHandler{
		authService: authService,
		logger:      logger.With().Str("handler", "login").Logger(),
	}
}

// Login handles POST /api/login.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var input service.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	out, err := h.authService.Login(r.Context(), input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
