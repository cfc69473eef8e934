package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userBody struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
}

type loginResponse struct {
	Success   bool     `json:"success"`
	SessionID string   `json:"session_id"`
	User      userBody `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	result, err := s.engine.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	s.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		SessionID: result.Token,
		User: userBody{
			ID:          result.Identity.AccountID,
			Email:       result.Identity.Email,
			Username:    result.Identity.Username,
			Permissions: result.Entitlements.Strings(),
		},
	})
}

type checkPermissionResponse struct {
	HasPermission      bool     `json:"has_permission"`
	CurrentPermissions []string `json:"current_permissions"`
}

func (s *Server) handleCheckPermission(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	requested := r.URL.Query().Get("permission")
	decision, err := s.engine.CheckPermission(r.Context(), token, requested)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkPermissionResponse{
		HasPermission:      decision.Allowed,
		CurrentPermissions: decision.Entitlements.Strings(),
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	payload, err := s.engine.AuthorizeData(r.Context(), token, r.PathValue("dataType"))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.logger.Warn("payload write failed", zap.Error(err))
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	if err := s.engine.Logout(r.Context(), token); err != nil {
		writeEngineError(w, err)
		return
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type meResponse struct {
	User               userBody `json:"user"`
	PermissionsAtLogin []string `json:"permissions_at_login"`
	CreatedAt          int64    `json:"created_at"`
	ExpiresAt          int64    `json:"expires_at"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	info, err := s.engine.Introspect(r.Context(), token)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User: userBody{
			ID:          info.Identity.AccountID,
			Email:       info.Identity.Email,
			Username:    info.Identity.Username,
			Permissions: info.CurrentEntitlements.Strings(),
		},
		PermissionsAtLogin: info.PermissionsAtLogin,
		CreatedAt:          info.CreatedAt,
		ExpiresAt:          info.ExpiresAt,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, msgServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
