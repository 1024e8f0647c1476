package httpapi

import (
	"errors"
	"net/http"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/service"
)

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	actor, _ := service.ActorFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  actor.UserID,
		"username": actor.Username,
		"role":     actor.Role,
	})
}

func (a *API) handlePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req domain.PasswordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := a.service.ChangePassword(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"users": a.service.ListUsers()})
	case http.MethodPost:
		var req domain.UserCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.CreateUser(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleUserActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}
	parts := pathTail(r, "/api/v1/users/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("user id required"))
		return
	}
	resp, err := a.service.DeleteUser(r.Context(), parts[0])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, a.service.SyncStatus())
}

func (a *API) handleSyncActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	parts := pathTail(r, "/api/v1/sync/")
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("invalid sync action path"))
		return
	}

	switch parts[0] {
	case "enable":
		status, err := a.service.EnableSync(r.Context())
		if errors.Is(err, service.ErrForbidden) {
			writeServiceError(w, err)
			return
		}
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"sync": status, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sync": status})
	case "disable":
		status, err := a.service.DisableSync(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sync": status})
	case "force":
		report, err := a.service.ForceSync(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	case "test":
		if err := a.service.TestConnection(r.Context()); err != nil {
			if errors.Is(err, service.ErrForbidden) {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown sync action"))
	}
}
