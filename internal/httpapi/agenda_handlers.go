package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/reminder"
)

func (a *API) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		date := strings.TrimSpace(r.URL.Query().Get("date"))
		if date == "" {
			writeJSON(w, http.StatusOK, map[string]any{"appointments": a.service.ListAppointments()})
			return
		}
		if _, err := domain.ParseDate(date); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": date, "appointments": a.service.Agenda(date)})
	case http.MethodPost:
		var req domain.AppointmentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.SaveAppointment(r.Context(), "", req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	lead := a.reminderLead
	if lead <= 0 {
		lead = reminder.DefaultLead
	}
	upcoming := reminder.Upcoming(a.service.ListAppointments(), a.now(), lead)
	writeJSON(w, http.StatusOK, map[string]any{"count": len(upcoming), "appointments": upcoming})
}

func (a *API) handleAppointmentActions(w http.ResponseWriter, r *http.Request) {
	parts := pathTail(r, "/api/v1/appointments/")
	if len(parts) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("appointment id required"))
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		switch parts[1] {
		case "complete":
			resp, err := a.service.CompleteAppointment(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		case "cancel":
			resp, err := a.service.CancelAppointment(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		default:
			writeError(w, http.StatusBadRequest, errors.New("invalid appointment action path"))
		}
		return
	}
	if len(parts) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("invalid appointment action path"))
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		var req domain.AppointmentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp, err := a.service.SaveAppointment(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		if !requireAdmin(w, r) {
			return
		}
		resp, err := a.service.DeleteAppointment(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeMethodNotAllowed(w)
	}
}
