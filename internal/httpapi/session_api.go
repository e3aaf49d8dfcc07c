package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/gate"
	"lifelink.org/internal/obs"
	"lifelink.org/internal/session"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
	Role       string `json:"role"`
}

type dashboardResponse struct {
	Role       string             `json:"role"`
	Title      string             `json:"title"`
	Cards      []dashboard.Card   `json:"cards"`
	Tabs       []dashboard.Tab    `json:"tabs"`
	DefaultTab string             `json:"default_tab"`
	Actions    []dashboard.Action `json:"actions"`
	Data       any                `json:"data"`
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, session.StateFromContext(r.Context()))
	case http.MethodPost:
		a.createSession(w, r)
	case http.MethodDelete:
		a.logout(w, r)
		writeJSON(w, http.StatusOK, session.State{})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (a *API) createSession(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := session.ParseRole(req.Role)
	if err != nil {
		obs.ObserveGateSubmission("invalid", "rejected")
		handleSessionError(w, r, err)
		return
	}
	_, r, err = a.submit(w, r, gate.Credentials{Identifier: req.Identifier, Secret: req.Secret}, role)
	if err != nil {
		handleSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session.StateFromContext(r.Context()))
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	st := session.StateFromContext(r.Context())
	view, err := dashboard.Build(r.Context(), st.Role, a.source)
	if err != nil {
		if !errors.Is(err, dashboard.ErrNoView) {
			obs.Logger().Error("dashboard build failed",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.Error(err),
			)
		}
		handleSessionError(w, r, err)
		return
	}
	obs.ObserveDashboardRender(st.Role.String())
	writeJSON(w, http.StatusOK, describe(view))
}

func describe(v dashboard.View) dashboardResponse {
	resp := dashboardResponse{
		Role:       v.Role().String(),
		Title:      v.Title(),
		Cards:      v.Cards(),
		Tabs:       v.Tabs(),
		DefaultTab: v.DefaultTab(),
		Actions:    v.Actions(),
	}
	switch view := v.(type) {
	case *dashboard.DonorView:
		resp.Data = view.Data
	case *dashboard.HospitalView:
		resp.Data = view.Data
	case *dashboard.AdminView:
		resp.Data = view.Data
	}
	return resp
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
