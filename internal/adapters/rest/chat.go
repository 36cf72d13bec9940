package rest

import (
	"encoding/json"
	"net/http"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type favoriteRequest struct {
	Input     string `json:"input"`
	SessionID string `json:"sessionId"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.log.Error().Err(err).Msg("chat handling failed")
		metricMessages.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "something went sideways — try again")
		return
	}

	metricMessages.WithLabelValues("ok").Inc()
	if reply.Song != nil {
		metricTracksServed.Inc()
	}
	if reply.Interrupt != nil {
		metricInterrupts.WithLabelValues(reply.Interrupt.Type).Inc()
	}
	writeJSON(w, http.StatusOK, reply)
}

// Favorite handles POST /api/favorite.
func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.HandleFavorite(r.Context(), req.SessionID, req.Input)
	if err != nil {
		h.log.Error().Err(err).Msg("favorite handling failed")
		writeError(w, http.StatusInternalServerError, "couldn't save that one — try again")
		return
	}

	if reply.Song != nil {
		metricTracksServed.Inc()
	}
	writeJSON(w, http.StatusOK, reply)
}
