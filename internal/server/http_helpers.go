package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeCommandError maps the engine's failure taxonomy to HTTP statuses.
func writeCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errRoomNotFound), errors.Is(err, errPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, errRoomFull),
		errors.Is(err, errInsufficientPlayers),
		errors.Is(err, errGameInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
