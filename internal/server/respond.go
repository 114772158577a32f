package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"ootp-toolkit/internal/api"
	"ootp-toolkit/internal/dfs"
	"ootp-toolkit/internal/formula"
	"ootp-toolkit/internal/ingest"
	"ootp-toolkit/internal/scoring"
	"ootp-toolkit/internal/service"

	"github.com/rs/zerolog"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps a service error to its status code. Unclassified errors
// are logged and hidden behind a generic message.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	var (
		fetchErr  *api.FetchError
		ingestErr *ingest.Error
		syntaxErr *formula.SyntaxError
		validErr  *service.ValidationError
		tooLarge  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ingestErr),
		errors.As(err, &syntaxErr),
		errors.As(err, &validErr),
		errors.Is(err, formula.ErrUnknownColumn),
		errors.Is(err, formula.ErrEmptyName),
		errors.Is(err, dfs.ErrRosterFull),
		errors.Is(err, dfs.ErrAlreadyPicked),
		errors.Is(err, dfs.ErrNotPicked),
		errors.Is(err, dfs.ErrOutOfRange),
		errors.Is(err, dfs.ErrSalaryCap),
		errors.Is(err, dfs.ErrEmptyRoster),
		errors.Is(err, dfs.ErrNoHits):
		return http.StatusBadRequest
	case errors.Is(err, scoring.ErrUnknownSystem), errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, dfs.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, service.ErrTooManyGames):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// decodeJSON reads one JSON value of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &service.ValidationError{Msg: "request body is empty"}
		}
		return &service.ValidationError{Msg: fmt.Sprintf("invalid request: %v", err)}
	}
	return nil
}
