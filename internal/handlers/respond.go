package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ahsanfayaz52/notesservice/internal/validation"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeValidationError(w http.ResponseWriter, verr *validation.Error) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verr.Errors})
}

func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// decodeBody reads a JSON object into dst. An empty body leaves dst untouched.
// A field of the wrong JSON type is reported as a field error.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		writeValidationError(w, validation.Field(typeErr.Field, nil, "Invalid value"))
		return false
	}

	http.Error(w, "Invalid request body", http.StatusBadRequest)
	return false
}
