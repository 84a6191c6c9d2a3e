package handlers

import (
	"errors"
	"net/http"

	"github.com/ahsanfayaz52/notesservice/internal/auth"
	"github.com/ahsanfayaz52/notesservice/internal/notes"
	"github.com/ahsanfayaz52/notesservice/internal/validation"
	"github.com/gorilla/mux"
)

func FetchAllNotesHandler(svc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			internalError(w, r, err, "fetch notes failed")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func AddNoteHandler(svc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var in notes.CreateInput
		if !decodeBody(w, r, &in) {
			return
		}

		note, err := svc.Create(r.Context(), userID, in)
		if err != nil {
			writeNoteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, note)
	}
}

func UpdateNoteHandler(svc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var in notes.UpdateInput
		if !decodeBody(w, r, &in) {
			return
		}

		note, err := svc.Update(r.Context(), userID, mux.Vars(r)["id"], in)
		if err != nil {
			writeNoteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
	}
}

func DeleteNoteHandler(svc *notes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		note, err := svc.Delete(r.Context(), userID, mux.Vars(r)["id"])
		if err != nil {
			writeNoteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"Success": "Note has been deleted",
			"note":    note,
		})
	}
}

func writeNoteError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, notes.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, notes.ErrForbidden):
		http.Error(w, "Not Allowed", http.StatusUnauthorized)
	default:
		internalError(w, r, err, "note operation failed")
	}
}
