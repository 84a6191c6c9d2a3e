package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ahsanfayaz52/notesservice/internal/auth"
	"github.com/ahsanfayaz52/notesservice/internal/models"
	"github.com/ahsanfayaz52/notesservice/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user persistence the auth handlers need.
type UserStore interface {
	Insert(ctx context.Context, u models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

type registerRequest struct {
	Name     string `json:"name" validate:"min=3" msg:"Enter a valid name"`
	Email    string `json:"email" validate:"email" msg:"Enter a valid email"`
	Password string `json:"password" validate:"min=5,maxbytes=72" msg:"Password must be at least 5 characters" msg_maxbytes:"Password must be at most 72 bytes"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"email" msg:"Enter a valid email"`
	Password string `json:"password" validate:"required" msg:"Password cannot be blank"`
}

type authResponse struct {
	Success   bool   `json:"success"`
	AuthToken string `json:"authtoken,omitempty"`
	Error     string `json:"error,omitempty"`
}

func RegisterHandler(users UserStore, jwtService *auth.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validation.Struct(req); err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				writeValidationError(w, verr)
				return
			}
			internalError(w, r, err, "validate register request")
			return
		}

		// hash password
		hashedPass, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			internalError(w, r, err, "hash password")
			return
		}

		user, err := users.Insert(r.Context(), models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashedPass),
		})
		if err != nil {
			if errors.Is(err, models.ErrDuplicateEmail) {
				writeJSON(w, http.StatusBadRequest, authResponse{
					Error: "Sorry a user with this email already exists",
				})
				return
			}
			internalError(w, r, err, "create user")
			return
		}

		token, err := jwtService.GenerateToken(user.ID)
		if err != nil {
			internalError(w, r, err, "generate token")
			return
		}

		writeJSON(w, http.StatusOK, authResponse{Success: true, AuthToken: token})
	}
}

func LoginHandler(users UserStore, jwtService *auth.JWTService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validation.Struct(req); err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				writeValidationError(w, verr)
				return
			}
			internalError(w, r, err, "validate login request")
			return
		}

		badCredentials := authResponse{Error: "Please try to login with correct credentials"}

		user, err := users.FindByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				writeJSON(w, http.StatusBadRequest, badCredentials)
				return
			}
			internalError(w, r, err, "find user")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			writeJSON(w, http.StatusBadRequest, badCredentials)
			return
		}

		token, err := jwtService.GenerateToken(user.ID)
		if err != nil {
			internalError(w, r, err, "generate token")
			return
		}

		writeJSON(w, http.StatusOK, authResponse{Success: true, AuthToken: token})
	}
}

func GetUserHandler(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.GetUserIDFromContext(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := users.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				http.Error(w, "Not Found", http.StatusNotFound)
				return
			}
			internalError(w, r, err, "find user")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
