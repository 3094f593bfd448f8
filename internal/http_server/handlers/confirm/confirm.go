package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"contacts_service/internal/auth"
	resp "contacts_service/internal/lib/api/response"
	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Message string `json:"message"`
}

// New handles GET /auth/confirmed_email/{token}.
func New(
	log *slog.Logger,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.confirm.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := chi.URLParam(r, "token")
		if token == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("missing token"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		already, err := authService.ConfirmEmail(ctx, token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidEmailToken) || errors.Is(err, storage.ErrUserNotFound) {
				log.Warn("verification failed", sl.Err(err))

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Verification error"))

				return
			}

			log.Error("failed to confirm email", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		msg := "Email confirmed"
		if already {
			msg = "Your email is already confirmed"
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  msg,
		})
	}
}
