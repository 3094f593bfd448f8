package avatar

import (
	"log/slog"
	"net/http"

	"contacts_service/internal/auth"
	avatarstore "contacts_service/internal/avatar"
	resp "contacts_service/internal/lib/api/response"
	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/middleware/authn"
	"contacts_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const maxUploadSize = 5 << 20 // 5 MiB

type Response struct {
	resp.Response
	User models.User `json:"user"`
}

// New handles PATCH /users/avatar: a multipart "file" field is pushed to
// object storage and the resulting URL stored on the user.
func New(
	log *slog.Logger,
	authService *auth.Auth,
	uploader *avatarstore.Uploader,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.avatar.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authn.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("not authenticated"))

			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Error("Failed to parse multipart form", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("file is required"))

			return
		}
		defer file.Close()

		url, err := uploader.Upload(r.Context(), user.Username, file, header.Header.Get("Content-Type"))
		if err != nil {
			log.Error("failed to upload avatar", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		updated, err := authService.UpdateAvatar(r.Context(), user.Email, url)
		if err != nil {
			log.Error("failed to store avatar url", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("avatar updated", slog.Int64("uid", updated.ID))

		render.JSON(w, r, Response{
			Response: resp.OK(),
			User:     updated,
		})
	}
}
