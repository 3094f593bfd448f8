package contacts

import (
	"log/slog"
	"net/http"

	contactsvc "contacts_service/internal/contacts"
	resp "contacts_service/internal/lib/api/response"
	sl "contacts_service/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// NewList handles GET /contacts/ with limit/offset pagination.
func NewList(log *slog.Logger, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewList"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		limit, offset := pagination(r)

		list, err := svc.List(r.Context(), user.ID, limit, offset)
		if err != nil {
			log.Error("failed to list contacts", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, toResponseList(list))
	}
}

// NewSearch handles GET /contacts/search/?query=.
func NewSearch(log *slog.Logger, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewSearch"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		query := r.URL.Query().Get("query")
		if query == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("query is required"))

			return
		}

		list, err := svc.Search(r.Context(), user.ID, query)
		if err != nil {
			log.Error("failed to search contacts", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, toResponseList(list))
	}
}

// NewUpcomingBirthdays handles GET /contacts/upcoming_birthdays.
func NewUpcomingBirthdays(log *slog.Logger, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewUpcomingBirthdays"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, err := svc.UpcomingBirthdays(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to load upcoming birthdays", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, toResponseList(list))
	}
}
