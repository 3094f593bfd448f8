package contacts

import (
	"errors"
	"log/slog"
	"net/http"

	contactsvc "contacts_service/internal/contacts"
	resp "contacts_service/internal/lib/api/response"
	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/storage"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// NewGet handles GET /contacts/{id}.
func NewGet(log *slog.Logger, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewGet"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := contactID(r, chi.URLParam(r, "id"))
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid contact id"))

			return
		}

		contact, err := svc.Get(r.Context(), user.ID, id)
		if err != nil {
			if errors.Is(err, storage.ErrContactNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Contact not found"))

				return
			}

			log.Error("failed to get contact", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, toResponse(contact))
	}
}

// NewCreate handles POST /contacts/.
func NewCreate(log *slog.Logger, validate *validator.Validate, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewCreate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		contact, err := svc.Create(r.Context(), req.toModel(user.ID))
		if err != nil {
			log.Error("failed to create contact", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, toResponse(contact))
	}
}

// NewUpdate handles PUT /contacts/{id}.
func NewUpdate(log *slog.Logger, validate *validator.Validate, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewUpdate"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := contactID(r, chi.URLParam(r, "id"))
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid contact id"))

			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		contact := req.toModel(user.ID)
		contact.ID = id

		updated, err := svc.Update(r.Context(), contact)
		if err != nil {
			if errors.Is(err, storage.ErrContactNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Contact not found"))

				return
			}

			log.Error("failed to update contact", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		render.JSON(w, r, toResponse(updated))
	}
}

// NewDelete handles DELETE /contacts/{id}. Deleting an absent contact still
// yields 204.
func NewDelete(log *slog.Logger, svc *contactsvc.Contacts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.NewDelete"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := contactID(r, chi.URLParam(r, "id"))
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid contact id"))

			return
		}

		if err := svc.Delete(r.Context(), user.ID, id); err != nil {
			log.Error("failed to delete contact", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
