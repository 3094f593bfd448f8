// Package contacts holds the HTTP handlers for the /contacts routes. All of
// them require the authn middleware upstream; the owning user comes from the
// request context.
package contacts

import (
	"net/http"
	"strconv"
	"time"

	resp "contacts_service/internal/lib/api/response"
	"contacts_service/internal/middleware/authn"
	"contacts_service/internal/models"

	"github.com/go-chi/render"
)

const (
	defaultLimit = 20
	maxLimit     = 500

	birthdayLayout = "2006-01-02"
)

type Request struct {
	Firstname string `json:"firstname" validate:"required,max=25"`
	Surname   string `json:"surname" validate:"required,max=25"`
	Email     string `json:"email" validate:"required,email,max=50"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Birthday  string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Details   string `json:"details" validate:"max=150"`
}

type ContactResponse struct {
	ID        int64     `json:"id"`
	Firstname string    `json:"firstname"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  string    `json:"birthday"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (req Request) toModel(userID int64) models.Contact {
	// the birthday format is enforced by validation before we get here
	birthday, _ := time.Parse(birthdayLayout, req.Birthday)

	return models.Contact{
		UserID:    userID,
		Firstname: req.Firstname,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		Details:   req.Details,
	}
}

func toResponse(c models.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Firstname: c.Firstname,
		Surname:   c.Surname,
		Email:     c.Email,
		Phone:     c.Phone,
		Birthday:  c.Birthday.Format(birthdayLayout),
		Details:   c.Details,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toResponseList(list []models.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toResponse(c))
	}

	return out
}

// currentUser pulls the authenticated user set by the authn middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := authn.UserFromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, resp.Error("not authenticated"))
	}

	return user, ok
}

func contactID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}

	return id, true
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 && v <= maxLimit {
			limit = v
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	return limit, offset
}
