package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/server/services"
)

type editUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		a.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	u, err := a.accounts.GetProfile(r.Context(), p.SubjectID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) editUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		a.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	var req editUserRequest
	if err := decode(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		a.writeError(w, r, badRequest("email must be a valid address"))
		return
	}

	u, err := a.accounts.EditProfile(r.Context(), p.SubjectID, services.ProfilePatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
