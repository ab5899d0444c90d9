package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bookmarks/internal/common"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c credentialsRequest) validate() error {
	if !strings.Contains(c.Email, "@") {
		return badRequest("email must be a valid address")
	}
	if c.Password == "" {
		return badRequest("password must not be empty")
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type credentialsFunc func(ctx context.Context, email, password string) (string, error)

func (a *API) signup(w http.ResponseWriter, r *http.Request) {
	a.exchangeCredentials(w, r, "signup", a.accounts.Signup, http.StatusCreated)
}

func (a *API) signin(w http.ResponseWriter, r *http.Request) {
	a.exchangeCredentials(w, r, "signin", a.accounts.Signin, http.StatusOK)
}

func (a *API) exchangeCredentials(w http.ResponseWriter, r *http.Request, op string, fn credentialsFunc, status int) {
	var req credentialsRequest
	err := decode(w, r, &req)
	if err == nil {
		err = req.validate()
	}

	var token string
	if err == nil {
		token, err = fn(r.Context(), req.Email, req.Password)
	}

	a.metrics.AuthAttempt(op, result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, status, tokenResponse{AccessToken: token})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		a.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	if err := a.guard.Revoke(r.Context(), p); err != nil {
		a.writeError(w, r, err)
		return
	}

	a.logger.Info(r.Context(), "user logged out", "user_id", p.SubjectID)
	w.WriteHeader(http.StatusNoContent)
}
