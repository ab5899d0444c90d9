package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type createBookmarkRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Link        string  `json:"link"`
}

type editBookmarkRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

// subject pulls the authenticated caller or answers 401.
func (a *API) subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := principalFrom(r.Context())
	if !ok {
		a.writeError(w, r, common.ErrorUnauthorized)
		return "", false
	}
	return p.SubjectID, true
}

func (a *API) createBookmark(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := a.subject(w, r)
	if !ok {
		return
	}

	var req createBookmarkRequest
	err := decode(w, r, &req)
	if err == nil {
		switch {
		case req.Title == "":
			err = badRequest("title must not be empty")
		case req.Link == "":
			err = badRequest("link must not be empty")
		}
	}
	if err != nil {
		a.metrics.ResourceOp("create", result(err))
		a.writeError(w, r, err)
		return
	}

	b, err := a.bookmarks.Create(r.Context(), subjectID, services.NewBookmark{
		Title:       req.Title,
		Link:        req.Link,
		Description: req.Description,
	})
	a.metrics.ResourceOp("create", result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (a *API) listBookmarks(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := a.subject(w, r)
	if !ok {
		return
	}

	list, err := a.bookmarks.List(r.Context(), subjectID)
	a.metrics.ResourceOp("list", result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getBookmark(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := a.subject(w, r)
	if !ok {
		return
	}

	b, err := a.bookmarks.Get(r.Context(), subjectID, chi.URLParam(r, "id"))
	a.metrics.ResourceOp("get", result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) editBookmark(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := a.subject(w, r)
	if !ok {
		return
	}

	var req editBookmarkRequest
	err := decode(w, r, &req)
	if err == nil {
		switch {
		case req.Title != nil && *req.Title == "":
			err = badRequest("title must not be empty")
		case req.Link != nil && *req.Link == "":
			err = badRequest("link must not be empty")
		}
	}
	if err != nil {
		a.metrics.ResourceOp("update", result(err))
		a.writeError(w, r, err)
		return
	}

	b, err := a.bookmarks.Update(r.Context(), subjectID, chi.URLParam(r, "id"), services.BookmarkPatch{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	})
	a.metrics.ResourceOp("update", result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := a.subject(w, r)
	if !ok {
		return
	}

	err := a.bookmarks.Delete(r.Context(), subjectID, chi.URLParam(r, "id"))
	a.metrics.ResourceOp("delete", result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) exportBookmarks(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := a.subject(w, r)
	if !ok {
		return
	}

	if a.exporter == nil || !a.exporter.Enabled() {
		a.writeError(w, r, services.ErrExportDisabled)
		return
	}

	exp, err := a.exporter.Export(r.Context(), subjectID)
	a.metrics.ResourceOp("export", result(err))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}
