// Package client talks to the bookmarks HTTP API and bootstraps the CLI's
// local SQLite database.
//
// Server answers are mapped to sentinel errors that callers match with
// errors.Is: common.ErrorUnauthorized, common.ErrorEmailTaken,
// common.ErrorInvalidCredentials, common.ErrorNotFound, plus ErrUnavailable
// (network failure or 503), ErrRateLimited and ErrBadRequest.
package client
