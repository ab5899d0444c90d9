// Package cli implements the bookmarks command-line client.
//
// Each invocation runs one subcommand (see App.Run); "shell" starts a small
// REPL that dispatches lines to the same subcommands. The access token comes
// from -t, BOOKMARKS_TOKEN or the session saved by signup/signin.
package cli
