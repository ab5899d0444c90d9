package cli

import (
	"context"
	"fmt"
	"strings"
)

// Shell reads commands line by line and runs them until EOF, "exit" or
// "quit". Errors are printed and do not end the loop.
func (a *App) Shell(ctx context.Context) error {
	fmt.Fprintln(a.out, "Bookmarks shell (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "bookmarks%s> ", a.status(ctx))
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		case "shell":
			continue
		}

		if err := a.Run(ctx, parts); err != nil {
			fmt.Fprintln(a.out, "error:", err)
		}
	}
}

func (a *App) status(ctx context.Context) string {
	email, ok, err := a.sessions.Email(ctx)
	if err != nil || !ok {
		return ""
	}
	return " (" + email + ")"
}
