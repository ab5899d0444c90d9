package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bookmarks/internal/client/client"
	"github.com/dmitrijs2005/bookmarks/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type credentialsFunc func(ctx context.Context, email string, password []byte) error

func (a *App) Signup(ctx context.Context, _ []string) error {
	return a.credentials(ctx, a.sessions.Signup, "Account created, signed in as")
}

func (a *App) Signin(ctx context.Context, _ []string) error {
	return a.credentials(ctx, a.sessions.Signin, "Signed in as")
}

func (a *App) credentials(ctx context.Context, fn credentialsFunc, done string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := fn(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, done, email)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) Me(ctx context.Context, _ []string) error {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	u, err := a.api.Me(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "id:    %s\nemail: %s\n", u.ID, u.Email)
	if name := fullName(u.FirstName, u.LastName); name != "" {
		fmt.Fprintf(a.out, "name:  %s\n", name)
	}
	return nil
}

func (a *App) Profile(ctx context.Context, args []string) error {
	fields, err := parseAssignments(args, "email", "first", "last")
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return errors.New("usage: profile [email=...] [first=...] [last=...]")
	}

	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	u, err := a.api.EditProfile(ctx, token, client.ProfilePatch{
		Email:     fields["email"],
		FirstName: fields["first"],
		LastName:  fields["last"],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated:", u.Email, fullName(u.FirstName, u.LastName))
	return nil
}

func fullName(first, last *string) string {
	var parts []string
	for _, p := range []*string{first, last} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}

// parseAssignments reads key=value arguments restricted to allowed keys.
func parseAssignments(args []string, allowed ...string) (map[string]*string, error) {
	out := make(map[string]*string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		known := false
		for _, a := range allowed {
			if a == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown field %q (allowed: %s)", k, strings.Join(allowed, ", "))
		}
		out[k] = &v
	}
	return out, nil
}
