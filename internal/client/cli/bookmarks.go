package cli

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/client/client"
	"github.com/dmitrijs2005/bookmarks/internal/client/models"
	"github.com/dmitrijs2005/bookmarks/internal/filex"
	"github.com/dmitrijs2005/bookmarks/internal/netx"
)

// downloadExport is a seam for tests.
var downloadExport = netx.DownloadPresignedURL

func (a *App) Add(ctx context.Context, args []string) error {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	in := client.NewBookmark{}
	if len(args) > 0 {
		in.Title = args[0]
	} else if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if len(args) > 1 {
		in.Link = args[1]
	} else if in.Link, err = getSimpleText(a.reader, "Link", a.out); err != nil {
		return err
	}
	if len(args) > 2 {
		in.Description = &args[2]
	}

	b, err := a.api.CreateBookmark(ctx, token, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Created", b.ID)
	return nil
}

func (a *App) List(ctx context.Context, _ []string) error {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	list, err := a.api.ListBookmarks(ctx, token)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookmarks")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLINK\tCREATED")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Link, b.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <id>")
	}
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	b, err := a.api.GetBookmark(ctx, token, args[0])
	if err != nil {
		return err
	}
	a.printBookmark(b)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: edit <id> [title=...] [link=...] [description=...]")
	}
	fields, err := parseAssignments(args[1:], "title", "link", "description")
	if err != nil {
		return err
	}
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	b, err := a.api.EditBookmark(ctx, token, args[0], client.BookmarkPatch{
		Title:       fields["title"],
		Link:        fields["link"],
		Description: fields["description"],
	})
	if err != nil {
		return err
	}
	a.printBookmark(b)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	if err := a.api.DeleteBookmark(ctx, token, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted", args[0])
	return nil
}

// Export asks the server for a snapshot and saves it to args[0], or to the
// exports directory under the data dir.
func (a *App) Export(ctx context.Context, args []string) error {
	token, err := a.sessions.Token(ctx)
	if err != nil {
		return err
	}

	exp, err := a.api.Export(ctx, token)
	if err != nil {
		return err
	}

	data, err := downloadExport(ctx, exp.URL)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}

	target := ""
	if len(args) > 0 {
		target = args[0]
	} else {
		dir, err := filex.EnsureDir(filepath.Join(a.dataDir, "exports"))
		if err != nil {
			return err
		}
		target = filepath.Join(dir, path.Base(exp.Key))
	}

	if err := filex.WriteFileAtomic(target, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d bookmarks to %s\n", exp.Count, target)
	return nil
}

func (a *App) printBookmark(b *models.Bookmark) {
	fmt.Fprintf(a.out, "id:          %s\ntitle:       %s\nlink:        %s\n", b.ID, b.Title, b.Link)
	if b.Description != nil {
		fmt.Fprintf(a.out, "description: %s\n", *b.Description)
	}
	fmt.Fprintf(a.out, "updated:     %s\n", b.UpdatedAt.Local().Format(time.DateTime))
}
