// Package services contains server-side business logic: accounts, owned
// bookmarks and bookmark export. Callers pass the authenticated subject id
// explicitly; services never read it from the context.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarks/internal/common"
)

// storeError keeps domain outcomes reported by repositories and marks
// everything else as a store outage.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorEmailTaken),
		errors.Is(err, common.ErrorStoreUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
	}
}
