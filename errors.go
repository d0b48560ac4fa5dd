package pagecraft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eringen/pagecraft/block"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("pagecraft: not found")
	// ErrSlugTaken is returned when a slug is already used within a tenant.
	ErrSlugTaken = errors.New("pagecraft: slug already taken")
	// ErrBlockNotFound is returned by page operations naming a missing block.
	ErrBlockNotFound = errors.New("pagecraft: block not found")
	// ErrOutOfRange is returned for block positions outside the page.
	ErrOutOfRange = errors.New("pagecraft: position out of range")
	// ErrArchived is returned when publishing an archived page. MarkDraft
	// first to bring it back.
	ErrArchived = errors.New("pagecraft: page is archived")
	// ErrTooLarge is returned for uploads over the size limit.
	ErrTooLarge = errors.New("pagecraft: file too large")
)

// ValidationFailedError is returned by Publish when the page content does
// not pass validation. The page is left unchanged.
type ValidationFailedError struct {
	PageID string
	Result block.Result
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("pagecraft: page %s failed validation: %s",
		e.PageID, strings.Join(e.Result.Errors(), "; "))
}
