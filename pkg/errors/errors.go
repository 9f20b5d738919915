package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/lib/pq"
)

// pq unique_violation
const uniqueViolationCode = "23505"

// CatalogError identifies the failing step inside a multi-step catalog
// operation (aggregate create, cascade delete). The path accumulates as the
// error propagates up so the caller sees which season or episode broke the
// batch.
type CatalogError struct {
	Entity    string
	Title     string
	itemIndex *int
	Message   string
}

func NewCatalogError(msg string) *CatalogError {
	return &CatalogError{
		Message: msg,
	}
}

func WrapCatalogError(e error) *CatalogError {
	if e == nil {
		return nil
	}

	if catalogError, ok := e.(*CatalogError); ok {
		return catalogError
	}

	return &CatalogError{
		Message: e.Error(),
	}
}

// NewCatalogErrorf creates a new CatalogError with a formatted message
func NewCatalogErrorf(format string, args ...any) *CatalogError {
	for i, arg := range args {
		if err, ok := arg.(error); ok && strings.Contains(format, "%w") {
			format = strings.Replace(format, "%w", "%v", 1)
			args[i] = err.Error()
		}
	}

	return &CatalogError{
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *CatalogError) Error() string {
	path := []string{}
	if e.Entity != "" {
		path = append(path, fmt.Sprintf("entity '%s'", e.Entity))
	}
	if e.Title != "" {
		path = append(path, fmt.Sprintf("'%s'", e.Title))
	}
	if e.itemIndex != nil {
		path = append(path, fmt.Sprintf("item %d", *e.itemIndex))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *CatalogError) AddEntity(entity string) *CatalogError {
	e.Entity = entity
	return e
}

func (e *CatalogError) AddTitle(title string) *CatalogError {
	e.Title = title
	return e
}

func (e *CatalogError) AddItemIndex(itemIndex int) *CatalogError {
	e.itemIndex = &itemIndex
	return e
}

func (e *CatalogError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusInternalServerError, e.Error()).AddMetaValue("entity", e.Entity).AddMetaValue("title", e.Title)
}

func IsCatalogError(err error) bool {
	_, ok := err.(*CatalogError)
	return ok
}

// NotFound returns a 404 HTTP error with a descriptive message
func NotFound(format string, args ...any) error {
	return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Conflict returns a 409 HTTP error
func Conflict(format string, args ...any) error {
	return httperror.NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}

// BadRequest returns a 400 HTTP error
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}

// Unauthorized returns a 401 HTTP error
func Unauthorized(message string) error {
	return httperror.NewHTTPError(http.StatusUnauthorized, message)
}

// Forbidden returns a 403 HTTP error
func Forbidden(message string) error {
	return httperror.NewHTTPError(http.StatusForbidden, message)
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

// IsNotFound reports whether err renders as a 404.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err renders as a 409.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	return httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusConflict
}
