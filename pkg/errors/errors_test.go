package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	catalogerrors "github.com/Ramsey-B/dahlia/pkg/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCatalogErrorPath(t *testing.T) {
	err := catalogerrors.NewCatalogError("insert failed").
		AddEntity("episode").
		AddTitle("E2").
		AddItemIndex(1)

	assert.Equal(t, "entity 'episode' -> 'E2' -> item 1: insert failed", err.Error())
}

func TestCatalogErrorWithoutPath(t *testing.T) {
	err := catalogerrors.NewCatalogError("insert failed")
	assert.Equal(t, "insert failed", err.Error())
}

func TestNewCatalogErrorfRewritesWrapVerb(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := catalogerrors.NewCatalogErrorf("failed to create show: %w", cause)
	assert.Equal(t, "failed to create show: connection reset", err.Error())
}

func TestWrapCatalogErrorPassesThrough(t *testing.T) {
	original := catalogerrors.NewCatalogError("boom").AddEntity("season")
	wrapped := catalogerrors.WrapCatalogError(original)
	assert.Same(t, original, wrapped)
}

func TestCatalogErrorToHTTPError(t *testing.T) {
	err := catalogerrors.NewCatalogError("insert failed").AddEntity("show").AddTitle("S1").ToHTTPError()

	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
	assert.Equal(t, "show", err.Meta["entity"])
	assert.Equal(t, "S1", err.Meta["title"])
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, catalogerrors.IsNotFound(catalogerrors.NotFound("show '%s' not found", "abc")))
	assert.True(t, catalogerrors.IsConflict(catalogerrors.Conflict("movie '%s' already exists", "Dune")))
	assert.False(t, catalogerrors.IsNotFound(catalogerrors.Conflict("nope")))
	assert.False(t, catalogerrors.IsConflict(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, catalogerrors.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, catalogerrors.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, catalogerrors.IsUniqueViolation(stderrors.New("plain")))
	assert.False(t, catalogerrors.IsUniqueViolation(nil))
}
