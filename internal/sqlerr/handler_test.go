package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert gear: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "gear",
		ConstraintName: "gear_strava_gear_id_key",
	})

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "GEAR_ALREADY_EXISTS", httpErr.Code)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{
		Code:       "23503",
		TableName:  "activities",
		ColumnName: "gear_id",
	}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "ACTIVITY_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Gear does not exist", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "gear",
		ColumnName: "nickname",
	}))

	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "nickname", httpErr.Errors[0].Field)
	assert.Equal(t, "GEAR_REQUIRED", httpErr.Code)
}

func TestHandleErrorNoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(WithTable(pgx.ErrNoRows, "activities_streams")))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Activity Stream not found", httpErr.Message)

	httpErr = asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("not yours", true)
	assert.Same(t, original, HandleError(fmt.Errorf("wrap: %w", original)))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Nil(t, HandleError(nil))
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "activity", singular("activities"))
	assert.Equal(t, "user_integration", singular("users_integrations"))
	assert.Equal(t, "gear", singular("gear"))
	assert.Equal(t, "health_data", singular("health_data"))
	assert.Equal(t, "access_token", singular("access_tokens"))
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("x: %w", &pgconn.PgError{Code: "23505"})))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}
