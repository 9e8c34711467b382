package apperror

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// isTransient reports whether an error is an infrastructure failure the client
// may retry: connection-class postgres errors (SQLSTATE 08xxx), timeouts, and
// refused/dropped network connections (covers redis dial failures).
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// ToHTTP maps any error to a stable HTTP representation. Transient
// infrastructure failures surface as 503 so clients know a retry can succeed;
// remaining unknown errors are collapsed to a generic 500 so internals never
// leak to clients.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	if isTransient(err) {
		return HTTPError{
			Status:  ErrStorageUnavailable.HTTPStatus,
			Code:    ErrStorageUnavailable.Code,
			Message: ErrStorageUnavailable.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "An unexpected error occurred",
	}
}
