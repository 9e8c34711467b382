package leavedayerrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrDatesAlreadyReserved = apperror.New(
		apperror.CodeConflict,
		"one or more requested dates are already reserved",
		http.StatusConflict,
	)
)
