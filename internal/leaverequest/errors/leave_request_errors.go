package leaverequesterrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidTenantID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid tenant id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrEmptyDates = apperror.New(
		apperror.CodeInvalidInput,
		"at least one leave date is required",
		http.StatusBadRequest,
	)
	ErrUnparseableDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave dates must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrDateOutsideYear = apperror.New(
		apperror.CodeInvalidInput,
		"all leave dates must fall within the record year",
		http.StatusBadRequest,
	)
	ErrRepeatedDate = apperror.New(
		apperror.CodeInvalidInput,
		"leave dates must not repeat within the request",
		http.StatusBadRequest,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a supervisor comment is required to reject a request",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInTenant = apperror.New(
		apperror.CodeNotFound,
		"employee not found in tenant",
		http.StatusNotFound,
	)
	ErrLeaveTypeUnavailable = apperror.New(
		apperror.CodeNotFound,
		"leave type not found or inactive",
		http.StatusNotFound,
	)
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"an identical leave request is already pending",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusConflict,
	)
)
