package timeclockerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Already clocked in for today",
		http.StatusConflict,
	)
	ErrNoOpenEntry = apperror.New(
		apperror.CodeNotFound,
		"No clock-in found for today",
		http.StatusNotFound,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"Already clocked out for today",
		http.StatusConflict,
	)
)
