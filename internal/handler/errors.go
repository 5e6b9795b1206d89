package handler

import (
	"errors"
	"net/http"

	"outlethub-api/internal/repository"
	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"
)

// writeServiceError maps service-layer errors onto the API error taxonomy.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *service.ConflictError
	var duplicate *service.DuplicateError

	switch {
	case errors.As(err, &conflict):
		response.Error(w, apierror.Conflict(conflict.Error()))
	case errors.As(err, &duplicate):
		response.Error(w, apierror.Conflict(duplicate.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, apierror.BadRequest(err.Error()))
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, service.ErrOutletRequired),
		errors.Is(err, service.ErrRegistrationDisabled),
		errors.Is(err, service.ErrNotSeller),
		errors.Is(err, service.ErrAlreadyHasOutlet):
		response.Error(w, apierror.BadRequest(err.Error()))
	case errors.Is(err, repository.ErrNotFound):
		response.Error(w, apierror.NotFound(""))
	default:
		response.Error(w, apierror.InternalError(""))
	}
}
