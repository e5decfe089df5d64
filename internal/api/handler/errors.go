package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/listkeeper/listkeeper/internal/api/response"
	"github.com/listkeeper/listkeeper/internal/domain"
)

var validate = validator.New()

// writeStoreError maps domain errors onto HTTP statuses: bad input is 400,
// stale ids are 404, anything else is 500.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		response.BadRequest(w, err.Error())
	case domain.IsNotFound(err):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, err.Error())
	}
}

// validationMessage flattens validator errors into a single message.
func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return "invalid field: " + errs[0].Field()
	}
	return err.Error()
}
