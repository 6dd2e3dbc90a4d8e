package api

import (
	"fmt"
	"net/http"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// validator is implemented by request payloads that check themselves.
type validator interface {
	Validate() error
}

type gateError struct {
	status  int
	message string
}

func (e *gateError) Error() string { return e.message }

func badRequest(message string) error {
	return &gateError{status: http.StatusBadRequest, message: message}
}

// gate is the entry check of every domain handler. It requires an
// authenticated caller with at least minRole, decodes payload when it is
// non-nil and runs its Validate method. Operations downstream trust the
// returned caller and payload.
func gate(r *http.Request, minRole string, payload any) (model.Caller, error) {
	claims := GetClaims(r.Context())
	if claims == nil {
		return model.Caller{}, &gateError{status: http.StatusUnauthorized, message: "not authenticated"}
	}
	if !model.RoleAtLeast(claims.Role, minRole) {
		return model.Caller{}, &gateError{status: http.StatusForbidden, message: "insufficient permissions"}
	}

	if payload != nil {
		if err := decodeJSON(r, payload); err != nil {
			return model.Caller{}, badRequest("invalid request body")
		}
		if v, ok := payload.(validator); ok {
			if err := v.Validate(); err != nil {
				return model.Caller{}, badRequest(err.Error())
			}
		}
	}

	return claims.Caller(), nil
}

func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, entity, id)
}
