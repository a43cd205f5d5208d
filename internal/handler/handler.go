// Package handler wires the HTTP surface to the lifecycle engine. Each
// request builds an engine bound to the actor's resolved scope, so scope
// changes (login/logout, manager switch) need no invalidation machinery.
package handler

import (
	"errors"
	"net/http"

	"warescan-service/internal/engine"
	"warescan-service/internal/middleware"
	"warescan-service/internal/replicate"
	"warescan-service/internal/scope"
	"warescan-service/internal/store"
	"warescan-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

var (
	packageStore store.Store
	replicator   replicate.Replicator
	resetCode    string
)

// Init wires the shared collaborators. Called once from main before the
// server starts.
func Init(st store.Store, rep replicate.Replicator, adminResetCode string) {
	packageStore = st
	replicator = rep
	resetCode = adminResetCode
}

// newEngine builds a lifecycle engine for the authenticated actor's scope.
func newEngine(c echo.Context) (*engine.Engine, scope.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return nil, scope.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated actor")
	}

	eng, err := engine.New(scope.Resolve(actor), packageStore, replicator, logger.FromEcho(c))
	if err != nil {
		return nil, actor, err
	}
	return eng, actor, nil
}

// engineErrorResponse maps the engine error taxonomy onto HTTP responses.
// Precondition bodies carry expected/actual state and the workflow hint so
// the client can render a specific message, never a generic "failed".
func engineErrorResponse(c echo.Context, err error) error {
	var (
		validationErr   *engine.ValidationError
		duplicateErr    *engine.DuplicateError
		notFoundErr     *engine.NotFoundError
		preconditionErr *engine.PreconditionError
		persistenceErr  *engine.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &duplicateErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   duplicateErr.Error(),
			"barcode": duplicateErr.Barcode,
		})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": notFoundErr.Error(),
		})
	case errors.As(err, &preconditionErr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":    preconditionErr.Error(),
			"rule":     preconditionErr.Rule,
			"expected": preconditionErr.Expected,
			"actual":   preconditionErr.Actual,
			"workflow": preconditionErr.Hint,
		})
	case errors.As(err, &persistenceErr):
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to save changes, previous data is intact, please retry",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal error",
		})
	}
}
