package handler

import (
	"net/http"

	"warescan-service/internal/model"
	"warescan-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ResetData wipes the entire scope's package collection. Irreversible, so it
// is double-gated: manager privilege plus the confirmation code header.
func ResetData(c echo.Context) error {
	log := logger.FromEcho(c)

	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	if !actor.Privileges().Has(model.PrivResetData) {
		log.Warn("Reset denied", zap.String("username", actor.Username))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only managers can reset warehouse data"})
	}

	if c.Request().Header.Get("X-Confirmation-Code") != resetCode {
		log.Warn("Reset rejected, wrong confirmation code", zap.String("username", actor.Username))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "confirmation code mismatch"})
	}

	if err := eng.ResetAll(); err != nil {
		return engineErrorResponse(c, err)
	}

	log.Warn("Warehouse data reset",
		zap.String("username", actor.Username),
		zap.Uint("scope", uint(eng.Scope())))
	return c.JSON(http.StatusOK, echo.Map{"message": "all warehouse data cleared"})
}
