package handler

import (
	"io"
	"net/http"

	"warescan-service/internal/manifest"
	"warescan-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ImportManifest accepts a manifest file (multipart "manifest" field or raw
// body) and reconciles it against the scope's collection. Pre-existing
// packages are never overwritten; the response carries the batch counts and
// the is_duplicate_upload flag the client uses to tell "re-uploaded, no
// changes" from "partially new".
func ImportManifest(c echo.Context) error {
	log := logger.FromEcho(c)

	reader, err := manifestBody(c)
	if err != nil {
		log.Error("Failed to read manifest upload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "could not read manifest file"})
	}
	defer reader.Close()

	inputs, err := manifest.Read(reader)
	if err != nil {
		log.Warn("Manifest rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	result, err := eng.BulkImport(inputs, actor.Username)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	log.Info("Manifest imported",
		zap.Int("rows", len(inputs)),
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("invalid", result.Invalid),
		zap.String("imported_by", actor.Username))
	return c.JSON(http.StatusOK, result)
}

func manifestBody(c echo.Context) (io.ReadCloser, error) {
	file, err := c.FormFile("manifest")
	if err == nil {
		return file.Open()
	}
	// Raw-body fallback for scanner clients that POST the CSV directly.
	return c.Request().Body, nil
}
