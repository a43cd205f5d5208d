package handler

import (
	"net/http"

	"warescan-service/internal/engine"
	"warescan-service/internal/model"
	"warescan-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PackageRequest defines the structure for manual package creation
type PackageRequest struct {
	Barcode         string  `json:"barcode"`
	Destination     string  `json:"destination"`
	StorageLocation string  `json:"storage_location"`
	CustomerName    string  `json:"customer_name"`
	Price           float64 `json:"price"`
	Comment         string  `json:"comment"`
	Notes           string  `json:"notes"`
}

// ListPackages handles retrieving the scope's packages with optional
// status/destination filters
func ListPackages(c echo.Context) error {
	log := logger.FromEcho(c)

	eng, _, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	status := model.Status(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	dest := model.Destination(c.QueryParam("destination"))
	if dest != "" && !dest.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown destination filter"})
	}

	packages := eng.List(status, dest)
	log.Info("Packages listed", zap.Int("count", len(packages)))
	return c.JSON(http.StatusOK, packages)
}

// GetPackageByBarcode handles the scoped exact-match barcode lookup
func GetPackageByBarcode(c echo.Context) error {
	eng, _, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	pkg := eng.FindByBarcode(c.Param("barcode"))
	if pkg == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
	}
	return c.JSON(http.StatusOK, pkg)
}

// CreatePackage handles manual package entry
func CreatePackage(c echo.Context) error {
	log := logger.FromEcho(c)

	var req PackageRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	pkg, err := eng.Add(engine.AddInput{
		Barcode:         req.Barcode,
		Destination:     model.Destination(req.Destination),
		StorageLocation: req.StorageLocation,
		CustomerName:    req.CustomerName,
		Price:           req.Price,
		Comment:         req.Comment,
		Notes:           req.Notes,
	}, actor.Username)
	if err != nil {
		log.Warn("Package creation rejected", zap.String("barcode", req.Barcode), zap.Error(err))
		return engineErrorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, pkg)
}

// ValidateRequest carries the optional corrections applied during the
// scan-and-review step
type ValidateRequest struct {
	StorageLocation string `json:"storage_location"`
	Destination     string `json:"destination"`
	Notes           string `json:"notes"`
}

// ValidatePackage confirms a manifest-imported package, opening the
// release/transfer gate
func ValidatePackage(c echo.Context) error {
	log := logger.FromEcho(c)
	barcode := c.Param("barcode")

	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	eng, _, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	ok, err := eng.MarkValidated(barcode, engine.ValidateOverrides{
		StorageLocation: req.StorageLocation,
		Destination:     model.Destination(req.Destination),
		Notes:           req.Notes,
	})
	if err != nil {
		return engineErrorResponse(c, err)
	}
	if !ok {
		log.Warn("Validation skipped, package missing or not in uploaded state",
			zap.String("barcode", barcode))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"validated": false,
			"error":     "package not found or not awaiting validation",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"validated": true, "package": eng.FindByBarcode(barcode)})
}

// ReleasePackage hands a package over to its customer
func ReleasePackage(c echo.Context) error {
	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	pkg, err := eng.Release(c.Param("id"), actor.Username)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pkg)
}

// TransferPackage moves a Nevis-destined package into transit
func TransferPackage(c echo.Context) error {
	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	pkg, err := eng.Transfer(c.Param("id"), actor.Username)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pkg)
}

// NevisReceivePackage accepts an in-transit package into Nevis stock
func NevisReceivePackage(c echo.Context) error {
	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	pkg, err := eng.ReceiveAtNevis(c.Param("id"), actor.Username)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pkg)
}

// RevertPackage pulls a package back out of the Nevis workflow.
// Manager-only correction path.
func RevertPackage(c echo.Context) error {
	log := logger.FromEcho(c)

	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	if !actor.Privileges().Has(model.PrivAdminCorrect) {
		log.Warn("Revert denied", zap.String("username", actor.Username))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only managers can revert packages"})
	}

	pkg, err := eng.RevertFromNevis(c.Param("id"), actor.Username)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pkg)
}

// VerifyPackage confirms by scan that a reverted package is physically back
// at origin. The scan flow branches on the result body, so state mismatches
// come back as 200 with success:false rather than an HTTP error.
func VerifyPackage(c echo.Context) error {
	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	result, err := eng.VerifyFromNevis(c.Param("barcode"), actor.Username)
	if err != nil {
		return engineErrorResponse(c, err)
	}
	if !result.Success && result.Error == engine.VerifyErrNotFound {
		return c.JSON(http.StatusNotFound, result)
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateRequest is a partial metadata edit; absent fields are left alone
type UpdateRequest struct {
	StorageLocation *string  `json:"storage_location"`
	CustomerName    *string  `json:"customer_name"`
	Price           *float64 `json:"price"`
	Comment         *string  `json:"comment"`
	Notes           *string  `json:"notes"`
}

// UpdatePackage handles metadata-only edits
func UpdatePackage(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	eng, _, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	pkg, err := eng.Update(c.Param("id"), engine.UpdateInput{
		StorageLocation: req.StorageLocation,
		CustomerName:    req.CustomerName,
		Price:           req.Price,
		Comment:         req.Comment,
		Notes:           req.Notes,
	})
	if err != nil {
		return engineErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, pkg)
}

// DeletePackage hard-deletes a package
func DeletePackage(c echo.Context) error {
	log := logger.FromEcho(c)

	eng, actor, err := newEngine(c)
	if err != nil {
		return engineErrorResponse(c, err)
	}

	if !actor.Privileges().Has(model.PrivDelete) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only managers can delete packages"})
	}

	id := c.Param("id")
	if err := eng.Delete(id); err != nil {
		return engineErrorResponse(c, err)
	}

	log.Info("Package deleted", zap.String("id", id), zap.String("deleted_by", actor.Username))
	return c.JSON(http.StatusOK, echo.Map{"message": "package deleted"})
}
