package engine

import (
	"strings"

	"warescan-service/internal/model"
	"warescan-service/internal/store"
	"warescan-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductInput is one manifest row handed over by the import collaborator.
type ProductInput struct {
	Barcode      string            `json:"barcode"`
	Destination  model.Destination `json:"destination"`
	CustomerName string            `json:"customer_name,omitempty"`
	Price        float64           `json:"price,omitempty"`
	Comment      string            `json:"comment,omitempty"`
}

// ImportResult summarizes one manifest batch reconciliation.
type ImportResult struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Skipped    int `json:"skipped"`
	// IsDuplicateUpload distinguishes "manifest re-uploaded, no changes"
	// from "manifest partially new": true when every row was a duplicate
	// and nothing was added.
	IsDuplicateUpload bool `json:"is_duplicate_upload"`
}

// BulkImport reconciles a manifest batch against the scope's existing
// barcodes. Rows with an empty barcode or unusable destination count as
// invalid; rows colliding with existing packages or with an earlier row of
// the same batch count as duplicates. Pre-existing packages are never
// overwritten. Re-running a duplicate-only manifest is a no-op: nothing is
// persisted and the collection is left untouched.
func (e *Engine) BulkImport(inputs []ProductInput, actorUsername string) (ImportResult, error) {
	var res ImportResult
	seen := make(map[string]struct{}, len(inputs))
	var staged []model.Package
	now := e.now()

	for _, in := range inputs {
		barcode := strings.TrimSpace(in.Barcode)
		if barcode == "" || !in.Destination.Valid() {
			res.Invalid++
			prometheus.RecordImportRow("invalid")
			continue
		}

		if _, dup := seen[barcode]; dup || e.indexByBarcode(barcode) >= 0 {
			res.Duplicates++
			prometheus.RecordImportRow("duplicate")
			continue
		}
		seen[barcode] = struct{}{}

		staged = append(staged, model.Package{
			ID:           uuid.NewString(),
			Barcode:      barcode,
			OwnerID:      uint(e.scope),
			Status:       model.StatusReceived,
			UploadStatus: model.UploadUploaded,
			Destination:  in.Destination,
			CustomerName: in.CustomerName,
			Price:        in.Price,
			Comment:      in.Comment,
			ReceivedBy:   actorUsername,
			DateAdded:    now,
			DateUpdated:  now,
		})
		res.Added++
		prometheus.RecordImportRow("added")
	}

	res.Skipped = res.Duplicates + res.Invalid
	res.IsDuplicateUpload = len(inputs) > 0 && res.Added == 0 && res.Duplicates == len(inputs)

	if res.Added > 0 {
		next := append(store.Clone(e.packages), staged...)
		if err := e.save(next, "bulk import"); err != nil {
			return ImportResult{}, err
		}
		e.rep.EnqueueBatch(e.scope, staged)
	}

	e.log.Info("manifest batch reconciled",
		zap.Int("added", res.Added),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("invalid", res.Invalid),
		zap.Bool("is_duplicate_upload", res.IsDuplicateUpload),
		zap.String("imported_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))
	return res, nil
}

// ValidateOverrides are the optional corrections applied during the
// scan-and-review step; empty fields keep the imported values.
type ValidateOverrides struct {
	StorageLocation string
	Destination     model.Destination
	Notes           string
}

// MarkValidated confirms a manifest-imported package after its physical
// scan-and-review, opening the release/transfer gate. It is a no-op
// returning false unless the package exists and is still in uploaded state.
func (e *Engine) MarkValidated(barcode string, ov ValidateOverrides) (bool, error) {
	idx := e.indexByBarcode(strings.TrimSpace(barcode))
	if idx < 0 {
		prometheus.RecordEngineOperation("validate", "not_found")
		return false, nil
	}
	if e.packages[idx].UploadStatus != model.UploadUploaded {
		prometheus.RecordEngineOperation("validate", "rejected")
		return false, nil
	}

	next := store.Clone(e.packages)
	p := &next[idx]
	p.UploadStatus = model.UploadValidated
	if loc := strings.TrimSpace(ov.StorageLocation); loc != "" {
		p.StorageLocation = loc
	}
	if ov.Destination.Valid() {
		p.Destination = ov.Destination
	}
	if ov.Notes != "" {
		p.Notes = ov.Notes
	}
	p.DateUpdated = e.now()

	validated := store.ClonePackage(*p)
	if err := e.save(next, "validate"); err != nil {
		return false, err
	}

	e.rep.EnqueueOne(e.scope, validated)
	prometheus.RecordEngineOperation("validate", "success")
	e.log.Info("package validated",
		zap.String("barcode", validated.Barcode),
		zap.String("storage_location", validated.StorageLocation),
		zap.Uint("scope", uint(e.scope)))
	return true, nil
}
