// Package engine is the authoritative state machine for packages within one
// owner scope. Every mutation funnels through it: an operation reads the full
// collection, computes the next collection and saves it as a whole, so
// operations are atomic with respect to each other as long as a scope is
// driven by one engine at a time. Replication to a remote store is
// fire-and-forget and never affects the local outcome.
package engine

import (
	"strings"
	"time"

	"warescan-service/internal/model"
	"warescan-service/internal/replicate"
	"warescan-service/internal/scope"
	"warescan-service/internal/store"
	"warescan-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine owns the package collection of a single scope. Construct one per
// scope (or per request); it loads the collection once and keeps the last
// known-good state across a failed save.
type Engine struct {
	scope    scope.ID
	store    store.Store
	rep      replicate.Replicator
	log      *zap.Logger
	now      func() time.Time
	packages []model.Package
}

// New loads the scope's collection and returns an engine bound to it.
func New(sc scope.ID, st store.Store, rep replicate.Replicator, log *zap.Logger) (*Engine, error) {
	if rep == nil {
		rep = replicate.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	pkgs, err := st.Load(sc)
	if err != nil {
		return nil, &PersistenceError{Op: "load collection", Err: err}
	}

	return &Engine{
		scope:    sc,
		store:    st,
		rep:      rep,
		log:      log,
		now:      time.Now,
		packages: pkgs,
	}, nil
}

// Scope returns the owner scope this engine is bound to.
func (e *Engine) Scope() scope.ID {
	return e.scope
}

// Packages returns a copy of the current collection.
func (e *Engine) Packages() []model.Package {
	return store.Clone(e.packages)
}

// List returns packages filtered by status and destination; zero values mean
// no filter.
func (e *Engine) List(status model.Status, dest model.Destination) []model.Package {
	var out []model.Package
	for _, p := range e.packages {
		if status != "" && p.Status != status {
			continue
		}
		if dest != "" && p.Destination != dest {
			continue
		}
		out = append(out, store.ClonePackage(p))
	}
	return out
}

// FindByBarcode returns the package with the given barcode after trimming, or
// nil if absent. This is the lookup primitive behind duplicate detection and
// the scan flows.
func (e *Engine) FindByBarcode(barcode string) *model.Package {
	idx := e.indexByBarcode(barcode)
	if idx < 0 {
		return nil
	}
	p := store.ClonePackage(e.packages[idx])
	return &p
}

// FindByID returns the package with the given id, or nil if absent.
func (e *Engine) FindByID(id string) *model.Package {
	idx := e.indexByID(id)
	if idx < 0 {
		return nil
	}
	p := store.ClonePackage(e.packages[idx])
	return &p
}

// AddInput carries the fields for a manual package entry. Manual entries are
// considered verified at the door, so they skip the manifest validation gate.
type AddInput struct {
	Barcode         string
	Destination     model.Destination
	StorageLocation string
	CustomerName    string
	Price           float64
	Comment         string
	Notes           string
}

// Add creates a manually entered package in "received" state. The barcode is
// trimmed and must be unique within the scope.
func (e *Engine) Add(in AddInput, actorUsername string) (*model.Package, error) {
	barcode := strings.TrimSpace(in.Barcode)
	if barcode == "" {
		prometheus.RecordEngineOperation("add", "rejected")
		return nil, &ValidationError{Field: "barcode", Reason: "must not be empty"}
	}
	if !in.Destination.Valid() {
		prometheus.RecordEngineOperation("add", "rejected")
		return nil, &ValidationError{Field: "destination", Reason: "must be Saint Kitts or Nevis"}
	}
	if e.indexByBarcode(barcode) >= 0 {
		prometheus.RecordEngineOperation("add", "duplicate")
		return nil, &DuplicateError{Barcode: barcode}
	}

	now := e.now()
	pkg := model.Package{
		ID:              uuid.NewString(),
		Barcode:         barcode,
		OwnerID:         uint(e.scope),
		Status:          model.StatusReceived,
		UploadStatus:    model.UploadNone,
		Destination:     in.Destination,
		StorageLocation: strings.TrimSpace(in.StorageLocation),
		CustomerName:    in.CustomerName,
		Price:           in.Price,
		Comment:         in.Comment,
		Notes:           in.Notes,
		ReceivedBy:      actorUsername,
		DateAdded:       now,
		DateUpdated:     now,
	}

	next := append(store.Clone(e.packages), pkg)
	if err := e.save(next, "add"); err != nil {
		return nil, err
	}

	e.rep.EnqueueOne(e.scope, pkg)
	prometheus.RecordEngineOperation("add", "success")
	e.log.Info("package added",
		zap.String("barcode", pkg.Barcode),
		zap.String("destination", string(pkg.Destination)),
		zap.String("received_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))

	out := store.ClonePackage(pkg)
	return &out, nil
}

// UpdateInput is a partial metadata merge for edit screens. Status-changing
// edits must use the dedicated transition operations instead; this path
// applies no transition validation.
type UpdateInput struct {
	StorageLocation *string
	CustomerName    *string
	Price           *float64
	Comment         *string
	Notes           *string
}

// Update merges the provided fields into an existing package and stamps
// DateUpdated.
func (e *Engine) Update(id string, in UpdateInput) (*model.Package, error) {
	idx := e.indexByID(id)
	if idx < 0 {
		return nil, &NotFoundError{Ref: id}
	}

	next := store.Clone(e.packages)
	p := &next[idx]
	if in.StorageLocation != nil {
		p.StorageLocation = strings.TrimSpace(*in.StorageLocation)
	}
	if in.CustomerName != nil {
		p.CustomerName = *in.CustomerName
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Comment != nil {
		p.Comment = *in.Comment
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	p.DateUpdated = e.now()

	updated := store.ClonePackage(*p)
	if err := e.save(next, "update"); err != nil {
		return nil, err
	}

	e.rep.EnqueueOne(e.scope, updated)
	prometheus.RecordEngineOperation("update", "success")
	return &updated, nil
}

// Delete hard-deletes a package from the scope. There is no tombstone.
func (e *Engine) Delete(id string) error {
	idx := e.indexByID(id)
	if idx < 0 {
		return &NotFoundError{Ref: id}
	}

	next := store.Clone(e.packages)
	next = append(next[:idx], next[idx+1:]...)
	if err := e.save(next, "delete"); err != nil {
		return err
	}

	e.rep.EnqueueDelete(e.scope, id)
	prometheus.RecordEngineOperation("delete", "success")
	e.log.Info("package deleted", zap.String("id", id), zap.Uint("scope", uint(e.scope)))
	return nil
}

// ResetAll clears the entire scope's collection. Irreversible; callers gate
// this behind a confirmation step.
func (e *Engine) ResetAll() error {
	if err := e.save([]model.Package{}, "reset"); err != nil {
		return err
	}

	e.rep.EnqueueDeleteAll(e.scope)
	prometheus.RecordEngineOperation("reset", "success")
	e.log.Warn("scope data reset", zap.Uint("scope", uint(e.scope)))
	return nil
}

// save commits the next collection; on failure the previous in-memory
// collection stays authoritative so nothing is half-applied.
func (e *Engine) save(next []model.Package, op string) error {
	saved, err := e.store.Save(e.scope, next)
	if err != nil {
		prometheus.RecordEngineOperation(op, "persist_error")
		e.log.Error("persist failed, keeping previous collection",
			zap.String("operation", op),
			zap.Uint("scope", uint(e.scope)),
			zap.Error(err))
		return &PersistenceError{Op: op, Err: err}
	}
	e.packages = saved
	return nil
}

func (e *Engine) indexByBarcode(barcode string) int {
	barcode = strings.TrimSpace(barcode)
	for i := range e.packages {
		if strings.TrimSpace(e.packages[i].Barcode) == barcode {
			return i
		}
	}
	return -1
}

func (e *Engine) indexByID(id string) int {
	for i := range e.packages {
		if e.packages[i].ID == id {
			return i
		}
	}
	return -1
}
