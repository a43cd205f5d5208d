// Package store defines the durable persistence contract for package
// collections. A store holds the full collection per owner scope; saves are
// all-or-nothing and return the committed collection, which the engine adopts
// as the new truth.
package store

import (
	"warescan-service/internal/model"
	"warescan-service/internal/scope"
)

// Store is the persistence collaborator used by the lifecycle engine.
type Store interface {
	// Load returns the full package collection for a scope. A scope with
	// no data loads as an empty collection, not an error.
	Load(sc scope.ID) ([]model.Package, error)
	// Save replaces the full collection for a scope atomically and returns
	// the durably committed collection. A failed save must leave the
	// previously stored collection intact.
	Save(sc scope.ID, pkgs []model.Package) ([]model.Package, error)
}

// Clone deep-copies a package collection so callers can mutate freely
// without aliasing store or engine state.
func Clone(pkgs []model.Package) []model.Package {
	out := make([]model.Package, len(pkgs))
	for i, p := range pkgs {
		out[i] = ClonePackage(p)
	}
	return out
}

// ClonePackage copies one package including its timestamp pointers.
func ClonePackage(p model.Package) model.Package {
	c := p
	if p.DateReleased != nil {
		t := *p.DateReleased
		c.DateReleased = &t
	}
	if p.DateTransferred != nil {
		t := *p.DateTransferred
		c.DateTransferred = &t
	}
	return c
}
