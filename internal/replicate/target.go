// Package replicate pushes local package mutations to a remote store. The
// local database is the source of truth: replication is fire-and-forget,
// failures are logged and counted but never surfaced to the caller and never
// roll back a local operation.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"warescan-service/internal/model"
	"warescan-service/internal/scope"
)

// Target is the remote-store contract. Implementations must be safe for use
// from the queue's worker goroutine.
type Target interface {
	ReplicateOne(ctx context.Context, sc scope.ID, pkg model.Package) error
	ReplicateBatch(ctx context.Context, sc scope.ID, pkgs []model.Package) error
	ReplicateDelete(ctx context.Context, sc scope.ID, id string) error
	ReplicateDeleteAll(ctx context.Context, sc scope.ID) error
}

// Replicator is the narrow enqueue surface the engine depends on. Enqueues
// never block and never report errors.
type Replicator interface {
	EnqueueOne(sc scope.ID, pkg model.Package)
	EnqueueBatch(sc scope.ID, pkgs []model.Package)
	EnqueueDelete(sc scope.ID, id string)
	EnqueueDeleteAll(sc scope.ID)
}

// Nop discards every job. Used when no remote URL is configured.
type Nop struct{}

func (Nop) EnqueueOne(scope.ID, model.Package)      {}
func (Nop) EnqueueBatch(scope.ID, []model.Package)  {}
func (Nop) EnqueueDelete(scope.ID, string)          {}
func (Nop) EnqueueDeleteAll(scope.ID)               {}

// HTTPTarget replicates to a remote sync endpoint over JSON.
type HTTPTarget struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTarget builds a target for the given base URL.
func NewHTTPTarget(baseURL string) *HTTPTarget {
	return &HTTPTarget{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type remotePayload struct {
	Scope    uint            `json:"scope"`
	Packages []model.Package `json:"packages,omitempty"`
	ID       string          `json:"id,omitempty"`
}

// ReplicateOne implements Target.
func (t *HTTPTarget) ReplicateOne(ctx context.Context, sc scope.ID, pkg model.Package) error {
	return t.post(ctx, "/sync/packages", remotePayload{Scope: uint(sc), Packages: []model.Package{pkg}})
}

// ReplicateBatch implements Target.
func (t *HTTPTarget) ReplicateBatch(ctx context.Context, sc scope.ID, pkgs []model.Package) error {
	return t.post(ctx, "/sync/packages", remotePayload{Scope: uint(sc), Packages: pkgs})
}

// ReplicateDelete implements Target.
func (t *HTTPTarget) ReplicateDelete(ctx context.Context, sc scope.ID, id string) error {
	return t.post(ctx, "/sync/packages/delete", remotePayload{Scope: uint(sc), ID: id})
}

// ReplicateDeleteAll implements Target.
func (t *HTTPTarget) ReplicateDeleteAll(ctx context.Context, sc scope.ID) error {
	return t.post(ctx, "/sync/packages/delete-all", remotePayload{Scope: uint(sc)})
}

func (t *HTTPTarget) post(ctx context.Context, path string, payload remotePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("remote sync returned status %d", resp.StatusCode)
	}
	return nil
}
