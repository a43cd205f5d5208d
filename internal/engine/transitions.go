package engine

import (
	"strings"

	"warescan-service/internal/model"
	"warescan-service/internal/store"
	"warescan-service/prometheus"

	"go.uber.org/zap"
)

// Release moves a validated, received package to its terminal released state.
// Release is audit-relevant, so every violated precondition fails loudly with
// the rule that broke instead of silently doing nothing.
func (e *Engine) Release(id, actorUsername string) (*model.Package, error) {
	idx := e.indexByID(id)
	if idx < 0 {
		prometheus.RecordEngineOperation("release", "not_found")
		return nil, &NotFoundError{Ref: id}
	}
	p := e.packages[idx]
	nevis := p.Destination == model.DestinationNevis

	if p.UploadStatus != model.UploadValidated {
		prometheus.RecordEngineOperation("release", "rejected")
		return nil, &PreconditionError{
			Op:       "release",
			Barcode:  p.Barcode,
			Rule:     "validation gate not passed",
			Expected: "upload status validated",
			Actual:   uploadStatusLabel(p.UploadStatus),
			Hint:     hintFor(nevis),
		}
	}
	if p.Status != model.StatusReceived {
		prometheus.RecordEngineOperation("release", "rejected")
		rule := "package is not in stock"
		if p.Status == model.StatusReleased {
			rule = "already released"
		}
		return nil, &PreconditionError{
			Op:       "release",
			Barcode:  p.Barcode,
			Rule:     rule,
			Expected: "status received",
			Actual:   string(p.Status),
			Hint:     hintFor(nevis),
		}
	}

	now := e.now()
	next := store.Clone(e.packages)
	next[idx].Status = model.StatusReleased
	next[idx].DateReleased = &now
	next[idx].DateUpdated = now
	next[idx].ReleasedBy = actorUsername

	released := store.ClonePackage(next[idx])
	if err := e.save(next, "release"); err != nil {
		return nil, err
	}

	e.rep.EnqueueOne(e.scope, released)
	prometheus.RecordEngineOperation("release", "success")
	e.log.Info("package released",
		zap.String("barcode", released.Barcode),
		zap.String("released_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))
	return &released, nil
}

// Transfer moves a validated, received, Nevis-destined package into the
// in-transit state. Saint Kitts packages never transfer; they only release.
func (e *Engine) Transfer(id, actorUsername string) (*model.Package, error) {
	idx := e.indexByID(id)
	if idx < 0 {
		prometheus.RecordEngineOperation("transfer", "not_found")
		return nil, &NotFoundError{Ref: id}
	}
	p := e.packages[idx]

	if p.Destination != model.DestinationNevis {
		prometheus.RecordEngineOperation("transfer", "rejected")
		return nil, &PreconditionError{
			Op:       "transfer",
			Barcode:  p.Barcode,
			Rule:     "only Nevis-destined packages transfer",
			Expected: "destination Nevis",
			Actual:   string(p.Destination),
			Hint:     HintSaintKitts,
		}
	}
	if p.UploadStatus != model.UploadValidated {
		prometheus.RecordEngineOperation("transfer", "rejected")
		return nil, &PreconditionError{
			Op:       "transfer",
			Barcode:  p.Barcode,
			Rule:     "validation gate not passed",
			Expected: "upload status validated",
			Actual:   uploadStatusLabel(p.UploadStatus),
			Hint:     HintNevis,
		}
	}
	if p.Status != model.StatusReceived {
		prometheus.RecordEngineOperation("transfer", "rejected")
		return nil, &PreconditionError{
			Op:       "transfer",
			Barcode:  p.Barcode,
			Rule:     "package is not in stock",
			Expected: "status received",
			Actual:   string(p.Status),
			Hint:     HintNevis,
		}
	}

	now := e.now()
	next := store.Clone(e.packages)
	next[idx].Status = model.StatusTransferred
	next[idx].DateTransferred = &now
	next[idx].DateUpdated = now
	next[idx].TransferredBy = actorUsername

	transferred := store.ClonePackage(next[idx])
	if err := e.save(next, "transfer"); err != nil {
		return nil, err
	}

	e.rep.EnqueueOne(e.scope, transferred)
	prometheus.RecordEngineOperation("transfer", "success")
	e.log.Info("package transferred to Nevis",
		zap.String("barcode", transferred.Barcode),
		zap.String("transferred_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))
	return &transferred, nil
}

// ReceiveAtNevis accepts an in-transit package into Nevis stock. The status
// goes back to "received"; DateTransferred stays set so a Nevis-accepted
// package can be told apart from an origin receipt.
func (e *Engine) ReceiveAtNevis(id, actorUsername string) (*model.Package, error) {
	idx := e.indexByID(id)
	if idx < 0 {
		prometheus.RecordEngineOperation("nevis_receive", "not_found")
		return nil, &NotFoundError{Ref: id}
	}
	p := e.packages[idx]

	if p.Status != model.StatusTransferred || p.Destination != model.DestinationNevis {
		prometheus.RecordEngineOperation("nevis_receive", "rejected")
		return nil, &PreconditionError{
			Op:       "receive at Nevis",
			Barcode:  p.Barcode,
			Rule:     "package is not in transit to Nevis",
			Expected: "status transferred, destination Nevis",
			Actual:   string(p.Status) + ", destination " + string(p.Destination),
			Hint:     HintNevis,
		}
	}

	now := e.now()
	next := store.Clone(e.packages)
	next[idx].Status = model.StatusReceived
	next[idx].ReceivedBy = actorUsername
	next[idx].DateUpdated = now

	accepted := store.ClonePackage(next[idx])
	if err := e.save(next, "nevis receive"); err != nil {
		return nil, err
	}

	e.rep.EnqueueOne(e.scope, accepted)
	prometheus.RecordEngineOperation("nevis_receive", "success")
	e.log.Info("package accepted into Nevis stock",
		zap.String("barcode", accepted.Barcode),
		zap.String("received_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))
	return &accepted, nil
}

// RevertFromNevis is the manager-privileged correction path pulling a package
// back out of the Nevis workflow. It has no precondition checks: a revert
// must always succeed if the package exists.
func (e *Engine) RevertFromNevis(id, actorUsername string) (*model.Package, error) {
	idx := e.indexByID(id)
	if idx < 0 {
		prometheus.RecordEngineOperation("revert", "not_found")
		return nil, &NotFoundError{Ref: id}
	}

	next := store.Clone(e.packages)
	next[idx].Status = model.StatusAwaitingFromNevis
	next[idx].DateTransferred = nil
	next[idx].TransferredBy = ""
	next[idx].DateUpdated = e.now()

	reverted := store.ClonePackage(next[idx])
	if err := e.save(next, "revert"); err != nil {
		return nil, err
	}

	e.rep.EnqueueOne(e.scope, reverted)
	prometheus.RecordEngineOperation("revert", "success")
	e.log.Warn("package reverted from Nevis workflow",
		zap.String("barcode", reverted.Barcode),
		zap.String("reverted_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))
	return &reverted, nil
}

// VerifyResult is what the verification scan flow branches on. The scanning
// UI needs a specific error code without a try/catch, so state mismatches
// come back as a result, not an error.
type VerifyResult struct {
	Success       bool           `json:"success"`
	Error         string         `json:"error,omitempty"`
	CurrentStatus model.Status   `json:"current_status,omitempty"`
	Package       *model.Package `json:"package,omitempty"`
}

// Verify error codes.
const (
	VerifyErrNotFound      = "not_found"
	VerifyErrInvalidStatus = "invalid_status"
)

// VerifyFromNevis confirms by scan that a reverted package is physically back
// at origin, returning it to received state. Only persistence failures are
// returned as errors.
func (e *Engine) VerifyFromNevis(barcode, actorUsername string) (VerifyResult, error) {
	idx := e.indexByBarcode(strings.TrimSpace(barcode))
	if idx < 0 {
		prometheus.RecordEngineOperation("verify", "not_found")
		return VerifyResult{Success: false, Error: VerifyErrNotFound}, nil
	}
	p := e.packages[idx]

	if p.Status != model.StatusAwaitingFromNevis {
		prometheus.RecordEngineOperation("verify", "rejected")
		return VerifyResult{
			Success:       false,
			Error:         VerifyErrInvalidStatus,
			CurrentStatus: p.Status,
		}, nil
	}

	next := store.Clone(e.packages)
	next[idx].Status = model.StatusReceived
	next[idx].ReceivedBy = actorUsername
	next[idx].DateUpdated = e.now()

	verified := store.ClonePackage(next[idx])
	if err := e.save(next, "verify"); err != nil {
		return VerifyResult{}, err
	}

	e.rep.EnqueueOne(e.scope, verified)
	prometheus.RecordEngineOperation("verify", "success")
	e.log.Info("package verified back at origin",
		zap.String("barcode", verified.Barcode),
		zap.String("verified_by", actorUsername),
		zap.Uint("scope", uint(e.scope)))
	return VerifyResult{Success: true, Package: &verified}, nil
}

func uploadStatusLabel(s model.UploadStatus) string {
	if s == model.UploadNone {
		return "never validated"
	}
	return string(s)
}
