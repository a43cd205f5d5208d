package model

import (
	"time"
)

// Status is the lifecycle state of a package. The set is closed; transition
// legality is enforced by the engine with exhaustive switches.
type Status string

const (
	// StatusReceived means the package is physically in stock. It is used
	// both for origin receipt in Saint Kitts and for acceptance into Nevis
	// stock; the two are told apart by Destination plus a non-nil
	// DateTransferred.
	StatusReceived Status = "received"
	// StatusReleased is terminal: the package left the warehouse with a customer.
	StatusReleased Status = "released"
	// StatusTransferred means in transit from Saint Kitts to Nevis.
	StatusTransferred Status = "transferred"
	// StatusAwaitingFromNevis marks a package pulled back out of the Nevis
	// workflow by a manager, waiting for a verification scan at origin.
	StatusAwaitingFromNevis Status = "awaiting_from_nevis"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusReleased, StatusTransferred, StatusAwaitingFromNevis:
		return true
	}
	return false
}

// Destination selects which location workflow applies to a package.
type Destination string

const (
	DestinationSaintKitts Destination = "Saint Kitts"
	DestinationNevis      Destination = "Nevis"
)

// Valid reports whether d is a known destination.
func (d Destination) Valid() bool {
	return d == DestinationSaintKitts || d == DestinationNevis
}

// UploadStatus gates release/transfer eligibility for manifest-imported
// packages. Manually added packages carry UploadNone and are validated
// implicitly at entry.
type UploadStatus string

const (
	// UploadNone marks a manually added package (no manifest involved).
	UploadNone UploadStatus = ""
	// UploadUploaded means the package came from a manifest and has not
	// been confirmed by a scan-and-review step yet.
	UploadUploaded UploadStatus = "uploaded"
	// UploadValidated means the manifest data was confirmed or corrected
	// by a human; the package may now be released or transferred.
	UploadValidated UploadStatus = "validated"
)

// Package represents one tracked parcel inside a single owner scope.
// Barcode is unique within the scope; OwnerID and ID never change after
// creation. There is no soft delete, removal is a hard delete.
type Package struct {
	ID              string       `json:"id" gorm:"type:uuid;primaryKey"`
	Barcode         string       `json:"barcode" gorm:"type:varchar(100);not null;index:idx_packages_owner_barcode"`
	OwnerID         uint         `json:"owner_id" gorm:"not null;index:idx_packages_owner_barcode"`
	Status          Status       `json:"status" gorm:"type:varchar(30);not null"`
	UploadStatus    UploadStatus `json:"upload_status,omitempty" gorm:"type:varchar(20)"`
	Destination     Destination  `json:"destination" gorm:"type:varchar(20);not null"`
	StorageLocation string       `json:"storage_location,omitempty" gorm:"type:varchar(100)"`
	CustomerName    string       `json:"customer_name,omitempty" gorm:"type:varchar(255)"`
	Price           float64      `json:"price,omitempty"`
	Comment         string       `json:"comment,omitempty" gorm:"type:text"`
	Notes           string       `json:"notes,omitempty" gorm:"type:text"`
	ReceivedBy      string       `json:"received_by,omitempty" gorm:"type:varchar(100)"`
	ReleasedBy      string       `json:"released_by,omitempty" gorm:"type:varchar(100)"`
	TransferredBy   string       `json:"transferred_by,omitempty" gorm:"type:varchar(100)"`
	DateAdded       time.Time    `json:"date_added"`
	DateUpdated     time.Time    `json:"date_updated"`
	DateReleased    *time.Time   `json:"date_released,omitempty"`
	DateTransferred *time.Time   `json:"date_transferred,omitempty"`
}

// AcceptedAtNevis reports whether a "received" package means Nevis stock
// rather than origin stock.
func (p *Package) AcceptedAtNevis() bool {
	return p.Status == StatusReceived &&
		p.Destination == DestinationNevis &&
		p.DateTransferred != nil
}

// ReadyForRelease reports whether the validation gate and status allow a
// release or transfer to proceed.
func (p *Package) ReadyForRelease() bool {
	return p.UploadStatus == UploadValidated && p.Status == StatusReceived
}
