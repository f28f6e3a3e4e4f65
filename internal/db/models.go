package db

import (
	"time"

	"gorm.io/datatypes"
)

// Telemetry, roster and fuel-purchase rows as loaded from the uploaded
// workbooks. Nil pointer fields are the explicit "missing" marker for
// values the source sheet left blank or that failed coercion; a nil
// measure sums as zero but stays distinguishable from a recorded zero.

// Trip is one trip row from the Wialon "Viajes" sheet.
type Trip struct {
	ID uint `gorm:"primaryKey"`

	VehicleID string `gorm:"index;size:128;not null"`

	// StartAt is nil when the source cell was absent or unparsable.
	// Such rows are kept but never match a date-range filter.
	StartAt *time.Time `gorm:"index"`

	DistanceKm *float64
	UrbanKm    *float64
	SuburbanKm *float64
}

// Fillup is one fuel fill-up row from the "Llenados de combustible" sheet.
type Fillup struct {
	ID uint `gorm:"primaryKey"`

	VehicleID  string     `gorm:"index;size:128;not null"`
	RecordedAt *time.Time `gorm:"index"`
	Liters     *float64
}

// Cost is one usage-cost row from the "Coste de utilización" sheet.
type Cost struct {
	ID uint `gorm:"primaryKey"`

	VehicleID  string     `gorm:"index;size:128;not null"`
	RecordedAt *time.Time `gorm:"index"`
	Amount     *float64
}

// Assignment is one vehicle-driver pairing from the roster assignment
// history. A vehicle may appear many times; the row with the latest
// StartAt is its current assignment.
type Assignment struct {
	ID uint `gorm:"primaryKey"`

	VehicleID string     `gorm:"index;size:128;not null"`
	DriverID  string     `gorm:"index;size:128;not null"`
	StartAt   *time.Time `gorm:"index"`
}

// DriverField is one row of the long-format custom-fields sheet
// (driver, field name, field value). The roster resolver pivots these
// per driver at query time.
type DriverField struct {
	ID uint `gorm:"primaryKey"`

	DriverID string `gorm:"index;size:128;not null"`
	Name     string `gorm:"size:128;not null"`
	Value    string `gorm:"size:255"`
}

// FuelPurchase is one point-of-sale line item from the fuel-purchase
// export. Tag keeps the source spelling, including the leading
// apostrophe some spreadsheets prepend; the attribution join
// normalizes it on comparison only, so the report shows the tag as
// exported.
type FuelPurchase struct {
	ID uint `gorm:"primaryKey"`

	Tag         string `gorm:"index;size:128"`
	Price       *float64
	Quantity    *float64
	Amount      *float64
	PurchasedAt *time.Time
	Product     string `gorm:"size:255"`
	Model       string `gorm:"size:255"`
}

// WorkbookImport records one accepted workbook upload per kind
// (telemetry, roster, purchases). The content hash memoizes the
// import: re-uploading identical bytes skips the parse entirely.
type WorkbookImport struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time

	Kind          string `gorm:"uniqueIndex;size:32;not null"`
	ContentSHA256 string `gorm:"size:64;not null"`
	Filename      string `gorm:"size:255"`
	Rows          int    `gorm:"not null"`

	// Sheets holds per-sheet row counts for the upload summary, e.g.
	// {"Viajes": 412, "Coste de utilización": 37}.
	Sheets datatypes.JSONMap `gorm:"type:json"`
}
