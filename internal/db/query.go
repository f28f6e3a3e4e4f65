package db

import (
	"time"

	"gorm.io/gorm"
)

// Workbook kinds accepted by ReplaceImport / FindImport.
const (
	KindTelemetry = "telemetry"
	KindRoster    = "roster"
	KindPurchases = "purchases"
)

// Filter is the date-range / vehicle-subset selection applied to the
// telemetry tables before aggregation. From is inclusive, To is
// exclusive. Rows whose date column is NULL (unparsable in the source)
// never match a bounded range.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Vehicles []string
}

func (f Filter) apply(q *gorm.DB, dateCol string) *gorm.DB {
	if f.From != nil {
		q = q.Where(dateCol+" >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where(dateCol+" < ?", *f.To)
	}
	if len(f.Vehicles) > 0 {
		q = q.Where("vehicle_id IN ?", f.Vehicles)
	}
	return q
}

// TripsInRange returns the trips matching the filter.
func TripsInRange(db *gorm.DB, f Filter) ([]Trip, error) {
	var rows []Trip
	err := f.apply(db.Model(&Trip{}), "start_at").Find(&rows).Error
	return rows, err
}

// FillupsInRange returns the fill-ups matching the filter.
func FillupsInRange(db *gorm.DB, f Filter) ([]Fillup, error) {
	var rows []Fillup
	err := f.apply(db.Model(&Fillup{}), "recorded_at").Find(&rows).Error
	return rows, err
}

// CostsInRange returns the usage costs matching the filter.
func CostsInRange(db *gorm.DB, f Filter) ([]Cost, error) {
	var rows []Cost
	err := f.apply(db.Model(&Cost{}), "recorded_at").Find(&rows).Error
	return rows, err
}

// VehicleIDs returns the distinct vehicle identifiers seen in the trip
// table, sorted, for the filter controls.
func VehicleIDs(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Model(&Trip{}).Distinct("vehicle_id").Order("vehicle_id").Pluck("vehicle_id", &ids).Error
	return ids, err
}

// TripDateBounds returns the earliest and latest dated trip, or ok=false
// when no trip carries a date.
func TripDateBounds(db *gorm.DB) (min, max time.Time, ok bool, err error) {
	type bounds struct {
		Min *time.Time
		Max *time.Time
	}
	var b bounds
	err = db.Model(&Trip{}).
		Select("MIN(start_at) AS min, MAX(start_at) AS max").
		Where("start_at IS NOT NULL").
		Scan(&b).Error
	if err != nil || b.Min == nil || b.Max == nil {
		return time.Time{}, time.Time{}, false, err
	}
	return *b.Min, *b.Max, true, nil
}

// RosterTables returns the full custom-fields and assignment-history
// tables for the resolver.
func RosterTables(db *gorm.DB) ([]DriverField, []Assignment, error) {
	var fields []DriverField
	if err := db.Find(&fields).Error; err != nil {
		return nil, nil, err
	}
	var history []Assignment
	if err := db.Find(&history).Error; err != nil {
		return nil, nil, err
	}
	return fields, history, nil
}

// Purchases returns all fuel-purchase line items in upload order.
func Purchases(db *gorm.DB) ([]FuelPurchase, error) {
	var rows []FuelPurchase
	err := db.Order("id").Find(&rows).Error
	return rows, err
}

// FindImport returns the recorded import for a workbook kind, if any.
func FindImport(db *gorm.DB, kind string) (*WorkbookImport, error) {
	var imp WorkbookImport
	err := db.Where("kind = ?", kind).Limit(1).Find(&imp).Error
	if err != nil {
		return nil, err
	}
	if imp.ID == 0 {
		return nil, nil
	}
	return &imp, nil
}

// ReplaceImport swaps in freshly parsed rows for one workbook kind and
// records the import. The delete-then-insert runs in one transaction so
// a failed parse can never leave a half-replaced table behind.
func ReplaceImport(db *gorm.DB, imp *WorkbookImport, insert func(tx *gorm.DB) error) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var targets []any
		switch imp.Kind {
		case KindTelemetry:
			targets = []any{&Trip{}, &Fillup{}, &Cost{}}
		case KindRoster:
			targets = []any{&Assignment{}, &DriverField{}}
		case KindPurchases:
			targets = []any{&FuelPurchase{}}
		}
		for _, t := range targets {
			if err := tx.Where("1 = 1").Delete(t).Error; err != nil {
				return err
			}
		}
		if err := insert(tx); err != nil {
			return err
		}
		if err := tx.Where("kind = ?", imp.Kind).Delete(&WorkbookImport{}).Error; err != nil {
			return err
		}
		return tx.Create(imp).Error
	})
}
