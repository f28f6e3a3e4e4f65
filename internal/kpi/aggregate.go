// Package kpi computes per-vehicle fuel-economy and cost indicators
// from the filtered telemetry record sets, and normalizes them into a
// fleet-relative adjusted efficiency index.
package kpi

import (
	"sort"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
)

// VehicleKPI is the derived indicator row for one vehicle. It is
// recomputed from scratch on every filter change and never mutated
// afterwards.
type VehicleKPI struct {
	VehicleID string `json:"vehicle_id"`

	DistanceKm float64 `json:"distance_km"`
	UrbanKm    float64 `json:"urban_km"`
	FuelLiters float64 `json:"fuel_liters"`
	CostTotal  float64 `json:"cost_total"`

	// FuelEconomy is km per liter; 0 when no fuel was recorded.
	FuelEconomy   float64 `json:"fuel_economy_kml"`
	CostPerKm     float64 `json:"cost_per_km"`
	UrbanSharePct float64 `json:"urban_share_pct"`

	// EfficiencyIndex is filled by ApplyEfficiencyIndex.
	EfficiencyIndex float64 `json:"adjusted_efficiency_index"`
}

// FleetTotals are the headline sums across the aggregated table.
type FleetTotals struct {
	DistanceKm float64 `json:"distance_km"`
	FuelLiters float64 `json:"fuel_liters"`
	CostTotal  float64 `json:"cost_total"`
}

// Aggregate groups the already-filtered record sets by vehicle and
// derives the ratio KPIs. Trips are the anchor set: a vehicle with no
// trips in range is excluded even if it has fuel or cost events, and
// an empty trip set yields an empty (non-error) result. Vehicles
// missing from the fuel or cost sums get 0, not a missing marker.
// Rows come back sorted by vehicle id for deterministic presentation.
func Aggregate(trips []dbpkg.Trip, fillups []dbpkg.Fillup, costs []dbpkg.Cost) []VehicleKPI {
	if len(trips) == 0 {
		return nil
	}

	byVehicle := make(map[string]*VehicleKPI)
	order := make([]string, 0)
	for _, t := range trips {
		row, ok := byVehicle[t.VehicleID]
		if !ok {
			row = &VehicleKPI{VehicleID: t.VehicleID}
			byVehicle[t.VehicleID] = row
			order = append(order, t.VehicleID)
		}
		row.DistanceKm += measure(t.DistanceKm)
		row.UrbanKm += measure(t.UrbanKm)
	}

	for _, f := range fillups {
		if row, ok := byVehicle[f.VehicleID]; ok {
			row.FuelLiters += measure(f.Liters)
		}
	}
	for _, c := range costs {
		if row, ok := byVehicle[c.VehicleID]; ok {
			row.CostTotal += measure(c.Amount)
		}
	}

	sort.Strings(order)
	out := make([]VehicleKPI, 0, len(order))
	for _, id := range order {
		row := byVehicle[id]
		row.FuelEconomy = ratio(row.DistanceKm, row.FuelLiters)
		row.CostPerKm = ratio(row.CostTotal, row.DistanceKm)
		row.UrbanSharePct = ratio(row.UrbanKm, row.DistanceKm) * 100
		out = append(out, *row)
	}
	return out
}

// Totals sums the headline figures across the table.
func Totals(rows []VehicleKPI) FleetTotals {
	var t FleetTotals
	for _, r := range rows {
		t.DistanceKm += r.DistanceKm
		t.FuelLiters += r.FuelLiters
		t.CostTotal += r.CostTotal
	}
	return t
}

// measure reads a possibly-missing value; missing sums as zero.
func measure(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ratio divides with a hard 0 on a zero denominator so no KPI ever
// surfaces as infinity.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
