package kpi

import (
	"math"
	"sort"
)

// ApplyEfficiencyIndex fills EfficiencyIndex on every row, in place.
//
// The index compares each vehicle's fuel economy against the fleet
// average, corrected by how its urban-driving share deviates from the
// fleet's. A vehicle beating the average on a harder (more urban)
// route scores above its raw economy deviation; a good raw number
// earned on an easy route is discounted.
//
// Fleet averages are taken over strictly positive values only:
// vehicles with no recorded fuel (economy 0) or no urban driving would
// otherwise drag the baseline toward zero. When either average is
// undefined or non-positive, every index is 0. That is the
// degenerate-fleet policy, not an error.
func ApplyEfficiencyIndex(rows []VehicleKPI) {
	avgEconomy, okEconomy := positiveMean(rows, func(r VehicleKPI) float64 { return r.FuelEconomy })
	avgUrban, okUrban := positiveMean(rows, func(r VehicleKPI) float64 { return r.UrbanSharePct })

	if !okEconomy || !okUrban || avgEconomy <= 0 || avgUrban <= 0 {
		for i := range rows {
			rows[i].EfficiencyIndex = 0
		}
		return
	}

	for i := range rows {
		performanceDev := (rows[i].FuelEconomy - avgEconomy) / avgEconomy
		urbanDev := (rows[i].UrbanSharePct - avgUrban) / avgUrban
		index := (performanceDev - urbanDev) * 100
		if math.IsInf(index, 0) || math.IsNaN(index) {
			index = 0
		}
		rows[i].EfficiencyIndex = index
	}
}

// SortByIndexDesc orders the table for presentation: best adjusted
// index first, vehicle id as the tie-break.
func SortByIndexDesc(rows []VehicleKPI) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].EfficiencyIndex != rows[j].EfficiencyIndex {
			return rows[i].EfficiencyIndex > rows[j].EfficiencyIndex
		}
		return rows[i].VehicleID < rows[j].VehicleID
	})
}

func positiveMean(rows []VehicleKPI, value func(VehicleKPI) float64) (float64, bool) {
	var sum float64
	var n int
	for _, r := range rows {
		if v := value(r); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
