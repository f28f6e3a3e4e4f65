package handlers

import (
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
)

// VehicleList returns the distinct vehicle ids plus the dated trip
// bounds, which drive the dashboard filter controls.
func VehicleList(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}

		ids, err := dbpkg.VehicleIDs(db)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load vehicles")
			return
		}

		resp := map[string]any{"vehicles": ids}
		if min, max, ok, err := dbpkg.TripDateBounds(db); err == nil && ok {
			resp["min_date"] = FormatDay(min)
			resp["max_date"] = FormatDay(max)
		}
		jsonResponse(ctx, resp)
	}
}

// VehicleEvents is the drill-down: the filtered raw trips, fill-ups
// and costs for one vehicle.
func VehicleEvents(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}
		vehicleID, _ := ctx.UserValue("id").(string)
		if vehicleID == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "vehicle id required")
			return
		}

		filter := parseFilter(ctx)
		filter.Vehicles = []string{vehicleID}

		trips, err := dbpkg.TripsInRange(db, filter)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load trips")
			return
		}
		fillups, err := dbpkg.FillupsInRange(db, filter)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load fillups")
			return
		}
		costs, err := dbpkg.CostsInRange(db, filter)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to load costs")
			return
		}

		type tripView struct {
			Start      string   `json:"start"`
			DistanceKm *float64 `json:"distance_km"`
			UrbanKm    *float64 `json:"urban_km"`
			SuburbanKm *float64 `json:"suburban_km"`
		}
		type eventView struct {
			At    string   `json:"at"`
			Value *float64 `json:"value"`
		}

		tv := make([]tripView, 0, len(trips))
		for _, t := range trips {
			tv = append(tv, tripView{
				Start:      FormatEventDate(t.StartAt),
				DistanceKm: t.DistanceKm,
				UrbanKm:    t.UrbanKm,
				SuburbanKm: t.SuburbanKm,
			})
		}
		fv := make([]eventView, 0, len(fillups))
		for _, f := range fillups {
			fv = append(fv, eventView{At: FormatEventDate(f.RecordedAt), Value: f.Liters})
		}
		cv := make([]eventView, 0, len(costs))
		for _, c := range costs {
			cv = append(cv, eventView{At: FormatEventDate(c.RecordedAt), Value: c.Amount})
		}

		jsonResponse(ctx, map[string]any{
			"vehicle_id": vehicleID,
			"trips":      tv,
			"fillups":    fv,
			"costs":      cv,
		})
	}
}
