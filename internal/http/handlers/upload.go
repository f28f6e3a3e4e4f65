package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"reflect"
	"strconv"

	"github.com/valyala/fasthttp"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Oscargtgzz/Rendimientos/internal/config"
	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	"github.com/Oscargtgzz/Rendimientos/internal/ingest"
	"github.com/Oscargtgzz/Rendimientos/internal/session"
)

// UploadWorkbook accepts one multipart workbook for the given kind,
// memoized by content hash: re-uploading identical bytes skips the
// parse and the table swap entirely. A successful import replaces that
// kind's rows and invalidates the carried-forward KPI result.
func UploadWorkbook(db *gorm.DB, cfg *config.Config, state *session.State, kind string) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if _, ok := MustUser(ctx); !ok {
			return
		}

		header, err := ctx.FormFile("file")
		if err != nil {
			uploadsTotal.WithLabelValues(kind, "rejected").Inc()
			errResponse(ctx, fasthttp.StatusBadRequest, "multipart field \"file\" is required")
			return
		}
		if header.Size > int64(cfg.MaxUploadMB)<<20 {
			uploadsTotal.WithLabelValues(kind, "rejected").Inc()
			errResponse(ctx, fasthttp.StatusRequestEntityTooLarge,
				"file exceeds the "+strconv.Itoa(cfg.MaxUploadMB)+" MB upload limit")
			return
		}

		f, err := header.Open()
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to open upload")
			return
		}
		defer f.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(f); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to read upload")
			return
		}
		content := buf.Bytes()

		sum := sha256.Sum256(content)
		hash := hex.EncodeToString(sum[:])

		if prev, err := dbpkg.FindImport(db, kind); err == nil && prev != nil && prev.ContentSHA256 == hash {
			uploadsTotal.WithLabelValues(kind, "unchanged").Inc()
			jsonResponse(ctx, map[string]any{
				"status": "unchanged",
				"kind":   kind,
				"rows":   prev.Rows,
				"sheets": prev.Sheets,
			})
			return
		}

		wb, err := ingest.ReadWorkbook(bytes.NewReader(content))
		if err != nil {
			uploadsTotal.WithLabelValues(kind, "failed").Inc()
			errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}

		imp := &dbpkg.WorkbookImport{
			Kind:          kind,
			ContentSHA256: hash,
			Filename:      header.Filename,
			Sheets:        datatypes.JSONMap{},
		}

		var insert func(tx *gorm.DB) error
		var coercions int
		switch kind {
		case dbpkg.KindTelemetry:
			data, perr := ingest.ParseTelemetry(wb)
			if perr != nil {
				uploadsTotal.WithLabelValues(kind, "failed").Inc()
				errResponse(ctx, fasthttp.StatusUnprocessableEntity, perr.Error())
				return
			}
			imp.Rows = len(data.Trips) + len(data.Fillups) + len(data.Costs)
			coercions = data.Coercions
			for s, n := range data.SheetRows {
				imp.Sheets[s] = n
			}
			insert = func(tx *gorm.DB) error {
				return insertBatches(tx, data.Trips, data.Fillups, data.Costs)
			}
		case dbpkg.KindRoster:
			data, perr := ingest.ParseRoster(wb)
			if perr != nil {
				uploadsTotal.WithLabelValues(kind, "failed").Inc()
				errResponse(ctx, fasthttp.StatusUnprocessableEntity, perr.Error())
				return
			}
			imp.Rows = len(data.Fields) + len(data.Assignments)
			coercions = data.Coercions
			for s, n := range data.SheetRows {
				imp.Sheets[s] = n
			}
			insert = func(tx *gorm.DB) error {
				return insertBatches(tx, data.Fields, data.Assignments)
			}
		case dbpkg.KindPurchases:
			data, perr := ingest.ParsePurchases(wb)
			if perr != nil {
				uploadsTotal.WithLabelValues(kind, "failed").Inc()
				errResponse(ctx, fasthttp.StatusUnprocessableEntity, perr.Error())
				return
			}
			imp.Rows = len(data.Purchases)
			coercions = data.Coercions
			for s, n := range data.SheetRows {
				imp.Sheets[s] = n
			}
			insert = func(tx *gorm.DB) error {
				return insertBatches(tx, data.Purchases)
			}
		default:
			errResponse(ctx, fasthttp.StatusNotFound, "unknown workbook kind")
			return
		}

		if err := dbpkg.ReplaceImport(db, imp, insert); err != nil {
			uploadsTotal.WithLabelValues(kind, "failed").Inc()
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to store workbook rows")
			return
		}

		// Whatever KPI table was computed before this upload is stale now.
		state.Invalidate()

		uploadsTotal.WithLabelValues(kind, "accepted").Inc()
		rowsImported.WithLabelValues(kind).Add(float64(imp.Rows))
		coercionFailures.WithLabelValues(kind).Add(float64(coercions))

		ctx.SetStatusCode(fasthttp.StatusAccepted)
		jsonResponse(ctx, map[string]any{
			"status":    "accepted",
			"kind":      kind,
			"rows":      imp.Rows,
			"sheets":    imp.Sheets,
			"coercions": coercions,
		})
	}
}

// insertBatches creates each non-empty slice in one batch insert.
// Empty slices are skipped; gorm rejects them.
func insertBatches(tx *gorm.DB, slices ...any) error {
	for _, s := range slices {
		if v := reflect.ValueOf(s); v.Kind() == reflect.Slice && v.Len() == 0 {
			continue
		}
		if err := tx.CreateInBatches(s, 500).Error; err != nil {
			return err
		}
	}
	return nil
}
