package main

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/Oscargtgzz/Rendimientos/internal/advisor"
	"github.com/Oscargtgzz/Rendimientos/internal/config"
	"github.com/Oscargtgzz/Rendimientos/internal/db"
	"github.com/Oscargtgzz/Rendimientos/internal/http/handlers"
	appmw "github.com/Oscargtgzz/Rendimientos/internal/http/middleware"
	"github.com/Oscargtgzz/Rendimientos/internal/session"
	ui "github.com/Oscargtgzz/Rendimientos/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	sqlDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to open session database: %v", err)
	}

	if err := db.EnsureBootstrapAdmin(sqlDB, cfg); err != nil {
		log.Fatalf("failed to ensure bootstrap admin: %v", err)
	}

	handlers.InitPrometheusMetrics()
	appmw.InitRequestMetrics()

	state := session.New()
	gemini := advisor.New(cfg)
	if cfg.GeminiAPIKey == "" {
		log.Printf("APP_GEMINI_API_KEY not set; AI commentary disabled")
	}

	r := router.New()

	// Global middleware chain: request logger, then instrumentation, then router.
	handler := handlers.RequestLogger(appmw.Instrument(r.Handler))

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	r.ServeFS("/static/{filepath:*}", ui.StaticFS())

	r.GET("/login", handlers.LoginForm())
	r.POST("/login", handlers.LoginSubmit(sqlDB))
	r.POST("/logout", handlers.Logout())

	auth := appmw.AdminAuth(sqlDB, cfg)

	r.GET("/", auth(handlers.Dashboard(sqlDB, cfg)))
	r.GET("/purchases", auth(handlers.PurchasesPage(sqlDB, cfg)))

	r.POST("/v1/uploads/telemetry", auth(handlers.UploadWorkbook(sqlDB, cfg, state, db.KindTelemetry)))
	r.POST("/v1/uploads/roster", auth(handlers.UploadWorkbook(sqlDB, cfg, state, db.KindRoster)))
	r.POST("/v1/uploads/purchases", auth(handlers.UploadWorkbook(sqlDB, cfg, state, db.KindPurchases)))

	r.GET("/v1/vehicles", auth(handlers.VehicleList(sqlDB)))
	r.GET("/v1/kpis", auth(handlers.KPITable(sqlDB, state)))
	r.GET("/v1/vehicles/{id}/events", auth(handlers.VehicleEvents(sqlDB)))

	r.GET("/v1/purchases/report", auth(handlers.PurchasesReport(sqlDB)))
	r.GET("/v1/purchases/report.csv", auth(handlers.PurchasesReportCSV(sqlDB)))

	r.POST("/v1/commentary", auth(handlers.Commentary(gemini, state)))

	r.GET("/v1/prometheus", handlers.MetricsExposition())

	r.POST("/admin/users/create", auth(handlers.CreateUser(sqlDB)))
	r.POST("/admin/users/{id}/delete", auth(handlers.DeleteUser(sqlDB, cfg)))

	r.POST("/settings/password", auth(handlers.ChangePasswordSelf(sqlDB, cfg)))

	log.Printf("rendimientos listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
