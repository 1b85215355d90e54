package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/mind-engage/scoreengine/internal/api/http"
	auth "github.com/mind-engage/scoreengine/internal/auth/middleware"
	"github.com/mind-engage/scoreengine/internal/config"
	"github.com/mind-engage/scoreengine/internal/db"
	"github.com/mind-engage/scoreengine/internal/engine"
	"github.com/mind-engage/scoreengine/internal/metrics"
	"github.com/mind-engage/scoreengine/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := engine.NewSQLStore(dbh, cfg.DBDriver)

	// --- Engine ---
	scale := engine.DefaultScaleTable()
	if err := cfg.DecodeScaleBands(&scale); err != nil {
		log.Fatalf("bad SCALE_BANDS: %v", err)
	}
	var mx *metrics.Manager
	if cfg.EnableMetrics {
		mx = metrics.New(nil)
	}
	pipeline := engine.NewPipeline(store, scale, mx)
	gate := engine.NewGate(store)
	agg := engine.NewAggregator(store, scale)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Post("/auth/login", auth.LoginHandler(authSvc, auth.LoginOpts{
		DB:            dbh,
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
	}))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Teacher-only: course + question authoring
		pr.With(rbac.Require("course:create")).
			Put("/courses/{courseID}", api.PutCourseHandler(store))

		pr.With(rbac.Require("questions:view")).
			Get("/courses/{courseID}", api.GetCourseHandler(store))
		pr.With(rbac.Require("questions:view")).
			Get("/courses/{courseID}/questions", api.GetQuestionsHandler(store, gate))

		// Student flow
		pr.With(rbac.Require("submission:create")).
			Post("/submissions", api.SubmitHandler(store, pipeline, gate))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions", api.ListSubmissionsHandler(store))

		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/progress/{courseID}", api.GetProgressHandler(store))
		pr.With(rbac.RequireAny("progress:view-own", "progress:view-all")).
			Get("/unlocks/{courseID}", api.UnlocksHandler(gate))

		pr.With(rbac.RequireAny("summary:view-own", "summary:view-all")).
			Get("/summary", api.SummaryHandler(store, agg))

		pr.With(rbac.Require("baseline:edit-own")).
			Put("/baseline", api.PutBaselineHandler(store))
		pr.With(rbac.RequireAny("summary:view-own", "summary:view-all")).
			Get("/baseline", api.GetBaselineHandler(store))
	})

	log.Printf("scoreengine gateway listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
