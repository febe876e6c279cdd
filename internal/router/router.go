package router

import (
	"database/sql"
	"net/http"

	"ambulance-dispatch/docs"
	mapsadapter "ambulance-dispatch/internal/adapters/maps"
	redisstore "ambulance-dispatch/internal/adapters/positions/redis"
	mem "ambulance-dispatch/internal/adapters/storage/memory"
	pg "ambulance-dispatch/internal/adapters/storage/postgres"
	"ambulance-dispatch/internal/config"
	"ambulance-dispatch/internal/domain/emergencies"
	"ambulance-dispatch/internal/domain/positions"
	"ambulance-dispatch/internal/domain/routing"
	"ambulance-dispatch/internal/domain/session"
	"ambulance-dispatch/internal/domain/units"
	"ambulance-dispatch/internal/middleware"
	"ambulance-dispatch/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev con X-Debug-User-ID)
	Directory    auth.Directory    // puede ser nil (login responde 503)

	// Opcional: si viene, el Ledger vive en Postgres. Si no, intenta
	// DB_DSN y cae a memoria.
	DB *sql.DB

	// Overrides para tests. Si vienen, ganan sobre DB/env.
	EmergenciesRepo emergencies.Repository
	UsersRepo       units.Repository
	PositionsStore  positions.Store
	Directions      routing.Directions
}

func NewRouter(opts Options) http.Handler {
	cfg := config.FromEnv()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))

	// Ledger: Postgres si hay conexión, memoria si no.
	db := opts.DB
	if db == nil && cfg.DBDSN != "" {
		if opened, err := pg.Open(cfg.DBDSN); err == nil {
			db = opened
		}
	}

	emRepo := opts.EmergenciesRepo
	usersRepo := opts.UsersRepo
	if emRepo == nil {
		if db != nil {
			emRepo = pg.NewEmergenciesRepo(db)
		} else {
			emRepo = mem.NewEmergenciesRepo()
		}
	}
	if usersRepo == nil {
		if db != nil {
			usersRepo = pg.NewUsersRepo(db)
		} else {
			usersRepo = mem.NewUsersRepo()
		}
	}

	// Posiciones: Redis con TTL si está configurado, memoria si no.
	posStore := opts.PositionsStore
	if posStore == nil {
		if cfg.RedisAddr != "" {
			posStore = redisstore.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		} else {
			posStore = mem.NewPositionsStore()
		}
	}

	directions := opts.Directions
	if directions == nil && cfg.MapsBaseURL != "" {
		if client, err := mapsadapter.NewClient(mapsadapter.Config{
			BaseURL: cfg.MapsBaseURL,
			APIKey:  cfg.MapsAPIKey,
			Timeout: cfg.MapsTimeout,
		}); err == nil {
			directions = client
		}
	}

	// Services por módulo
	unitsSvc := units.NewService(usersRepo)
	emSvc := emergencies.NewService(emRepo, unitsSvc)
	posSvc := positions.NewService(posStore)
	routeSvc := routing.NewService(directions)

	// Rutas por módulo
	emergencies.RegisterRoutes(r, emSvc, unitsSvc)
	units.RegisterRoutes(r, unitsSvc)
	positions.RegisterRoutes(r, posSvc, unitsSvc)
	routing.RegisterRoutes(r, routeSvc, emSvc, unitsSvc, posSvc)
	session.RegisterRoutes(r, opts.Directory, unitsSvc)

	return r
}
