package router

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"time"

	mem "vet-records/internal/adapters/storage/memory"
	pg "vet-records/internal/adapters/storage/postgres"
	"vet-records/internal/domain/animals"
	"vet-records/internal/domain/blacklist"
	"vet-records/internal/domain/clients"
	"vet-records/internal/domain/documents"
	"vet-records/internal/domain/invoices"
	"vet-records/internal/domain/organizations"
	"vet-records/internal/domain/settings"
	"vet-records/internal/domain/users"
	"vet-records/internal/guard"
	"vet-records/internal/middleware"
	"vet-records/internal/platform/logger"
	"vet-records/internal/ports/auth"

	_ "vet-records/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		userRepo         users.Repository
		clientRepo       clients.Repository
		animalRepo       animals.Repository
		invoiceRepo      invoices.Repository
		organizationRepo organizations.Repository
		blacklistRepo    blacklist.Repository
		documentRepo     documents.Repository
		settingsRepo     settings.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", logger.Err(err))
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		clientRepo = pg.NewClientsRepo(db)
		animalRepo = pg.NewAnimalsRepo(db)
		invoiceRepo = pg.NewInvoicesRepo(db)
		organizationRepo = pg.NewOrganizationsRepo(db)
		blacklistRepo = pg.NewBlacklistRepo(db)
		documentRepo = pg.NewDocumentsRepo(db)
		settingsRepo = pg.NewSettingsRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		clientRepo = mem.NewClientRepo()
		animalRepo = mem.NewAnimalRepo()
		invoiceRepo = mem.NewInvoiceRepo()
		organizationRepo = mem.NewOrganizationRepo()
		blacklistRepo = mem.NewBlacklistRepo()
		documentRepo = mem.NewDocumentRepo()
		settingsRepo = mem.NewSettingsRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	animalsSvc := animals.NewService(animalRepo)
	clientsSvc := clients.NewService(clientRepo, animalsSvc)
	invoicesSvc := invoices.NewService(invoiceRepo)
	organizationsSvc := organizations.NewService(organizationRepo)
	blacklistSvc := blacklist.NewService(blacklistRepo)
	documentsSvc := documents.NewService(documentRepo)
	settingsSvc := settings.NewService(settingsRepo)

	// El TTL por defecto de los share links sale de la configuración de la
	// clínica; share_ttl_days = 0 delega en el default de documentos.
	documentsSvc.ShareTTLFrom(func(ctx context.Context) time.Duration {
		s, err := settingsSvc.Get(ctx)
		if err != nil || s.ShareTTLDays <= 0 {
			return 0
		}
		return time.Duration(s.ShareTTLDays) * 24 * time.Hour
	})

	// El guard resuelve identidades contra el directorio de usuarios.
	dir := guard.DirectoryFunc(func(ctx context.Context, userID, email, fallbackRole string) (guard.DirectoryEntry, error) {
		u, err := usersSvc.EnsureForClaims(ctx, userID, email, fallbackRole)
		if err != nil {
			// Identidad inválida => no existe tal principal; el resto son
			// fallas de storage y salen como 500, no como 401.
			if errors.Is(err, users.ErrInvalidInput) {
				return guard.DirectoryEntry{}, guard.ErrPrincipalNotFound
			}
			return guard.DirectoryEntry{}, err
		}
		return guard.DirectoryEntry{
			ID:     u.ID,
			Email:  u.Email,
			Role:   u.Role,
			Active: u.Active,
		}, nil
	})
	g := guard.New(dir, log)

	// Rutas por módulo
	clients.RegisterRoutes(r, clientsSvc, g)
	animals.RegisterRoutes(r, animalsSvc, g)
	invoices.RegisterRoutes(r, invoicesSvc, g)
	organizations.RegisterRoutes(r, organizationsSvc, g)
	blacklist.RegisterRoutes(r, blacklistSvc, g)
	documents.RegisterRoutes(r, documentsSvc, g)
	users.RegisterRoutes(r, usersSvc, g)
	settings.RegisterRoutes(r, settingsSvc, g)

	return r
}
