package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"
	"github.com/warblehq/warble"
	"github.com/warblehq/warble/google"
	"github.com/warblehq/warble/middleware/authware"
	"github.com/warblehq/warble/rest"
	"github.com/warblehq/warble/storage"
)

type envConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
	contextKey      string
	authScheme      string

	dsn  string
	addr string

	googleVerifier string
	googleJWKSURL  string
	googleAudience string

	awsRegion    string
	awsBucket    string
	awsAccessKey string
	awsSecretKey string
}

func (c envConfig) GetSigningKey() string   { return c.signingKey }
func (c envConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c envConfig) GetIssuer() string       { return c.issuer }
func (c envConfig) GetAudience() []string   { return c.audience }
func (c envConfig) GetContextKey() string   { return c.contextKey }
func (c envConfig) GetAuthScheme() string   { return c.authScheme }

func loadConfig() envConfig {
	expiration := warble.DefaultTokenExpiration
	if raw := os.Getenv("TOKEN_EXPIRATION_HOURS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			expiration = parsed
		}
	}

	return envConfig{
		signingKey:      os.Getenv("JWT_SECRET"),
		tokenExpiration: expiration,
		issuer:          envOr("JWT_ISSUER", "warble"),
		contextKey:      envOr("AUTH_CONTEXT_KEY", "viewer"),
		authScheme:      envOr("AUTH_SCHEME", "Bearer"),
		dsn:             envOr("DATABASE_DSN", "file:warble.db?cache=shared&_pragma=foreign_keys(1)"),
		addr:            envOr("LISTEN_ADDR", ":4000"),
		googleVerifier:  envOr("GOOGLE_VERIFIER", "tokeninfo"),
		googleJWKSURL:   os.Getenv("GOOGLE_JWKS_URL"),
		googleAudience:  os.Getenv("GOOGLE_CLIENT_ID"),
		awsRegion:       os.Getenv("AWS_REGION"),
		awsBucket:       os.Getenv("AWS_S3_BUCKET"),
		awsAccessKey:    os.Getenv("AWS_ACCESS_KEY_ID"),
		awsSecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := runMigrations(ctx, db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	tokens, err := warble.NewTokenServiceFromConfig(cfg, nil)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	repo := warble.NewRepositoryManager(db)
	repo.MustValidate()

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		log.Fatalf("identity verifier: %v", err)
	}
	issuer := warble.NewSessionIssuer(verifier, repo.Users(), tokens)

	var uploads rest.Uploader
	if cfg.awsBucket != "" {
		u, err := storage.NewUploads(ctx, cfg.awsRegion, cfg.awsBucket, cfg.awsAccessKey, cfg.awsSecretKey)
		if err != nil {
			log.Fatalf("uploads: %v", err)
		}
		uploads = u
	}

	app := fiber.New(fiber.Config{
		AppName: "warble",
	})

	app.Use(authware.New(authware.Config{
		Validator:  tokens,
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
	}))

	controller := rest.NewController(issuer, repo, uploads)
	controller.RegisterRoutes(app)

	go func() {
		if err := app.Listen(cfg.addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// newVerifier picks the Google verification strategy. The default tokeninfo
// verifier calls Google per login; GOOGLE_VERIFIER=jwks verifies offline
// against the published signing keys instead.
func newVerifier(ctx context.Context, cfg envConfig) (warble.IdentityVerifier, error) {
	if cfg.googleVerifier == "jwks" {
		return google.NewJWKSVerifier(ctx, google.JWKSConfig{
			JWKSURL:  cfg.googleJWKSURL,
			Audience: cfg.googleAudience,
		})
	}
	return google.New(google.Config{}), nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	sqlFS, err := fs.Sub(warble.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sqlFS); err != nil {
		return err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		log.Println("database is up to date")
	} else {
		log.Printf("migrated to %s", group)
	}

	return nil
}
