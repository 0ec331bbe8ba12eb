package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	auth "github.com/gazbert/bxbot-ui-server-sub000"
	"github.com/gazbert/bxbot-ui-server-sub000/botapi"
	"github.com/gazbert/bxbot-ui-server-sub000/registry"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDatabase(ctx, cfg.dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	repos := auth.NewRepositoryManager(db)
	repos.MustValidate()

	if err := seedAdminUser(ctx, repos.Users(), cfg); err != nil {
		log.Fatal(err)
	}

	directory := auth.NewDirectory(repos.Users())

	codec, err := auth.NewClaimsCodec(cfg.auth)
	if err != nil {
		log.Fatal(err)
	}

	tokens, err := auth.NewTokenService(cfg.auth, codec, directory)
	if err != nil {
		log.Fatal(err)
	}

	bots := registry.NewBotsRepository(db)
	bot := registry.NewService(bots)

	if cfg.snapshotPath != "" {
		if err := importSnapshot(ctx, bot, cfg.snapshotPath); err != nil {
			log.Fatal(err)
		}
	}

	proxy := botapi.NewClient()

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
			AppName:       "botconsole",
		}))
	})

	filter := auth.RequestAuthenticationFilter(auth.FilterConfig{
		Validator: tokens,
		Directory: directory,
	})
	srv.Router().Use(filter)

	gate := auth.NewGate(auth.NewEntryPoint(nil))
	readGuard := gate.Require(auth.ReadRoles()...)
	writeGuard := gate.Require(auth.WriteRoles()...)

	tokenController := auth.NewTokenController(auth.WithControllerTokens(tokens))
	auth.RegisterTokenRoutes(srv.Router(), tokenController, readGuard)

	registryController := registry.NewController(registry.WithControllerService(bot))
	registry.RegisterBotRoutes(srv.Router(), registryController, readGuard, writeGuard)

	proxyController := botapi.NewController(
		botapi.WithControllerClient(proxy),
		botapi.WithControllerResolver(bot),
	)
	botapi.RegisterProxyRoutes(srv.Router(), proxyController, readGuard, writeGuard)

	log.Printf("botconsole listening on %s", cfg.addr)

	srv.Serve(cfg.addr)

	WaitExitSignal()
}

type appConfig struct {
	addr          string
	dsn           string
	snapshotPath  string
	adminUsername string
	adminPassword string
	auth          *auth.Config
}

func loadConfig() (*appConfig, error) {
	signingKey := os.Getenv("BXBOT_UI_SIGNING_KEY")

	cfg := &appConfig{
		addr:          envDefault("BXBOT_UI_ADDR", ":8090"),
		dsn:           envDefault("BXBOT_UI_DSN", "file:botconsole.db"),
		snapshotPath:  os.Getenv("BXBOT_UI_BOTS_SNAPSHOT"),
		adminUsername: envDefault("BXBOT_UI_ADMIN_USER", "admin"),
		adminPassword: os.Getenv("BXBOT_UI_ADMIN_PASSWORD"),
		auth: &auth.Config{
			SigningKey: []byte(signingKey),
			TokenTTL:   envSeconds("BXBOT_UI_TOKEN_TTL", auth.DefaultTokenTTL),
			ClockSkew:  envSeconds("BXBOT_UI_CLOCK_SKEW", auth.DefaultClockSkew),
			Issuer:     os.Getenv("BXBOT_UI_ISSUER"),
			Audience:   splitCSV(os.Getenv("BXBOT_UI_AUDIENCE")),
		},
	}

	if err := cfg.auth.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func envSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		log.Printf("ignoring %s=%q, using %s", key, v, def)
		return def
	}

	return time.Duration(seconds) * time.Second
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*auth.User)(nil),
		(*registry.Bot)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// seedAdminUser creates the initial admin account on an empty directory so
// the console is reachable after first boot
func seedAdminUser(ctx context.Context, users auth.Users, cfg *appConfig) error {
	if _, err := users.GetByUsername(ctx, cfg.adminUsername); err == nil {
		return nil
	}

	password := cfg.adminPassword
	generated := false
	if password == "" {
		password = uuid.NewString()
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &auth.User{
		Username:     cfg.adminUsername,
		PasswordHash: hash,
		Enabled:      true,
	}
	admin.SetRoleList([]auth.Role{auth.RoleUser, auth.RoleAdmin})

	if _, err := users.Register(ctx, admin); err != nil {
		return err
	}

	if generated {
		// first boot only: the cleartext is printed this once so the operator
		// can log in, and must be rotated before logs ship anywhere
		log.Printf("seeded admin user %q with password %q, change it immediately", cfg.adminUsername, password)
	} else {
		log.Printf("seeded admin user %q", cfg.adminUsername)
	}

	return nil
}

func importSnapshot(ctx context.Context, service *registry.Service, path string) error {
	snapshot, err := registry.ReadSnapshotFile(path)
	if err != nil {
		return err
	}

	imported, err := service.Import(ctx, snapshot)
	if err != nil {
		return err
	}

	log.Printf("imported %d bots from %s", imported, path)

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
