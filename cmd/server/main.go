package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/storegate/auth-server/auth"
	"github.com/storegate/auth-server/cache"
	"github.com/storegate/auth-server/cache/memorystore"
	"github.com/storegate/auth-server/cache/redisstore"
	"github.com/storegate/auth-server/internal/config"
	"github.com/storegate/auth-server/products"
	productsfake "github.com/storegate/auth-server/products/repofake"
	"github.com/storegate/auth-server/roles"
	rolespg "github.com/storegate/auth-server/roles/postgresrepo"
	rolesfake "github.com/storegate/auth-server/roles/repofake"
	"github.com/storegate/auth-server/scopes"
	"github.com/storegate/auth-server/server"
	"github.com/storegate/auth-server/token"
	"github.com/storegate/auth-server/users"
	userspg "github.com/storegate/auth-server/users/postgresrepo"
	usersfake "github.com/storegate/auth-server/users/repofake"
)

func main() {
	log := newLogger(config.New())
	for {
		if err := run(log); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run(log zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx := context.Background()
	deps, cleanup, err := buildDeps(ctx, c, log)
	if err != nil {
		return fmt.Errorf("building dependencies: %w", err)
	}
	defer cleanup()

	srv, err := server.New(c, deps, log)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer, log)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildDeps(ctx context.Context, c config.Config, log zerolog.Logger) (server.Deps, func(), error) {
	cleanup := func() {}

	accessSecret, refreshSecret := c.GetAccessTokenSecret(), c.GetRefreshTokenSecret()
	if (accessSecret == "" || refreshSecret == "") && c.GetEnv() == "DEV" {
		// Ephemeral secrets: every restart invalidates outstanding tokens.
		accessSecret, refreshSecret = uuid.New().String(), uuid.New().String()
		log.Warn().Msg("no signing secrets configured, generated ephemeral DEV secrets")
	}

	codec, err := token.NewCodec(accessSecret, refreshSecret,
		token.WithTokenTTLs(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()))
	if err != nil {
		return server.Deps{}, cleanup, err
	}

	var roleScopeCache cache.Cache
	if addr := c.GetRedisAddr(); addr != "" {
		roleScopeCache = redisstore.New(redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: c.GetRedisPassword(),
		}))
	} else {
		roleScopeCache = memorystore.New()
	}

	var (
		userRepo users.UserRepo
		roleRepo roles.Repo
	)
	if databaseURL := c.GetDatabaseURL(); databaseURL != "" {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return server.Deps{}, cleanup, fmt.Errorf("pgxpool.New: %w", err)
		}
		cleanup = pool.Close
		userRepo = userspg.New(pool)
		roleRepo = rolespg.New(pool)
	} else {
		log.Warn().Msg("no database configured, using in-memory stores with seed data")
		userRepo, roleRepo = seedInMemoryStores(ctx)
	}

	resolver, err := roles.NewResolver(roleRepo, roleScopeCache,
		roles.WithCacheTTL(c.GetRoleScopesCacheTTL()))
	if err != nil {
		return server.Deps{}, cleanup, err
	}

	authenticator, err := auth.NewAuthenticator(userRepo, resolver, auth.WithLogger(log))
	if err != nil {
		return server.Deps{}, cleanup, err
	}

	gates, err := auth.NewGates(codec, userRepo)
	if err != nil {
		return server.Deps{}, cleanup, err
	}

	return server.Deps{
		Authenticator: authenticator,
		Gates:         gates,
		Codec:         codec,
		Resolver:      resolver,
		Users:         userRepo,
		Products:      seedProducts(),
	}, cleanup, nil
}

// seedInMemoryStores provisions a minimal role catalogue and an admin
// account so a fresh DEV instance is usable without a database.
func seedInMemoryStores(ctx context.Context) (users.UserRepo, roles.Repo) {
	roleRepo := rolesfake.NewFakeRoleRepo()
	roleRepo.SetScopes(roles.Customer, []scopes.Scope{
		scopes.HealthGetHealth,
		scopes.AuthRefreshToken,
		scopes.UsersGetMe,
		scopes.UsersUpdateUser,
		scopes.UsersUpdateUserPassword,
		scopes.CategoriesGetCategories,
		scopes.CategoriesGetCategory,
		scopes.ProductsGetProduct,
	})
	roleRepo.SetScopes(roles.Admin, []scopes.Scope{
		scopes.HealthGetHealth,
		scopes.AuthRefreshToken,
		scopes.UsersGetMe,
		scopes.UsersGetUsers,
		scopes.UsersGetUser,
		scopes.UsersCreateUser,
		scopes.UsersUpdateUser,
		scopes.UsersUpdateUserPassword,
		scopes.UsersDeleteUser,
		scopes.CategoriesGetCategories,
		scopes.CategoriesGetCategory,
		scopes.ProductsCreateProduct,
		scopes.ProductsGetProducts,
		scopes.ProductsGetProduct,
	})

	userRepo := usersfake.NewFakeUserRepo()
	passwordHash, _ := users.HashPassword("ChangeMe123")
	_ = userRepo.Upsert(ctx, &users.User{
		Username:      "admin",
		Email:         "admin@localhost",
		PasswordHash:  passwordHash,
		Roles:         []roles.Role{roles.Admin},
		EmailVerified: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
	return userRepo, roleRepo
}

func seedProducts() products.Repo {
	repo := productsfake.NewFakeProductRepo()
	repo.Add(products.Product{ID: uuid.New().String(), Name: "Graphic card", Price: 1199.0, Released: true})
	repo.Add(products.Product{ID: uuid.New().String(), Name: "Gaming laptop", Price: 2549.5, Released: true})
	repo.Add(products.Product{ID: uuid.New().String(), Name: "Next-gen console", Price: 599.99, Released: false})
	return repo
}

func newLogger(c config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if c.GetEnv() == "DEV" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func listenAndServe(httpServer *http.Server, log zerolog.Logger) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
