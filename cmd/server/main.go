package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/config"
	"github.com/goliatone/go-accounts/mailqueue"
	"github.com/goliatone/go-accounts/verification"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config  *gconfig.Container[*config.AppConfig]
	bunDB   *bun.DB
	repo    accounts.RepositoryManager
	service *accounts.Service
	srv     *fiber.App
	logger  *glog.BaseLogger
}

func (a *App) Config() *config.AppConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("accounts"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	if err := cfg.Raw().Validate(); err != nil {
		panic(err)
	}

	if cfg.Raw().GetServer().Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
		fmt.Println("============")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAccountService(ctx, app); err != nil {
		panic(err)
	}

	WithHTTPServer(app)

	go func() {
		if err := app.srv.Listen(app.Config().GetServer().GetAddress()); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*accounts.Account)(nil))
	persistence.RegisterModel((*accounts.Role)(nil))
	persistence.RegisterModel((*accounts.AccountRole)(nil))
	persistence.RegisterModel((*accounts.PasswordReset)(nil))

	cfg := app.Config().GetPersistence()
	dialect := sqlitedialect.New()
	client, err := persistence.New(cfg, db, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(accounts.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = accounts.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithAccountService(ctx context.Context, app *App) error {
	vcfg := app.Config().GetVerification()
	verifier := verification.NewClient(
		vcfg.GetProviderURL(),
		verification.WithAPIKey(vcfg.GetAPIKey()),
		verification.WithTimeout(vcfg.GetRequestTimeout()),
	)

	qcfg := app.Config().GetMailQueue()
	rdb := redis.NewClient(&redis.Options{
		Addr:     qcfg.GetAddress(),
		Password: qcfg.GetPassword(),
		DB:       qcfg.GetDB(),
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "mail queue redis unreachable")
	}

	queueOpts := []mailqueue.Option{
		mailqueue.WithResetURL(qcfg.GetResetURL()),
	}
	if stream := qcfg.GetStream(); stream != "" {
		queueOpts = append(queueOpts, mailqueue.WithStream(stream))
	}

	notifier := mailqueue.NewPublisher(rdb, queueOpts...)

	app.service = accounts.NewService(
		app.repo,
		verifier,
		notifier,
		accounts.WithLogger(app.GetLogger("accounts")),
		accounts.WithResetWindow(app.Config().GetAuth().GetResetWindow()),
	)

	return nil
}

func WithHTTPServer(app *App) {
	acfg := app.Config().GetAuth()

	tokens := accounts.NewTokenMinter(
		[]byte(acfg.GetSigningKey()),
		acfg.GetTokenExpiration(),
		acfg.GetIssuer(),
		acfg.GetAudience(),
	)

	srv := fiber.New(fiber.Config{
		AppName:           app.Config().GetName(),
		EnablePrintRoutes: app.Config().GetServer().Debug,
	})

	accounts.RegisterAccountRoutes(srv,
		accounts.WithControllerService(app.service),
		accounts.WithControllerTokens(tokens),
		accounts.WithControllerLogger(app.GetLogger("accounts:http")),
		accounts.WithControllerDebug(app.Config().GetServer().Debug),
	)

	app.srv = srv
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
