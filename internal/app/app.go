package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/siswanet/siswanet/internal/pkg/clock"
	"github.com/siswanet/siswanet/internal/pkg/config"
	"github.com/siswanet/siswanet/internal/pkg/goroutine"
	"github.com/siswanet/siswanet/internal/pkg/hash"
	"github.com/siswanet/siswanet/internal/pkg/idempotency"
	"github.com/siswanet/siswanet/internal/pkg/instrument"
	"github.com/siswanet/siswanet/internal/pkg/messaging"
	"github.com/siswanet/siswanet/internal/pkg/otpcode"
	"github.com/siswanet/siswanet/internal/pkg/router"
	"github.com/siswanet/siswanet/internal/pkg/sms"
	"github.com/siswanet/siswanet/internal/pkg/uid"
	"github.com/siswanet/siswanet/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	codeHash  hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	codes     otpcode.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Messaging
	sms       sms.SMS

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initSMS()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
