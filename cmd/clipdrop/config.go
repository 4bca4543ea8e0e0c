package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/clipdrop/pkg/browser"
	"github.com/dmitrymomot/clipdrop/pkg/cookievault"
	"github.com/dmitrymomot/clipdrop/pkg/db"
	"github.com/dmitrymomot/clipdrop/pkg/logger"
	"github.com/dmitrymomot/clipdrop/pkg/publisher"
	"github.com/dmitrymomot/clipdrop/pkg/redis"
	"github.com/dmitrymomot/clipdrop/pkg/storage"
	"github.com/dmitrymomot/clipdrop/uploads"
)

// appConfig is the whole process configuration. Each package owns its
// section; the top-level fields belong to the server itself.
type appConfig struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	Region          string        `env:"REGION" envDefault:"UK"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	// VerifyCookies decrypts the bundle once before the server listens.
	VerifyCookies bool `env:"COOKIE_VERIFY_ON_START" envDefault:"false"`

	Log       logger.Config
	Cookies   cookievault.Config
	Browser   browser.Config
	Publisher publisher.Config
	Storage   storage.Config
	Uploads   uploads.Config
	Redis     redis.Config
	DB        db.Config
}

// loadConfig reads appConfig from the process environment.
func loadConfig() (appConfig, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (appConfig, error) {
	var cfg appConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return appConfig{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Cookies.Validate(); err != nil {
		return appConfig{}, fmt.Errorf("config: %w", err)
	}
	if limit := cfg.uploadTimeout(); cfg.Uploads.LockTTL <= limit {
		cfg.Uploads.LockTTL = limit + lockMargin
	}
	return cfg, nil
}

// lockMargin is how long the upload lock outlives the slowest upload.
const lockMargin = time.Minute

// uploadTimeout bounds one upload: the download plus the browser run.
func (c appConfig) uploadTimeout() time.Duration {
	return c.Browser.Timeout + c.Storage.Timeout
}

func (c appConfig) address() string {
	return ":" + c.Port
}
