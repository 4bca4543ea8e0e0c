package browser

import "time"

// Config controls how Chrome is started.
type Config struct {
	// ExecPath is the Chrome binary. Empty lets chromedp search the usual
	// install locations.
	ExecPath  string        `env:"BROWSER_EXEC_PATH"`
	UserAgent string        `env:"BROWSER_USER_AGENT"`
	Timeout   time.Duration `env:"BROWSER_TIMEOUT" envDefault:"5m"`
	Headless  bool          `env:"BROWSER_HEADLESS" envDefault:"true"`
	NoSandbox bool          `env:"BROWSER_NO_SANDBOX" envDefault:"true"`
}
