package storage

import "time"

// Config holds fetcher settings.
type Config struct {
	// TempDir defaults to os.TempDir().
	TempDir string        `env:"TEMP_DIR"`
	MaxSize int64         `env:"VIDEO_MAX_SIZE" envDefault:"1073741824"`
	Timeout time.Duration `env:"VIDEO_DOWNLOAD_TIMEOUT" envDefault:"5m"`
	S3      S3Config
}

// S3Config holds credentials for s3:// sources. Sources with the s3 scheme
// are rejected when AccessKey is empty.
type S3Config struct {
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// Endpoint is set for S3-compatible services such as MinIO.
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	PathStyle bool   `env:"S3_PATH_STYLE"`
}

const (
	DefaultMaxSize = 1 << 30
	DefaultTimeout = 5 * time.Minute
	DefaultRegion  = "us-east-1"
)

// Enabled reports whether S3 credentials are configured.
func (c S3Config) Enabled() bool {
	return c.AccessKey != ""
}

func (c *Config) applyDefaults() {
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}
