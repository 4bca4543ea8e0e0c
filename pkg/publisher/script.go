package publisher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPageURL        = "https://www.tiktok.com/upload"
	DefaultElementTimeout = 60 * time.Second
	DefaultSettleDelay    = 8 * time.Second
)

// Config selects the script and overrides its page URL and timings.
type Config struct {
	ScriptPath     string        `env:"PUBLISHER_SCRIPT"`
	PageURL        string        `env:"UPLOAD_PAGE_URL" envDefault:"https://www.tiktok.com/upload"`
	SettleDelay    time.Duration `env:"UPLOAD_SETTLE_DELAY" envDefault:"8s"`
	ElementTimeout time.Duration `env:"UPLOAD_ELEMENT_TIMEOUT" envDefault:"60s"`
}

// Script describes the upload page.
type Script struct {
	URL            string        `yaml:"url"`
	FileInput      Selector      `yaml:"file_input"`
	Caption        Selector      `yaml:"caption"`
	PostButton     Selector      `yaml:"post_button"`
	ElementTimeout time.Duration `yaml:"element_timeout"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
}

// DefaultScript returns the script for TikTok's web upload page.
func DefaultScript() Script {
	return Script{
		URL:            DefaultPageURL,
		FileInput:      `input[type="file"]`,
		Caption:        `[placeholder="Describe your video"]`,
		PostButton:     `xpath=//button[normalize-space(.)="Post"]`,
		ElementTimeout: DefaultElementTimeout,
		SettleDelay:    DefaultSettleDelay,
	}
}

// Validate checks that every selector is set and the URL is absolute.
func (s Script) Validate() error {
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url %q is not absolute", ErrInvalidScript, s.URL)
	}
	for name, sel := range map[string]Selector{
		"file_input":  s.FileInput,
		"caption":     s.Caption,
		"post_button": s.PostButton,
	} {
		if sel.Query() == "" {
			return fmt.Errorf("%w: %s selector is empty", ErrInvalidScript, name)
		}
	}
	if s.ElementTimeout < 0 || s.SettleDelay < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidScript)
	}
	return nil
}

// ParseScript reads a YAML script. Missing fields keep the defaults.
func ParseScript(r io.Reader) (Script, error) {
	s := DefaultScript()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, errors.Join(ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Load returns the YAML script at cfg.ScriptPath. Without one it returns
// the default script with the page URL and timings taken from cfg.
func Load(fs afero.Fs, cfg Config) (Script, error) {
	if cfg.ScriptPath != "" {
		data, err := afero.ReadFile(fs, cfg.ScriptPath)
		if err != nil {
			return Script{}, fmt.Errorf("publisher: read script: %w", err)
		}
		return ParseScript(bytes.NewReader(data))
	}

	s := DefaultScript()
	if cfg.PageURL != "" {
		s.URL = cfg.PageURL
	}
	if cfg.ElementTimeout > 0 {
		s.ElementTimeout = cfg.ElementTimeout
	}
	if cfg.SettleDelay > 0 {
		s.SettleDelay = cfg.SettleDelay
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}
