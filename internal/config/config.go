package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSourceURL is the SHN total water height chart for Palermo (Buenos Aires).
const DefaultSourceURL = "https://api.shn.gob.ar/imagenes-modelo/curvas_altura-total/Alturatotal_Palermo.svg"

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream chart.
	SourceURL    string
	FetchTimeout time.Duration

	// Report output.
	OutputFormat   string
	OutputBasename string
	DraftTableFile string

	// Headless browser used for PNG output.
	BrowserBin     string
	ViewportWidth  int
	ViewportHeight int

	// Report events, enabled when brokers are configured.
	KafkaBrokers     []string
	KafkaReportTopic string
}

// EventsEnabled reports whether report events should be published to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "30s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	sourceURL := sharedcfg.EnvOrDefault("SVG_SOURCE_URL", DefaultSourceURL)
	if err := validateSourceURL(sourceURL); err != nil {
		return nil, err
	}

	format := strings.ToLower(sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatPNG))
	if format != FormatPNG && format != FormatSVG {
		return nil, fmt.Errorf("invalid OUTPUT_FORMAT %q: must be png or svg", format)
	}

	width, err := parsePositiveInt("VIEWPORT_WIDTH", 1400)
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveInt("VIEWPORT_HEIGHT", 1000)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		SourceURL:        sourceURL,
		FetchTimeout:     fetchTimeout,
		OutputFormat:     format,
		OutputBasename:   sharedcfg.EnvOrDefault("OUTPUT_BASENAME", "Punta_Indio"),
		DraftTableFile:   os.Getenv("DRAFT_TABLE_FILE"),
		BrowserBin:       os.Getenv("BROWSER_BIN"),
		ViewportWidth:    width,
		ViewportHeight:   height,
		KafkaBrokers:     brokers,
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "tide-draft-reports"),
	}

	return cfg, nil
}

func validateSourceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid SVG_SOURCE_URL %q", raw)
	}
	return nil
}

func parsePositiveInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, s)
	}
	return n, nil
}
