package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/basicflag"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds the decoy configuration, layered from defaults, DNS_*
// environment variables and command-line flags.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls operational log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Host is the interface both listeners bind to.
	Host string `koanf:"host" validate:"required,ip|hostname_rfc1123"`

	// Port is shared by the UDP and TCP listeners.
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`

	// QueryLog is the path of the append-only query log, or /dev/stdout.
	QueryLog string `koanf:"querylog" validate:"required"`

	QueryLogFormat     string `koanf:"querylog_format" validate:"required,oneof=json console"`
	QueryLogMaxSize    int    `koanf:"querylog_max_size" validate:"gte=0"`
	QueryLogMaxBackups int    `koanf:"querylog_max_backups" validate:"gte=0"`
	QueryLogMaxAge     int    `koanf:"querylog_max_age" validate:"gte=0"`
	QueryLogCompress   bool   `koanf:"querylog_compress"`

	// Authoritative sets the AA bit on every response.
	Authoritative bool `koanf:"authoritative"`

	// TrackerSize is the number of source addresses remembered for repeat-prober
	// annotation. Zero, the default, disables the tracker and keeps the
	// responder free of per-client state.
	TrackerSize int `koanf:"tracker_size" validate:"gte=0"`

	// TCPIdleTimeout closes TCP connections idle for this long. Zero means never.
	TCPIdleTimeout time.Duration `koanf:"tcp_idle_timeout" validate:"gte=0"`
}

// ListenAddr returns host:port for the listeners.
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DEFAULT_APP_CONFIG defines the default application configuration settings for the decoy.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                "prod",
	LogLevel:           "info",
	Host:               "0.0.0.0",
	Port:               5353,
	QueryLog:           "dns_honeypot.log",
	QueryLogFormat:     "json",
	QueryLogMaxSize:    100,
	QueryLogMaxBackups: 10,
	QueryLogMaxAge:     0,
	QueryLogCompress:   false,
	Authoritative:      true,
	TrackerSize:        0,
	TCPIdleTimeout:     0,
}

// flagOutput receives usage and parse errors from the flag set.
var flagOutput io.Writer = os.Stderr

// envLoader loads environment variables with the prefix "DNS_".
// Keys are lowercased with the prefix removed; it can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf instance
// using the structs provider and the DEFAULT_APP_CONFIG struct.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// flagLoader parses args and loads the flags on top of k. Each flag default
// is taken from the value k already holds, so a flag that is not given
// leaves the defaults and environment layers untouched.
var flagLoader = func(k *koanf.Koanf, args []string) error {
	fs := flag.NewFlagSet("rr-decoyd", flag.ContinueOnError)
	fs.SetOutput(flagOutput)
	fs.String("host", k.String("host"), "interface to bind the UDP and TCP listeners to")
	fs.Int("port", k.Int("port"), "port shared by the UDP and TCP listeners")
	fs.String("querylog", k.String("querylog"), "query log file path (/dev/stdout for standard output)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return k.Load(basicflag.Provider(fs, "."), nil)
}

// Load builds the configuration from defaults, environment and args (without
// the program name) and validates it. With -h the error wraps flag.ErrHelp.
func Load(args []string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if err := flagLoader(k, args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
