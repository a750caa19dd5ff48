// Package config loads guard configuration from an optional YAML file and
// environment variables. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full daemon configuration.
type Config struct {
	Server    Server      `yaml:"server"`
	Storage   Storage     `yaml:"storage"`
	Cohesion  Cohesion    `yaml:"cohesion"`
	Commands  Commands    `yaml:"commands"`
	Duress    Duress      `yaml:"duress"`
	Intruder  Intruder    `yaml:"intruder"`
	Breach    Breach      `yaml:"breach"`
	Redis     RedisConfig `yaml:"redis"`
	Profile   Profile     `yaml:"profile"`
	AccessLog AccessLog   `yaml:"access_log"`
	Presence  Presence    `yaml:"presence"`
	LogLevel  string      `yaml:"log_level"`
}

// Server captures the local control API configuration.
type Server struct {
	Addr string `yaml:"addr"`
}

// Storage locates durable local state.
type Storage struct {
	StateDir   string `yaml:"state_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

type StaticPosition struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Accuracy  float64 `yaml:"accuracy"`
}

// Cohesion holds the verification budgets and tolerances.
type Cohesion struct {
	Window          time.Duration `yaml:"window"`
	PositionTimeout time.Duration `yaml:"position_timeout"`
	FingerTimeout   time.Duration `yaml:"finger_timeout"`
	LivenessMin     float64       `yaml:"liveness_min"`
	LivenessGap     time.Duration `yaml:"liveness_gap"`
	FaceTolerance   float64       `yaml:"face_tolerance"`
	MaxDistanceM    float64       `yaml:"max_distance_m"`
	ScreenWidth     int           `yaml:"screen_width"`
	ScreenHeight    int           `yaml:"screen_height"`
	LocatorURL      string        `yaml:"locator_url"`
	PositionRefresh time.Duration `yaml:"position_refresh"`
	// StaticPosition pins the position anchor to fixed coordinates when no
	// locator URL is set.
	StaticPosition *StaticPosition `yaml:"static_position"`
	CameraURL       string        `yaml:"camera_url"`
	// UserAgent is the local shell's user agent, used for device signals.
	UserAgent string `yaml:"user_agent"`
}

// Commands configures the lock and DE_VITALIZE command channel.
type Commands struct {
	PushURL           string        `yaml:"push_url"`
	PollURL           string        `yaml:"poll_url"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	PushRetryInterval time.Duration `yaml:"push_retry_interval"`
	DeVitalizeToken   string        `yaml:"devitalize_token"`
	BroadcastChannel  string        `yaml:"broadcast_channel"`
}

type Duress struct {
	Multiplier float64 `yaml:"multiplier"`
	PulseURL   string  `yaml:"pulse_url"`
}

// Intruder configures the breach monitor cadence and thresholds.
type Intruder struct {
	Tick               time.Duration `yaml:"tick"`
	Tolerance          float64       `yaml:"tolerance"`
	ProximityThreshold int           `yaml:"proximity_threshold"`
	SnapThreshold      int           `yaml:"snap_threshold"`
	LookAwayTimeout    time.Duration `yaml:"look_away_timeout"`
	ClipLength         time.Duration `yaml:"clip_length"`
}

// Breach configures evidence encryption and optional export.
type Breach struct {
	Salt     string `yaml:"salt"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Prefix string `yaml:"s3_prefix"`
	S3Region string `yaml:"s3_region"`
	// S3Endpoint targets an S3-compatible store with path-style addressing.
	S3Endpoint string `yaml:"s3_endpoint"`
}

// RedisConfig configures the optional local broadcast bus.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Profile configures the backend collaborators.
type Profile struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	MintURL     string `yaml:"mint_url"`
}

type AccessLog struct {
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
}

// Presence configures the acknowledgment sent to the desktop process guard.
type Presence struct {
	SigningKey string        `yaml:"signing_key"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	NotifyURL  string        `yaml:"notify_url"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	stateDir := filepath.Join(os.TempDir(), "sovereign-guard")
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".sovereign")
	}
	return Config{
		Server: Server{Addr: "127.0.0.1:7443"},
		Storage: Storage{
			StateDir:   stateDir,
			SQLitePath: filepath.Join(stateDir, "guard.db"),
		},
		Cohesion: Cohesion{
			Window:          1500 * time.Millisecond,
			PositionTimeout: 10 * time.Second,
			FingerTimeout:   1200 * time.Millisecond,
			LivenessMin:     0.98,
			LivenessGap:     150 * time.Millisecond,
			FaceTolerance:   0.15,
			MaxDistanceM:    100,
			ScreenWidth:     1920,
			ScreenHeight:    1080,
			PositionRefresh: 5 * time.Minute,
		},
		Commands: Commands{
			PollInterval:      10 * time.Second,
			PushRetryInterval: 30 * time.Second,
			DeVitalizeToken:   "SOVEREIGN_DEVITALIZE_V1",
			BroadcastChannel:  "sovereign:lock",
		},
		Duress: Duress{Multiplier: 1.4},
		Intruder: Intruder{
			Tick:               500 * time.Millisecond,
			Tolerance:          0.25,
			ProximityThreshold: 2,
			SnapThreshold:      4,
			LookAwayTimeout:    30 * time.Second,
			ClipLength:         3 * time.Second,
		},
		Breach: Breach{
			Salt:     "sovereign-breach-vault-v1",
			S3Prefix: "breaches",
		},
		Redis: RedisConfig{
			PoolSize:     4,
			MinIdleConns: 1,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		AccessLog: AccessLog{KafkaTopic: "sovereign.access"},
		Presence: Presence{
			SigningKey: "dev-presence-key-change-in-production",
			TokenTTL:   30 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads GUARD_CONFIG_FILE if set, then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("GUARD_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a Config from defaults and environment variables only.
func FromEnv() (Config, error) {
	cfg := Default()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	var errs []string
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = f
		}
	}

	str("GUARD_ADDR", &cfg.Server.Addr)
	if v := os.Getenv("GUARD_STATE_DIR"); v != "" {
		cfg.Storage.StateDir = v
		cfg.Storage.SQLitePath = filepath.Join(v, "guard.db")
	}
	str("GUARD_SQLITE_PATH", &cfg.Storage.SQLitePath)
	dur("GUARD_VERIFY_WINDOW", &cfg.Cohesion.Window)
	dur("GUARD_POSITION_TIMEOUT", &cfg.Cohesion.PositionTimeout)
	dur("GUARD_FINGER_TIMEOUT", &cfg.Cohesion.FingerTimeout)
	num("GUARD_LIVENESS_MIN", &cfg.Cohesion.LivenessMin)
	str("GUARD_LOCATOR_URL", &cfg.Cohesion.LocatorURL)
	dur("GUARD_POSITION_REFRESH", &cfg.Cohesion.PositionRefresh)
	if v := os.Getenv("GUARD_STATIC_POSITION"); v != "" {
		pos, err := parseStaticPosition(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("GUARD_STATIC_POSITION: %v", err))
		} else {
			cfg.Cohesion.StaticPosition = pos
		}
	}
	str("GUARD_CAMERA_URL", &cfg.Cohesion.CameraURL)
	str("GUARD_SHELL_USER_AGENT", &cfg.Cohesion.UserAgent)
	str("GUARD_PUSH_URL", &cfg.Commands.PushURL)
	str("GUARD_POLL_URL", &cfg.Commands.PollURL)
	dur("GUARD_POLL_INTERVAL", &cfg.Commands.PollInterval)
	dur("GUARD_PUSH_RETRY_INTERVAL", &cfg.Commands.PushRetryInterval)
	str("GUARD_DEVITALIZE_TOKEN", &cfg.Commands.DeVitalizeToken)
	num("GUARD_DURESS_MULTIPLIER", &cfg.Duress.Multiplier)
	str("GUARD_PULSE_URL", &cfg.Duress.PulseURL)
	dur("GUARD_INTRUDER_TICK", &cfg.Intruder.Tick)
	dur("GUARD_LOOK_AWAY_TIMEOUT", &cfg.Intruder.LookAwayTimeout)
	str("GUARD_BREACH_SALT", &cfg.Breach.Salt)
	str("GUARD_BREACH_S3_BUCKET", &cfg.Breach.S3Bucket)
	str("GUARD_BREACH_S3_REGION", &cfg.Breach.S3Region)
	str("GUARD_BREACH_S3_ENDPOINT", &cfg.Breach.S3Endpoint)
	str("REDIS_URL", &cfg.Redis.URL)
	str("PROFILE_POSTGRES_DSN", &cfg.Profile.PostgresDSN)
	str("MINT_URL", &cfg.Profile.MintURL)
	if v := os.Getenv("ACCESS_LOG_KAFKA_BROKERS"); v != "" {
		cfg.AccessLog.KafkaBrokers = strings.Split(v, ",")
	}
	str("ACCESS_LOG_KAFKA_TOPIC", &cfg.AccessLog.KafkaTopic)
	str("PRESENCE_SIGNING_KEY", &cfg.Presence.SigningKey)
	str("PRESENCE_NOTIFY_URL", &cfg.Presence.NotifyURL)
	str("LOG_LEVEL", &cfg.LogLevel)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// parseStaticPosition reads "lat,lon" or "lat,lon,accuracy".
func parseStaticPosition(v string) (*StaticPosition, error) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("want lat,lon[,accuracy], got %q", v)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = f
	}
	pos := &StaticPosition{Latitude: vals[0], Longitude: vals[1]}
	if len(vals) == 3 {
		pos.Accuracy = vals[2]
	}
	if pos.Latitude < -90 || pos.Latitude > 90 || pos.Longitude < -180 || pos.Longitude > 180 {
		return nil, fmt.Errorf("coordinates out of range: %q", v)
	}
	return pos, nil
}
