package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Ambient holds the tool-level defaults a run falls back to when a caller
// doesn't override them: the default per-call timeout, the worker-process
// keep-alive watchdog interval, and the worker binary path (SPEC_FULL.md §2
// AMBIENT STACK — "Configuration"). It is loaded once per process, never
// per-run, and never carries run-scoped `getConfig` values.
type Ambient struct {
	DefaultTimeout   time.Duration `yaml:"-"`
	WatchdogInterval time.Duration `yaml:"-"`
	WorkerBinary     string        `yaml:"workerBinary"`
}

// ambientYAML is Ambient's on-disk shape: durations are plain milliseconds,
// since yaml.v3 has no built-in time.Duration codec.
type ambientYAML struct {
	DefaultTimeoutMs *int   `yaml:"defaultTimeoutMs"`
	WatchdogMs       *int   `yaml:"watchdogMs"`
	WorkerBinary     string `yaml:"workerBinary"`
}

// DefaultAmbient mirrors the constants spec.md names explicitly: a 2000ms
// default per-call timeout (§4.5) and a 2000ms default watchdog (§4.7).
func DefaultAmbient() Ambient {
	return Ambient{
		DefaultTimeout:   2000 * time.Millisecond,
		WatchdogInterval: 2000 * time.Millisecond,
		WorkerBinary:     "",
	}
}

// LoadAmbient reads ergotest.yml from dir (if present), then applies
// ERGOTEST_*-prefixed environment overrides, loading a .env file first via
// godotenv the way richblack-ink-gateway's services package does for its
// own process-wide settings. A missing ergotest.yml or .env is not an
// error — both are optional, and LoadAmbient falls back to
// DefaultAmbient().
func LoadAmbient(dir string) (Ambient, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	ambient := DefaultAmbient()

	path := filepath.Join(dir, "ergotest.yml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fine, use defaults
	case err != nil:
		return Ambient{}, err
	default:
		var raw ambientYAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Ambient{}, err
		}
		if raw.DefaultTimeoutMs != nil {
			ambient.DefaultTimeout = time.Duration(*raw.DefaultTimeoutMs) * time.Millisecond
		}
		if raw.WatchdogMs != nil {
			ambient.WatchdogInterval = time.Duration(*raw.WatchdogMs) * time.Millisecond
		}
		if raw.WorkerBinary != "" {
			ambient.WorkerBinary = raw.WorkerBinary
		}
	}

	applyEnvOverrides(&ambient)
	return ambient, nil
}

func applyEnvOverrides(a *Ambient) {
	if v, ok := os.LookupEnv("ERGOTEST_DEFAULT_TIMEOUT_MS"); ok {
		if ms, err := strconv.Atoi(v); err == nil {
			a.DefaultTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v, ok := os.LookupEnv("ERGOTEST_WATCHDOG_MS"); ok {
		if ms, err := strconv.Atoi(v); err == nil {
			a.WatchdogInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v, ok := os.LookupEnv("ERGOTEST_WORKER_BINARY"); ok && v != "" {
		a.WorkerBinary = v
	}
}
