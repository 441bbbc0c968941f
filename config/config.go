// Package config loads the run configuration of the ligaplan tool.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// LIGAPLAN_* environment variables (which may come from a .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// NoDatabase disables SQLite persistence when used as the database path.
const NoDatabase = "none"

// EnvPrefix prefixes every environment variable read by [EnvOverlay].
const EnvPrefix = "LIGAPLAN_"

// Team is one team whose schedule is extracted. Exactly one of GroupURL,
// ScheduleURL and File is set.
type Team struct {
	Name        string `yaml:"name"`
	GroupURL    string `yaml:"group_url,omitempty"`
	ScheduleURL string `yaml:"schedule_url,omitempty"`
	File        string `yaml:"file,omitempty"`
}

// Roster is one ranking page of the club.
type Roster struct {
	Pool string `yaml:"pool"`
	URL  string `yaml:"url,omitempty"`
	File string `yaml:"file,omitempty"`
}

// Config holds the settings of a run.
type Config struct {
	BaseURL     string        `yaml:"base_url,omitempty"`
	HostMarker  string        `yaml:"host_marker,omitempty"`
	Seasons     []string      `yaml:"seasons,omitempty"`
	OutputDir   string        `yaml:"output_dir,omitempty"`
	Database    string        `yaml:"database,omitempty"`
	Concurrency int           `yaml:"concurrency,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	LogLevel    string        `yaml:"log_level,omitempty"`
	Teams       []Team        `yaml:"teams,omitempty"`
	Rosters     []Roster      `yaml:"rosters,omitempty"`
}

const (
	baseURL   = "https://bvbb-badminton.liga.nu"
	groupPage = baseURL + "/cgi-bin/WebObjects/nuLigaBADDE.woa/wa/groupPage?championship=BBMM+22%2F23&group="
	clubPools = baseURL + "/cgi-bin/WebObjects/nuLigaBADDE.woa/wa/clubPools?displayTyp=vorrunde&club=18281&seasonName=2022%2F23&contestType="
)

// Defaults returns the configuration for the club's 2022/23 season.
func Defaults() Config {
	groups := []string{"30319", "30337", "30339", "30356", "30355", "30335"}
	teams := make([]Team, len(groups))
	for i, g := range groups {
		teams[i] = Team{Name: fmt.Sprintf("Team%d", i+1), GroupURL: groupPage + g}
	}

	return Config{
		BaseURL:     baseURL,
		HostMarker:  "Kiefholz",
		Seasons:     []string{"2022", "2023"},
		OutputDir:   "out",
		Database:    "out/ligaplan.db",
		Concurrency: 4,
		Timeout:     60 * time.Second,
		LogLevel:    "info",
		Teams:       teams,
		Rosters: []Roster{
			{Pool: "men", URL: clubPools + "Herren"},
			{Pool: "women", URL: clubPools + "Damen"},
		},
	}
}

// Load reads a YAML configuration file. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration data.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment. Variables that
// are already set are not overridden. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// EnvOverlay builds a partial configuration from LIGAPLAN_* entries of
// environ (KEY=value form, as returned by os.Environ). Seasons are
// comma-separated.
func EnvOverlay(environ []string) (Config, error) {
	var cfg Config
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.TrimPrefix(key, EnvPrefix) {
		case "BASE_URL":
			cfg.BaseURL = value
		case "HOST_MARKER":
			cfg.HostMarker = value
		case "SEASONS":
			cfg.Seasons = splitList(value)
		case "OUTPUT_DIR":
			cfg.OutputDir = value
		case "DATABASE":
			cfg.Database = value
		case "CONCURRENCY":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			cfg.Concurrency = n
		case "TIMEOUT":
			d, err := time.ParseDuration(value)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", key, err)
			}
			cfg.Timeout = d
		case "LOG_LEVEL":
			cfg.LogLevel = value
		}
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Merge returns base with every non-zero field of over applied. Lists are
// replaced as a whole.
func Merge(base, over Config) Config {
	out := base
	if over.BaseURL != "" {
		out.BaseURL = over.BaseURL
	}
	if over.HostMarker != "" {
		out.HostMarker = over.HostMarker
	}
	if len(over.Seasons) > 0 {
		out.Seasons = append([]string(nil), over.Seasons...)
	}
	if over.OutputDir != "" {
		out.OutputDir = over.OutputDir
	}
	if over.Database != "" {
		out.Database = over.Database
	}
	if over.Concurrency != 0 {
		out.Concurrency = over.Concurrency
	}
	if over.Timeout != 0 {
		out.Timeout = over.Timeout
	}
	if over.LogLevel != "" {
		out.LogLevel = over.LogLevel
	}
	if len(over.Teams) > 0 {
		out.Teams = append([]Team(nil), over.Teams...)
	}
	if len(over.Rosters) > 0 {
		out.Rosters = append([]Roster(nil), over.Rosters...)
	}
	return out
}

// Build layers defaults, the YAML file at path (skipped when empty) and the
// environment overlay, then validates the result.
func Build(path string, environ []string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		file, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = Merge(cfg, file)
	}

	env, err := EnvOverlay(environ)
	if err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	cfg = Merge(cfg, env)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UseDatabase reports whether results are persisted to SQLite.
func (c Config) UseDatabase() bool {
	return c.Database != "" && c.Database != NoDatabase
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HostMarker) == "" {
		errs = append(errs, errors.New("host marker must not be empty"))
	}
	if len(c.Seasons) == 0 {
		errs = append(errs, errors.New("at least one season is required"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}

	seen := make(map[string]bool)
	for i, t := range c.Teams {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("team %d: name is required", i+1))
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("team %s: duplicate name", t.Name))
		}
		seen[t.Name] = true
		if n := countSet(t.GroupURL, t.ScheduleURL, t.File); n != 1 {
			errs = append(errs, fmt.Errorf("team %s: exactly one of group_url, schedule_url, file is required", t.Name))
		}
	}
	pools := make(map[string]bool)
	for i, r := range c.Rosters {
		if r.Pool == "" {
			errs = append(errs, fmt.Errorf("roster %d: pool is required", i+1))
			continue
		}
		if pools[r.Pool] {
			errs = append(errs, fmt.Errorf("roster %s: duplicate pool", r.Pool))
		}
		pools[r.Pool] = true
		if countSet(r.URL, r.File) != 1 {
			errs = append(errs, fmt.Errorf("roster %s: exactly one of url, file is required", r.Pool))
		}
	}
	return errors.Join(errs...)
}

func countSet(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}
