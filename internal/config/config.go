package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "eventsboard"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
)

// Browser holds the headless session settings shared by every source.
type Browser struct {
	Headless  bool   `json:"headless"`
	TimeoutMS int    `json:"timeout_ms"`
	UserAgent string `json:"user_agent"`
}

func (b Browser) Timeout() time.Duration {
	if b.TimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutMS) * time.Millisecond
}

// Airtable identifies the hosted events table. The API key is never stored
// in the config file; it comes from EVENTSBOARD_AIRTABLE_API_KEY.
type Airtable struct {
	BaseID string `json:"base_id"`
	Table  string `json:"table"`
}

// Config drives a full ingestion run. The city allow-list, alias table and
// industry enum live here so the scraper pipeline and the listing frontend
// share one source of truth.
type Config struct {
	Cities          []string          `json:"cities"`
	CityAliases     map[string]string `json:"city_aliases"`
	ValidCities     []string          `json:"valid_cities"`
	ValidIndustries []string          `json:"valid_industries"`
	Sources         map[string]bool   `json:"sources"`
	Browser         Browser           `json:"browser"`
	Airtable        Airtable          `json:"airtable"`
	WebhookURL      string            `json:"webhook_url"`
	BatchDelayMS    int               `json:"batch_delay_ms"`
	SourcePauseMS   int               `json:"source_pause_ms"`
}

func (c Config) BatchDelay() time.Duration {
	if c.BatchDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.BatchDelayMS) * time.Millisecond
}

// SourcePause is the fixed pause between consecutive source runs.
func (c Config) SourcePause() time.Duration {
	if c.SourcePauseMS <= 0 {
		return time.Second
	}
	return time.Duration(c.SourcePauseMS) * time.Millisecond
}

// SourceEnabled reports per-source enablement; unknown sources default off.
func (c Config) SourceEnabled(name string) bool {
	return c.Sources[strings.ToLower(strings.TrimSpace(name))]
}

func DefaultConfig() Config {
	return Config{
		Cities: []string{"Austin", "San Francisco", "New York", "Miami"},
		CityAliases: map[string]string{
			"Brooklyn":  "New York",
			"Manhattan": "New York",
			"Oakland":   "San Francisco",
			"San Jose":  "San Francisco",
		},
		ValidCities: []string{
			"Austin", "San Francisco", "New York", "Miami", "Los Angeles",
			"Chicago", "Seattle", "Denver", "Boston", "Washington DC",
		},
		ValidIndustries: []string{
			"Technology", "AI", "Startup", "Finance", "Marketing",
			"Healthcare", "Legal", "General",
		},
		Sources: map[string]bool{
			"eventbrite":         true,
			"meetup":             true,
			"luma":               true,
			"emedevents":         true,
			"primed":             true,
			"ams":                true,
			"clio":               true,
			"startupgrind":       true,
			"uschamber":          true,
			"allconferencealert": true,
			"legalweek":          true,
		},
		Browser: Browser{
			Headless:  true,
			TimeoutMS: envInt("EVENTSBOARD_BROWSER_TIMEOUT_MS", 30000),
			UserAgent: envString("EVENTSBOARD_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
		},
		Airtable: Airtable{
			BaseID: envString("EVENTSBOARD_AIRTABLE_BASE_ID", ""),
			Table:  envString("EVENTSBOARD_AIRTABLE_TABLE", "Events"),
		},
		WebhookURL:    envString("EVENTSBOARD_WEBHOOK_URL", ""),
		BatchDelayMS:  2000,
		SourcePauseMS: 1000,
	}
}

// AirtableAPIKey reads the storage credential from the environment.
func AirtableAPIKey() string {
	return strings.TrimSpace(os.Getenv("EVENTSBOARD_AIRTABLE_API_KEY"))
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load reads the user config file on top of the defaults. A missing or
// empty file yields the defaults unchanged.
func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies resolves browser proxies from the flag, the environment, or
// the proxies file, in that order.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("EVENTSBOARD_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
