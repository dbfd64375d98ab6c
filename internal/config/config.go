package config

import (
	"bouquet-tour-service/internal/services"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ZoneConfig is one row of the zone table, in canonical order.
type ZoneConfig struct {
	Name     string   `koanf:"name"`
	Prefixes []string `koanf:"prefixes"`
}

type PlanningConfig struct {
	MaxPerTour       int      `koanf:"max_per_tour"`
	MergeThreshold   int      `koanf:"merge_threshold"`
	MergeSlack       int      `koanf:"merge_slack"`
	DeliveryWeekdays []string `koanf:"delivery_weekdays"`
	HorizonWeeks     int      `koanf:"horizon_weeks"`
	AlertAfterDays   int      `koanf:"alert_after_days"`
}

type Config struct {
	Port        string         `koanf:"port"`
	DBPath      string         `koanf:"db_path"`
	DatabaseURL string         `koanf:"database_url"`
	SeedPath    string         `koanf:"seed_path"`
	HubAddress  string         `koanf:"hub_address"`
	ORSAPIKey   string         `koanf:"ors_api_key"`
	LogLevel    string         `koanf:"log_level"`
	AppEnv      string         `koanf:"app_env"`
	Planning    PlanningConfig `koanf:"planning"`
	Zones       []ZoneConfig   `koanf:"zones"`
}

// Environment variables recognised by Load and the config key they set.
var envKeys = map[string]string{
	"PORT":              "port",
	"DB_PATH":           "db_path",
	"DATABASE_URL":      "database_url",
	"SEED_PATH":         "seed_path",
	"HUB_ADDRESS":       "hub_address",
	"ORS_API_KEY":       "ors_api_key",
	"LOG_LEVEL":         "log_level",
	"APP_ENV":           "app_env",
	"MAX_PER_TOUR":      "planning.max_per_tour",
	"MERGE_THRESHOLD":   "planning.merge_threshold",
	"MERGE_SLACK":       "planning.merge_slack",
	"DELIVERY_WEEKDAYS": "planning.delivery_weekdays",
	"HORIZON_WEEKS":     "planning.horizon_weeks",
	"ALERT_AFTER_DAYS":  "planning.alert_after_days",
}

func defaults() Config {
	return Config{
		Port:     "8080",
		DBPath:   "data/app.db",
		SeedPath: "data/seeds/demo.json",
		LogLevel: "info",
		Planning: PlanningConfig{
			MaxPerTour:       12,
			MergeThreshold:   5,
			MergeSlack:       3,
			DeliveryWeekdays: []string{"tuesday", "friday"},
			HorizonWeeks:     4,
			AlertAfterDays:   4,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local runs.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config: read %q: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config: stat %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port is required")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" && strings.TrimSpace(c.DBPath) == "" {
		return errors.New("either DATABASE_URL or DB_PATH is required")
	}
	p := c.Planning
	if p.MaxPerTour < 1 {
		return fmt.Errorf("max_per_tour must be positive, got %d", p.MaxPerTour)
	}
	if p.MergeThreshold < 0 || p.MergeSlack < 0 {
		return errors.New("merge_threshold and merge_slack must not be negative")
	}
	if p.HorizonWeeks < 1 {
		return fmt.Errorf("horizon_weeks must be positive, got %d", p.HorizonWeeks)
	}
	if p.AlertAfterDays < 0 {
		return fmt.Errorf("alert_after_days must not be negative, got %d", p.AlertAfterDays)
	}
	if _, err := c.Weekdays(); err != nil {
		return err
	}
	return nil
}

// Weekdays parses the configured delivery weekdays.
func (c *Config) Weekdays() ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(c.Planning.DeliveryWeekdays))
	for _, raw := range c.Planning.DeliveryWeekdays {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			wd, err := services.ParseWeekday(part)
			if err != nil {
				return nil, err
			}
			out = append(out, wd)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("at least one delivery weekday is required")
	}
	return out, nil
}

// ZoneTable returns the configured zone table, or the built-in one when the
// configuration defines none.
func (c *Config) ZoneTable() []services.ZoneDefinition {
	if len(c.Zones) == 0 {
		return services.DefaultZones()
	}
	out := make([]services.ZoneDefinition, 0, len(c.Zones))
	for _, z := range c.Zones {
		out = append(out, services.ZoneDefinition{Name: z.Name, Prefixes: z.Prefixes})
	}
	return out
}

// PlannerConfig maps the configuration onto the engine's tunables.
func (c *Config) PlannerConfig() (services.PlannerConfig, error) {
	weekdays, err := c.Weekdays()
	if err != nil {
		return services.PlannerConfig{}, err
	}

	pc := services.DefaultPlannerConfig()
	pc.Tours = services.TourOptions{
		MaxPerTour:     c.Planning.MaxPerTour,
		MergeThreshold: c.Planning.MergeThreshold,
		MergeSlack:     c.Planning.MergeSlack,
	}
	pc.Calendar = services.DeliveryCalendar{
		Weekdays:     weekdays,
		HorizonWeeks: c.Planning.HorizonWeeks,
	}
	pc.Inbox.AlertAfterDays = c.Planning.AlertAfterDays
	pc.Inbox.MaxPerTour = c.Planning.MaxPerTour
	pc.HubAddress = c.HubAddress
	return pc, nil
}
