package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                string        `mapstructure:"ENV"`
	Port               string        `mapstructure:"PORT"`
	GeocodeSearchURLs  string        `mapstructure:"GEOCODE_SEARCH_URLS"`
	GeocodeReverseURLs string        `mapstructure:"GEOCODE_REVERSE_URLS"`
	OverpassURLs       string        `mapstructure:"OVERPASS_URLS"`
	DatasetManifestURL string        `mapstructure:"DATASET_MANIFEST_URL"`
	UserAgent          string        `mapstructure:"USER_AGENT"`
	AdminKey           string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed        string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GEOCODE_SEARCH_URLS", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("GEOCODE_REVERSE_URLS", "https://nominatim.openstreetmap.org/reverse")
	v.SetDefault("OVERPASS_URLS", strings.Join([]string{
		"https://overpass-api.de/api/interpreter",
		"https://overpass.kumi.systems/api/interpreter",
		"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
	}, ","))
	v.SetDefault("DATASET_MANIFEST_URL", "http://localhost:8081/datasets/manifest.json")
	v.SetDefault("USER_AGENT", "zonal-backend/1.0")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SearchEndpoints returns the ordered geocode search endpoint list.
func (c Config) SearchEndpoints() []string { return splitList(c.GeocodeSearchURLs) }

// ReverseEndpoints returns the ordered geocode reverse endpoint list.
func (c Config) ReverseEndpoints() []string { return splitList(c.GeocodeReverseURLs) }

// OverpassEndpoints returns the ordered spatial endpoint list.
func (c Config) OverpassEndpoints() []string { return splitList(c.OverpassURLs) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
