package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Headless      bool
	DefaultCEP    string
	PageLoadDelay time.Duration
	PaceBase      time.Duration
	PaceJitter    time.Duration
	SearchPace    time.Duration
	FetchRetries  int
	FetchTimeout  time.Duration
	DBPath        string
	SitesFile     string
	UseBrowser    bool
}

func Load() *Config {
	return &Config{
		Headless:      getEnvBool("HEADLESS", true),
		DefaultCEP:    getEnv("CEP_DEFAULT", "14401-426"),
		PageLoadDelay: getEnvDuration("PAGE_LOAD_DELAY", 2*time.Second),
		PaceBase:      getEnvDuration("PACE_BASE", 700*time.Millisecond),
		PaceJitter:    getEnvDuration("PACE_JITTER", time.Second),
		SearchPace:    getEnvDuration("SEARCH_PACE", 700*time.Millisecond),
		FetchRetries:  getEnvInt("FETCH_RETRIES", 2),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
		DBPath:        getEnv("DB_PATH", "precoscan.db"),
		SitesFile:     getEnv("SITES_FILE", ""),
		UseBrowser:    getEnvBool("USE_BROWSER", true),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
