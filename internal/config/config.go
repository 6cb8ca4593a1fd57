package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port    string
	DataDir string
	DBPath  string

	// Dataset file names, resolved against DataDir
	ReferenceFile  string
	TACFile        string
	SubscriberFile string
	VLRFile        string
	ZTERSRPFile    string
	HuaweiRSRPFile string
	LTEFile        string
	HLRVLRFile     string
	CallDropFile   string

	SessionSecret   string
	SessionLifetime time.Duration
	AdminUsername   string
	AdminPassword   string

	CacheTTL        time.Duration
	CacheSweepEvery int
	MapCacheSize    int

	RateLimit  int
	RateWindow time.Duration

	LogLevel  string
	LogFormat string

	SummarizerURL     string
	SummarizerToken   string
	SummarizerTimeout time.Duration

	// warnings collected while parsing the environment
	warnings []string
}

// Load 加载配置
func Load() *Config {
	cfg := &Config{}

	cfg.Port = cfg.str("PORT", ":5000")
	cfg.DataDir = cfg.str("DATA_DIR", "./data_files")
	cfg.DBPath = cfg.str("DB_PATH", "./data/reference.db")

	cfg.ReferenceFile = cfg.str("REFERENCE_FILE", "Reference_Data_Cell_Locations_20250403.csv")
	cfg.TACFile = cfg.str("TAC_FILE", "TACD_UPDATED.csv")
	cfg.SubscriberFile = cfg.str("SUBSCRIBER_FILE", "All_2025-4-2_3.txt")
	cfg.VLRFile = cfg.str("VLR_FILE", "VLRD_Sample.xlsx")
	cfg.ZTERSRPFile = cfg.str("ZTE_RSRP_FILE", "ZTE RSRP.xlsx")
	cfg.HuaweiRSRPFile = cfg.str("HUAWEI_RSRP_FILE", "Huawei RSRP.xlsx")
	cfg.LTEFile = cfg.str("LTE_FILE", "LTE Utilization Report - June v2.xlsx")
	cfg.HLRVLRFile = cfg.str("HLR_VLR_FILE", "HLR_VLR_Subbase.xlsx")
	cfg.CallDropFile = cfg.str("CALL_DROP_FILE", "Call_Drop_Rate_3G.xlsx")

	cfg.SessionSecret = cfg.str("SESSION_SECRET", "change-me-session-secret")
	cfg.SessionLifetime = cfg.duration("SESSION_LIFETIME", 10*time.Minute)
	cfg.AdminUsername = cfg.str("ADMIN_USERNAME", "admin")
	cfg.AdminPassword = cfg.str("ADMIN_PASSWORD", "admin")

	cfg.CacheTTL = cfg.duration("CACHE_TTL", 300*time.Second)
	cfg.CacheSweepEvery = cfg.integer("CACHE_SWEEP_EVERY", 10)
	cfg.MapCacheSize = cfg.integer("MAP_CACHE_SIZE", 256)

	cfg.RateLimit = cfg.integer("RATE_LIMIT", 120)
	cfg.RateWindow = cfg.duration("RATE_WINDOW", time.Minute)

	cfg.LogLevel = cfg.str("LOG_LEVEL", "info")
	cfg.LogFormat = cfg.str("LOG_FORMAT", "text")

	cfg.SummarizerURL = cfg.str("SUMMARIZER_URL", "")
	cfg.SummarizerToken = cfg.str("SUMMARIZER_TOKEN", "")
	cfg.SummarizerTimeout = cfg.duration("SUMMARIZER_TIMEOUT", 20*time.Second)

	return cfg
}

// Path resolves a dataset file name against the data directory.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Validate returns the problems found while reading the environment.
// None of them are fatal: every bad value has already been replaced by its default.
func (c *Config) Validate() []string {
	out := append([]string(nil), c.warnings...)
	if c.CacheSweepEvery <= 0 {
		out = append(out, "CACHE_SWEEP_EVERY must be positive, using 10")
		c.CacheSweepEvery = 10
	}
	if c.MapCacheSize <= 0 {
		out = append(out, "MAP_CACHE_SIZE must be positive, using 256")
		c.MapCacheSize = 256
	}
	if c.SessionSecret == "change-me-session-secret" {
		out = append(out, "SESSION_SECRET is not set, using the development secret")
	}
	return out
}

func (c *Config) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.warnings = append(c.warnings, fmt.Sprintf("%s=%q is not an integer, using %d", key, v, def))
		return def
	}
	return n
}

// duration accepts Go duration syntax ("90s", "5m") or a bare number of seconds.
func (c *Config) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.warnings = append(c.warnings, fmt.Sprintf("%s=%q is not a duration, using %s", key, v, def))
		return def
	}
	return d
}
