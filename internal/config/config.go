package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	CollisionOverwrite = "overwrite"
	CollisionReject    = "reject"
)

type Config struct {
	DBPath        string
	LedgerEnabled bool

	DataDir         string
	LogosDir        string
	TeamsJSONPath   string
	LogoURLPrefix   string
	SeedPath        string
	PlaceholderLogo string

	ReportPath  string
	ReportTitle string

	FetchTimeoutMs  int
	FetchUserAgent  string
	CollisionPolicy string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))
	cfg := Config{
		DBPath:        getEnv("DB_PATH", filepath.Join(dataDir, "clublogos.db")),
		LedgerEnabled: getEnvBool("LEDGER_ENABLED", true),

		DataDir:         dataDir,
		LogosDir:        getEnv("LOGOS_DIR", filepath.Join(cwd, "public", "team-logos")),
		TeamsJSONPath:   getEnv("TEAMS_JSON_PATH", filepath.Join(dataDir, "teams.json")),
		LogoURLPrefix:   getEnv("LOGO_URL_PREFIX", "/team-logos/"),
		SeedPath:        getEnv("SEED_PATH", ""),
		PlaceholderLogo: getEnv("PLACEHOLDER_LOGO", "/team-logos/placeholder.png"),

		ReportPath:  getEnv("REPORT_PATH", "teams_data.txt"),
		ReportTitle: getEnv("REPORT_TITLE", "FIFA Club World Cup 2025 Teams"),

		FetchTimeoutMs:  getEnvInt("FETCH_TIMEOUT_MS", 30000),
		FetchUserAgent:  getEnv("FETCH_USER_AGENT", "clublogos/1.0"),
		CollisionPolicy: collisionPolicy(),
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.CollisionPolicy {
	case CollisionOverwrite, CollisionReject:
	default:
		return fmt.Errorf("unsupported collision policy: %s", c.CollisionPolicy)
	}
	if c.FetchTimeoutMs < 0 {
		return fmt.Errorf("FETCH_TIMEOUT_MS must not be negative: %d", c.FetchTimeoutMs)
	}
	if strings.TrimSpace(c.LogosDir) == "" || strings.TrimSpace(c.TeamsJSONPath) == "" {
		return fmt.Errorf("LOGOS_DIR and TEAMS_JSON_PATH must be set")
	}
	return nil
}

// collisionPolicy treats a set-but-blank COLLISION_POLICY as unset.
func collisionPolicy() string {
	value := strings.ToLower(strings.TrimSpace(getEnv("COLLISION_POLICY", "")))
	if value == "" {
		return CollisionOverwrite
	}
	return value
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
