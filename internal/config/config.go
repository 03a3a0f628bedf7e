package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	RootDir        string
	Source         string
	InputPath      string
	XLSXSheet      string
	ProductsOut    string
	CategoriesOut  string
	ReviewXLSXPath string
	OverridesPath  string
	DBPath         string
	RawDir         string

	SourceURL     string
	HTTPTimeoutMs int
	HTTPRetries   int

	SheetsID           string
	SheetsRange        string
	GoogleAPIKey       string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string

	WatchIntervalSec int

	LogMode  string
	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	root := getEnv("CATALOG_ROOT_DIR", cwd)
	cfg := Config{
		RootDir:        root,
		Source:         strings.ToLower(getEnv("CATALOG_SOURCE", "auto")),
		InputPath:      getEnv("CATALOG_INPUT_PATH", filepath.Join(root, "..", "docs", "aushen_product_library.csv")),
		XLSXSheet:      getEnv("CATALOG_XLSX_SHEET", ""),
		ProductsOut:    getEnv("CATALOG_PRODUCTS_OUT", filepath.Join(root, "src", "data", "products.generated.ts")),
		CategoriesOut:  getEnv("CATALOG_CATEGORIES_OUT", filepath.Join(root, "src", "data", "categories.generated.ts")),
		ReviewXLSXPath: getEnv("CATALOG_REVIEW_XLSX", ""),
		OverridesPath:  getEnv("CATALOG_OVERRIDES_PATH", ""),
		DBPath:         getEnv("CATALOG_DB_PATH", ""),
		RawDir:         getEnv("CATALOG_RAW_DIR", filepath.Join(root, "data", "raw")),

		SourceURL:     getEnv("CATALOG_SOURCE_URL", ""),
		HTTPTimeoutMs: getEnvInt("CATALOG_HTTP_TIMEOUT_MS", 30000),
		HTTPRetries:   getEnvInt("CATALOG_HTTP_RETRIES", 5),

		SheetsID:           getEnv("GOOGLE_SHEETS_ID", ""),
		SheetsRange:        getEnv("GOOGLE_SHEETS_RANGE", "A:Z"),
		GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		WatchIntervalSec: getEnvInt("CATALOG_WATCH_INTERVAL_SEC", 5),

		LogMode:  getEnv("LOG_MODE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// LedgerEnabled reports whether runs should be recorded in sqlite.
func (c Config) LedgerEnabled() bool {
	return strings.TrimSpace(c.DBPath) != ""
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
