package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// TallyConfig holds the connection details for the source Tally instance,
// read once at startup so a ConfigError fails fast before any network I/O.
type TallyConfig struct {
	BaseURL        string
	CompanyName    string
	VoucherTimeout time.Duration
	MastersTimeout time.Duration
	SyncBatchDays  int
}

// LoadTallyConfig reads TALLY_* environment variables. Required vars missing
// produces an error describing all of them at once.
func LoadTallyConfig() (*TallyConfig, error) {
	baseURL := getenv("TALLY_BASE_URL")
	company := getenv("TALLY_COMPANY_NAME")

	var missing []string
	if baseURL == "" {
		missing = append(missing, "TALLY_BASE_URL")
	}
	if company == "" {
		missing = append(missing, "TALLY_COMPANY_NAME")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required env vars: %s", strings.Join(missing, ", "))
	}

	return &TallyConfig{
		BaseURL:        baseURL,
		CompanyName:    company,
		VoucherTimeout: time.Duration(intFromEnv("TALLY_REQUEST_TIMEOUT_VOUCHERS", 60)) * time.Second,
		MastersTimeout: time.Duration(intFromEnv("TALLY_REQUEST_TIMEOUT_MASTERS", 300)) * time.Second,
		SyncBatchDays:  intFromEnv("SYNC_BATCH_DAYS", 15),
	}, nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
