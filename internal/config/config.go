package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultLabelTemplate renders a label into a tag with spaces replaced by
// underscores.
const DefaultLabelTemplate = `{{replace .Label " " "_"}}`

var (
	// ErrMissingAPIKey indicates KANBOARD_API_KEY was not configured
	ErrMissingAPIKey = errors.New("KANBOARD_API_KEY not configured")

	// ErrMissingBaseURL indicates KANBOARD_BASE_URL was not configured
	ErrMissingBaseURL = errors.New("KANBOARD_BASE_URL not configured")
)

// Config holds the service configuration, read from KANBOARD_* environment
// variables.
type Config struct {
	APIKey             string
	BaseURL            string
	IncludeBoards      []int64
	IncludeLists       []string
	ExcludeLists       []string
	ImportLabelsAsTags bool
	LabelTemplate      string

	LogLevel string
	LogJSON  bool
}

// Load reads the configuration from the environment. Required keys are
// validated here, before any network call is made.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:             os.Getenv("KANBOARD_API_KEY"),
		BaseURL:            os.Getenv("KANBOARD_BASE_URL"),
		IncludeLists:       splitList(os.Getenv("KANBOARD_INCLUDE_LISTS")),
		ExcludeLists:       splitList(os.Getenv("KANBOARD_EXCLUDE_LISTS")),
		ImportLabelsAsTags: asBool(os.Getenv("KANBOARD_IMPORT_LABELS_AS_TAGS")),
		LabelTemplate:      os.Getenv("KANBOARD_LABEL_TEMPLATE"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		LogJSON:            asBool(os.Getenv("LOG_JSON")),
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	boards, err := parseBoardIDs(os.Getenv("KANBOARD_INCLUDE_BOARDS"))
	if err != nil {
		return nil, err
	}
	cfg.IncludeBoards = boards

	// Defaults
	if cfg.LabelTemplate == "" {
		cfg.LabelTemplate = DefaultLabelTemplate
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseBoardIDs parses KANBOARD_INCLUDE_BOARDS, preserving configured order.
func parseBoardIDs(value string) ([]int64, error) {
	items := splitList(value)
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("KANBOARD_INCLUDE_BOARDS: invalid board id %q", item)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// asBool accepts the usual truthy spellings; anything else is false.
func asBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
