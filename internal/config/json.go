package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountd/internal/flagx"
	"github.com/dmitrijs2005/accountd/internal/timex"
)

// jsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type jsonConfig struct {
	DatabaseDSN          string         `json:"database_dsn"`
	SessionSecret        string         `json:"session_secret"`
	SessionTokenValidity timex.Duration `json:"session_token_validity"`
	SMTPAddr             string         `json:"smtp_addr"`
	EmailNoReply         string         `json:"email_noreply"`
	EmailName            string         `json:"email_name"`
	SiteName             string         `json:"site_name"`
}

// parseJSON loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flags;
// when neither is set, no JSON file is loaded. If the file cannot be read
// or contains invalid JSON, the function panics.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &jsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.SessionTokenValidity.Duration != 0 {
		config.SessionTokenValidity = c.SessionTokenValidity.Duration
	}
	if c.SMTPAddr != "" {
		config.SMTPAddr = c.SMTPAddr
	}
	if c.EmailNoReply != "" {
		config.EmailNoReply = c.EmailNoReply
	}
	if c.EmailName != "" {
		config.EmailName = c.EmailName
	}
	if c.SiteName != "" {
		config.SiteName = c.SiteName
	}
}
