package config

import (
	"encoding/json"
	"os"

	"github.com/gamix-app/auth-service/internal/flagx"
	"github.com/gamix-app/auth-service/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`

	LoginAttemptThreshold int            `json:"login_attempt_threshold"`
	LoginLockoutDuration  timex.Duration `json:"login_lockout_duration"`

	RecoveryCodeLength           int            `json:"recovery_code_length"`
	RecoveryCodeValidityDuration timex.Duration `json:"recovery_code_validity_duration"`

	BCryptCost      int            `json:"bcrypt_cost"`
	ProviderTimeout timex.Duration `json:"provider_timeout"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`

	GitHubClientID       string `json:"github_client_id"`
	GitHubClientSecret   string `json:"github_client_secret"`
	LinkedInClientID     string `json:"linkedin_client_id"`
	LinkedInClientSecret string `json:"linkedin_client_secret"`

	SESRegion       string `json:"ses_region"`
	SESAccessKey    string `json:"ses_access_key"`
	SESSecretKey    string `json:"ses_secret_key"`
	SESSender       string `json:"ses_sender"`
	SESBaseEndpoint string `json:"ses_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. Only fields present in the file override
// the current values. If the file cannot be read or contains invalid JSON,
// the function panics: a requested-but-broken config file is fatal.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.LoginAttemptThreshold != 0 {
		config.LoginAttemptThreshold = c.LoginAttemptThreshold
	}
	if c.LoginLockoutDuration.Duration != 0 {
		config.LoginLockoutDuration = c.LoginLockoutDuration.Duration
	}
	if c.RecoveryCodeLength != 0 {
		config.RecoveryCodeLength = c.RecoveryCodeLength
	}
	if c.RecoveryCodeValidityDuration.Duration != 0 {
		config.RecoveryCodeValidityDuration = c.RecoveryCodeValidityDuration.Duration
	}
	if c.BCryptCost != 0 {
		config.BCryptCost = c.BCryptCost
	}
	if c.ProviderTimeout.Duration != 0 {
		config.ProviderTimeout = c.ProviderTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.GitHubClientID != "" {
		config.GitHubClientID = c.GitHubClientID
	}
	if c.GitHubClientSecret != "" {
		config.GitHubClientSecret = c.GitHubClientSecret
	}
	if c.LinkedInClientID != "" {
		config.LinkedInClientID = c.LinkedInClientID
	}
	if c.LinkedInClientSecret != "" {
		config.LinkedInClientSecret = c.LinkedInClientSecret
	}
	if c.SESRegion != "" {
		config.SESRegion = c.SESRegion
	}
	if c.SESAccessKey != "" {
		config.SESAccessKey = c.SESAccessKey
	}
	if c.SESSecretKey != "" {
		config.SESSecretKey = c.SESSecretKey
	}
	if c.SESSender != "" {
		config.SESSender = c.SESSender
	}
	if c.SESBaseEndpoint != "" {
		config.SESBaseEndpoint = c.SESBaseEndpoint
	}
}
