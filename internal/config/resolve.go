package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"

	envPrefix = "PADDLE"
)

// Env holds settings read from PADDLE_* environment variables.
type Env struct {
	APIKey          string `envconfig:"API_KEY"`
	Environment     string `envconfig:"ENVIRONMENT"`
	Profile         string `envconfig:"PROFILE"`
	Output          string `envconfig:"OUTPUT"`
	NoKeychain      bool   `envconfig:"NO_KEYCHAIN" default:"false"`
	KeyringBackend  string `envconfig:"KEYRING_BACKEND" default:"auto"`
	KeyringPassword string `envconfig:"KEYRING_PASSWORD"`
	CredentialsDir  string `envconfig:"CREDENTIALS_DIR"`
}

// LoadEnv populates Env from environment variables (prefix PADDLE_).
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return env, nil
}

// ErrInvalidEnvironment is returned for environment names other than
// sandbox and production.
var ErrInvalidEnvironment = errors.New("environment must be 'sandbox' or 'production'")

// ParseEnvironment reports whether name selects the sandbox. An empty name
// selects production.
func ParseEnvironment(name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EnvironmentProduction, "live":
		return false, nil
	case EnvironmentSandbox:
		return true, nil
	default:
		return false, fmt.Errorf("%w, got %q", ErrInvalidEnvironment, name)
	}
}

// Credentials are the resolved settings used to build an API client.
type Credentials struct {
	APIKey  string
	Sandbox bool
	Profile string
	// Source is "env" or "keyring".
	Source string
}

// Resolve picks credentials in order: PADDLE_API_KEY, then the named profile,
// then PADDLE_PROFILE, then the current profile. PADDLE_ENVIRONMENT overrides
// the stored environment.
func Resolve(profile string) (Credentials, error) {
	env, err := LoadEnv()
	if err != nil {
		return Credentials{}, err
	}

	var envSandbox *bool
	if strings.TrimSpace(env.Environment) != "" {
		sandbox, err := ParseEnvironment(env.Environment)
		if err != nil {
			return Credentials{}, fmt.Errorf("PADDLE_ENVIRONMENT: %w", err)
		}
		envSandbox = &sandbox
	}

	if key := strings.TrimSpace(env.APIKey); key != "" {
		creds := Credentials{APIKey: key, Source: "env"}
		if envSandbox != nil {
			creds.Sandbox = *envSandbox
		}
		return creds, nil
	}

	if env.NoKeychain {
		return Credentials{}, ErrNotConfigured
	}

	name := strings.TrimSpace(profile)
	if name == "" {
		name = strings.TrimSpace(env.Profile)
	}
	if name == "" {
		if name, err = CurrentProfile(); err != nil {
			return Credentials{}, err
		}
	}

	stored, err := LoadProfile(name)
	if err != nil {
		return Credentials{}, err
	}
	creds := Credentials{
		APIKey:  stored.APIKey,
		Sandbox: stored.Sandbox,
		Profile: name,
		Source:  "keyring",
	}
	if envSandbox != nil {
		creds.Sandbox = *envSandbox
	}
	return creds, nil
}

// LoadDotEnv loads dir/.env when present. Variables already exported win.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
