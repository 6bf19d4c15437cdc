package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

type Config struct {
	CurrentProfile string              `yaml:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`
	path           string
}

type Profile struct {
	ServerURL    string `yaml:"server_url"`
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
	}
}

func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfgFile = filepath.Join(home, ".cinelog", "config.yaml")
	}

	cfg := Default()
	cfg.path = cfgFile

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save() error {
	if c.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(home, ".cinelog", "config.yaml")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Tokens live in this file, keep it private.
	return os.WriteFile(c.path, data, 0600)
}

func (c *Config) SaveProfile(name, serverURL, accessToken, refreshToken string) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	c.Profiles[name] = &Profile{
		ServerURL:    serverURL,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	c.CurrentProfile = name
	return c.Save()
}

// UpdateTokens replaces the stored token pair after a refresh.
func (c *Config) UpdateTokens(name, accessToken, refreshToken string) error {
	profile, err := c.GetProfile(name)
	if err != nil {
		return err
	}

	profile.AccessToken = accessToken
	profile.RefreshToken = refreshToken
	return c.Save()
}

func (c *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	return profile, nil
}

func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}

// GetServerURL resolves the server URL for a profile, falling back to the
// CINELOG_SERVER_URL environment variable and then the local default.
func (c *Config) GetServerURL(name string) string {
	if profile, err := c.GetProfile(name); err == nil && profile.ServerURL != "" {
		return profile.ServerURL
	}
	if url := os.Getenv("CINELOG_SERVER_URL"); url != "" {
		return url
	}
	return defaultServerURL
}
