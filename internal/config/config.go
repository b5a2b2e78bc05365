// Package config loads the run configuration from an INI-style properties
// file plus the newline-delimited developer and repository list files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/contribstats/contribstats/internal/domain"
)

// Config is the fully resolved run configuration.
type Config struct {
	GitHubURL    string
	UseOrgRepos  bool
	Organization string
	DevsFile     string
	ReposFile    string
	Branches     []string
	PerRepo      bool
	IgnoreNoExt  bool

	DebugMode bool
	DebugDev  string
	DebugRepo string

	Window domain.Window
}

// Load reads the properties file at path and resolves the report window.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	v.SetDefault("github_url", "https://api.github.com")
	v.SetDefault("last_x_months", 6)
	v.SetDefault("branches", "main,develop")
	v.SetDefault("devs_file", "devs.txt")
	v.SetDefault("repos_file", "repos.txt")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	window, err := resolveWindow(v.GetString("time_range"), v.GetInt("last_x_months"), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GitHubURL:    strings.TrimRight(v.GetString("github_url"), "/"),
		UseOrgRepos:  v.GetBool("use_org_repos"),
		Organization: v.GetString("organization"),
		DevsFile:     v.GetString("devs_file"),
		ReposFile:    v.GetString("repos_file"),
		Branches:     splitList(v.GetString("branches")),
		PerRepo:      v.GetBool("per_repo"),
		IgnoreNoExt:  v.GetBool("ignore_no_extension"),
		DebugMode:    v.GetBool("debug_mode"),
		DebugDev:     v.GetString("debug_dev"),
		DebugRepo:    v.GetString("debug_repo"),
		Window:       window,
	}

	if cfg.UseOrgRepos && cfg.Organization == "" {
		return nil, fmt.Errorf("use_org_repos is set but organization is empty")
	}
	if cfg.DebugMode && (cfg.DebugDev == "" || cfg.DebugRepo == "") {
		return nil, fmt.Errorf("debug_mode requires both debug_dev and debug_repo")
	}
	return cfg, nil
}

// resolveWindow builds the half-open report window. An explicit time_range
// (YYYY-MM-DD:YYYY-MM-DD) takes precedence; otherwise the window covers the
// last N months up to now.
func resolveWindow(timeRange string, lastMonths int, now time.Time) (domain.Window, error) {
	if timeRange != "" {
		parts := strings.Split(timeRange, ":")
		if len(parts) != 2 {
			return domain.Window{}, fmt.Errorf("invalid time_range %q: use YYYY-MM-DD:YYYY-MM-DD", timeRange)
		}
		start, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return domain.Window{}, fmt.Errorf("invalid time_range start %q: %w", parts[0], err)
		}
		end, err := time.Parse("2006-01-02", parts[1])
		if err != nil {
			return domain.Window{}, fmt.Errorf("invalid time_range end %q: %w", parts[1], err)
		}
		// The end day participates up to its last second.
		return domain.Window{
			Start: start,
			End:   end.Add(23*time.Hour + 59*time.Minute + 59*time.Second),
		}, nil
	}
	return domain.Window{Start: now.AddDate(0, -lastMonths, 0), End: now}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadLines reads a newline-delimited list file, skipping blank lines and
// '#' or ';' comment lines.
func LoadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
