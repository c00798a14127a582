package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/scalint/internal/engine"
	"github.com/codewithboateng/scalint/internal/ir"
)

// Config is the file-level configuration. Precedence across layers is
// fixed and documented: command-line flags beat environment variables beat
// this file beat built-in defaults.
type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./scalint.db"
	} `yaml:"database"`

	Analysis struct {
		Inputs            []string          `yaml:"inputs"`             // dirs of *.ast.json documents
		EnabledRules      []string          `yaml:"enabled_rules"`      // empty = all
		SeverityOverrides map[string]string `yaml:"severity_overrides"` // ruleId -> info|warning|error
		FailThreshold     string            `yaml:"fail_threshold"`     // default "error"
		MaxConcurrency    int               `yaml:"max_concurrency"`    // default NumCPU
		PerUnitTimeout    string            `yaml:"per_unit_timeout"`   // Go duration, default "10s"
		RulePacks         []string          `yaml:"rule_packs"`         // extra YAML rule packs
	} `yaml:"analysis"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	API struct {
		Addr           string   `yaml:"addr"` // ":8471"
		AllowedOrigins []string `yaml:"allowed_origins"`
		SessionHours   int      `yaml:"session_hours"`
	} `yaml:"api"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./scalint.db"
	c.Analysis.FailThreshold = "error"
	c.Analysis.PerUnitTimeout = "10s"
	c.Reporting.OutDir = "./reports"
	c.API.Addr = ":8471"
	c.API.SessionHours = 12
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

// LoadConfig reads the YAML file (when given) over the defaults, then applies
// environment overrides.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config: %w", err)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("SCALINT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SCALINT_FAIL_THRESHOLD"); v != "" {
		c.Analysis.FailThreshold = v
	}
	if v := os.Getenv("SCALINT_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.MaxConcurrency = n
		}
	}
	if v := os.Getenv("SCALINT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("SCALINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SCALINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}

// EngineConfig translates the analysis section into the engine's typed
// configuration, validating severities and the timeout.
func (c Config) EngineConfig() (engine.Config, error) {
	out := engine.DefaultConfig()
	out.EnabledRules = c.Analysis.EnabledRules
	if c.Analysis.MaxConcurrency > 0 {
		out.MaxConcurrency = c.Analysis.MaxConcurrency
	}
	if c.Analysis.FailThreshold != "" {
		sev, ok := ir.ParseSeverity(c.Analysis.FailThreshold)
		if !ok {
			return out, fmt.Errorf("fail_threshold: unknown severity %q", c.Analysis.FailThreshold)
		}
		out.FailThreshold = sev
	}
	if c.Analysis.PerUnitTimeout != "" {
		d, err := time.ParseDuration(c.Analysis.PerUnitTimeout)
		if err != nil {
			return out, fmt.Errorf("per_unit_timeout: %w", err)
		}
		out.PerUnitTimeout = d
	}
	if len(c.Analysis.SeverityOverrides) > 0 {
		out.SeverityOverrides = make(map[string]ir.Severity, len(c.Analysis.SeverityOverrides))
		for id, s := range c.Analysis.SeverityOverrides {
			sev, ok := ir.ParseSeverity(s)
			if !ok {
				return out, fmt.Errorf("severity_overrides[%s]: unknown severity %q", id, s)
			}
			out.SeverityOverrides[id] = sev
		}
	}
	return out, nil
}
