// Package config holds the static configuration for a hanscan run: the
// disallowed-content definition, the exclusion rule set, file discovery
// roots, and logging settings.
//
// Configuration is loaded from an optional hanscan.yaml plus HANSCAN_*
// environment variables; every field has a default so the tool works with
// no file at all. A malformed exclusion pattern is a load error, never a
// silently skipped rule: a broken exclusion could mask real violations.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// ExclusionRule is one known-benign phrase shape. The pattern is applied
// case-insensitively and the matched substring is removed before the line
// is re-tested, so an excluded idiom never swallows adjacent violations.
type ExclusionRule struct {
	Pattern   string `mapstructure:"pattern" yaml:"pattern"`
	Rationale string `mapstructure:"rationale" yaml:"rationale"`
}

// Root describes one scan root and the file extensions it owns.
type Root struct {
	Path       string   `mapstructure:"path" yaml:"path"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// Rules is the static rule set consumed by the classification engine.
type Rules struct {
	// ScriptLo/ScriptHi bound the disallowed ideograph block (inclusive).
	ScriptLo rune `mapstructure:"script_lo" yaml:"script_lo"`
	ScriptHi rune `mapstructure:"script_hi" yaml:"script_hi"`

	// Punctuation lists the disallowed full-width glyphs.
	Punctuation string `mapstructure:"punctuation" yaml:"punctuation"`

	Exclusions []ExclusionRule `mapstructure:"exclusions" yaml:"exclusions"`

	// Comment markers shared by the java and script file kinds.
	CommentOpen  string `mapstructure:"comment_open" yaml:"comment_open"`
	CommentClose string `mapstructure:"comment_close" yaml:"comment_close"`
	CommentLine  string `mapstructure:"comment_line" yaml:"comment_line"`

	// Template markers for the markup file kind.
	TemplateOpen  string `mapstructure:"template_open" yaml:"template_open"`
	TemplateClose string `mapstructure:"template_close" yaml:"template_close"`
}

// Discovery configures the file-discovery collaborator.
type Discovery struct {
	Java     Root `mapstructure:"java" yaml:"java"`
	Frontend Root `mapstructure:"frontend" yaml:"frontend"`

	// ExcludeFiles are exact base names skipped entirely.
	ExcludeFiles []string `mapstructure:"exclude_files" yaml:"exclude_files"`
	// ExcludeSegments are path segments (e.g. an i18n resource directory)
	// that exclude everything beneath them.
	ExcludeSegments []string `mapstructure:"exclude_segments" yaml:"exclude_segments"`
	// ExcludeGlobs are doublestar patterns matched against the
	// slash-separated path relative to the scan root.
	ExcludeGlobs []string `mapstructure:"exclude_globs" yaml:"exclude_globs"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Scan holds run-level knobs.
type Scan struct {
	// Jobs is the worker pool size for cross-file parallelism.
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
}

// Config is the root configuration structure.
type Config struct {
	Rules     Rules     `mapstructure:"rules" yaml:"rules"`
	Discovery Discovery `mapstructure:"discovery" yaml:"discovery"`
	Log       Log       `mapstructure:"log" yaml:"log"`
	Scan      Scan      `mapstructure:"scan" yaml:"scan"`
}

// Default returns the built-in configuration: CJK Unified Ideographs plus
// the full-width punctuation Chinese text actually uses, the historically
// noisy license/SQL/annotation idioms, and the Java + Vue tree layout of
// the repository this gate guards.
func Default() *Config {
	return &Config{
		Rules: Rules{
			ScriptLo:    0x4E00,
			ScriptHi:    0x9FFF,
			// Full-width glyphs only. Em dash, ellipsis, and middle dot
			// are ordinary Western typography and stay out of the set.
			Punctuation: "，。！？；：、“”‘’（）【】《》",
			Exclusions: []ExclusionRule{
				{
					Pattern:   `licensed under the apache license,?\s+version\s+[\d.]+`,
					Rationale: "license header boilerplate",
				},
				{
					Pattern:   `without warranties or conditions of any kind`,
					Rationale: "license header boilerplate",
				},
				{
					Pattern:   `distributed on an ["“]?as is["”]?\s+basis`,
					Rationale: "license header boilerplate; quotes may be full-width",
				},
				{
					Pattern:   `where\s+\w+\s*(=|!=|<>|<=|>=)\s*('[^']*'|\?|\d+)`,
					Rationale: "SQL comparison idiom in query strings",
				},
				{
					Pattern:   `@author\s+\w+`,
					Rationale: "javadoc author tag with a Latin identifier payload",
				},
				{
					Pattern:   `@since\s+[\w.\-]+`,
					Rationale: "javadoc since tag with version payload",
				},
				{
					Pattern:   `@date\s+[\d/:.\- ]+`,
					Rationale: "metadata date tag with numeric payload",
				},
			},
			CommentOpen:   "/*",
			CommentClose:  "*/",
			CommentLine:   "//",
			TemplateOpen:  "<template",
			TemplateClose: "</template>",
		},
		Discovery: Discovery{
			Java: Root{
				Path:       "src/main/java",
				Extensions: []string{".java"},
			},
			Frontend: Root{
				Path:       "ui-vue3/src",
				Extensions: []string{".vue", ".ts", ".js"},
			},
			ExcludeFiles:    []string{"direct-api-service.ts"},
			ExcludeSegments: []string{"i18n", "node_modules", "target", ".git"},
			ExcludeGlobs:    nil,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		Scan: Scan{
			Jobs: 4,
		},
	}
}

// setDefaults registers every default with viper so that file and env
// values override by key. Lists are registered as whole values: a config
// that provides its own exclusion set replaces the built-ins entirely,
// never a per-index hybrid of both.
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("rules.script_lo", int(def.Rules.ScriptLo))
	v.SetDefault("rules.script_hi", int(def.Rules.ScriptHi))
	v.SetDefault("rules.punctuation", def.Rules.Punctuation)
	exclusions := make([]map[string]string, 0, len(def.Rules.Exclusions))
	for _, r := range def.Rules.Exclusions {
		exclusions = append(exclusions, map[string]string{
			"pattern":   r.Pattern,
			"rationale": r.Rationale,
		})
	}
	v.SetDefault("rules.exclusions", exclusions)
	v.SetDefault("rules.comment_open", def.Rules.CommentOpen)
	v.SetDefault("rules.comment_close", def.Rules.CommentClose)
	v.SetDefault("rules.comment_line", def.Rules.CommentLine)
	v.SetDefault("rules.template_open", def.Rules.TemplateOpen)
	v.SetDefault("rules.template_close", def.Rules.TemplateClose)

	v.SetDefault("discovery.java.path", def.Discovery.Java.Path)
	v.SetDefault("discovery.java.extensions", def.Discovery.Java.Extensions)
	v.SetDefault("discovery.frontend.path", def.Discovery.Frontend.Path)
	v.SetDefault("discovery.frontend.extensions", def.Discovery.Frontend.Extensions)
	v.SetDefault("discovery.exclude_files", def.Discovery.ExcludeFiles)
	v.SetDefault("discovery.exclude_segments", def.Discovery.ExcludeSegments)
	v.SetDefault("discovery.exclude_globs", def.Discovery.ExcludeGlobs)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("scan.jobs", def.Scan.Jobs)
}

// Load reads configuration from the given file (optional) and the
// environment, layered over Default. Validation failures are fatal by
// contract: the gate must not run with a partially broken rule set.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("HANSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("hanscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// No file is fine; anything else is a real error.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the rule set. Exclusion patterns must compile; a broken
// pattern is a configuration defect and aborts startup.
func (c *Config) Validate() error {
	if c.Rules.ScriptLo > c.Rules.ScriptHi {
		return fmt.Errorf("rules: script range [%#x, %#x] is inverted", c.Rules.ScriptLo, c.Rules.ScriptHi)
	}
	for _, r := range c.Rules.Exclusions {
		if strings.TrimSpace(r.Pattern) == "" {
			return fmt.Errorf("rules: empty exclusion pattern (rationale: %q)", r.Rationale)
		}
		if _, err := regexp.Compile("(?i)" + r.Pattern); err != nil {
			return fmt.Errorf("rules: exclusion pattern %q: %w", r.Pattern, err)
		}
	}
	for _, g := range c.Discovery.ExcludeGlobs {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("discovery: invalid exclude glob %q", g)
		}
	}
	if c.Scan.Jobs < 1 {
		return fmt.Errorf("scan: jobs must be >= 1, got %d", c.Scan.Jobs)
	}
	return nil
}
