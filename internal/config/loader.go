package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the name of the optional YAML defaults file
// searched for in the current directory.
const DefaultConfigFileName = ".spidercfg"

// FileConfig is the optional on-disk YAML document carrying default
// values for flags the user did not pass explicitly. Every field mirrors
// a long flag name; CLI flags always win over a value found here.
type FileConfig struct {
	Recurse              *bool    `yaml:"recurse,omitempty"`
	MaxDepth             *int     `yaml:"max_depth,omitempty"`
	DepthFirst           *bool    `yaml:"depth_first,omitempty"`
	CrossDomains         *bool    `yaml:"cross_domains,omitempty"`
	Domains              []string `yaml:"domains,omitempty"`
	NoParent             *bool    `yaml:"no_parent,omitempty"`
	RecursePattern       []string `yaml:"recurse_pattern,omitempty"`
	RecurseIgnorePattern []string `yaml:"recurse_ignore_pattern,omitempty"`
	MaxRetries           *int     `yaml:"max_retries,omitempty"`
	Proxy                *string  `yaml:"proxy,omitempty"`
	UserAgent            *string  `yaml:"user_agent,omitempty"`
	UserAgentFile        *string  `yaml:"user_agent_file,omitempty"`
	MaxThreads           *int     `yaml:"max_threads,omitempty"`
	StopPattern          *string  `yaml:"stop_pattern,omitempty"`
	StopOn404            *bool    `yaml:"stop_on_404,omitempty"`
	RequeueCloudflare    *bool    `yaml:"requeue_cloudflare,omitempty"`
	SearchRegex          []string `yaml:"search_regex,omitempty"`
	SearchEmails         *bool    `yaml:"search_emails,omitempty"`
	SearchMailtos        *bool    `yaml:"search_mailtos,omitempty"`
	EmailNames           *string  `yaml:"email_names,omitempty"`
	EmailNamesLines      *string  `yaml:"email_names_lines,omitempty"`
	DownloadExtensions   []string `yaml:"download_extensions,omitempty"`
	DownloadRegexes      []string `yaml:"download_regexes,omitempty"`
	DownloadWithin       []string `yaml:"download_within,omitempty"`
	OutDir               *string  `yaml:"out_dir,omitempty"`
	OutURLs              *string  `yaml:"out_urls,omitempty"`
	OutEmails            *string  `yaml:"out_emails,omitempty"`
	OutRegex             *string  `yaml:"out_regex,omitempty"`
	OutLog               *string  `yaml:"out_log,omitempty"`
}

// LoadFileConfig reads and parses the YAML defaults file at path. A
// missing file is not an error; callers get (nil, nil).
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // explicit, user-chosen path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, ErrConfigFileMalformed
	}
	return &fc, nil
}

// FindConfigFile resolves the defaults-file path to use. If explicit is
// non-empty it is returned as-is (existence is checked by the caller via
// LoadFileConfig). Otherwise it looks for DefaultConfigFileName in the
// current directory, then in the XDG config directory for this
// application, returning "" if neither exists.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	candidate := filepath.Join(xdg.ConfigHome, "spindle", "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}
