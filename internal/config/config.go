package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	serr "mediabrowse/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines the external tools, media extension sets, browser behaviour,
// diagnostic logging and theme colors.
type Config struct {
	Tools struct {
		FFmpeg  string `yaml:"ffmpeg"`  // Transcoder executable
		FFprobe string `yaml:"ffprobe"` // Prober executable
	} `yaml:"tools"`
	Media struct {
		ImageExtensions []string `yaml:"image_extensions"` // Extensions converted to .webp
		VideoExtensions []string `yaml:"video_extensions"` // Extensions converted to .mp4
		PreviewWidth    int      `yaml:"preview_width"`    // Side of the square preview grid
	} `yaml:"media"`
	Browser struct {
		StartDir    string `yaml:"start_dir"`    // Directory opened at startup
		ShowHidden  bool   `yaml:"show_hidden"`  // Show dotfiles
		MessageTTL  int    `yaml:"message_ttl"`  // Seconds before transient messages clear
		Watch       bool   `yaml:"watch"`        // Refresh when the directory changes on disk
		TargetFile  string `yaml:"target_file"`  // Optional reference rewrite target bound at startup
		ListPadding int    `yaml:"list_padding"` // Lines reserved around the file list
	} `yaml:"browser"`
	Log struct {
		File  string `yaml:"file"`  // Append-only diagnostic log
		Debug bool   `yaml:"debug"` // Enable debug lines
		JSON  bool   `yaml:"json"`  // One JSON object per line
	} `yaml:"log"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/mediabrowse/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", serr.NewConfigError("cannot locate the config directory", "config", serr.ConfigNotFound, err)
	}
	return filepath.Join(home, ".config", "mediabrowse", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/mediabrowse/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, serr.Wrapf(err, "error reading config file %s", path)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, serr.NewConfigError("error parsing config file", path, serr.InvalidConfig, err)
	}

	if tempCfg.Tools.FFmpeg != "" {
		cfg.Tools.FFmpeg = tempCfg.Tools.FFmpeg
	}
	if tempCfg.Tools.FFprobe != "" {
		cfg.Tools.FFprobe = tempCfg.Tools.FFprobe
	}
	if len(tempCfg.Media.ImageExtensions) > 0 {
		cfg.Media.ImageExtensions = normalizeExtensions(tempCfg.Media.ImageExtensions)
	}
	if len(tempCfg.Media.VideoExtensions) > 0 {
		cfg.Media.VideoExtensions = normalizeExtensions(tempCfg.Media.VideoExtensions)
	}
	if tempCfg.Media.PreviewWidth != 0 {
		cfg.Media.PreviewWidth = tempCfg.Media.PreviewWidth
	}

	if tempCfg.Browser.StartDir != "" {
		cfg.Browser.StartDir = tempCfg.Browser.StartDir
	}
	// show_hidden and watch default to on; only an explicit key switches them off
	if hasKey(data, "show_hidden") {
		cfg.Browser.ShowHidden = tempCfg.Browser.ShowHidden
	}
	if tempCfg.Browser.MessageTTL != 0 {
		cfg.Browser.MessageTTL = tempCfg.Browser.MessageTTL
	}
	if tempCfg.Browser.TargetFile != "" {
		cfg.Browser.TargetFile = tempCfg.Browser.TargetFile
	}
	if tempCfg.Browser.ListPadding != 0 {
		cfg.Browser.ListPadding = tempCfg.Browser.ListPadding
	}
	if hasKey(data, "watch") {
		cfg.Browser.Watch = tempCfg.Browser.Watch
	}

	if tempCfg.Log.File != "" {
		cfg.Log.File = tempCfg.Log.File
	}
	cfg.Log.Debug = tempCfg.Log.Debug
	cfg.Log.JSON = tempCfg.Log.JSON

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}
	mergeColor(&cfg.Theme.Primary, tempCfg.Theme.Primary)
	mergeColor(&cfg.Theme.Success, tempCfg.Theme.Success)
	mergeColor(&cfg.Theme.Warning, tempCfg.Theme.Warning)
	mergeColor(&cfg.Theme.Error, tempCfg.Theme.Error)
	mergeColor(&cfg.Theme.Info, tempCfg.Theme.Info)
	mergeColor(&cfg.Theme.Emphasis, tempCfg.Theme.Emphasis)
	mergeColor(&cfg.Theme.Border, tempCfg.Theme.Border)

	if err := cfg.Validate(); err != nil {
		return nil, serr.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Tools.FFmpeg = "ffmpeg"
	cfg.Tools.FFprobe = "ffprobe"

	cfg.Media.ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "svg", "webp", "avif"}
	cfg.Media.VideoExtensions = []string{"mp4", "avi", "mov", "mkv", "webm"}
	cfg.Media.PreviewWidth = 32

	cfg.Browser.StartDir = "."
	cfg.Browser.ShowHidden = true
	cfg.Browser.MessageTTL = 4
	cfg.Browser.Watch = true
	cfg.Browser.ListPadding = 13 // header (10) + footer (3)

	cfg.Log.File = DefaultLogPath()

	cfg.ApplyTheme("default")
	return cfg
}

// DefaultLogPath returns the log file under the user cache directory, outside
// any tree the browser is likely to watch. It is empty when no cache
// directory is known.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mediabrowse", "debug.log")
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. Failures are
// *errors.ConfigError values naming the offending parameter.
func (c *Config) Validate() error {
	if c == nil {
		return serr.NewConfigError("nil config", "", serr.InvalidConfig, nil)
	}

	if c.Tools.FFmpeg == "" {
		return invalid("tools.ffmpeg", "is required")
	}
	if c.Tools.FFprobe == "" {
		return invalid("tools.ffprobe", "is required")
	}

	if c.Media.PreviewWidth < 4 || c.Media.PreviewWidth > 256 {
		return invalid("media.preview_width", "must be between 4 and 256, got %d", c.Media.PreviewWidth)
	}
	if err := validateExtensions("media.image_extensions", c.Media.ImageExtensions); err != nil {
		return err
	}
	if err := validateExtensions("media.video_extensions", c.Media.VideoExtensions); err != nil {
		return err
	}
	for _, img := range c.Media.ImageExtensions {
		for _, vid := range c.Media.VideoExtensions {
			if img == vid {
				return invalid("media.video_extensions", "%q is also an image extension", img)
			}
		}
	}

	if c.Browser.MessageTTL < 1 {
		return invalid("browser.message_ttl", "must be >= 1 second")
	}
	if c.Browser.ListPadding < 0 {
		return invalid("browser.list_padding", "must be >= 0")
	}

	if c.Browser.StartDir != "" {
		info, err := os.Stat(c.Browser.StartDir)
		if err != nil {
			return serr.NewConfigError("error accessing start directory", "browser.start_dir", serr.InvalidConfig, err)
		}
		if !info.IsDir() {
			return invalid("browser.start_dir", "%s is not a directory", c.Browser.StartDir)
		}
	}

	return nil
}

// invalid reports a bad value for param as "invalid value: param: detail".
func invalid(param, format string, args ...interface{}) error {
	return serr.NewConfigError("invalid value", param, serr.InvalidConfig, fmt.Errorf(format, args...))
}

func validateExtensions(param string, exts []string) error {
	if len(exts) == 0 {
		return invalid(param, "at least one extension is required")
	}
	for i, ext := range exts {
		if ext == "" || strings.ContainsAny(ext, "./\\ ") {
			return invalid(param, "entry %d: invalid value %q", i, ext)
		}
	}
	return nil
}

// normalizeExtensions lowercases and strips a leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
	}
	return out
}

func mergeColor(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// hasKey reports whether the raw YAML mentions key anywhere in its mapping.
func hasKey(data []byte, key string) bool {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return false
	}
	var walk func(n *yaml.Node) bool
	walk = func(n *yaml.Node) bool {
		if n.Kind == yaml.MappingNode {
			for i := 0; i+1 < len(n.Content); i += 2 {
				if n.Content[i].Value == key {
					return true
				}
			}
		}
		for _, c := range n.Content {
			if walk(c) {
				return true
			}
		}
		return false
	}
	return walk(&root)
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Tools.FFmpeg = "/bin/true"
	cfg.Tools.FFprobe = "/bin/false"
	cfg.Browser.Watch = false
	cfg.Log.File = ""
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
		"retro": {
			"primary":  "201", // Magenta
			"success":  "46",  // Green
			"warning":  "226", // Yellow
			"error":    "196", // Red
			"info":     "51",  // Cyan
			"emphasis": "207", // Pink
			"border":   "93",  // Violet
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "retro"}
}
