package config

// Config is the top-level pages configuration, corresponding to .pages.yml.
type Config struct {
	// Root is the directory whose sub-directories holding content.json are pages.
	Root         string   `yaml:"root" koanf:"root"`
	TemplatesDir string   `yaml:"templates_dir" koanf:"templates_dir"`
	BaseTemplate string   `yaml:"base_template" koanf:"base_template"`
	OutputFile   string   `yaml:"output_file" koanf:"output_file"`
	Exclude      []string `yaml:"exclude" koanf:"exclude"`
	Prerender    bool     `yaml:"prerender" koanf:"prerender"`
	// RuntimeDir holds pagestate.wasm and wasm_exec.js; empty uses the build
	// embedded in the binary.
	RuntimeDir  string            `yaml:"runtime_dir,omitempty" koanf:"runtime_dir"`
	Preferences PreferencesConfig `yaml:"preferences" koanf:"preferences"`
	Server      ServerConfig      `yaml:"server" koanf:"server"`
}

// PreferencesConfig controls how page preferences are keyed and defaulted.
type PreferencesConfig struct {
	Namespace string `yaml:"namespace" koanf:"namespace"`
	// DefaultLanguage pins the prerendered language; empty means detect.
	DefaultLanguage string `yaml:"default_language" koanf:"default_language"`
	DefaultTheme    string `yaml:"default_theme" koanf:"default_theme"`
}

// ServerConfig holds dev server settings.
type ServerConfig struct {
	Host       string `yaml:"host" koanf:"host"`
	Port       int    `yaml:"port" koanf:"port"`
	LiveReload bool   `yaml:"live_reload" koanf:"live_reload"`
	AllowAll   bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// DataDir holds the preview preference database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
	// PreferenceDays drops sessions idle for longer on startup; 0 keeps them.
	PreferenceDays int `yaml:"preference_days" koanf:"preference_days"`
}
