package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// detectPages lists sub-directories of the working directory that already
// hold a content.json.
func detectPages() []string {
	matches, _ := filepath.Glob(filepath.Join("*", "content.json"))
	pages := make([]string, 0, len(matches))
	for _, m := range matches {
		pages = append(pages, filepath.Dir(m))
	}
	return pages
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pages! Let's configure your project.")
	fmt.Println()

	if pages := detectPages(); len(pages) > 0 {
		fmt.Printf("Detected pages: %s\n\n", strings.Join(pages, ", "))
	}

	cfg := DefaultConfig()

	// 1. Templates directory.
	templatesPrompt := promptui.Prompt{
		Label:   "Templates directory",
		Default: cfg.TemplatesDir,
	}
	templatesDir, err := templatesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("templates dir: %w", err)
	}
	cfg.TemplatesDir = templatesDir

	// 2. Preference namespace.
	nsPrompt := promptui.Prompt{
		Label:   "Preference namespace (prefix for saved language/theme)",
		Default: cfg.Preferences.Namespace,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("namespace is required")
			}
			return nil
		},
	}
	namespace, err := nsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("namespace: %w", err)
	}
	cfg.Preferences.Namespace = strings.TrimSpace(namespace)

	// 3. Default language.
	langPrompt := promptui.Select{
		Label: "Default language for prerendered pages",
		Items: []string{
			"detect — follow the visitor's locale (falls back to Chinese)",
			"en     — English",
			"zh     — Chinese",
		},
	}
	langIdx, _, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}
	cfg.Preferences.DefaultLanguage = []string{"", "en", "zh"}[langIdx]

	// 4. Default theme.
	themePrompt := promptui.Select{
		Label: "Default theme",
		Items: []string{"light", "dark"},
	}
	_, theme, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}
	cfg.Preferences.DefaultTheme = theme

	// 5. Dev server port.
	portPrompt := promptui.Prompt{
		Label:   "Dev server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra folders to ignore (comma-separated globs, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if extra := splitAndTrim(excludeStr); len(extra) > 0 {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), extra...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.TemplatesPath()); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s does not exist yet; `pages new <name>` will create it.\n", cfg.TemplatesPath())
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
