package cmd

import (
	"testing"
	"time"

	"github.com/codekitchen-community/pages/internal/config"
	"github.com/codekitchen-community/pages/internal/db"
)

func TestPrunePreferences(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	if err := database.SetPreference("stale", "community_theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Exec(`UPDATE preferences SET updated_at = '2000-01-01 00:00:00'`); err != nil {
		t.Fatal(err)
	}
	if err := database.SetPreference("fresh", "community_theme", "light"); err != nil {
		t.Fatal(err)
	}

	if n, err := prunePreferences(database, 0, time.Now()); err != nil || n != 0 {
		t.Errorf("days=0 pruned %d, %v; want nothing", n, err)
	}
	n, err := prunePreferences(database, 180, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
	if _, ok, _ := database.GetPreference("fresh", "community_theme"); !ok {
		t.Error("fresh session should survive")
	}
}

func TestNewGeneratorLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "en_US.UTF-8")

	cfg := config.DefaultConfig()
	cfg.Root = t.TempDir()
	if got := newGenerator(cfg).Locale; got != "en_US.UTF-8" {
		t.Errorf("locale without default_language = %q, want $LANG", got)
	}

	cfg.Preferences.DefaultLanguage = "zh"
	if got := newGenerator(cfg).Locale; got != "zh" {
		t.Errorf("locale with default_language = %q, want zh", got)
	}
}
