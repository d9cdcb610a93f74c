package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codekitchen-community/pages/internal/htmldom"
	"github.com/codekitchen-community/pages/internal/pagestate"
	"github.com/codekitchen-community/pages/internal/site"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <page>",
	Short: "Print the outline a page shows for a tab and language",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	outlineCmd.Flags().String("tab", string(pagestate.Readme), "tab to outline")
	outlineCmd.Flags().String("lang", "", "content language (en or zh); defaults to preferences.default_language, then $LANG")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tabFlag, _ := cmd.Flags().GetString("tab")
	langFlag, _ := cmd.Flags().GetString("lang")

	gen := newGenerator(cfg)
	lang := pagestate.DetectLanguage(gen.Locale)
	if langFlag != "" {
		var ok bool
		if lang, ok = pagestate.ParseLanguage(langFlag); !ok {
			return fmt.Errorf("unsupported language %q", langFlag)
		}
	}

	out, err := gen.Render(args[0], site.RenderOptions{})
	if err != nil {
		return err
	}
	doc, err := htmldom.ParseBytes(out)
	if err != nil {
		return err
	}

	entries, err := outlineFor(doc, pagestate.Tab(tabFlag), lang)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("(no headings)")
		return nil
	}
	for _, e := range entries {
		anchor := e.AnchorID
		if anchor == "" {
			anchor = "-"
		}
		fmt.Printf("%s%s  #%s\n", strings.Repeat("  ", e.Level-1), e.Label, anchor)
	}
	return nil
}

// outlineFor drives a controller over doc to the requested tab and language
// and opens the outline.
func outlineFor(doc *htmldom.Document, tab pagestate.Tab, lang pagestate.Language) ([]pagestate.OutlineEntry, error) {
	prefs := pagestate.NewPreferences(nil, "", slog.Default())
	prefs.Save(pagestate.PrefLanguage, string(lang))

	ctrl, err := pagestate.New(pagestate.Options{
		Renderer:    doc,
		Scheduler:   pagestate.ImmediateScheduler{},
		Preferences: prefs,
		Logger:      slog.Default(),
	})
	if err != nil {
		return nil, err
	}
	defer ctrl.Close()

	ctrl.Sync()
	if err := ctrl.SelectTab(tab); err != nil {
		return nil, err
	}
	ctrl.ToggleOutline()
	return ctrl.Outline(), nil
}
