package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codekitchen-community/pages/internal/content"
	"github.com/codekitchen-community/pages/internal/progress"
)

var generateCmd = &cobra.Command{
	Use:   "generate [page]",
	Short: "Generate body.html for one page or every page",
	Long: `Renders each page folder (a directory holding content.json, style.css and
script.js) through the base template and writes the result into the folder.
With a page name only that page is generated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("no-prerender", false, "write the raw template output without applying page state")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noPrerender, _ := cmd.Flags().GetBool("no-prerender"); noPrerender {
		cfg.Prerender = false
	}

	gen := newGenerator(cfg)

	if len(args) == 1 {
		name := args[0]
		fmt.Printf("Generating %s page...\n", name)
		path, err := gen.Generate(name)
		if err != nil {
			if errors.Is(err, content.ErrPageNotFound) {
				return fmt.Errorf("page folder %q not found or has no %s", name, content.ContentFile)
			}
			return fmt.Errorf("generating %s: %w", name, err)
		}
		fmt.Printf("Generated: %s (%s)\n", path, time.Since(start).Round(time.Millisecond))
		return nil
	}

	pages, err := gen.Pages()
	if err != nil {
		return err
	}
	if len(pages) > 0 {
		fmt.Printf("Found page folders: %v\n", pages)
	}

	summary, err := gen.GenerateAll(progress.NewReporter())
	if err != nil {
		return err
	}
	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("  FAIL %s: %v\n", r.Page, r.Err)
			continue
		}
		if verbose {
			fmt.Printf("  ok   %s\n", r.Path)
		}
	}
	fmt.Printf("Generated %d/%d pages in %s\n", summary.Succeeded(), summary.Total(), time.Since(start).Round(time.Millisecond))
	if !summary.OK() {
		return fmt.Errorf("%d page(s) failed", summary.Total()-summary.Succeeded())
	}
	return nil
}
