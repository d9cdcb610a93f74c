package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/codekitchen-community/pages/internal/content"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new page folder with starter files",
	Long: `Creates <name>/content.json, style.css and script.js plus
templates/<name>/content.html. The shared base template is written too when
the templates directory does not have one yet.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().BoolP("interactive", "i", false, "prompt for the site title and contact email")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := args[0]

	var opts content.ScaffoldOptions
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if opts, err = promptScaffold(name); err != nil {
			return err
		}
	}

	created, err := content.Scaffold(cfg.Root, cfg.TemplatesPath(), cfg.BaseTemplate, name, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Created new page: %s\n", name)
	fmt.Println("Files created:")
	for _, f := range created {
		fmt.Printf("  - %s\n", f)
	}
	fmt.Printf("Preview at: http://localhost:%d/%s\n", cfg.Server.Port, name)
	return nil
}

func promptScaffold(name string) (content.ScaffoldOptions, error) {
	var opts content.ScaffoldOptions

	titlePrompt := promptui.Prompt{
		Label:   "Site title",
		Default: content.TitleCase(name),
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return opts, fmt.Errorf("title: %w", err)
	}
	opts.Title = strings.TrimSpace(title)

	emailPrompt := promptui.Prompt{
		Label:   "Contact email",
		Default: "contact@example.com",
		Validate: func(s string) error {
			if !strings.Contains(s, "@") {
				return fmt.Errorf("enter an email address")
			}
			return nil
		},
	}
	if opts.ContactEmail, err = emailPrompt.Run(); err != nil {
		return opts, fmt.Errorf("contact email: %w", err)
	}

	homePrompt := promptui.Prompt{
		Label:   "Home URL",
		Default: "https://example.com",
	}
	if opts.HomeURL, err = homePrompt.Run(); err != nil {
		return opts, fmt.Errorf("home url: %w", err)
	}
	return opts, nil
}
