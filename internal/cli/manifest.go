package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takeruhukushima/publiccodelooks/pkg/publiccode"
)

type manifestOpts struct {
	path   string
	branch string
	lang   string
	json   bool
}

// manifestCommand creates the manifest command, which shows a repository's
// publiccode.yml.
func (c *CLI) manifestCommand() *cobra.Command {
	opts := &manifestOpts{}

	cmd := &cobra.Command{
		Use:   "manifest <owner/repo>",
		Short: "Show a repository's publiccode.yml",
		Long: `Fetch and decode publiccode.yml from a repository's default branch.

Use --path for manifests outside the repository root, as reported by the
search command's Path column.

Examples:
  publiccodelooks manifest italia/io-app
  publiccodelooks manifest gov/portal --path apps/web/publiccode.yml --lang en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runManifest(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", publiccode.FileName, "manifest path inside the repository")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "branch to read (default: the repository's default branch)")
	cmd.Flags().StringVar(&opts.lang, "lang", "en", "preferred description language")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of text")

	return cmd
}

func (c *CLI) runManifest(cmd *cobra.Command, id string, opts *manifestOpts) error {
	ctx := cmd.Context()
	reader := c.manifestReader(c.githubClient())

	spinner := newSpinner(ctx, "Reading "+id+"...")
	spinner.Start()
	m, err := reader.Read(ctx, id, opts.path, opts.branch)
	if err != nil {
		spinner.StopWithError(err)
		return err
	}
	spinner.Stop()

	if opts.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	printManifest(c.out, m, opts.lang)
	return nil
}

func printManifest(w io.Writer, m *publiccode.Manifest, lang string) {
	fmt.Fprintln(w, StyleTitle.Render(m.Name))
	printKeyValue(w, "URL", m.URL)
	printKeyValue(w, "Status", m.DevelopmentStatus)
	printKeyValue(w, "Type", m.SoftwareType)
	printKeyValue(w, "License", m.Legal.License)
	printKeyValue(w, "Maintenance", m.Maintenance.Type)
	printKeyValue(w, "Released", m.ReleaseDate)
	printKeyValue(w, "Categories", strings.Join(m.Categories, ", "))
	printKeyValue(w, "Platforms", strings.Join(m.Platforms, ", "))
	printKeyValue(w, "Languages", strings.Join(m.Languages(), ", "))

	d, resolved, ok := m.Description(lang)
	if !ok {
		return
	}
	fmt.Fprintln(w)
	if resolved != lang {
		printDetail(w, "description in %s", resolved)
	}
	if d.ShortDescription != "" {
		fmt.Fprintln(w, StyleValue.Render(d.ShortDescription))
	}
	for _, f := range d.Features {
		fmt.Fprintln(w, "  "+StyleDim.Render("•")+" "+f)
	}
}
