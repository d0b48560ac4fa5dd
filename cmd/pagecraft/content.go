package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/pagecraft"
	"github.com/eringen/pagecraft/block"
	"github.com/eringen/pagecraft/views"
)

func readPage(path string) (*pagecraft.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := pagecraft.DecodePage(data, pagecraft.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func renderCmd() *cobra.Command {
	var document bool
	cmd := &cobra.Command{
		Use:   "render <page-file>",
		Short: "Render a page document to HTML",
		Long: `Render a page document to HTML on stdout. Content is rendered whether or
not it validates, so drafts can be previewed.

Examples:
  pagecraft render pages/about.yaml
  pagecraft render --document pages/about.json > about.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPage(args[0])
			if err != nil {
				return err
			}
			if document {
				if err := views.Document(p, siteConfig()).Render(cmd.Context(), cmd.OutOrStdout()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Render())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&document, "document", "d", false, "Wrap output in a complete HTML document")
	return cmd
}

func validateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <page-file>...",
		Short: "Validate page documents",
		Long: `Validate the blocks of one or more page documents. Errors make the
command fail; warnings are reported but do not.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				p, err := readPage(path)
				if err != nil {
					return err
				}
				result := p.Validate()
				if !result.Valid {
					failed++
				}
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(map[string]any{"file": path, "result": result}); err != nil {
						return err
					}
					continue
				}
				if len(result.Issues) == 0 {
					fmt.Fprintf(out, "%s: ok\n", path)
					continue
				}
				for _, is := range result.Issues {
					fmt.Fprintf(out, "%s: %s: %s\n", path, is.Severity, is.Message)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func slugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title>...",
		Short: "Print the slug for a title",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), pagecraft.Slugify(strings.Join(args, " ")))
		},
	}
}

func blockCmd() *cobra.Command {
	var content, style string
	cmd := &cobra.Command{
		Use:   "block <kind>",
		Short: "Print a new block of the given kind as JSON",
		Long: `Print a new block built from the kind's defaults. --content and --style
take JSON objects merged over the defaults.

Kinds: ` + strings.Join(kindNames(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentOverride, err := parseObject("content", content)
			if err != nil {
				return err
			}
			styleOverride, err := parseObject("style", style)
			if err != nil {
				return err
			}
			b, err := block.New(block.Kind(args[0]), contentOverride, styleOverride)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "JSON object merged over the default content")
	cmd.Flags().StringVar(&style, "style", "", "JSON object merged over the default style")
	return cmd
}

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Work with block templates",
	}

	var write bool
	apply := &cobra.Command{
		Use:   "apply <template-file> <page-file>",
		Short: "Append a template's blocks to a page",
		Long: `Append clones of the blocks in a template file to a page document. The
template file is a JSON array of blocks and is checked against the block
document schema. The updated page is printed, or written back with --write.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f := block.NewFactory(nil)
			blocks, err := block.Decode(data, f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			p, err := readPage(args[1])
			if err != nil {
				return err
			}
			t := pagecraft.NewTemplate(args[0], p.AuthorID, p.TenantID, blocks, f)
			p.ApplyTemplate(t, f)

			format := pagecraft.FormatFromPath(args[1])
			out, err := pagecraft.EncodePage(p, format)
			if err != nil {
				return err
			}
			if write {
				return os.WriteFile(args[1], out, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	apply.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the page file")

	cmd.AddCommand(apply)
	return cmd
}

func parseObject(name, raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return m, nil
}

func kindNames() []string {
	kinds := block.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
