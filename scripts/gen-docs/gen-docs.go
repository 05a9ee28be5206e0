// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go gen-docs --path ../../docs --man ../../docs/man

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	wirefishcmd "github.com/telekom/wirefish/cmd"
)

// manSection is the man page section of wirefish, the one of system administration tools
const manSection = "8"

// weights orders the command pages in the docs site navigation
var weights = map[string]int{
	"wirefish":         0,
	"wirefish scan":    1,
	"wirefish trace":   2,
	"wirefish monitor": 3,
}

func main() {
	if err := NewCmdGenDocs().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	path    string
	manPath string
}

// NewCmdGenDocs creates a new gen-docs command
func NewCmdGenDocs() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate the wirefish documentation",
		Long: "Generate one markdown page with front matter per wirefish command.\n" +
			"With --man the man pages of the scan, trace and monitor commands are written as well.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return genDocs(wirefishcmd.BuildCmd(""), opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", "docs", "directory the markdown files are written to")
	cmd.Flags().StringVar(&opts.manPath, "man", "", "directory the man pages are written to, none if empty")

	return cmd
}

// genDocs writes the markdown pages and, if requested, the man pages of root and its subcommands
func genDocs(root *cobra.Command, opts *options) error {
	root.DisableAutoGenTag = true

	if err := os.MkdirAll(opts.path, 0o750); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}
	if err := doc.GenMarkdownTreeCustom(root, opts.path, frontMatter, link); err != nil {
		return fmt.Errorf("failed to generate markdown docs: %w", err)
	}

	if opts.manPath == "" {
		return nil
	}
	if err := os.MkdirAll(opts.manPath, 0o750); err != nil {
		return fmt.Errorf("failed to create man page directory: %w", err)
	}
	header := &doc.GenManHeader{Title: strings.ToUpper(root.Name()), Section: manSection, Source: "wirefish"}
	if err := doc.GenManTree(root, header, opts.manPath); err != nil {
		return fmt.Errorf("failed to generate man pages: %w", err)
	}
	return nil
}

// frontMatter returns the page header of a generated markdown file
func frontMatter(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(name, "_", " ")
	weight, ok := weights[title]
	if !ok {
		weight = len(weights)
	}
	return fmt.Sprintf("---\ntitle: %q\nweight: %d\n---\n\n", title, weight)
}

// link points cross references to the page without its extension
func link(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "/"
}
