/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
// Package classify provides the classify command for grafo.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/grafo/fs"
	"bennypowers.dev/grafo/internal/output"
	"bennypowers.dev/grafo/scan"
)

// Site is one classified import site in the command output.
type Site struct {
	File      string `json:"file"`
	Line      int    `json:"line,omitempty"`
	Specifier string `json:"specifier"`
	Type      string `json:"type"`

	// CSS @import conditions, when present.
	Layer    *string `json:"layer,omitempty"`
	Supports *string `json:"supports,omitempty"`
	Media    *string `json:"media,omitempty"`
}

// Cmd is the classify cobra command that scans source files and reports
// every import site with its reference type.
var Cmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Classify the import sites in source files",
	Long: `Classify every import, require, @import, and url() reference in the
given JavaScript, TypeScript, CSS, or HTML files.`,
	Example: `  # Classify a module's imports
  grafo classify src/main.ts

  # JSON output for tooling
  grafo classify --format json src/main.ts styles/app.css index.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	_ = viper.BindPFlag("format", Cmd.Flags().Lookup("format"))
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	format := viper.GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}

	var sites []Site
	for _, file := range args {
		fileSites, err := classifyFile(osfs, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		sites = append(sites, fileSites...)
	}

	if format == "json" {
		return output.WriteJSON(osfs, sites)
	}

	var sb strings.Builder
	for i, site := range sites {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s:%d\t%s\t%s", site.File, site.Line, site.Type, site.Specifier)
		if site.Layer != nil {
			fmt.Fprintf(&sb, "\tlayer(%s)", *site.Layer)
		}
		if site.Supports != nil {
			fmt.Fprintf(&sb, "\tsupports(%s)", *site.Supports)
		}
		if site.Media != nil {
			fmt.Fprintf(&sb, "\tmedia(%s)", *site.Media)
		}
	}
	return output.Write(osfs, sb.String())
}

func classifyFile(osfs fs.FileSystem, file string) ([]Site, error) {
	content, err := osfs.ReadFile(file)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".css":
		imports, urls, err := scan.ExtractCSSImports(content)
		if err != nil {
			return nil, err
		}
		var sites []Site
		for _, imp := range imports {
			sites = append(sites, Site{
				File:      file,
				Line:      imp.Line,
				Specifier: imp.Specifier,
				Type:      "css",
				Layer:     imp.Attributes.Layer,
				Supports:  imp.Attributes.Supports,
				Media:     imp.Attributes.Media,
			})
		}
		return append(sites, toSites(file, urls)...), nil
	case ".html", ".htm":
		entries, err := scan.ExtractHTMLEntries(content)
		if err != nil {
			return nil, err
		}
		return toSites(file, entries), nil
	default:
		imports, err := scan.ExtractImports(content)
		if err != nil {
			return nil, err
		}
		return toSites(file, imports), nil
	}
}

func toSites(file string, sites []scan.ImportSite) []Site {
	var out []Site
	for _, s := range sites {
		out = append(out, Site{
			File:      file,
			Line:      s.Line,
			Specifier: s.Specifier,
			Type:      s.Type.String(),
		})
	}
	return out
}
