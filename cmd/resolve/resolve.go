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
// Package resolve provides the resolve command for grafo.
package resolve

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/grafo/fs"
	"bennypowers.dev/grafo/internal/output"
	"bennypowers.dev/grafo/resolve"
)

// Cmd is the resolve cobra command that resolves a request specifier under
// the Node.js CommonJS or ESM policy.
var Cmd = &cobra.Command{
	Use:   "resolve <specifier>...",
	Short: "Resolve module specifiers to file paths",
	Long: `Resolve request specifiers the way Node-compatible module systems do:
upward node_modules search, conditional exports and imports fields, main
field fallback, and extension probing.`,
	Example: `  # CommonJS require() resolution from the current package
  grafo resolve lodash/fp

  # Strict ESM resolution
  grafo resolve --esm ./src/util.js

  # Resolve from another directory
  grafo resolve -p packages/app preact/hooks`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("esm", false, "Use ECMAScript module resolution (default CommonJS)")
	Cmd.Flags().String("root", "/", "Directory bounding the upward node_modules search")

	_ = viper.BindPFlag("esm", Cmd.Flags().Lookup("esm"))
	_ = viper.BindPFlag("root", Cmd.Flags().Lookup("root"))
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	fromDir, err := filepath.Abs(viper.GetString("package"))
	if err != nil {
		return fmt.Errorf("invalid package directory: %w", err)
	}
	root, err := filepath.Abs(viper.GetString("root"))
	if err != nil {
		return fmt.Errorf("invalid root directory: %w", err)
	}

	opts := resolve.NodeCJSOptions(root)
	if viper.GetBool("esm") {
		opts = resolve.NodeESMOptions(root)
	}

	resolver := resolve.New(osfs, output.StderrLogger{})
	results := make(map[string]string, len(args))
	for _, request := range args {
		resolved, err := resolver.Resolve(request, fromDir, opts)
		if err != nil {
			return fmt.Errorf("cannot resolve %q from %s: %w", request, fromDir, err)
		}
		results[request] = resolved
	}

	if len(args) == 1 {
		return output.Write(osfs, results[args[0]])
	}
	return output.WriteJSON(osfs, results)
}
