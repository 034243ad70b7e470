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
// Package output provides shared output utilities for grafo CLI commands.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"bennypowers.dev/grafo/fs"
)

// Write outputs text to stdout or a file.
// If viper's "output" flag is set, writes to that file; otherwise prints to
// stdout.
func Write(osfs fs.FileSystem, text string) error {
	if outputPath := viper.GetString("output"); outputPath != "" {
		return osfs.WriteFile(outputPath, []byte(text+"\n"), 0644)
	}
	fmt.Println(text)
	return nil
}

// WriteJSON outputs a value as indented JSON, honoring the "output" flag.
func WriteJSON(osfs fs.FileSystem, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return Write(osfs, string(data))
}

// StderrLogger logs warnings and debug messages to stderr. Debug output is
// gated by viper's "verbose" flag.
type StderrLogger struct{}

// Warning logs a warning message.
func (StderrLogger) Warning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}

// Debug logs a debug message when verbose output is enabled.
func (StderrLogger) Debug(format string, args ...any) {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "debug: "+format+"\n", args...)
	}
}
