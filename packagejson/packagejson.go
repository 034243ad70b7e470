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
// Package packagejson provides parsing and conditional exports/imports
// resolution for package.json manifests.
package packagejson

import (
	"encoding/json"
	"errors"
	"strings"

	"bennypowers.dev/grafo/fs"
)

// ErrNotExported is returned when a subpath is not exported by the package.
var ErrNotExported = errors.New("not exported by package.json")

// ErrNotImported is returned when a #alias is not defined by the package's
// imports field.
var ErrNotImported = errors.New("not imported by package.json")

// PackageJSON represents the subset of package.json relevant for module
// resolution.
type PackageJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Main         string            `json:"main,omitempty"`
	Module       string            `json:"module,omitempty"`
	Exports      any               `json:"exports,omitempty"`
	Imports      any               `json:"imports,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ResolveExport resolves a subpath export to its target file path under the
// given ordered condition list. The subpath is "." for the main export or
// "./subpath" for subpath exports. Wildcard patterns in the exports field
// are matched with the request substituted for "*". Returns the resolved
// path without a leading "./".
func (pkg *PackageJSON) ResolveExport(subpath string, conditions []string) (string, error) {
	if pkg.Exports == nil {
		return "", ErrNotExported
	}

	// A bare string or condition-only map is sugar for the "." subpath.
	switch exports := pkg.Exports.(type) {
	case string:
		if subpath == "." {
			return trimDotSlash(exports), nil
		}
		return "", ErrNotExported
	case map[string]any:
		if !hasSubpathKeys(exports) {
			if subpath == "." {
				target, err := resolveConditions(exports, conditions)
				return trimDotSlash(target), err
			}
			return "", ErrNotExported
		}
		target, err := resolveSubpath(exports, subpath, conditions)
		return trimDotSlash(target), err
	}

	return "", ErrNotExported
}

// MainExport resolves the package entry through a plain manifest field.
// Only "main" and "module" are recognized.
func (pkg *PackageJSON) MainExport(field string) (string, error) {
	var value string
	switch field {
	case "main":
		value = pkg.Main
	case "module":
		value = pkg.Module
	}
	if value == "" {
		return "", ErrNotExported
	}
	return trimDotSlash(value), nil
}

// ResolveImport resolves a #alias self-reference through the imports field
// under the given ordered condition list. Targets come back verbatim:
// a leading "./" means a file within the package, anything else names
// another package.
func (pkg *PackageJSON) ResolveImport(specifier string, conditions []string) (string, error) {
	if !strings.HasPrefix(specifier, "#") {
		return "", ErrNotImported
	}
	importsMap, ok := pkg.Imports.(map[string]any)
	if !ok {
		return "", ErrNotImported
	}
	target, err := resolveSubpath(importsMap, specifier, conditions)
	if err != nil {
		return "", ErrNotImported
	}
	return target, nil
}

// resolveSubpath looks up key in an exports- or imports-shaped map, trying
// an exact match first and wildcard patterns second. Patterns are ranked by
// Node's PATTERN_KEY_COMPARE: the longest matching prefix wins, and patterns
// with equal prefixes rank by total length, so the winner never depends on
// map iteration order.
func resolveSubpath(m map[string]any, key string, conditions []string) (string, error) {
	if value, ok := m[key]; ok {
		return resolveExportValue(value, conditions)
	}

	bestPrefix, bestPattern := -1, -1
	var bestTarget string
	var bestErr error
	for pattern, value := range m {
		star := strings.Index(pattern, "*")
		if star < 0 {
			continue
		}
		prefix, suffix := pattern[:star], pattern[star+1:]
		if len(key) < len(prefix)+len(suffix) {
			continue
		}
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, suffix) {
			continue
		}
		if len(prefix) < bestPrefix ||
			(len(prefix) == bestPrefix && len(pattern) <= bestPattern) {
			continue
		}
		matched := key[len(prefix) : len(key)-len(suffix)]
		target, err := resolveExportValue(value, conditions)
		if err == nil {
			target = strings.ReplaceAll(target, "*", matched)
		}
		bestPrefix, bestPattern, bestTarget, bestErr = len(prefix), len(pattern), target, err
	}
	if bestPrefix < 0 {
		return "", ErrNotExported
	}
	return bestTarget, bestErr
}

// resolveExportValue resolves a single exports-field value: a string, a
// nested condition map, or a fallback array. Targets are returned verbatim;
// trimming the leading "./" is the caller's choice.
func resolveExportValue(value any, conditions []string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case map[string]any:
		return resolveConditions(v, conditions)
	case []any:
		for _, item := range v {
			if result, err := resolveExportValue(item, conditions); err == nil {
				return result, nil
			}
		}
	}
	return "", ErrNotExported
}

// resolveConditions resolves a conditional export map to a path, trying
// each condition in order and recursing into nested maps. Conditions absent
// from the list are unset; their branches are skipped entirely.
func resolveConditions(conditionMap map[string]any, conditions []string) (string, error) {
	for _, cond := range conditions {
		value, ok := conditionMap[cond]
		if !ok {
			continue
		}
		if result, err := resolveExportValue(value, conditions); err == nil {
			return result, nil
		}
	}
	return "", ErrNotExported
}

func hasSubpathKeys(exports map[string]any) bool {
	for key := range exports {
		if strings.HasPrefix(key, ".") {
			return true
		}
	}
	return false
}

// trimDotSlash removes a leading "./" from a path.
func trimDotSlash(path string) string {
	return strings.TrimPrefix(path, "./")
}
