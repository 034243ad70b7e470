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
package scan

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/grafo/reference"
)

// ImportSite is one discovered import with its classification.
type ImportSite struct {
	// Specifier is the requested module specifier.
	Specifier string
	// Type classifies why the reference exists.
	Type reference.Type
	// Line is the 1-indexed source line of the site.
	Line int
}

// ExtractImports parses JavaScript/TypeScript content and returns every
// import site, classified: static imports and re-exports as EcmaScript
// module imports, import() as dynamic imports, require() as CommonJS, and
// new URL(..., import.meta.url) as URL references.
func ExtractImports(content []byte) ([]ImportSite, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}

	parser := getTSParser()
	defer putTSParser(parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse content")
	}
	defer tree.Close()

	query, err := qm.Query("typescript", "imports")
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var sites []ImportSite
	matches := cursor.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		for _, capture := range match.Captures {
			name := captureNames[capture.Index]
			text := capture.Node.Utf8Text(content)
			line := int(capture.Node.StartPosition().Row) + 1 // 1-indexed

			switch name {
			case "import.spec", "reexport.spec":
				sites = append(sites, ImportSite{
					Specifier: text,
					Type:      reference.EcmaScript(reference.ESMImport),
					Line:      line,
				})
			case "dynamicImport.spec":
				sites = append(sites, ImportSite{
					Specifier: text,
					Type:      reference.EcmaScript(reference.ESMDynamicImport),
					Line:      line,
				})
			case "require.spec":
				sites = append(sites, ImportSite{
					Specifier: text,
					Type:      reference.CommonJS(reference.CommonJSUndefined),
					Line:      line,
				})
			case "newUrl.spec":
				sites = append(sites, ImportSite{
					Specifier: text,
					Type:      reference.URL(reference.URLEcmaScriptNewURL),
					Line:      line,
				})
			}
		}
	}

	return sites, nil
}
