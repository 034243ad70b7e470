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
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/grafo/reference"
)

// CSSImport is one discovered @import site with its raw, unmerged
// conditions. The caller folds Attributes into the ambient import context.
type CSSImport struct {
	// Specifier is the imported stylesheet specifier.
	Specifier string
	// Attributes are the site's raw layer/supports/media conditions.
	Attributes reference.ImportAttributes
	// Line is the 1-indexed source line of the site.
	Line int
}

// ExtractCSSImports parses stylesheet content and returns its @import sites
// along with url() references classified as Url(CSSUrl). url() tokens that
// belong to an @import statement are reported once, as the @import.
func ExtractCSSImports(content []byte) ([]CSSImport, []ImportSite, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, nil, err
	}

	parser := getCSSParser()
	defer putCSSParser(parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("failed to parse content")
	}
	defer tree.Close()

	query, err := qm.Query("css", "imports")
	if err != nil {
		return nil, nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var imports []CSSImport
	var urls []ImportSite
	matches := cursor.Matches(query, tree.RootNode(), content)
	captureNames := query.CaptureNames()

	for {
		match := matches.Next()
		if match == nil {
			break
		}

		for _, capture := range match.Captures {
			switch captureNames[capture.Index] {
			case "import.statement":
				if imp, ok := parseImportStatement(&capture.Node, content); ok {
					imports = append(imports, imp)
				}
			case "url.spec":
				if insideImportStatement(&capture.Node) {
					continue
				}
				urls = append(urls, ImportSite{
					Specifier: unquote(capture.Node.Utf8Text(content)),
					Type:      reference.URL(reference.URLCSS),
					Line:      int(capture.Node.StartPosition().Row) + 1,
				})
			}
		}
	}

	return imports, urls, nil
}

// parseImportStatement pulls the specifier and the layer/supports/media
// conditions out of one @import statement. The first string or url() value
// is the specifier. The grammar does not treat layer(...) and supports(...)
// here as call expressions: the keyword and its parenthesized value arrive
// as consecutive query children, so conditions are recognized by pairing a
// keyword child with the parenthesized child that follows it. Whatever
// remains is the media query list.
func parseImportStatement(node *ts.Node, content []byte) (CSSImport, bool) {
	imp := CSSImport{Line: int(node.StartPosition().Row) + 1}
	var media []string
	haveSpecifier := false

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		text := child.Utf8Text(content)

		switch child.Kind() {
		case "string_value":
			if !haveSpecifier {
				imp.Specifier = unquote(text)
				haveSpecifier = true
			} else {
				media = append(media, text)
			}
		case "call_expression":
			if functionName(child, content) == "url" && !haveSpecifier {
				imp.Specifier = unquote(argumentText(child, content))
				haveSpecifier = true
			} else {
				media = append(media, text)
			}
		default:
			switch text {
			case "layer":
				if value, ok := parenthesizedSibling(node, i, content); ok {
					name := unquote(value)
					imp.Attributes.Layer = &name
					i++
				} else {
					// A bare layer keyword declares an anonymous layer.
					anonymous := ""
					imp.Attributes.Layer = &anonymous
				}
			case "supports":
				if value, ok := parenthesizedSibling(node, i, content); ok {
					imp.Attributes.Supports = &value
					i++
				} else {
					media = append(media, text)
				}
			default:
				media = append(media, text)
			}
		}
	}

	if len(media) > 0 {
		query := strings.Join(media, " ")
		imp.Attributes.Media = &query
	}
	return imp, haveSpecifier
}

// parenthesizedSibling returns the content of the named child following
// index i when that child is a parenthesized query, with the outer parens
// stripped.
func parenthesizedSibling(node *ts.Node, i uint, content []byte) (string, bool) {
	next := node.NamedChild(i + 1)
	if next == nil {
		return "", false
	}
	text := strings.TrimSpace(next.Utf8Text(content))
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return "", false
	}
	return strings.TrimSpace(text[1 : len(text)-1]), true
}

func insideImportStatement(node *ts.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Kind() == "import_statement" {
			return true
		}
	}
	return false
}

func functionName(node *ts.Node, content []byte) string {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "function_name" {
			return child.Utf8Text(content)
		}
	}
	return ""
}

func argumentText(node *ts.Node, content []byte) string {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "arguments" {
			text := strings.TrimSpace(child.Utf8Text(content))
			text = strings.TrimPrefix(text, "(")
			text = strings.TrimSuffix(text, ")")
			return strings.TrimSpace(text)
		}
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
