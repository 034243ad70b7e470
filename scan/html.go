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
	"bytes"

	"golang.org/x/net/html"

	"bennypowers.dev/grafo/reference"
)

// ExtractHTMLEntries parses an HTML document and returns its module entry
// points: <script type="module" src> and <link rel="stylesheet" href>,
// each classified as a web entry reference.
func ExtractHTMLEntries(content []byte) ([]ImportSite, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var entries []ImportSite
	for node := range doc.Descendants() {
		if node.Type != html.ElementNode {
			continue
		}
		switch node.Data {
		case "script":
			if attr(node, "type") == "module" {
				if src := attr(node, "src"); src != "" {
					entries = append(entries, ImportSite{
						Specifier: src,
						Type:      reference.Entry(reference.EntryWeb),
					})
				}
			}
		case "link":
			if attr(node, "rel") == "stylesheet" {
				if href := attr(node, "href"); href != "" {
					entries = append(entries, ImportSite{
						Specifier: href,
						Type:      reference.Entry(reference.EntryWeb),
					})
				}
			}
		}
	}
	return entries, nil
}

func attr(node *html.Node, name string) string {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
