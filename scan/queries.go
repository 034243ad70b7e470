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
// Package scan discovers import sites in JavaScript, TypeScript, CSS, and
// HTML sources and classifies each one with a reference type.
package scan

import (
	"embed"
	"fmt"
	"path"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsCss "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*/*.scm
var queryFiles embed.FS

// Languages holds pre-initialized tree-sitter language grammars.
var languages = struct {
	typescript *ts.Language
	css        *ts.Language
}{
	ts.NewLanguage(tsTypescript.LanguageTypescript()),
	ts.NewLanguage(tsCss.Language()),
}

// Parser pools for reuse.
var (
	tsParserPool = sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(languages.typescript); err != nil {
				panic("failed to set TypeScript language: " + err.Error())
			}
			return parser
		},
	}

	cssParserPool = sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(languages.css); err != nil {
				panic("failed to set CSS language: " + err.Error())
			}
			return parser
		},
	}
)

func getTSParser() *ts.Parser {
	return tsParserPool.Get().(*ts.Parser)
}

func putTSParser(p *ts.Parser) {
	p.Reset()
	tsParserPool.Put(p)
}

func getCSSParser() *ts.Parser {
	return cssParserPool.Get().(*ts.Parser)
}

func putCSSParser(p *ts.Parser) {
	p.Reset()
	cssParserPool.Put(p)
}

// QueryManager manages tree-sitter queries for TypeScript and CSS parsing.
type QueryManager struct {
	mu         sync.Mutex
	closed     bool
	typescript map[string]*ts.Query
	css        map[string]*ts.Query
}

// NewQueryManager creates a new QueryManager with the specified queries loaded.
func NewQueryManager(tsQueries, cssQueries []string) (*QueryManager, error) {
	qm := &QueryManager{
		typescript: make(map[string]*ts.Query),
		css:        make(map[string]*ts.Query),
	}

	for _, name := range tsQueries {
		if err := qm.loadQuery("typescript", name); err != nil {
			qm.Close()
			return nil, err
		}
	}

	for _, name := range cssQueries {
		if err := qm.loadQuery("css", name); err != nil {
			qm.Close()
			return nil, err
		}
	}

	return qm, nil
}

func (qm *QueryManager) loadQuery(language, name string) error {
	queryPath := path.Join("queries", language, name+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query %s: %w", queryPath, err)
	}

	var lang *ts.Language
	switch language {
	case "typescript":
		lang = languages.typescript
	case "css":
		lang = languages.css
	default:
		return fmt.Errorf("unknown language: %s", language)
	}

	query, qerr := ts.NewQuery(lang, string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s: %w", name, qerr)
	}

	switch language {
	case "typescript":
		qm.typescript[name] = query
	case "css":
		qm.css[name] = query
	}

	return nil
}

// Query returns a loaded query by language and name.
func (qm *QueryManager) Query(language, name string) (*ts.Query, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	if qm.closed {
		return nil, fmt.Errorf("query manager is closed")
	}

	var query *ts.Query
	switch language {
	case "typescript":
		query = qm.typescript[name]
	case "css":
		query = qm.css[name]
	}
	if query == nil {
		return nil, fmt.Errorf("query %s/%s not loaded", language, name)
	}
	return query, nil
}

// Close releases all query resources. Safe to call multiple times.
func (qm *QueryManager) Close() {
	qm.mu.Lock()
	if qm.closed {
		qm.mu.Unlock()
		return
	}
	qm.closed = true
	tsQueries := qm.typescript
	cssQueries := qm.css
	qm.typescript = nil
	qm.css = nil
	qm.mu.Unlock()

	for _, q := range tsQueries {
		q.Close()
	}
	for _, q := range cssQueries {
		q.Close()
	}
}

var (
	queryManagerOnce sync.Once
	queryManager     *QueryManager
	queryManagerErr  error
)

// GetQueryManager returns the shared QueryManager, loading the default
// queries on first use.
func GetQueryManager() (*QueryManager, error) {
	queryManagerOnce.Do(func() {
		queryManager, queryManagerErr = NewQueryManager(
			[]string{"imports"},
			[]string{"imports"},
		)
	})
	return queryManager, queryManagerErr
}
