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
package reference

import (
	"fmt"
	"slices"
	"strings"
)

// InnerAsset is one named alias for an already-created module.
type InnerAsset struct {
	Name   string
	Module Module
}

// InnerAssets maps alias names to already-created modules, letting a module
// redirect some of its requests to synthesized assets. Names are usually
// UPPER_CASE to make the aliasing obvious at the request site. Iteration
// order is insertion order; the table is immutable once constructed.
type InnerAssets struct {
	names   []string
	modules map[string]Module
}

var emptyInnerAssets = &InnerAssets{}

// EmptyInnerAssets returns the shared empty table.
func EmptyInnerAssets() *InnerAssets { return emptyInnerAssets }

// NewInnerAssets builds a table from the given entries. A repeated name
// keeps its original position and takes the last module given for it.
func NewInnerAssets(entries ...InnerAsset) *InnerAssets {
	if len(entries) == 0 {
		return emptyInnerAssets
	}
	ia := &InnerAssets{modules: make(map[string]Module, len(entries))}
	for _, entry := range entries {
		if _, seen := ia.modules[entry.Name]; !seen {
			ia.names = append(ia.names, entry.Name)
		}
		ia.modules[entry.Name] = entry.Module
	}
	return ia
}

// Len returns the number of entries.
func (ia *InnerAssets) Len() int {
	if ia == nil {
		return 0
	}
	return len(ia.names)
}

// Get returns the module aliased by name.
func (ia *InnerAssets) Get(name string) (Module, bool) {
	if ia == nil {
		return nil, false
	}
	m, ok := ia.modules[name]
	return m, ok
}

// Names returns a copy of the alias names in insertion order.
func (ia *InnerAssets) Names() []string {
	if ia == nil {
		return nil
	}
	return slices.Clone(ia.names)
}

func (ia *InnerAssets) equal(other *InnerAssets) bool {
	if ia.Len() != other.Len() {
		return false
	}
	if ia == nil || other == nil {
		return true
	}
	for i, name := range ia.names {
		if other.names[i] != name {
			return false
		}
		if moduleKey(ia.modules[name]) != moduleKey(other.modules[name]) {
			return false
		}
	}
	return true
}

func (ia *InnerAssets) key() string {
	if ia.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for _, name := range ia.names {
		fmt.Fprintf(&sb, "%q=%q;", name, moduleKey(ia.modules[name]))
	}
	return sb.String()
}

func moduleKey(m Module) string {
	if m == nil {
		return ""
	}
	return m.Ident()
}
