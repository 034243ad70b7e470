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

// ImportAttributes holds the raw, unmerged conditions present on a single
// CSS @import site. Each field is nil when the site does not carry that
// condition. An empty string is meaningful: an anonymous layer is Layer
// pointing at "".
type ImportAttributes struct {
	Layer    *string
	Supports *string
	Media    *string
}

// ImportContext is the accumulated list of conditions applied to a module
// through its chain of nested @import statements. Each family preserves
// arrival order and never contains duplicates. Values are immutable; Add
// returns a new context and leaves the receiver usable by other resolution
// branches. A nil *ImportContext behaves as the empty context.
type ImportContext struct {
	layers   []string
	supports []string
	media    []string
}

// NewImportContext builds a context directly from three ordered condition
// sequences. The inputs are copied, not retained; no deduplication is
// performed.
func NewImportContext(layers, supports, media []string) *ImportContext {
	return &ImportContext{
		layers:   slices.Clone(layers),
		supports: slices.Clone(supports),
		media:    slices.Clone(media),
	}
}

// Add returns a new context extended with the given conditions. For each
// family independently: a nil value leaves the family unchanged, a value
// already present leaves it unchanged, and a new value is appended at the
// end. The receiver is never modified.
func (c *ImportContext) Add(layer, supports, media *string) *ImportContext {
	if c == nil {
		c = &ImportContext{}
	}
	return &ImportContext{
		layers:   appendCondition(c.layers, layer),
		supports: appendCondition(c.supports, supports),
		media:    appendCondition(c.media, media),
	}
}

// AddAttributes folds one @import site's raw attributes into the context.
func (c *ImportContext) AddAttributes(attrs ImportAttributes) *ImportContext {
	return c.Add(attrs.Layer, attrs.Supports, attrs.Media)
}

// Layers returns a copy of the accumulated layer names in arrival order.
func (c *ImportContext) Layers() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.layers)
}

// Supports returns a copy of the accumulated supports conditions in arrival
// order.
func (c *ImportContext) Supports() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.supports)
}

// Media returns a copy of the accumulated media queries in arrival order.
func (c *ImportContext) Media() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.media)
}

// Equal reports whether two contexts hold the same conditions in the same
// order. Order matters: it reflects the left-to-right composition of nested
// @import conditions, which downstream code generation must observe.
func (c *ImportContext) Equal(other *ImportContext) bool {
	if c == nil {
		c = &ImportContext{}
	}
	if other == nil {
		other = &ImportContext{}
	}
	return slices.Equal(c.layers, other.layers) &&
		slices.Equal(c.supports, other.supports) &&
		slices.Equal(c.media, other.media)
}

// Key returns a stable string over the full ordered content, suitable as
// cache-key material. Two contexts have the same key iff they are Equal.
func (c *ImportContext) Key() string {
	if c == nil {
		c = &ImportContext{}
	}
	var sb strings.Builder
	writeConditionFamily(&sb, "layers", c.layers)
	writeConditionFamily(&sb, "supports", c.supports)
	writeConditionFamily(&sb, "media", c.media)
	return sb.String()
}

func appendCondition(conditions []string, value *string) []string {
	cloned := slices.Clone(conditions)
	if value == nil || slices.Contains(cloned, *value) {
		return cloned
	}
	return append(cloned, *value)
}

func writeConditionFamily(sb *strings.Builder, name string, values []string) {
	sb.WriteString(name)
	sb.WriteByte(':')
	for _, v := range values {
		fmt.Fprintf(sb, "%q,", v)
	}
	sb.WriteByte(';')
}
