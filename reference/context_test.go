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
package reference_test

import (
	"slices"
	"testing"

	"bennypowers.dev/grafo/reference"
)

func str(s string) *string { return &s }

func TestImportContextAdd(t *testing.T) {
	tests := []struct {
		name         string
		base         *reference.ImportContext
		layer        *string
		supports     *string
		media        *string
		wantLayers   []string
		wantSupports []string
		wantMedia    []string
	}{
		{
			name:       "layer onto nil context",
			base:       nil,
			layer:      str("base"),
			wantLayers: []string{"base"},
		},
		{
			name:       "anonymous layer",
			base:       nil,
			layer:      str(""),
			wantLayers: []string{""},
		},
		{
			name:       "duplicate layer is not appended",
			base:       reference.NewImportContext([]string{"base"}, nil, nil),
			layer:      str("base"),
			wantLayers: []string{"base"},
		},
		{
			name:       "new layer appends after existing",
			base:       reference.NewImportContext([]string{"base"}, nil, nil),
			layer:      str("theme"),
			wantLayers: []string{"base", "theme"},
		},
		{
			name: "nil conditions leave the context unchanged",
			base: reference.NewImportContext(
				[]string{"base"}, []string{"(display: grid)"}, []string{"screen"},
			),
			wantLayers:   []string{"base"},
			wantSupports: []string{"(display: grid)"},
			wantMedia:    []string{"screen"},
		},
		{
			name:         "each family accumulates independently",
			base:         reference.NewImportContext([]string{"base"}, nil, nil),
			supports:     str("(display: grid)"),
			media:        str("print"),
			wantLayers:   []string{"base"},
			wantSupports: []string{"(display: grid)"},
			wantMedia:    []string{"print"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.Add(tt.layer, tt.supports, tt.media)
			if !slices.Equal(got.Layers(), tt.wantLayers) {
				t.Errorf("Layers = %v, want %v", got.Layers(), tt.wantLayers)
			}
			if !slices.Equal(got.Supports(), tt.wantSupports) {
				t.Errorf("Supports = %v, want %v", got.Supports(), tt.wantSupports)
			}
			if !slices.Equal(got.Media(), tt.wantMedia) {
				t.Errorf("Media = %v, want %v", got.Media(), tt.wantMedia)
			}
		})
	}
}

func TestImportContextAddDoesNotMutate(t *testing.T) {
	base := reference.NewImportContext([]string{"base"}, nil, nil)
	derived := base.Add(str("theme"), nil, str("screen"))

	if !slices.Equal(base.Layers(), []string{"base"}) {
		t.Errorf("base layers changed: %v", base.Layers())
	}
	if len(base.Media()) != 0 {
		t.Errorf("base media changed: %v", base.Media())
	}
	if !slices.Equal(derived.Layers(), []string{"base", "theme"}) {
		t.Errorf("derived layers = %v", derived.Layers())
	}
}

func TestImportContextAddAttributes(t *testing.T) {
	attrs := reference.ImportAttributes{
		Layer: str("theme"),
		Media: str("(min-width: 40em)"),
	}
	got := reference.NewImportContext([]string{"base"}, nil, nil).AddAttributes(attrs)

	if !slices.Equal(got.Layers(), []string{"base", "theme"}) {
		t.Errorf("Layers = %v", got.Layers())
	}
	if !slices.Equal(got.Media(), []string{"(min-width: 40em)"}) {
		t.Errorf("Media = %v", got.Media())
	}
	if len(got.Supports()) != 0 {
		t.Errorf("Supports = %v", got.Supports())
	}
}

func TestImportContextEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *reference.ImportContext
		want bool
	}{
		{
			"nil and nil",
			nil, nil,
			true,
		},
		{
			"nil and empty",
			nil, reference.NewImportContext(nil, nil, nil),
			true,
		},
		{
			"same content",
			reference.NewImportContext([]string{"a"}, nil, []string{"print"}),
			reference.NewImportContext([]string{"a"}, nil, []string{"print"}),
			true,
		},
		{
			"order matters",
			reference.NewImportContext([]string{"a", "b"}, nil, nil),
			reference.NewImportContext([]string{"b", "a"}, nil, nil),
			false,
		},
		{
			"families are not interchangeable",
			reference.NewImportContext([]string{"print"}, nil, nil),
			reference.NewImportContext(nil, nil, []string{"print"}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportContextKey(t *testing.T) {
	a := reference.NewImportContext([]string{"a", "b"}, nil, []string{"screen"})
	same := reference.NewImportContext([]string{"a", "b"}, nil, []string{"screen"})
	reordered := reference.NewImportContext([]string{"b", "a"}, nil, []string{"screen"})

	if a.Key() != same.Key() {
		t.Error("equal contexts must share a key")
	}
	if a.Key() == reordered.Key() {
		t.Error("reordered conditions must produce a different key")
	}

	var nilCtx *reference.ImportContext
	if nilCtx.Key() != reference.NewImportContext(nil, nil, nil).Key() {
		t.Error("nil context key must match the empty context key")
	}
	if nilCtx.Key() == a.Key() {
		t.Error("the empty context key must differ from a populated key")
	}
}

func TestImportContextAccessorsReturnCopies(t *testing.T) {
	ctx := reference.NewImportContext([]string{"base"}, nil, nil)
	layers := ctx.Layers()
	layers[0] = "mutated"
	if ctx.Layers()[0] != "base" {
		t.Error("Layers must return a copy")
	}
}
