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
// Package reference classifies why a module reference exists.
//
// Every import, require, or @import discovered while building a module graph
// is tagged with a Type describing its semantic origin. Rule matching
// branches on that tag through Includes, an asymmetric "accepts" relation:
// a rule's constraint Type accepts a candidate Type when the candidate is at
// least as specific. The well-known kinds are closed; Custom is a numeric
// placeholder reserved for a future pluggable-type registry.
package reference

import (
	"cmp"
	"errors"
	"strings"
)

// Module is an opaque handle to a resolved module asset.
type Module interface {
	// Ident returns a stable identifier for the module, such as its
	// resolved path.
	Ident() string
}

// ModulePart identifies a fragment of a module, such as a single named
// export split out by tree shaking.
type ModulePart interface {
	// PartID returns a stable identifier for the part, unique within its
	// module.
	PartID() string
}

// ErrUnsupportedCustomType is returned (or panicked) when matching or
// rendering reaches a Custom reference type. Custom tags have no defined
// semantics until a pluggable-type registry exists.
var ErrUnsupportedCustomType = errors.New("custom reference types are not supported")

// Kind is the top-level classification of a module reference.
type Kind uint8

const (
	// KindUndefined is the top-level wildcard: it accepts every reference.
	KindUndefined Kind = iota
	KindCommonJS
	KindEcmaScriptModules
	KindCss
	KindURL
	KindTypeScript
	KindEntry
	KindRuntime
	KindInternal
	KindCustom
)

// CommonJSSubtype refines CommonJS references.
type CommonJSSubtype uint8

// CommonJSUndefined is the CommonJS wildcard subtype.
const CommonJSUndefined CommonJSSubtype = 0

// ESMSubtype refines EcmaScriptModules references.
type ESMSubtype uint8

const (
	// ESMUndefined is the EcmaScriptModules wildcard subtype.
	ESMUndefined ESMSubtype = iota
	// ESMImport marks a static import declaration.
	ESMImport
	// ESMDynamicImport marks an import() call.
	ESMDynamicImport
)

// CSSSubtype refines Css references.
type CSSSubtype uint8

const (
	// CSSUndefined is the Css wildcard subtype.
	CSSUndefined CSSSubtype = iota
	// CSSCompose marks a CSS modules composes: reference.
	CSSCompose
	// CSSInternal marks a reference from any asset to a CSS-parseable
	// asset. It is the boundary between non-CSS and CSS assets.
	CSSInternal
)

// URLSubtype refines Url references.
type URLSubtype uint8

const (
	// URLUndefined is the Url wildcard subtype.
	URLUndefined URLSubtype = iota
	// URLEcmaScriptNewURL marks a new URL(..., import.meta.url) expression.
	URLEcmaScriptNewURL
	// URLCSS marks a url() token inside a stylesheet.
	URLCSS
)

// TypeScriptSubtype refines TypeScript references.
type TypeScriptSubtype uint8

// TypeScriptUndefined is the TypeScript wildcard subtype.
const TypeScriptUndefined TypeScriptSubtype = 0

// EntrySubtype refines Entry references.
type EntrySubtype uint8

const (
	// EntryUndefined is the Entry wildcard subtype.
	EntryUndefined EntrySubtype = iota
	EntryWeb
	EntryPage
	EntryPagesAPI
	EntryAppPage
	EntryAppRoute
	EntryAppClientComponent
	EntryMiddleware
	EntryInstrumentation
	EntryRuntime
)

// Internal subtype tags that have no public enum constant because they carry
// a payload and are only reachable through their constructors.
const (
	subImportPart uint8 = 0x80
	subAtImport   uint8 = 0x80
	subCustom     uint8 = 0xff
)

// Type classifies a single module reference. The zero value is the
// top-level Undefined wildcard. Values are immutable once constructed and
// may be copied and shared freely.
type Type struct {
	kind   Kind
	sub    uint8
	tag    uint8
	part   ModulePart
	ctx    *ImportContext
	assets *InnerAssets
}

// Undefined returns the top-level wildcard reference type.
func Undefined() Type { return Type{} }

// CommonJS returns a CommonJS reference type with the given subtype.
func CommonJS(sub CommonJSSubtype) Type {
	return Type{kind: KindCommonJS, sub: uint8(sub)}
}

// CommonJSCustom returns a CommonJS reference type with a custom subtype tag.
func CommonJSCustom(tag uint8) Type {
	return Type{kind: KindCommonJS, sub: subCustom, tag: tag}
}

// EcmaScript returns an EcmaScriptModules reference type with the given
// subtype.
func EcmaScript(sub ESMSubtype) Type {
	return Type{kind: KindEcmaScriptModules, sub: uint8(sub)}
}

// EcmaScriptImportPart returns an EcmaScriptModules reference type for an
// import of a single module part.
func EcmaScriptImportPart(part ModulePart) Type {
	return Type{kind: KindEcmaScriptModules, sub: subImportPart, part: part}
}

// EcmaScriptCustom returns an EcmaScriptModules reference type with a custom
// subtype tag.
func EcmaScriptCustom(tag uint8) Type {
	return Type{kind: KindEcmaScriptModules, sub: subCustom, tag: tag}
}

// CSS returns a Css reference type with the given subtype.
func CSS(sub CSSSubtype) Type {
	return Type{kind: KindCss, sub: uint8(sub)}
}

// CSSAtImport returns a Css reference type for an @import site. The context
// carries the conditions accumulated along the import chain and may be nil.
func CSSAtImport(ctx *ImportContext) Type {
	return Type{kind: KindCss, sub: subAtImport, ctx: ctx}
}

// CSSCustom returns a Css reference type with a custom subtype tag.
func CSSCustom(tag uint8) Type {
	return Type{kind: KindCss, sub: subCustom, tag: tag}
}

// URL returns a Url reference type with the given subtype.
func URL(sub URLSubtype) Type {
	return Type{kind: KindURL, sub: uint8(sub)}
}

// URLCustom returns a Url reference type with a custom subtype tag.
func URLCustom(tag uint8) Type {
	return Type{kind: KindURL, sub: subCustom, tag: tag}
}

// TypeScript returns a TypeScript reference type with the given subtype.
func TypeScript(sub TypeScriptSubtype) Type {
	return Type{kind: KindTypeScript, sub: uint8(sub)}
}

// TypeScriptCustom returns a TypeScript reference type with a custom subtype
// tag.
func TypeScriptCustom(tag uint8) Type {
	return Type{kind: KindTypeScript, sub: subCustom, tag: tag}
}

// Entry returns an Entry reference type with the given subtype.
func Entry(sub EntrySubtype) Type {
	return Type{kind: KindEntry, sub: uint8(sub)}
}

// EntryCustom returns an Entry reference type with a custom subtype tag.
func EntryCustom(tag uint8) Type {
	return Type{kind: KindEntry, sub: subCustom, tag: tag}
}

// RuntimeReference returns the Runtime reference type.
func RuntimeReference() Type { return Type{kind: KindRuntime} }

// InternalReference returns an Internal reference type backed by the given
// inner-asset table. Pass EmptyInnerAssets() when there are none.
func InternalReference(assets *InnerAssets) Type {
	return Type{kind: KindInternal, assets: assets}
}

// Custom returns a top-level custom reference type. Matching and rendering
// custom types is not supported until a pluggable-type registry exists.
func Custom(tag uint8) Type {
	return Type{kind: KindCustom, tag: tag}
}

// Kind returns the top-level kind of the reference type.
func (t Type) Kind() Kind { return t.kind }

// ImportContext returns the import context carried by a Css @import
// reference, or nil for every other value.
func (t Type) ImportContext() *ImportContext {
	if t.kind == KindCss && t.sub == subAtImport {
		return t.ctx
	}
	return nil
}

// InnerAssets returns the inner-asset table carried by an Internal
// reference, or nil for every other value.
func (t Type) InnerAssets() *InnerAssets {
	if t.kind == KindInternal {
		return t.assets
	}
	return nil
}

// Part returns the module part carried by an EcmaScriptModules import-part
// reference, or nil for every other value.
func (t Type) Part() ModulePart {
	if t.kind == KindEcmaScriptModules && t.sub == subImportPart {
		return t.part
	}
	return nil
}

// Equal reports whether two reference types are structurally equal,
// including carried payloads.
func (t Type) Equal(other Type) bool {
	if t.kind != other.kind || t.sub != other.sub || t.tag != other.tag {
		return false
	}
	if !partEqual(t.part, other.part) {
		return false
	}
	if (t.ctx == nil) != (other.ctx == nil) {
		return false
	}
	if t.ctx != nil && !t.ctx.Equal(other.ctx) {
		return false
	}
	return t.assets.equal(other.assets)
}

// Includes reports whether a candidate classified as other satisfies this
// value's constraint. The relation is asymmetric: within a kind only the
// kind's Undefined subtype is a wildcard, and the top-level Undefined value
// accepts everything.
//
// Css @import references match each other regardless of their carried
// import context. Condition matching is deliberately insensitive to the
// accumulated @import conditions.
//
// Includes panics with ErrUnsupportedCustomType when called on a top-level
// Custom value; use IncludesChecked where that must surface as an error.
func (t Type) Includes(other Type) bool {
	ok, err := t.IncludesChecked(other)
	if err != nil {
		panic(err)
	}
	return ok
}

// IncludesChecked is Includes with the unsupported Custom arm reported as an
// error instead of a panic.
func (t Type) IncludesChecked(other Type) (bool, error) {
	if t.Equal(other) {
		return true, nil
	}
	switch t.kind {
	case KindUndefined:
		return true, nil
	case KindCommonJS, KindEcmaScriptModules, KindURL, KindTypeScript, KindEntry:
		return other.kind == t.kind && t.sub == 0, nil
	case KindCss:
		if t.sub == subAtImport {
			return other.kind == KindCss && other.sub == subAtImport, nil
		}
		return other.kind == KindCss && t.sub == 0, nil
	case KindRuntime:
		return other.kind == KindRuntime, nil
	case KindInternal:
		return other.kind == KindInternal, nil
	case KindCustom:
		return false, ErrUnsupportedCustomType
	}
	return false, nil
}

// IsInternal reports whether the reference targets an internal asset.
// Rule matching uses this to gate rules that must only apply to assets the
// bundler itself synthesized.
func (t Type) IsInternal() bool {
	switch t.kind {
	case KindInternal, KindRuntime:
		return true
	case KindCss:
		return t.sub == uint8(CSSInternal)
	}
	return false
}

// String returns a short label for the reference type. Subtypes are not
// rendered, except that import-part references are distinguished from plain
// EcmaScript module references. Rendering a Custom value panics, matching
// the unsupported Custom arm of Includes.
func (t Type) String() string {
	switch t.kind {
	case KindCommonJS:
		return "commonjs"
	case KindEcmaScriptModules:
		if t.sub == subImportPart {
			return "EcmaScript Modules (part)"
		}
		return "EcmaScript Modules"
	case KindCss:
		return "css"
	case KindURL:
		return "url"
	case KindTypeScript:
		return "typescript"
	case KindEntry:
		return "entry"
	case KindRuntime:
		return "runtime"
	case KindInternal:
		return "internal"
	case KindCustom:
		panic(ErrUnsupportedCustomType)
	}
	return "undefined"
}

// Compare returns a total order over reference types so they can be used as
// deterministic cache or map keys. The order is lexicographic over kind,
// subtype tag, custom tag, and carried payload identity.
func (t Type) Compare(other Type) int {
	if c := cmp.Compare(t.kind, other.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(t.sub, other.sub); c != 0 {
		return c
	}
	if c := cmp.Compare(t.tag, other.tag); c != 0 {
		return c
	}
	if c := strings.Compare(partKey(t.part), partKey(other.part)); c != 0 {
		return c
	}
	if c := strings.Compare(t.ctx.Key(), other.ctx.Key()); c != 0 {
		return c
	}
	return strings.Compare(t.assets.key(), other.assets.key())
}

func partEqual(a, b ModulePart) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.PartID() == b.PartID()
}

func partKey(p ModulePart) string {
	if p == nil {
		return ""
	}
	return p.PartID()
}
