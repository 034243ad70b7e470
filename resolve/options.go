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
// Package resolve builds and consumes resolution-policy records, turning
// request specifiers into file paths the way Node-compatible module systems
// do. Policy construction is pure; only the Resolver touches a filesystem.
package resolve

// ConditionValue states whether a resolution condition is active.
type ConditionValue uint8

const (
	// ConditionUnset means the condition does not apply.
	ConditionUnset ConditionValue = iota
	// ConditionSet means the condition applies.
	ConditionSet
	// ConditionUnknown means the condition may or may not apply; both
	// branches of a conditional field have to be considered.
	ConditionUnknown
)

// Condition is one named resolution condition with its value.
type Condition struct {
	Name  string
	Value ConditionValue
}

// Conditions is an ordered condition set. Order is the order in which
// conditional exports and imports fields are probed.
type Conditions []Condition

// Names returns the names of conditions with the given value, in order.
func (cs Conditions) Names(value ConditionValue) []string {
	var names []string
	for _, c := range cs {
		if c.Value == value {
			names = append(names, c.Name)
		}
	}
	return names
}

// ModulesLookup is one strategy for finding packages by bare specifier:
// search every directory with one of the given names, starting at the
// request's directory and walking upward until Root.
type ModulesLookup struct {
	// Root bounds the upward search; directories above it are not probed.
	Root string
	// Names are the lookup directory names, usually just "node_modules".
	Names []string
}

// IntoPackage is one strategy for resolving the entry of a package that a
// request points into.
type IntoPackage interface {
	intoPackage()
}

// InPackage is one strategy for resolving a request made from within a
// package, such as a #alias self-reference.
type InPackage interface {
	inPackage()
}

// ExportsField resolves a package entry through the conditional exports
// field of its manifest.
type ExportsField struct {
	// Conditions is the ordered active condition set.
	Conditions Conditions
	// UnspecifiedConditions is the value assumed for conditions the set
	// does not mention.
	UnspecifiedConditions ConditionValue
}

func (ExportsField) intoPackage() {}

// MainField resolves a package entry through a plain manifest field such as
// "main" or "module".
type MainField struct {
	Field string
}

func (MainField) intoPackage() {}

// ImportsField resolves #alias self-references through the conditional
// imports field of the containing package's manifest.
type ImportsField struct {
	Conditions            Conditions
	UnspecifiedConditions ConditionValue
}

func (ImportsField) inPackage() {}

// Options is the policy record handed to the Resolver. It describes
// extension order, module lookup strategy, and package-field precedence;
// it never performs any filesystem access itself.
type Options struct {
	// Extensions are probed, in order, when a request does not name an
	// existing file directly.
	Extensions []string

	// Modules lists the lookup strategies tried for bare specifiers.
	Modules []ModulesLookup

	// IntoPackage lists the entry-resolution strategies tried, in order,
	// for requests that point into a package.
	IntoPackage []IntoPackage

	// InPackage lists the strategies tried for requests made from within
	// a package.
	InPackage []InPackage

	// DefaultFiles are the base names probed, in order, when a request
	// names a directory.
	DefaultFiles []string

	// FullySpecified requires requests to carry an explicit extension:
	// no extension probing and no directory default files.
	FullySpecified bool

	// PreferRelative treats extensionless bare specifiers as relative
	// paths first. Off for Node-compatible resolution.
	PreferRelative bool
}

// ConditionNames flattens an ordered condition set into the list of active
// condition names a manifest resolver probes, always ending with "default",
// which every conditional field matches unconditionally.
func ConditionNames(conditions Conditions) []string {
	return append(conditions.Names(ConditionSet), "default")
}
