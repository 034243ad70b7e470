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
package resolve

// NodeCJSOptions returns the resolution policy for CommonJS require()
// requests rooted at the given lookup path: conditions {node, require},
// extensions .js/.json/.node probed implicitly, upward node_modules search,
// exports field before main field, and "index" directory defaults.
//
// The builder is a pure function of root; it performs no filesystem access.
func NodeCJSOptions(root string) Options {
	return nodeOptions(root, "require", false)
}

// NodeESMOptions returns the resolution policy for ECMAScript import
// requests rooted at the given lookup path. It differs from NodeCJSOptions
// in the condition set, {node, import}, and in requiring fully specified
// request specifiers, mirroring strict ESM resolution.
//
// The builder is a pure function of root; it performs no filesystem access.
func NodeESMOptions(root string) Options {
	return nodeOptions(root, "import", true)
}

func nodeOptions(root, referenceCondition string, fullySpecified bool) Options {
	conditions := Conditions{
		{Name: "node", Value: ConditionSet},
		{Name: referenceCondition, Value: ConditionSet},
	}
	return Options{
		Extensions: []string{".js", ".json", ".node"},
		Modules: []ModulesLookup{
			{Root: root, Names: []string{"node_modules"}},
		},
		IntoPackage: []IntoPackage{
			ExportsField{
				Conditions:            conditions,
				UnspecifiedConditions: ConditionUnset,
			},
			MainField{Field: "main"},
		},
		InPackage: []InPackage{
			ImportsField{
				Conditions:            conditions,
				UnspecifiedConditions: ConditionUnset,
			},
		},
		DefaultFiles:   []string{"index"},
		FullySpecified: fullySpecified,
	}
}
