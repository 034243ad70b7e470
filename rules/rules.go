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
// Package rules matches module references against rule conditions.
//
// A rule's condition decides whether a transformation applies to a request,
// based on the reference type that classified it and the path it resolved
// to. Reference-type conditions use the asymmetric subsumption relation
// from the reference package: a rule constrained to a kind's wildcard
// accepts every subtype of that kind.
package rules

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/grafo/reference"
)

// Request is one classified module request presented to rule matching.
type Request struct {
	// Path is the resolved path of the requested asset.
	Path string
	// Type classifies why the reference exists.
	Type reference.Type
}

// Condition decides whether a rule applies to a request.
type Condition interface {
	Matches(req Request) bool
}

// ReferenceType matches requests whose reference type is accepted by the
// constraint type.
type ReferenceType struct {
	Type reference.Type
}

func (c ReferenceType) Matches(req Request) bool {
	return c.Type.Includes(req.Type)
}

// Internal matches requests for assets the bundler itself synthesized.
type Internal struct{}

func (Internal) Matches(req Request) bool {
	return req.Type.IsInternal()
}

// PathGlob matches requests whose resolved path matches a doublestar glob.
type PathGlob struct {
	Pattern string
}

func (c PathGlob) Matches(req Request) bool {
	ok, err := doublestar.Match(c.Pattern, filepath.ToSlash(req.Path))
	return err == nil && ok
}

// All matches when every inner condition matches. An empty All matches
// everything.
type All []Condition

func (cs All) Matches(req Request) bool {
	for _, c := range cs {
		if !c.Matches(req) {
			return false
		}
	}
	return true
}

// Any matches when at least one inner condition matches.
type Any []Condition

func (cs Any) Matches(req Request) bool {
	for _, c := range cs {
		if c.Matches(req) {
			return true
		}
	}
	return false
}

// Not inverts a condition.
type Not struct {
	Condition Condition
}

func (c Not) Matches(req Request) bool {
	return !c.Condition.Matches(req)
}

// Rule pairs a condition with the names of the transformations to apply
// when it matches.
type Rule struct {
	Condition   Condition
	Transforms  []string
	Description string
}

// Match returns the transforms of every rule whose condition accepts the
// request, in rule order.
func Match(rules []Rule, req Request) []string {
	var transforms []string
	for _, rule := range rules {
		if rule.Condition.Matches(req) {
			transforms = append(transforms, rule.Transforms...)
		}
	}
	return transforms
}
