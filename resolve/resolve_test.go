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
package resolve_test

import (
	"errors"
	"testing"

	"bennypowers.dev/grafo/internal/mapfs"
	"bennypowers.dev/grafo/packagejson"
	"bennypowers.dev/grafo/resolve"
	"bennypowers.dev/grafo/testutil"
)

// newProjectFS builds an in-memory project with a dependency using exports,
// a legacy dependency using main, and a bare directory dependency.
func newProjectFS() *mapfs.MapFileSystem {
	mfs := mapfs.New()

	mfs.AddFile("/app/package.json", `{
		"name": "app",
		"imports": {
			"#utils": { "node": "./src/util.js" },
			"#runtime": "lit"
		},
		"dependencies": { "lit": "^3.0.0" }
	}`, 0644)
	mfs.AddFile("/app/src/main.js", `import "lit";`, 0644)
	mfs.AddFile("/app/src/util.js", `export const noop = () => {};`, 0644)
	mfs.AddFile("/app/src/data.json", `{}`, 0644)
	mfs.AddFile("/app/src/deep/nested/mod.js", ``, 0644)

	mfs.AddFile("/app/node_modules/lit/package.json", `{
		"name": "lit",
		"main": "legacy.js",
		"exports": {
			".": { "import": "./index.js", "require": "./index.cjs.js" },
			"./decorators.js": "./decorators.js"
		}
	}`, 0644)
	mfs.AddFile("/app/node_modules/lit/index.js", ``, 0644)
	mfs.AddFile("/app/node_modules/lit/index.cjs.js", ``, 0644)
	mfs.AddFile("/app/node_modules/lit/decorators.js", ``, 0644)
	mfs.AddFile("/app/node_modules/lit/legacy.js", ``, 0644)
	mfs.AddFile("/app/node_modules/lit/internal/secret.js", ``, 0644)

	mfs.AddFile("/app/node_modules/legacy-pkg/package.json", `{
		"name": "legacy-pkg",
		"main": "lib/entry.js"
	}`, 0644)
	mfs.AddFile("/app/node_modules/legacy-pkg/lib/entry.js", ``, 0644)
	mfs.AddFile("/app/node_modules/legacy-pkg/lib/helper.js", ``, 0644)

	mfs.AddFile("/app/node_modules/bare/index.js", ``, 0644)

	mfs.AddFile("/app/node_modules/@scope/pkg/package.json", `{
		"name": "@scope/pkg",
		"exports": { ".": "./main.js" }
	}`, 0644)
	mfs.AddFile("/app/node_modules/@scope/pkg/main.js", ``, 0644)

	return mfs
}

func TestResolveRelative(t *testing.T) {
	r := resolve.New(newProjectFS(), nil)

	tests := []struct {
		name    string
		request string
		fromDir string
		opts    resolve.Options
		want    string
		wantErr error
	}{
		{
			name:    "exact file",
			request: "./util.js",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/src/util.js",
		},
		{
			name:    "extension probing",
			request: "./util",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/src/util.js",
		},
		{
			name:    "json extension probing",
			request: "./data",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/src/data.json",
		},
		{
			name:    "parent traversal",
			request: "../util.js",
			fromDir: "/app/src/deep",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/src/util.js",
		},
		{
			name:    "fully specified rejects extensionless",
			request: "./util",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			wantErr: resolve.ErrNotFound,
		},
		{
			name:    "fully specified accepts exact",
			request: "./util.js",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/src/util.js",
		},
		{
			name:    "missing file",
			request: "./missing.js",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			wantErr: resolve.ErrNotFound,
		},
		{
			name:    "empty request",
			request: "",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			wantErr: resolve.ErrNotFound,
		},
		{
			name:    "absolute path",
			request: "/app/src/util.js",
			fromDir: "/elsewhere",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/src/util.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.request, tt.fromDir, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBareSpecifier(t *testing.T) {
	r := resolve.New(newProjectFS(), nil)

	tests := []struct {
		name    string
		request string
		fromDir string
		opts    resolve.Options
		want    string
		wantErr error
	}{
		{
			name:    "exports require condition",
			request: "lit",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/node_modules/lit/index.cjs.js",
		},
		{
			name:    "exports import condition",
			request: "lit",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/node_modules/lit/index.js",
		},
		{
			name:    "exported subpath",
			request: "lit/decorators.js",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/node_modules/lit/decorators.js",
		},
		{
			// The exports field is authoritative: a file that exists on
			// disk but is not exported does not resolve.
			name:    "unexported subpath",
			request: "lit/internal/secret.js",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			wantErr: resolve.ErrNotFound,
		},
		{
			name:    "main field fallback",
			request: "legacy-pkg",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/node_modules/legacy-pkg/lib/entry.js",
		},
		{
			// Without an exports field, subpaths resolve against disk.
			name:    "subpath without exports field",
			request: "legacy-pkg/lib/helper",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/node_modules/legacy-pkg/lib/helper.js",
		},
		{
			name:    "no manifest falls back to default files",
			request: "bare",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/node_modules/bare/index.js",
		},
		{
			name:    "scoped package",
			request: "@scope/pkg",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/node_modules/@scope/pkg/main.js",
		},
		{
			name:    "upward search from nested directory",
			request: "lit",
			fromDir: "/app/src/deep/nested",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/node_modules/lit/index.js",
		},
		{
			name:    "unknown package",
			request: "nonexistent",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			wantErr: resolve.ErrNotFound,
		},
		{
			// The lookup root bounds the upward search: resolution from
			// outside the root never reaches /app/node_modules.
			name:    "search bounded by root",
			request: "lit",
			fromDir: "/other/project",
			opts:    resolve.NodeCJSOptions("/other"),
			wantErr: resolve.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.request, tt.fromDir, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveSelfReference(t *testing.T) {
	r := resolve.New(newProjectFS(), nil)

	tests := []struct {
		name    string
		request string
		fromDir string
		opts    resolve.Options
		want    string
		wantErr error
	}{
		{
			name:    "internal file alias",
			request: "#utils",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			want:    "/app/src/util.js",
		},
		{
			name:    "alias from nested directory",
			request: "#utils",
			fromDir: "/app/src/deep/nested",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/src/util.js",
		},
		{
			name:    "alias to external package",
			request: "#runtime",
			fromDir: "/app/src",
			opts:    resolve.NodeESMOptions("/app"),
			want:    "/app/node_modules/lit/index.js",
		},
		{
			name:    "unknown alias",
			request: "#missing",
			fromDir: "/app/src",
			opts:    resolve.NodeCJSOptions("/app"),
			wantErr: resolve.ErrNotFound,
		},
		{
			name:    "alias outside any package",
			request: "#utils",
			fromDir: "/other",
			opts:    resolve.NodeCJSOptions("/other"),
			wantErr: resolve.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.request, tt.fromDir, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveManifestTargetProbing(t *testing.T) {
	// Targets coming out of a manifest field are probed with extensions even
	// under a fully-specified policy; only request specifiers are strict.
	mfs := mapfs.New()
	mfs.AddFile("/app/package.json", `{"name": "app"}`, 0644)
	mfs.AddFile("/app/node_modules/terse/package.json", `{
		"name": "terse",
		"exports": { ".": "./lib/entry" }
	}`, 0644)
	mfs.AddFile("/app/node_modules/terse/lib/entry.js", ``, 0644)

	r := resolve.New(mfs, nil)
	got, err := r.Resolve("terse", "/app", resolve.NodeESMOptions("/app"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "/app/node_modules/terse/lib/entry.js"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveSharedCache(t *testing.T) {
	mfs := newProjectFS()
	cache := packagejson.NewMemoryCache()
	r := resolve.New(mfs, nil).WithCache(cache)

	if _, err := r.Resolve("lit", "/app/src", resolve.NodeESMOptions("/app")); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := cache.Get("/app/node_modules/lit/package.json"); !ok {
		t.Error("resolution should populate the shared manifest cache")
	}

	// A second resolver over the same cache reuses the loaded manifest.
	r2 := resolve.New(mfs, nil).WithCache(cache)
	got, err := r2.Resolve("lit", "/app/src", resolve.NodeCJSOptions("/app"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "/app/node_modules/lit/index.cjs.js"; got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveFixtureProject(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "node-modules", "/project")
	r := resolve.New(mfs, nil)

	tests := []struct {
		name    string
		request string
		opts    resolve.Options
		want    string
	}{
		{
			"esm entry",
			"fixture-dep",
			resolve.NodeESMOptions("/project"),
			"/project/node_modules/fixture-dep/dist/index.js",
		},
		{
			"cjs entry",
			"fixture-dep",
			resolve.NodeCJSOptions("/project"),
			"/project/node_modules/fixture-dep/dist/index.cjs",
		},
		{
			"relative source file",
			"./lib/math",
			resolve.NodeCJSOptions("/project"),
			"/project/src/lib/math.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.request, "/project/src", tt.opts)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}
