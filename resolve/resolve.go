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

import (
	"errors"
	"path/filepath"
	"strings"

	"bennypowers.dev/grafo/fs"
	"bennypowers.dev/grafo/packagejson"
)

// ErrNotFound is returned when a request cannot be resolved to a file.
var ErrNotFound = errors.New("module not found")

// Logger is an interface for logging messages during resolution.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Resolver walks the filesystem according to a policy Options record. It is
// the only part of resolution that performs I/O; everything it does is a
// function of the filesystem, the options, and the request.
type Resolver struct {
	fs     fs.FileSystem
	cache  packagejson.Cache
	logger Logger
}

// New creates a Resolver over the given filesystem.
func New(fs fs.FileSystem, logger Logger) *Resolver {
	return &Resolver{
		fs:     fs,
		cache:  packagejson.NewMemoryCache(),
		logger: logger,
	}
}

// WithCache returns a Resolver that shares the given manifest cache.
// Callers that resolve incrementally keep one cache across runs and
// invalidate entries as files change.
func (r *Resolver) WithCache(cache packagejson.Cache) *Resolver {
	return &Resolver{
		fs:     r.fs,
		cache:  cache,
		logger: r.logger,
	}
}

// Resolve resolves a request specifier against the directory containing the
// importing module, under the given policy. It returns the absolute path of
// the resolved file, or ErrNotFound.
func (r *Resolver) Resolve(request, fromDir string, opts Options) (string, error) {
	switch {
	case request == "":
		return "", ErrNotFound
	case strings.HasPrefix(request, "#"):
		return r.resolveSelfReference(request, fromDir, opts)
	case request == "." || request == ".." ||
		strings.HasPrefix(request, "./") || strings.HasPrefix(request, "../"):
		return r.resolvePath(filepath.Join(fromDir, request), opts)
	case filepath.IsAbs(request):
		return r.resolvePath(request, opts)
	default:
		return r.resolveModule(request, fromDir, opts)
	}
}

// resolvePath resolves a concrete path request: the file itself, then
// extension probing, then directory defaults, as the policy allows.
func (r *Resolver) resolvePath(path string, opts Options) (string, error) {
	if stat, err := r.fs.Stat(path); err == nil && !stat.IsDir() {
		return path, nil
	}
	if opts.FullySpecified {
		return "", ErrNotFound
	}
	for _, ext := range opts.Extensions {
		if candidate := path + ext; r.isFile(candidate) {
			return candidate, nil
		}
	}
	if stat, err := r.fs.Stat(path); err == nil && stat.IsDir() {
		return r.resolveDirectory(path, opts)
	}
	return "", ErrNotFound
}

// resolveDirectory resolves a request that names a directory: the manifest
// entry strategies first, then the policy's default files.
func (r *Resolver) resolveDirectory(dir string, opts Options) (string, error) {
	if pkg, err := r.manifest(dir); err == nil {
		if resolved, err := r.resolveIntoPackage(pkg, dir, "", opts); err == nil {
			return resolved, nil
		}
	}
	for _, base := range opts.DefaultFiles {
		for _, ext := range opts.Extensions {
			if candidate := filepath.Join(dir, base+ext); r.isFile(candidate) {
				return candidate, nil
			}
		}
	}
	return "", ErrNotFound
}

// resolveModule resolves a bare package specifier by searching the policy's
// module lookup directories upward from the importing directory.
func (r *Resolver) resolveModule(request, fromDir string, opts Options) (string, error) {
	name, subpath := splitPackageRequest(request)
	for _, lookup := range opts.Modules {
		dir := fromDir
		for {
			for _, lookupName := range lookup.Names {
				pkgDir := filepath.Join(dir, lookupName, name)
				if stat, err := r.fs.Stat(pkgDir); err == nil && stat.IsDir() {
					return r.resolvePackage(pkgDir, subpath, opts)
				}
			}
			if dir == lookup.Root {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if r.logger != nil {
		r.logger.Debug("no module lookup directory contains %q", name)
	}
	return "", ErrNotFound
}

// resolvePackage resolves a request that landed in a package directory.
func (r *Resolver) resolvePackage(pkgDir, subpath string, opts Options) (string, error) {
	pkg, err := r.manifest(pkgDir)
	if err != nil {
		// No manifest: treat the package directory as a plain directory.
		return r.resolvePath(filepath.Join(pkgDir, subpath), opts)
	}
	if resolved, err := r.resolveIntoPackage(pkg, pkgDir, subpath, opts); err == nil {
		return resolved, nil
	} else if pkg.Exports != nil {
		// An exports field is authoritative: an unexported subpath does
		// not fall through to the files on disk.
		return "", err
	}
	if subpath != "" {
		return r.resolvePath(filepath.Join(pkgDir, subpath), opts)
	}
	return r.resolveDirectory(pkgDir, opts)
}

// resolveIntoPackage applies the policy's entry strategies in order.
func (r *Resolver) resolveIntoPackage(pkg *packagejson.PackageJSON, pkgDir, subpath string, opts Options) (string, error) {
	exportKey := "."
	if subpath != "" {
		exportKey = "./" + subpath
	}
	for _, strategy := range opts.IntoPackage {
		switch s := strategy.(type) {
		case ExportsField:
			if pkg.Exports == nil {
				continue
			}
			target, err := pkg.ResolveExport(exportKey, ConditionNames(s.Conditions))
			if err != nil {
				return "", ErrNotFound
			}
			return r.resolveManifestTarget(pkgDir, target, opts)
		case MainField:
			if subpath != "" {
				continue
			}
			target, err := pkg.MainExport(s.Field)
			if err != nil {
				continue
			}
			return r.resolveManifestTarget(pkgDir, target, opts)
		}
	}
	return "", ErrNotFound
}

// resolveSelfReference resolves a #alias through the imports field of the
// nearest enclosing package.
func (r *Resolver) resolveSelfReference(request, fromDir string, opts Options) (string, error) {
	pkgDir, pkg, err := r.findEnclosingPackage(fromDir)
	if err != nil {
		return "", ErrNotFound
	}
	for _, strategy := range opts.InPackage {
		s, ok := strategy.(ImportsField)
		if !ok {
			continue
		}
		target, err := pkg.ResolveImport(request, ConditionNames(s.Conditions))
		if err != nil {
			continue
		}
		if strings.HasPrefix(target, "./") {
			return r.resolveManifestTarget(pkgDir, strings.TrimPrefix(target, "./"), opts)
		}
		// The alias maps to another package.
		return r.resolveModule(target, pkgDir, opts)
	}
	return "", ErrNotFound
}

// resolveManifestTarget resolves a path that came out of a manifest field.
// Manifest targets are probed with extensions and default files even under
// a fully-specified policy; only request specifiers carry that requirement.
func (r *Resolver) resolveManifestTarget(pkgDir, target string, opts Options) (string, error) {
	probe := opts
	probe.FullySpecified = false
	return r.resolvePath(filepath.Join(pkgDir, target), probe)
}

// findEnclosingPackage walks upward from dir to the nearest directory with
// a package.json.
func (r *Resolver) findEnclosingPackage(dir string) (string, *packagejson.PackageJSON, error) {
	for {
		if pkg, err := r.manifest(dir); err == nil {
			return dir, pkg, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, ErrNotFound
		}
		dir = parent
	}
}

func (r *Resolver) manifest(dir string) (*packagejson.PackageJSON, error) {
	path := filepath.Join(dir, "package.json")
	return r.cache.GetOrLoad(path, func() (*packagejson.PackageJSON, error) {
		return packagejson.ParseFile(r.fs, path)
	})
}

func (r *Resolver) isFile(path string) bool {
	stat, err := r.fs.Stat(path)
	return err == nil && !stat.IsDir()
}

// splitPackageRequest splits a bare specifier into its package name and
// subpath. Scoped packages keep both name segments.
func splitPackageRequest(request string) (name, subpath string) {
	segments := 1
	if strings.HasPrefix(request, "@") {
		segments = 2
	}
	idx := 0
	for range segments {
		slash := strings.Index(request[idx:], "/")
		if slash < 0 {
			return request, ""
		}
		idx += slash + 1
	}
	return request[:idx-1], request[idx:]
}
