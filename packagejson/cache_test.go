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
package packagejson_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"bennypowers.dev/grafo/packagejson"
)

func TestMemoryCacheGetSet(t *testing.T) {
	cache := packagejson.NewMemoryCache()

	if _, ok := cache.Get("/a/package.json"); ok {
		t.Error("empty cache should miss")
	}

	pkg := &packagejson.PackageJSON{Name: "a"}
	cache.Set("/a/package.json", pkg)

	got, ok := cache.Get("/a/package.json")
	if !ok || got.Name != "a" {
		t.Errorf("Get = %v, %v", got, ok)
	}

	cache.Invalidate("/a/package.json")
	if _, ok := cache.Get("/a/package.json"); ok {
		t.Error("invalidated entry should miss")
	}
}

func TestMemoryCacheGetOrLoad(t *testing.T) {
	cache := packagejson.NewMemoryCache()
	var loads atomic.Int32

	loader := func() (*packagejson.PackageJSON, error) {
		loads.Add(1)
		return &packagejson.PackageJSON{Name: "loaded"}, nil
	}

	for range 3 {
		pkg, err := cache.GetOrLoad("/pkg/package.json", loader)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if pkg.Name != "loaded" {
			t.Errorf("Name = %q", pkg.Name)
		}
	}
	if loads.Load() != 1 {
		t.Errorf("loader ran %d times, want 1", loads.Load())
	}

	cache.Invalidate("/pkg/package.json")
	if _, err := cache.GetOrLoad("/pkg/package.json", loader); err != nil {
		t.Fatalf("GetOrLoad after invalidate: %v", err)
	}
	if loads.Load() != 2 {
		t.Errorf("loader ran %d times after invalidate, want 2", loads.Load())
	}
}

func TestMemoryCacheGetOrLoadError(t *testing.T) {
	cache := packagejson.NewMemoryCache()
	loadErr := errors.New("read failed")

	_, err := cache.GetOrLoad("/broken/package.json", func() (*packagejson.PackageJSON, error) {
		return nil, loadErr
	})
	if !errors.Is(err, loadErr) {
		t.Fatalf("GetOrLoad error = %v, want %v", err, loadErr)
	}
	if _, ok := cache.Get("/broken/package.json"); ok {
		t.Error("failed loads must not populate the cache")
	}
}

func TestMemoryCacheConcurrentLoad(t *testing.T) {
	cache := packagejson.NewMemoryCache()
	var loads atomic.Int32

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pkg, err := cache.GetOrLoad("/pkg/package.json", func() (*packagejson.PackageJSON, error) {
				loads.Add(1)
				return &packagejson.PackageJSON{Name: "shared"}, nil
			})
			if err != nil || pkg.Name != "shared" {
				t.Errorf("GetOrLoad = %v, %v", pkg, err)
			}
		}()
	}
	wg.Wait()

	if loads.Load() != 1 {
		t.Errorf("loader ran %d times, want 1", loads.Load())
	}
}
