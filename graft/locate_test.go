// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graft

import (
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/bureau-foundation/graft/lib/testutil"
)

func TestAncestors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir  string
		want []string
	}{
		{dir: "/", want: []string{"/"}},
		{dir: "/a", want: []string{"/a", "/"}},
		{dir: "/proj/out/bin", want: []string{"/proj/out/bin", "/proj/out", "/proj", "/"}},
	}

	for _, test := range tests {
		t.Run(test.dir, func(t *testing.T) {
			t.Parallel()
			got := slices.Collect(Ancestors(test.dir))
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("Ancestors(%q) = %v, want %v", test.dir, got, test.want)
			}
		})
	}
}

func TestAncestorsStopsEarly(t *testing.T) {
	t.Parallel()

	var seen []string
	for dir := range Ancestors("/a/b/c/d") {
		seen = append(seen, dir)
		if dir == "/a/b" {
			break
		}
	}
	want := []string{"/a/b/c/d", "/a/b/c", "/a/b"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("visited %v, want %v", seen, want)
	}
}

func TestLocateNearestWins(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/proj/out/bin", "/mnt/build-output", "/mnt/other")
	filesystem.addFile("/proj/.graft", "/proj/out:/mnt/build-output\n")
	filesystem.addFile("/.graft", "/proj:/mnt/other\n")

	locator := &Locator{Filesystem: filesystem}
	set, err := locator.Locate("/proj/out/bin")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}

	if set.File != "/proj/.graft" {
		t.Errorf("File = %q, want /proj/.graft", set.File)
	}
	want := []Mapping{{Destination: "/proj/out", Source: "/mnt/build-output"}}
	if !reflect.DeepEqual(set.Mappings, want) {
		t.Errorf("Mappings = %v, want %v", set.Mappings, want)
	}

	// Innermost first, stopping at the match.
	wantReads := []string{"/proj/out/bin/.graft", "/proj/out/.graft", "/proj/.graft"}
	if !reflect.DeepEqual(filesystem.reads, wantReads) {
		t.Errorf("reads = %v, want %v", filesystem.reads, wantReads)
	}
}

func TestLocateStartDirectoryIncluded(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/work", "/x")
	filesystem.addFile("/work/.graft", "/work:/x\n")

	set, err := (&Locator{Filesystem: filesystem}).Locate("/work")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if set.File != "/work/.graft" {
		t.Errorf("File = %q, want /work/.graft", set.File)
	}
}

func TestLocateSkipsEmptyFiles(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/a/b/c", "/x")
	filesystem.addFile("/a/b/c/.graft", "")
	filesystem.addFile("/a/b/.graft", "\n/a:/x\n")
	filesystem.addFile("/a/.graft", "/a:/x\n")

	set, err := (&Locator{Filesystem: filesystem}).Locate("/a/b/c")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if set.File != "/a/.graft" {
		t.Errorf("File = %q, want /a/.graft", set.File)
	}
}

func TestLocateSkipsDirectoryNamedLikeMappingFile(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/a/b/.graft", "/x")
	filesystem.addFile("/a/.graft", "/a:/x\n")

	set, err := (&Locator{Filesystem: filesystem}).Locate("/a/b")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if set.File != "/a/.graft" {
		t.Errorf("File = %q, want /a/.graft", set.File)
	}
}

func TestLocateSkipsDirectoryOnDisk(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.Mkdirs(t, root, "checkout/src/.graft", "expected")
	testutil.WriteFile(t, filepath.Join(root, "checkout", ".graft"), "../expected:.\n")

	set, err := (&Locator{}).Locate(filepath.Join(root, "checkout", "src"))
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if want := filepath.Join(root, "checkout", ".graft"); set.File != want {
		t.Errorf("File = %q, want %q", set.File, want)
	}
}

func TestLocateNotFound(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/a/b/c")

	set, err := (&Locator{Filesystem: filesystem}).Locate("/a/b/c")
	if err == nil {
		t.Fatalf("Locate() = %v, want error", set)
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Locate() error = %v, want ErrConfigNotFound", err)
	}

	// Every ancestor, including the root, was examined.
	wantReads := []string{"/a/b/c/.graft", "/a/b/.graft", "/a/.graft", "/.graft"}
	if !reflect.DeepEqual(filesystem.reads, wantReads) {
		t.Errorf("reads = %v, want %v", filesystem.reads, wantReads)
	}
}

func TestLocateRootConfig(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/a/b", "/x")
	filesystem.addFile("/.graft", "/a:/x\n")

	set, err := (&Locator{Filesystem: filesystem}).Locate("/a/b")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if set.File != "/.graft" {
		t.Errorf("File = %q, want /.graft", set.File)
	}
	if set.Dir() != "/" {
		t.Errorf("Dir() = %q, want /", set.Dir())
	}
}

func TestLocateParseFailureStopsSearch(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/a/b", "/x")
	filesystem.addFile("/a/b/.graft", "/a:/does-not-exist\n")
	filesystem.addFile("/a/.graft", "/a:/x\n")

	_, err := (&Locator{Filesystem: filesystem}).Locate("/a/b")
	if !errors.Is(err, ErrConfigParse) {
		t.Fatalf("Locate() error = %v, want ErrConfigParse", err)
	}
	var graftError *Error
	if !errors.As(err, &graftError) || graftError.Path != "/a/b/.graft" {
		t.Errorf("error path = %v, want /a/b/.graft", err)
	}
}

func TestLocateCustomName(t *testing.T) {
	t.Parallel()

	filesystem := newFakeFilesystem("/a", "/x", "/y")
	filesystem.addFile("/a/.graft", "/a:/x\n")
	filesystem.addFile("/a/graft.map", "/a:/y\n")

	set, err := (&Locator{Filesystem: filesystem, Name: "graft.map"}).Locate("/a")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if set.Mappings[0].Source != "/y" {
		t.Errorf("Source = %q, want /y", set.Mappings[0].Source)
	}
}

func TestLocateRelativeStart(t *testing.T) {
	t.Parallel()

	_, err := (&Locator{Filesystem: newFakeFilesystem()}).Locate("relative/dir")
	if err == nil {
		t.Fatal("Locate() with relative start should fail")
	}
}

func TestLocateRealFilesystem(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.Mkdirs(t, root, "checkout/src/pkg", "expected")
	testutil.WriteFile(t, filepath.Join(root, "checkout", ".graft"), "../expected:.\n")

	set, err := (&Locator{}).Locate(filepath.Join(root, "checkout", "src", "pkg"))
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}

	want := []Mapping{{
		Destination: filepath.Join(root, "expected"),
		Source:      filepath.Join(root, "checkout"),
	}}
	if !reflect.DeepEqual(set.Mappings, want) {
		t.Errorf("Mappings = %v, want %v", set.Mappings, want)
	}
}
