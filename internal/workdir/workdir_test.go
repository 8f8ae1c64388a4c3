package workdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveBaseDir_FindsDataDirFromSubdir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, dataDirName), 0755); err != nil {
		t.Fatalf("create %s: %v", dataDirName, err)
	}

	subdir := filepath.Join(root, "nested", "dir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("create subdir: %v", err)
	}

	got := ResolveBaseDir(subdir)
	assertSamePath(t, root, got)
}

func TestResolveBaseDir_FollowsRootFileFromSubdir(t *testing.T) {
	root := t.TempDir()
	sharedRoot := filepath.Join(t.TempDir(), "shared-root")
	if err := os.MkdirAll(sharedRoot, 0755); err != nil {
		t.Fatalf("create shared root: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, rootFile), []byte(sharedRoot+"\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	subdir := filepath.Join(root, "nested", "dir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("create subdir: %v", err)
	}

	got := ResolveBaseDir(subdir)
	assertSamePath(t, sharedRoot, got)
}

func TestResolveBaseDir_UnchangedWithoutMarkers(t *testing.T) {
	subdir := filepath.Join(t.TempDir(), "nested", "dir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("create subdir: %v", err)
	}

	got := ResolveBaseDir(subdir)
	assertSamePath(t, subdir, got)
}

func TestResolveBaseDir_ResolvesRelativeRootPath(t *testing.T) {
	parent := t.TempDir()
	project := filepath.Join(parent, "project")
	if err := os.MkdirAll(project, 0755); err != nil {
		t.Fatalf("create project dir: %v", err)
	}
	sharedRoot := filepath.Join(parent, "shared")
	if err := os.MkdirAll(sharedRoot, 0755); err != nil {
		t.Fatalf("create shared root: %v", err)
	}

	if err := os.WriteFile(filepath.Join(project, rootFile), []byte("../shared"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	got := ResolveBaseDir(project)
	assertSamePath(t, sharedRoot, got)
}

func TestResolveBaseDir_NearestMarkerWins(t *testing.T) {
	outer := t.TempDir()
	inner := filepath.Join(outer, "inner")
	for _, d := range []string{filepath.Join(outer, dataDirName), filepath.Join(inner, dataDirName)} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("create %s: %v", d, err)
		}
	}

	got := ResolveBaseDir(filepath.Join(inner))
	assertSamePath(t, inner, got)
}

func TestResolveBaseDir_EmptyRootFileIgnored(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, rootFile), []byte("  \n"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}
	if err := os.MkdirAll(filepath.Join(root, dataDirName), 0755); err != nil {
		t.Fatalf("create %s: %v", dataDirName, err)
	}

	got := ResolveBaseDir(root)
	assertSamePath(t, root, got)
}

func assertSamePath(t *testing.T, want string, got string) {
	t.Helper()

	wantResolved, wantErr := filepath.EvalSymlinks(want)
	if wantErr != nil {
		wantResolved = filepath.Clean(want)
	}

	gotResolved, gotErr := filepath.EvalSymlinks(got)
	if gotErr != nil {
		gotResolved = filepath.Clean(got)
	}

	if wantResolved != gotResolved {
		t.Fatalf("expected %q, got %q", wantResolved, gotResolved)
	}
}
