package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverHTML(t *testing.T) {
	root := t.TempDir()
	files := []string{"index.html", "t/1/page.HTM", "t/2/page.html", "notes.txt", "t/image.png"}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s := &Storage{}
	got, err := s.DiscoverHTML([]string{root})
	if err != nil {
		t.Fatalf("DiscoverHTML() error = %v", err)
	}

	want := []string{
		filepath.Join(root, "index.html"),
		filepath.Join(root, "t/1/page.HTM"),
		filepath.Join(root, "t/2/page.html"),
	}
	if len(got) != len(want) {
		t.Fatalf("DiscoverHTML() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DiscoverHTML()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if rel := s.RelativeTo([]string{"/elsewhere", root}, want[2]); rel != "t/2/page.html" {
		t.Errorf("RelativeTo() = %q", rel)
	}
	if rel := s.RelativeTo([]string{"/elsewhere"}, want[2]); rel != "" {
		t.Errorf("RelativeTo() outside dirs = %q", rel)
	}

	if _, err := s.DiscoverHTML([]string{filepath.Join(root, "missing")}); err == nil {
		t.Error("DiscoverHTML() of missing dir succeeded")
	}
}
