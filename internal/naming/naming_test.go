package naming

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"punctuation collapses", "Sunset Over Mountains!!", "sunset_over_mountains"},
		{"lowercase", "A Red SQUARE", "a_red_square"},
		{"runs collapse to one underscore", "a  --  b", "a_b"},
		{"leading and trailing stripped", "  hello  ", "hello"},
		{"empty prompt falls back", "!!!", "image"},
		{
			"long prompt truncated",
			strings.Repeat("abcde ", 20),
			"abcde_abcde_abcde_abcde_abcde_abcde_abcde_abcde_ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.prompt); got != tt.want {
				t.Errorf("Slug(%q): got %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}

func TestResolve_DerivedName(t *testing.T) {
	st := NewState(t.TempDir())

	name := st.Resolve(Options{Prompt: "Sunset Over Mountains!!", Ext: "jpg", Total: 1})

	// <slug>_<YYYYMMDD_HHMMSS>_<8 random chars>.jpg
	pattern := regexp.MustCompile(`^sunset_over_mountains_\d{8}_\d{6}_[0-9a-f-]{8}\.jpg$`)
	if !pattern.MatchString(name) {
		t.Errorf("derived name %q does not match expected shape", name)
	}
}

func TestResolve_ExplicitSingle(t *testing.T) {
	st := NewState(t.TempDir())

	name := st.Resolve(Options{Filename: "photo", Ext: "jpg", Total: 1})
	if name != "photo.jpg" {
		t.Errorf("got %q, want photo.jpg", name)
	}
}

func TestResolve_ExplicitBatch(t *testing.T) {
	st := NewState(t.TempDir())

	want := []string{"photo_1.jpg", "photo_2.jpg", "photo_3.jpg"}
	for i, w := range want {
		got := st.Resolve(Options{Filename: "photo", Ext: "jpg", Index: i, Total: 3})
		if got != w {
			t.Errorf("index %d: got %q, want %q", i, got, w)
		}
	}
}

func TestResolve_StripsKnownExtension(t *testing.T) {
	st := NewState(t.TempDir())

	tests := []struct {
		filename string
		ext      string
		want     string
	}{
		{"photo.png", "png", "photo.png"},
		{"photo.JPEG", "jpg", "photo.jpg"},
		{"archive.tar", "png", "archive.tar.png"}, // unknown extensions are kept
	}

	for _, tt := range tests {
		got := st.Resolve(Options{Filename: tt.filename, Ext: tt.ext, Total: 1})
		if got != tt.want {
			t.Errorf("Resolve(%q): got %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestResolve_CustomSuffix(t *testing.T) {
	st := NewState(t.TempDir())

	got := st.Resolve(Options{Filename: "icon", Suffix: "dark", Index: 1, Total: 2, Ext: "png"})
	if got != "icon_dark.png" {
		t.Errorf("got %q, want icon_dark.png", got)
	}
}

func TestResolve_DerivedNameWithSuffix(t *testing.T) {
	st := NewState(t.TempDir())

	got := st.Resolve(Options{Prompt: "Rocket Icon", Suffix: "256", Ext: "png"})
	pattern := regexp.MustCompile(`^rocket_icon_\d{8}_\d{6}_[0-9a-f-]{8}_256\.png$`)
	if !pattern.MatchString(got) {
		t.Errorf("derived name %q does not carry the custom suffix", got)
	}
}

func TestResolve_CollisionWithinBatch(t *testing.T) {
	st := NewState(t.TempDir())

	first := st.Resolve(Options{Filename: "photo", Ext: "jpg", Total: 1})
	second := st.Resolve(Options{Filename: "photo", Ext: "jpg", Total: 1})

	if first != "photo.jpg" {
		t.Errorf("first: got %q, want photo.jpg", first)
	}
	if second != "photo_1.jpg" {
		t.Errorf("second: got %q, want photo_1.jpg", second)
	}
}

func TestResolve_CollisionWithDisk(t *testing.T) {
	dir := t.TempDir()
	for _, existing := range []string{"photo.jpg", "photo_1.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, existing), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	st := NewState(dir)
	got := st.Resolve(Options{Filename: "photo", Ext: "jpg", Total: 1})
	if got != "photo_2.jpg" {
		t.Errorf("got %q, want photo_2.jpg", got)
	}
}

func TestResolve_ConcurrentClaims(t *testing.T) {
	st := NewState(t.TempDir())

	const n = 16
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			results <- st.Resolve(Options{Filename: "img", Ext: "png", Total: 1})
		}()
	}

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		name := <-results
		if seen[name] {
			t.Errorf("duplicate name resolved: %q", name)
		}
		seen[name] = true
	}
}

func TestExt(t *testing.T) {
	if Ext("jpeg") != "jpg" {
		t.Errorf(`Ext("jpeg"): got %q, want jpg`, Ext("jpeg"))
	}
	if Ext("png") != "png" {
		t.Errorf(`Ext("png"): got %q, want png`, Ext("png"))
	}
}

func TestEnsureWritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := EnsureWritable(dir); err != nil {
		t.Fatalf("EnsureWritable failed on fresh directory: %v", err)
	}

	// No probe file should be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not clean after probe: %v", entries)
	}
}

func TestEnsureWritable_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	if err := EnsureWritable(dir); err == nil {
		t.Error("EnsureWritable should fail on a read-only directory")
	}
}
