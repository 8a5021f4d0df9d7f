// Package naming derives filesystem-safe output filenames and guarantees
// their uniqueness within one tool invocation.
//
// A State is created per batch and discarded with it; nothing persists
// across tool calls. Multiple concurrent attempts may resolve names at the
// same moment, so the claim set is mutex-guarded.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxSlugLen bounds how much of a prompt ends up in a filename.
const maxSlugLen = 50

// timestampLayout matches <YYYYMMDD_HHMMSS> in derived filenames.
const timestampLayout = "20060102_150405"

var (
	knownExtPattern = regexp.MustCompile(`(?i)\.(png|jpg|jpeg)$`)
	nonAlnumRuns    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Options describes one filename resolution.
type Options struct {
	// Prompt is used to derive a slug when Filename is empty.
	Prompt string

	// Filename is an explicit base name; any .png/.jpg/.jpeg extension on
	// it is stripped.
	Filename string

	// Index is the 0-based position of this output within the batch.
	Index int

	// Total is the number of outputs in the batch. Explicit filenames get a
	// 1-based numeric suffix whenever Total > 1.
	Total int

	// Suffix, when non-empty, replaces the numeric suffix for this index.
	Suffix string

	// Ext is the target extension without the dot ("png" or "jpg").
	Ext string
}

// State is the set of filenames already claimed within one batch.
type State struct {
	dir     string
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewState creates an empty claim set scoped to the given output directory.
func NewState(dir string) *State {
	return &State{
		dir:     dir,
		claimed: make(map[string]struct{}),
	}
}

// Resolve produces a unique filename for the given options and claims it.
//
// Uniqueness is checked against both the batch's claim set and the files
// already present in the output directory; collisions get a numeric counter
// appended to the base name.
func (s *State) Resolve(opts Options) string {
	base := baseName(opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := base + "." + opts.Ext
	for counter := 1; s.taken(candidate); counter++ {
		candidate = fmt.Sprintf("%s_%d.%s", base, counter, opts.Ext)
	}
	s.claimed[candidate] = struct{}{}
	return candidate
}

// taken reports whether a filename is claimed in this batch or exists on
// disk. Callers hold the mutex.
func (s *State) taken(name string) bool {
	if _, ok := s.claimed[name]; ok {
		return true
	}
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// baseName builds the filename stem before collision handling.
func baseName(opts Options) string {
	if opts.Filename != "" {
		base := knownExtPattern.ReplaceAllString(opts.Filename, "")
		switch {
		case opts.Suffix != "":
			return base + "_" + opts.Suffix
		case opts.Total > 1 || opts.Index > 0:
			return fmt.Sprintf("%s_%d", base, opts.Index+1)
		default:
			return base
		}
	}

	// Derived names carry a timestamp and a random suffix so repeated calls
	// with an identical prompt never contend for the same path.
	stem := fmt.Sprintf("%s_%s_%s",
		Slug(opts.Prompt),
		time.Now().Format(timestampLayout),
		uuid.NewString()[:8],
	)
	switch {
	case opts.Suffix != "":
		stem = stem + "_" + opts.Suffix
	case opts.Index > 0:
		stem = fmt.Sprintf("%s_%d", stem, opts.Index+1)
	}
	return stem
}

// Slug reduces a prompt to a lowercase filename fragment: non-alphanumeric
// runs collapse to single underscores, and the result is truncated to a
// bounded length.
func Slug(prompt string) string {
	s := strings.ToLower(prompt)
	s = nonAlnumRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > maxSlugLen {
		s = strings.Trim(s[:maxSlugLen], "_")
	}
	if s == "" {
		s = "image"
	}
	return s
}

// Ext maps an output format name to its file extension.
func Ext(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

// EnsureWritable creates the output directory if needed and verifies it
// accepts writes by creating and removing a probe file. It runs once per
// batch, before any network call, so an unwritable destination never fails
// a batch halfway through.
func EnsureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}
