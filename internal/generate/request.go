package generate

import "strings"

// Reference image ceilings per tool. The generate tool reserves one slot
// less because the composed request may carry an extra system part.
const (
	MaxRefImagesGenerate = 13
	MaxRefImagesOther    = 14
)

// MaxOutputs caps the batch size of a single tool call.
const MaxOutputs = 8

// MaxStorySteps caps sequence length for the story tool.
const MaxStorySteps = 8

// GenerateRequest drives the generate_image tool.
type GenerateRequest struct {
	Prompt           string
	Model            string // primary model override, empty for configured default
	ReferenceImages  []string
	Filename         string
	FilenameSuffixes []string
	OutputCount      int
	Styles           []string
	Variations       []string
	Layout           string // "separate" or "grid"
	FileFormat       string
	Resolution       string
	AspectRatio      string
	Seed             *int64
	Parallel         int
	Preview          bool
}

// EditRequest drives the edit_image and restore_image tools. Restore is an
// edit with a canned restoration prompt when none is given.
type EditRequest struct {
	Prompt      string
	InputFile   string
	Filename    string
	FileFormat  string
	Resolution  string
	AspectRatio string
	Seed        *int64
	Preview     bool
	Restore     bool
}

// IconRequest drives the generate_icon tool.
type IconRequest struct {
	Prompt          string
	Style           string
	IconType        string
	Corners         string
	Background      string // "transparent", "white", "black", or "#rrggbb"
	Sizes           []int
	ReferenceImages []string
	FileFormat      string
	Resolution      string
	Filename        string
	Preview         bool
}

// PatternRequest drives the generate_pattern tool.
type PatternRequest struct {
	Prompt          string
	Style           string
	PatternType     string
	Density         string
	Colors          string
	Size            string // tile dimensions, e.g. "256x256"
	Repeat          string // "tile" or "mirror"
	ReferenceImages []string
	FileFormat      string
	Resolution      string
	Filename        string
	Preview         bool
}

// StoryRequest drives the generate_story tool.
type StoryRequest struct {
	Prompt          string
	Steps           int
	StoryType       string
	Style           string
	Layout          string // "separate", "grid", or "comic"
	Transition      string
	ReferenceImages []string
	Filename        string
	FileFormat      string
	Resolution      string
	AspectRatio     string
	Seed            *int64
	Parallel        int
	Preview         bool
}

// DiagramRequest drives the generate_diagram tool.
type DiagramRequest struct {
	Prompt          string
	DiagramType     string
	Style           string
	Layout          string
	Complexity      string
	Colors          string
	Annotations     string
	ReferenceImages []string
	FileFormat      string
	Resolution      string
	Filename        string
	Preview         bool
}

// Artifact is one persisted output file plus its generation metadata.
type Artifact struct {
	Path         string `json:"path"`
	ModelUsed    string `json:"modelUsed"`
	UsedFallback bool   `json:"usedFallback"`
	PrimaryModel string `json:"primaryModel"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SizeBytes    int64  `json:"sizeBytes"`
	Index        int    `json:"index"`
}

// Response is the structured result returned to the tool layer. Tool is
// filled in at the server boundary with the name of the invoked tool.
type Response struct {
	Success   bool        `json:"success"`
	Tool      string      `json:"tool,omitempty"`
	Message   string      `json:"message"`
	Artifacts []*Artifact `json:"artifacts,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
}

func validatePrompt(prompt string) *Error {
	if strings.TrimSpace(prompt) == "" {
		return errorf(KindValidation, "prompt must not be empty")
	}
	return nil
}

func validateRefCount(refs []string, ceiling int) *Error {
	if len(refs) > ceiling {
		return errorf(KindValidation, "too many reference images: %d (max %d)", len(refs), ceiling)
	}
	return nil
}

func validateOutputCount(n int) *Error {
	if n < 0 || n > MaxOutputs {
		return errorf(KindValidation, "output count %d out of range (1-%d)", n, MaxOutputs)
	}
	return nil
}
