package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bananaforge/imagegen-mcp/internal/generate"
)

type generateArgs struct {
	Prompt           string   `json:"prompt" jsonschema:"Text description of the image to generate"`
	Model            string   `json:"model,omitempty" jsonschema:"Override the configured primary model for this call"`
	ReferenceImages  []string `json:"reference_images,omitempty" jsonschema:"Reference image filenames or paths to guide generation (max 13)"`
	Filename         string   `json:"filename,omitempty" jsonschema:"Output filename without extension; derived from the prompt when omitted"`
	FilenameSuffixes []string `json:"filename_suffixes,omitempty" jsonschema:"Per-output filename suffixes; length must match the batch size"`
	Count            int      `json:"count,omitempty" jsonschema:"Number of images to generate (1-8, default 1); also caps the style/variation expansion"`
	Styles           []string `json:"styles,omitempty" jsonschema:"Art styles to render, one output per style (photorealistic, watercolor, oil-painting, sketch, pixel-art, anime, vintage, modern, abstract, minimalist)"`
	Variations       []string `json:"variations,omitempty" jsonschema:"Variation axes crossed with the styled prompts, two clauses per axis (lighting, angle, color-palette, composition, mood, season, time-of-day)"`
	Layout           string   `json:"layout,omitempty" jsonschema:"How multiple outputs are delivered: separate (default) or grid montage"`
	FileFormat       string   `json:"file_format,omitempty" jsonschema:"Output format: jpeg (default) or png"`
	Resolution       string   `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K (model-dependent)"`
	AspectRatio      string   `json:"aspect_ratio,omitempty" jsonschema:"Aspect ratio such as 1:1, 16:9, 3:4"`
	Seed             *int64   `json:"seed,omitempty" jsonschema:"Seed for reproducible generation"`
	Parallel         int      `json:"parallel,omitempty" jsonschema:"Concurrent generation attempts (1-8, default 2)"`
	Preview          bool     `json:"preview,omitempty" jsonschema:"Open the results in the system image viewer"`
}

func (a generateArgs) request() *generate.GenerateRequest {
	return &generate.GenerateRequest{
		Prompt:           a.Prompt,
		Model:            a.Model,
		ReferenceImages:  a.ReferenceImages,
		Filename:         a.Filename,
		FilenameSuffixes: a.FilenameSuffixes,
		OutputCount:      a.Count,
		Styles:           a.Styles,
		Variations:       a.Variations,
		Layout:           a.Layout,
		FileFormat:       a.FileFormat,
		Resolution:       a.Resolution,
		AspectRatio:      a.AspectRatio,
		Seed:             a.Seed,
		Parallel:         a.Parallel,
		Preview:          a.Preview,
	}
}

type editArgs struct {
	Prompt     string `json:"prompt" jsonschema:"Instruction describing the edit to apply"`
	InputFile  string `json:"input_file" jsonschema:"Image to edit; searched in the current directory, the output directory, and the home directory"`
	Filename   string `json:"filename,omitempty" jsonschema:"Output filename without extension"`
	FileFormat string `json:"file_format,omitempty" jsonschema:"Output format: jpeg (default) or png"`
	Resolution string `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K"`
	Preview    bool   `json:"preview,omitempty" jsonschema:"Open the result in the system image viewer"`
}

type restoreArgs struct {
	InputFile  string `json:"input_file" jsonschema:"Image to restore; searched in the current directory, the output directory, and the home directory"`
	Prompt     string `json:"prompt,omitempty" jsonschema:"Optional custom restoration instruction"`
	Filename   string `json:"filename,omitempty" jsonschema:"Output filename without extension"`
	FileFormat string `json:"file_format,omitempty" jsonschema:"Output format: jpeg (default) or png"`
	Resolution string `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K"`
	Preview    bool   `json:"preview,omitempty" jsonschema:"Open the result in the system image viewer"`
}

type iconArgs struct {
	Prompt          string   `json:"prompt" jsonschema:"Description of the icon subject"`
	Style           string   `json:"style,omitempty" jsonschema:"Icon style: flat, skeuomorphic, minimal, modern (default)"`
	Type            string   `json:"type,omitempty" jsonschema:"Icon kind: app-icon (default), favicon, ui-element"`
	Corners         string   `json:"corners,omitempty" jsonschema:"Corner treatment for app icons: rounded (default) or sharp"`
	Background      string   `json:"background,omitempty" jsonschema:"Background: transparent (default), white, black, or a hex color like #336699"`
	Sizes           []int    `json:"sizes,omitempty" jsonschema:"Pixel sizes to produce (16, 32, 64, 128, 256, 512, 1024; default 1024)"`
	ReferenceImages []string `json:"reference_images,omitempty" jsonschema:"Reference image filenames or paths (max 14)"`
	FileFormat      string   `json:"file_format,omitempty" jsonschema:"Output format: png (default) or jpeg; jpeg cannot be combined with a transparent background"`
	Resolution      string   `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K"`
	Filename        string   `json:"filename,omitempty" jsonschema:"Output filename without extension; each size appends its pixel value"`
	Preview         bool     `json:"preview,omitempty" jsonschema:"Open the results in the system image viewer"`
}

type patternArgs struct {
	Prompt          string   `json:"prompt" jsonschema:"Description of the pattern motif"`
	Style           string   `json:"style,omitempty" jsonschema:"Pattern style: geometric, organic, abstract (default), floral, tech"`
	Type            string   `json:"type,omitempty" jsonschema:"Pattern kind: seamless (default), texture, wallpaper"`
	Density         string   `json:"density,omitempty" jsonschema:"Element density: sparse, medium (default), dense"`
	Colors          string   `json:"colors,omitempty" jsonschema:"Color treatment: mono, duotone, colorful (default)"`
	Size            string   `json:"size,omitempty" jsonschema:"Tile dimensions such as 256x256 (default) or 512x512"`
	Repeat          string   `json:"repeat,omitempty" jsonschema:"Tiling method for seamless patterns: tile (default) or mirror"`
	ReferenceImages []string `json:"reference_images,omitempty" jsonschema:"Reference image filenames or paths (max 14)"`
	FileFormat      string   `json:"file_format,omitempty" jsonschema:"Output format: jpeg (default) or png"`
	Resolution      string   `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K"`
	Filename        string   `json:"filename,omitempty" jsonschema:"Output filename without extension"`
	Preview         bool     `json:"preview,omitempty" jsonschema:"Open the result in the system image viewer"`
}

type storyArgs struct {
	Prompt          string   `json:"prompt" jsonschema:"Description of the sequence to illustrate"`
	Steps           int      `json:"steps,omitempty" jsonschema:"Number of steps in the sequence (2-8, default 4)"`
	Type            string   `json:"type,omitempty" jsonschema:"Sequence kind: story (default), process, tutorial, timeline"`
	Style           string   `json:"style,omitempty" jsonschema:"Visual continuity: consistent (default) or evolving"`
	Layout          string   `json:"layout,omitempty" jsonschema:"Delivery: separate files (default), grid montage, or a horizontal comic strip"`
	Transition      string   `json:"transition,omitempty" jsonschema:"Transition between steps: smooth (default), dramatic, fade"`
	ReferenceImages []string `json:"reference_images,omitempty" jsonschema:"Reference image filenames or paths (max 14)"`
	Filename        string   `json:"filename,omitempty" jsonschema:"Output filename without extension; steps are numbered"`
	FileFormat      string   `json:"file_format,omitempty" jsonschema:"Output format: jpeg (default) or png"`
	Resolution      string   `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K"`
	Parallel        int      `json:"parallel,omitempty" jsonschema:"Concurrent generation attempts (1-8, default 2)"`
	Preview         bool     `json:"preview,omitempty" jsonschema:"Open the results in the system image viewer"`
}

type diagramArgs struct {
	Prompt          string   `json:"prompt" jsonschema:"Description of what the diagram should show"`
	Type            string   `json:"type,omitempty" jsonschema:"Diagram kind: flowchart (default), architecture, network, database, wireframe, mindmap, sequence"`
	Style           string   `json:"style,omitempty" jsonschema:"Rendering style: professional (default), clean, hand-drawn, technical"`
	Layout          string   `json:"layout,omitempty" jsonschema:"Layout direction: horizontal, vertical, hierarchical (default), circular"`
	Complexity      string   `json:"complexity,omitempty" jsonschema:"Level of detail: simple, detailed (default), comprehensive"`
	Colors          string   `json:"colors,omitempty" jsonschema:"Color scheme: mono, accent (default), categorical"`
	Annotations     string   `json:"annotations,omitempty" jsonschema:"Label density: minimal or detailed (default)"`
	ReferenceImages []string `json:"reference_images,omitempty" jsonschema:"Reference image filenames or paths (max 14)"`
	FileFormat      string   `json:"file_format,omitempty" jsonschema:"Output format: jpeg (default) or png"`
	Resolution      string   `json:"resolution,omitempty" jsonschema:"Resolution tier: 1K, 2K, or 4K"`
	Filename        string   `json:"filename,omitempty" jsonschema:"Output filename without extension"`
	Preview         bool     `json:"preview,omitempty" jsonschema:"Open the result in the system image viewer"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_image",
		Description: "Generate images from a text prompt, optionally guided by reference images, with style and variation batches",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a generateArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("generate_image", s.svc.Generate(ctx, a.request()))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "edit_image",
		Description: "Edit an existing image according to a text instruction",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a editArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("edit_image", s.svc.Edit(ctx, &generate.EditRequest{
			Prompt:     a.Prompt,
			InputFile:  a.InputFile,
			Filename:   a.Filename,
			FileFormat: a.FileFormat,
			Resolution: a.Resolution,
			Preview:    a.Preview,
		}))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "restore_image",
		Description: "Restore an old or damaged image: repair defects, reduce noise, recover detail",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a restoreArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("restore_image", s.svc.Edit(ctx, &generate.EditRequest{
			Prompt:     a.Prompt,
			InputFile:  a.InputFile,
			Filename:   a.Filename,
			FileFormat: a.FileFormat,
			Resolution: a.Resolution,
			Preview:    a.Preview,
			Restore:    true,
		}))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_icon",
		Description: "Generate an icon and export it at multiple pixel sizes with optional rounded corners and background",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a iconArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("generate_icon", s.svc.Icon(ctx, &generate.IconRequest{
			Prompt:          a.Prompt,
			Style:           a.Style,
			IconType:        a.Type,
			Corners:         a.Corners,
			Background:      a.Background,
			Sizes:           a.Sizes,
			ReferenceImages: a.ReferenceImages,
			FileFormat:      a.FileFormat,
			Resolution:      a.Resolution,
			Filename:        a.Filename,
			Preview:         a.Preview,
		}))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_pattern",
		Description: "Generate a decorative pattern, optionally seamless/tileable",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a patternArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("generate_pattern", s.svc.Pattern(ctx, &generate.PatternRequest{
			Prompt:          a.Prompt,
			Style:           a.Style,
			PatternType:     a.Type,
			Density:         a.Density,
			Colors:          a.Colors,
			Size:            a.Size,
			Repeat:          a.Repeat,
			ReferenceImages: a.ReferenceImages,
			FileFormat:      a.FileFormat,
			Resolution:      a.Resolution,
			Filename:        a.Filename,
			Preview:         a.Preview,
		}))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_story",
		Description: "Generate a sequence of related images telling a story or illustrating a process",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a storyArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("generate_story", s.svc.Story(ctx, &generate.StoryRequest{
			Prompt:          a.Prompt,
			Steps:           a.Steps,
			StoryType:       a.Type,
			Style:           a.Style,
			Layout:          a.Layout,
			Transition:      a.Transition,
			ReferenceImages: a.ReferenceImages,
			Filename:        a.Filename,
			FileFormat:      a.FileFormat,
			Resolution:      a.Resolution,
			Parallel:        a.Parallel,
			Preview:         a.Preview,
		}))
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_diagram",
		Description: "Generate a technical diagram illustration (flowchart, architecture, network, and more)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, a diagramArgs) (*mcp.CallToolResult, any, error) {
		return toolResult("generate_diagram", s.svc.Diagram(ctx, a.request()))
	})
}

func (a diagramArgs) request() *generate.DiagramRequest {
	return &generate.DiagramRequest{
		Prompt:          a.Prompt,
		DiagramType:     a.Type,
		Style:           a.Style,
		Layout:          a.Layout,
		Complexity:      a.Complexity,
		Colors:          a.Colors,
		Annotations:     a.Annotations,
		ReferenceImages: a.ReferenceImages,
		FileFormat:      a.FileFormat,
		Resolution:      a.Resolution,
		Filename:        a.Filename,
		Preview:         a.Preview,
	}
}
