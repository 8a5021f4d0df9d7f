package generate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bananaforge/imagegen-mcp/internal/config"
	"github.com/bananaforge/imagegen-mcp/internal/gemini"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// okCaller returns the same PNG for every call.
func okCaller(t *testing.T) *fakeCaller {
	data := makePNG(t, 64, 48)
	return &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
}

func testService(t *testing.T, caller gemini.Caller) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		APIKey:         "test-key",
		PrimaryModel:   "primary-model",
		FallbackModels: []string{"fallback-model"},
		Timeout:        5 * time.Second,
		OutputDir:      dir,
	}
	return NewService(cfg, caller, nil, testLogger()), dir
}

func TestGenerate_ExplicitFilenameBatch(t *testing.T) {
	svc, dir := testService(t, okCaller(t))

	resp := svc.Generate(context.Background(), &GenerateRequest{
		Prompt:      "a red fox",
		Filename:    "photo",
		OutputCount: 3,
	})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	if len(resp.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(resp.Artifacts))
	}
	for i, a := range resp.Artifacts {
		want := filepath.Join(dir, fmt.Sprintf("photo_%d.jpg", i+1))
		if a.Path != want {
			t.Errorf("artifacts[%d].Path = %q, want %q", i, a.Path, want)
		}
		if _, err := os.Stat(a.Path); err != nil {
			t.Errorf("artifact not on disk: %v", err)
		}
		if a.Width != 64 || a.Height != 48 {
			t.Errorf("artifacts[%d] dimensions = %dx%d, want 64x48", i, a.Width, a.Height)
		}
		if a.Index != i {
			t.Errorf("artifacts[%d].Index = %d", i, a.Index)
		}
	}
}

func TestGenerate_SingleExplicitFilename(t *testing.T) {
	svc, dir := testService(t, okCaller(t))

	resp := svc.Generate(context.Background(), &GenerateRequest{
		Prompt:   "a red fox",
		Filename: "photo",
	})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	if want := filepath.Join(dir, "photo.jpg"); resp.Artifacts[0].Path != want {
		t.Errorf("path = %q, want %q", resp.Artifacts[0].Path, want)
	}
}

func TestGenerate_DerivedNames(t *testing.T) {
	svc, _ := testService(t, okCaller(t))

	resp := svc.Generate(context.Background(), &GenerateRequest{
		Prompt:      "Sunset Over Mountains!!",
		OutputCount: 2,
	})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	pattern := regexp.MustCompile(`^sunset_over_mountains_\d{8}_\d{6}_[0-9a-f-]{8}(_\d+)?\.jpg$`)
	for _, a := range resp.Artifacts {
		if name := filepath.Base(a.Path); !pattern.MatchString(name) {
			t.Errorf("derived name %q does not match expected shape", name)
		}
	}
}

func TestGenerate_FallbackReportedInMessage(t *testing.T) {
	data := makePNG(t, 32, 32)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		if model == "primary-model" {
			return nil, unavailable(model)
		}
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	resp := svc.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox"})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	a := resp.Artifacts[0]
	if !a.UsedFallback || a.ModelUsed != "fallback-model" || a.PrimaryModel != "primary-model" {
		t.Errorf("artifact fallback metadata = %+v", a)
	}
	if !strings.Contains(resp.Message, "primary-model") || !strings.Contains(resp.Message, "fallback-model") {
		t.Errorf("message %q does not name both models", resp.Message)
	}
}

func TestGenerate_PartialSuccess(t *testing.T) {
	data := makePNG(t, 32, 32)
	var calls atomic.Int32
	// With parallel=1 the call order is deterministic: slot 0 primary,
	// slot 1 primary, slot 1 fallback, slot 2 primary. Fail calls 2 and 3
	// so slot 1 exhausts its candidates.
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		n := calls.Add(1)
		if n == 2 || n == 3 {
			return nil, unavailable(model)
		}
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	resp := svc.Generate(context.Background(), &GenerateRequest{
		Prompt:      "a red fox",
		OutputCount: 3,
		Parallel:    1,
	})
	if !resp.Success {
		t.Fatalf("partial batch should succeed: %s", resp.Message)
	}
	if len(resp.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(resp.Artifacts))
	}
	if len(resp.Errors) != 1 {
		t.Errorf("got %d errors, want 1", len(resp.Errors))
	}
}

func TestGenerate_ZeroSuccess(t *testing.T) {
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		return nil, unavailable(model)
	}}
	svc, _ := testService(t, caller)

	resp := svc.Generate(context.Background(), &GenerateRequest{
		Prompt:      "a red fox",
		OutputCount: 3,
	})
	if resp.Success {
		t.Fatal("all-fail batch reported success")
	}
	if len(resp.Errors) != 3 {
		t.Errorf("got %d errors, want 3", len(resp.Errors))
	}
	if !strings.Contains(resp.Message, "overloaded") {
		t.Errorf("message %q does not surface a failure cause", resp.Message)
	}
}

func TestGenerate_AuthFailsWholeCall(t *testing.T) {
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		return nil, &gemini.APIError{StatusCode: 401, Status: "UNAUTHENTICATED", Message: "bad key"}
	}}
	svc, _ := testService(t, caller)

	resp := svc.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox", OutputCount: 2})
	if resp.Success {
		t.Fatal("auth failure reported success")
	}
	if len(resp.Artifacts) != 0 {
		t.Errorf("auth failure returned %d artifacts, want none", len(resp.Artifacts))
	}
	if !strings.Contains(resp.Message, "bad key") {
		t.Errorf("message %q does not carry the auth error", resp.Message)
	}
}

func TestGenerate_Validation(t *testing.T) {
	manyRefs := make([]string, MaxRefImagesGenerate+1)
	for i := range manyRefs {
		manyRefs[i] = fmt.Sprintf("ref%d.png", i)
	}
	tests := []struct {
		name string
		req  *GenerateRequest
		want string
	}{
		{"empty prompt", &GenerateRequest{Prompt: "   "}, "prompt"},
		{"too many refs", &GenerateRequest{Prompt: "x", ReferenceImages: manyRefs}, "reference images"},
		{"bad style", &GenerateRequest{Prompt: "x", Styles: []string{"cubist"}}, "style"},
		{"bad variation", &GenerateRequest{Prompt: "x", Variations: []string{"weather"}}, "variation"},
		{"bad layout", &GenerateRequest{Prompt: "x", Layout: "stacked"}, "layout"},
		{"bad format", &GenerateRequest{Prompt: "x", FileFormat: "webp"}, "format"},
		{"bad resolution", &GenerateRequest{Prompt: "x", Resolution: "8K"}, "resolution"},
		{"bad aspect ratio", &GenerateRequest{Prompt: "x", AspectRatio: "7:5"}, "aspect_ratio"},
		{"count out of range", &GenerateRequest{Prompt: "x", OutputCount: MaxOutputs + 1}, "output count"},
		{"suffix count mismatch", &GenerateRequest{Prompt: "x", OutputCount: 2, FilenameSuffixes: []string{"a"}}, "filename_suffixes"},
		{"missing reference", &GenerateRequest{Prompt: "x", ReferenceImages: []string{"nope.png"}}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := okCaller(t)
			svc, _ := testService(t, caller)
			resp := svc.Generate(context.Background(), tt.req)
			if resp.Success {
				t.Fatal("invalid request reported success")
			}
			if !strings.Contains(resp.Message, tt.want) {
				t.Errorf("message %q does not mention %q", resp.Message, tt.want)
			}
			if caller.callCount() != 0 {
				t.Errorf("validation failure still made %d network calls", caller.callCount())
			}
		})
	}
}

func TestGenerate_GridAppendsMontage(t *testing.T) {
	svc, _ := testService(t, okCaller(t))

	resp := svc.Generate(context.Background(), &GenerateRequest{
		Prompt:      "a red fox",
		Filename:    "fox",
		OutputCount: 2,
		Layout:      "grid",
	})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	if len(resp.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 2 outputs + montage", len(resp.Artifacts))
	}
	montage := resp.Artifacts[2]
	if !strings.HasSuffix(montage.Path, "fox_grid.jpg") {
		t.Errorf("montage path = %q", montage.Path)
	}
	// Two cells fit a 2x1 grid.
	if montage.Width != 2*gridCellSize || montage.Height != gridCellSize {
		t.Errorf("montage dimensions = %dx%d, want %dx%d",
			montage.Width, montage.Height, 2*gridCellSize, gridCellSize)
	}
}

func TestEdit_Success(t *testing.T) {
	caller := okCaller(t)
	svc, dir := testService(t, caller)

	input := filepath.Join(dir, "source.png")
	if err := os.WriteFile(input, makePNG(t, 10, 10), 0o644); err != nil {
		t.Fatal(err)
	}

	resp := svc.Edit(context.Background(), &EditRequest{
		Prompt:    "add a hat",
		InputFile: input,
		Filename:  "hatted",
	})
	if !resp.Success {
		t.Fatalf("Edit failed: %s", resp.Message)
	}
	if want := filepath.Join(dir, "hatted.jpg"); resp.Artifacts[0].Path != want {
		t.Errorf("path = %q, want %q", resp.Artifacts[0].Path, want)
	}
	if caller.callCount() != 1 {
		t.Errorf("call count = %d, want 1", caller.callCount())
	}
}

func TestEdit_SendsInputAsReference(t *testing.T) {
	var mu sync.Mutex
	var gotRefs int
	data := makePNG(t, 10, 10)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		gotRefs = len(req.InlineImages)
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, dir := testService(t, caller)

	input := filepath.Join(dir, "source.png")
	if err := os.WriteFile(input, data, 0o644); err != nil {
		t.Fatal(err)
	}

	resp := svc.Edit(context.Background(), &EditRequest{Prompt: "brighten", InputFile: input})
	if !resp.Success {
		t.Fatalf("Edit failed: %s", resp.Message)
	}
	if gotRefs != 1 {
		t.Errorf("request carried %d inline images, want 1", gotRefs)
	}
}

func TestEdit_InputNotFound(t *testing.T) {
	caller := okCaller(t)
	svc, _ := testService(t, caller)

	resp := svc.Edit(context.Background(), &EditRequest{Prompt: "brighten", InputFile: "missing.png"})
	if resp.Success {
		t.Fatal("missing input reported success")
	}
	if !strings.Contains(resp.Message, "searched") {
		t.Errorf("message %q does not list searched locations", resp.Message)
	}
	if caller.callCount() != 0 {
		t.Errorf("missing input still made %d network calls", caller.callCount())
	}
}

func TestEdit_RestoreUsesDefaultPrompt(t *testing.T) {
	var mu sync.Mutex
	var gotPrompt string
	data := makePNG(t, 10, 10)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		gotPrompt = req.Prompt
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, dir := testService(t, caller)

	input := filepath.Join(dir, "old.png")
	if err := os.WriteFile(input, data, 0o644); err != nil {
		t.Fatal(err)
	}

	resp := svc.Edit(context.Background(), &EditRequest{InputFile: input, Restore: true})
	if !resp.Success {
		t.Fatalf("restore failed: %s", resp.Message)
	}
	if gotPrompt != restorePrompt {
		t.Errorf("prompt = %q, want the restoration default", gotPrompt)
	}
	if !strings.Contains(resp.Message, "restored") {
		t.Errorf("message %q does not say restored", resp.Message)
	}
}

func TestIcon_MultipleSizesFromOneGeneration(t *testing.T) {
	data := makePNG(t, 100, 100)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, dir := testService(t, caller)

	resp := svc.Icon(context.Background(), &IconRequest{
		Prompt:   "rocket",
		Filename: "rocket",
		Sizes:    []int{64, 16},
	})
	if !resp.Success {
		t.Fatalf("Icon failed: %s", resp.Message)
	}
	if caller.callCount() != 1 {
		t.Errorf("call count = %d, want 1 base generation", caller.callCount())
	}
	if len(resp.Artifacts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(resp.Artifacts))
	}
	// Sizes come back ascending regardless of request order.
	if resp.Artifacts[0].Width != 16 || resp.Artifacts[1].Width != 64 {
		t.Errorf("artifact sizes = %d, %d; want 16, 64",
			resp.Artifacts[0].Width, resp.Artifacts[1].Width)
	}
	for _, a := range resp.Artifacts {
		want := filepath.Join(dir, fmt.Sprintf("rocket_%d.png", a.Width))
		if a.Path != want {
			t.Errorf("path = %q, want %q", a.Path, want)
		}
	}
}

func TestIcon_DefaultPromptClauses(t *testing.T) {
	var mu sync.Mutex
	var gotPrompt string
	data := makePNG(t, 100, 100)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		gotPrompt = req.Prompt
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	resp := svc.Icon(context.Background(), &IconRequest{Prompt: "rocket"})
	if !resp.Success {
		t.Fatalf("Icon failed: %s", resp.Message)
	}
	if !strings.Contains(gotPrompt, "modern style app-icon") {
		t.Errorf("prompt %q missing default style and type clauses", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "rounded corners") {
		t.Errorf("prompt %q missing default corners clause", gotPrompt)
	}
}

func TestIcon_InvalidStyle(t *testing.T) {
	caller := okCaller(t)
	svc, _ := testService(t, caller)

	resp := svc.Icon(context.Background(), &IconRequest{Prompt: "rocket", Style: "gradient"})
	if resp.Success {
		t.Fatal("invalid style reported success")
	}
	if !strings.Contains(resp.Message, "skeuomorphic") {
		t.Errorf("message %q does not list the allowed styles", resp.Message)
	}
	if caller.callCount() != 0 {
		t.Errorf("invalid style still made %d network calls", caller.callCount())
	}
}

func TestIcon_JpegTransparentRejected(t *testing.T) {
	caller := okCaller(t)
	svc, _ := testService(t, caller)

	resp := svc.Icon(context.Background(), &IconRequest{
		Prompt:     "rocket",
		FileFormat: "jpeg",
		Background: "transparent",
	})
	if resp.Success {
		t.Fatal("jpeg+transparent reported success")
	}
	if !strings.Contains(resp.Message, "transparent") {
		t.Errorf("message %q does not explain the conflict", resp.Message)
	}
	if caller.callCount() != 0 {
		t.Errorf("invalid options still made %d network calls", caller.callCount())
	}
}

func TestIcon_InvalidSize(t *testing.T) {
	caller := okCaller(t)
	svc, _ := testService(t, caller)

	resp := svc.Icon(context.Background(), &IconRequest{Prompt: "rocket", Sizes: []int{100}})
	if resp.Success {
		t.Fatal("invalid size reported success")
	}
	if caller.callCount() != 0 {
		t.Errorf("invalid size still made %d network calls", caller.callCount())
	}
}

func TestStory_StepPromptsAndNames(t *testing.T) {
	var mu sync.Mutex
	var prompts []string
	data := makePNG(t, 20, 20)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		prompts = append(prompts, req.Prompt)
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, dir := testService(t, caller)

	resp := svc.Story(context.Background(), &StoryRequest{
		Prompt:   "a seed grows into a tree",
		Steps:    3,
		Filename: "growth",
	})
	if !resp.Success {
		t.Fatalf("Story failed: %s", resp.Message)
	}
	if want := "Successfully generated complete 3-step story sequence"; !strings.Contains(resp.Message, want) {
		t.Errorf("message = %q, want it to contain %q", resp.Message, want)
	}
	if len(resp.Artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(resp.Artifacts))
	}
	for i, a := range resp.Artifacts {
		want := filepath.Join(dir, fmt.Sprintf("growth_%d.jpg", i+1))
		if a.Path != want {
			t.Errorf("artifacts[%d].Path = %q, want %q", i, a.Path, want)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	found := false
	for _, p := range prompts {
		if strings.Contains(p, "step 1 of 3") {
			found = true
		}
	}
	if !found {
		t.Errorf("no prompt carried step numbering: %v", prompts)
	}
}

func TestStory_StepsOutOfRange(t *testing.T) {
	svc, _ := testService(t, okCaller(t))
	for _, steps := range []int{1, MaxStorySteps + 1} {
		resp := svc.Story(context.Background(), &StoryRequest{Prompt: "x", Steps: steps})
		if resp.Success {
			t.Errorf("steps=%d reported success", steps)
		}
	}
}

func TestStory_ComicLayoutAppendsStrip(t *testing.T) {
	svc, _ := testService(t, okCaller(t))

	resp := svc.Story(context.Background(), &StoryRequest{
		Prompt:   "a seed grows",
		Steps:    3,
		Filename: "growth",
		Layout:   "comic",
	})
	if !resp.Success {
		t.Fatalf("Story failed: %s", resp.Message)
	}
	if len(resp.Artifacts) != 4 {
		t.Fatalf("got %d artifacts, want 3 steps + strip", len(resp.Artifacts))
	}
	strip := resp.Artifacts[3]
	if !strings.HasSuffix(strip.Path, "growth_comic.jpg") {
		t.Errorf("strip path = %q", strip.Path)
	}
	if strip.Width != 3*gridCellSize || strip.Height != gridCellSize {
		t.Errorf("strip dimensions = %dx%d", strip.Width, strip.Height)
	}
}

func TestStory_PartialMessage(t *testing.T) {
	data := makePNG(t, 20, 20)
	var calls atomic.Int32
	// With parallel=1 the call order is deterministic: fail calls 2 and 3 so
	// the second step exhausts primary and fallback.
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		n := calls.Add(1)
		if n == 2 || n == 3 {
			return nil, unavailable(model)
		}
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	resp := svc.Story(context.Background(), &StoryRequest{
		Prompt:   "a seed grows",
		Steps:    3,
		Parallel: 1,
	})
	if !resp.Success {
		t.Fatalf("partial story should succeed: %s", resp.Message)
	}
	if want := "Generated 2 out of 3 requested story steps"; !strings.Contains(resp.Message, want) {
		t.Errorf("message = %q, want it to contain %q", resp.Message, want)
	}
}

func TestPattern_ComposedPrompt(t *testing.T) {
	var mu sync.Mutex
	var gotPrompt string
	data := makePNG(t, 20, 20)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		gotPrompt = req.Prompt
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	resp := svc.Pattern(context.Background(), &PatternRequest{Prompt: "waves"})
	if !resp.Success {
		t.Fatalf("Pattern failed: %s", resp.Message)
	}
	// The seamless default type carries the tileability clause and the
	// default tile dimensions.
	if !strings.Contains(gotPrompt, "tileable, repeating pattern") {
		t.Errorf("prompt %q missing seamless clause", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "256x256 tile size") {
		t.Errorf("prompt %q missing default tile size", gotPrompt)
	}
	if len(resp.Artifacts) != 1 {
		t.Errorf("got %d artifacts, want 1", len(resp.Artifacts))
	}
}

func TestDiagram_ComposedPrompt(t *testing.T) {
	var mu sync.Mutex
	var gotPrompt string
	data := makePNG(t, 20, 20)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		gotPrompt = req.Prompt
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	resp := svc.Diagram(context.Background(), &DiagramRequest{Prompt: "auth flow", DiagramType: "network"})
	if !resp.Success {
		t.Fatalf("Diagram failed: %s", resp.Message)
	}
	if !strings.Contains(gotPrompt, "network diagram") {
		t.Errorf("prompt %q missing diagram type clause", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "professional style") {
		t.Errorf("prompt %q missing default style clause", gotPrompt)
	}
}

func TestEdit_ForwardsSeedAndAspectRatio(t *testing.T) {
	var mu sync.Mutex
	var gotSeed *int64
	var gotAspect string
	data := makePNG(t, 10, 10)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		gotSeed = req.Seed
		gotAspect = req.AspectRatio
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, dir := testService(t, caller)

	input := filepath.Join(dir, "source.png")
	if err := os.WriteFile(input, data, 0o644); err != nil {
		t.Fatal(err)
	}

	seed := int64(42)
	resp := svc.Edit(context.Background(), &EditRequest{
		Prompt:      "brighten",
		InputFile:   input,
		AspectRatio: "16:9",
		Seed:        &seed,
	})
	if !resp.Success {
		t.Fatalf("Edit failed: %s", resp.Message)
	}
	if gotSeed == nil || *gotSeed != 42 {
		t.Errorf("seed = %v, want 42", gotSeed)
	}
	if gotAspect != "16:9" {
		t.Errorf("aspect ratio = %q, want 16:9", gotAspect)
	}
}

func TestStory_ForwardsSeedAndAspectRatio(t *testing.T) {
	var mu sync.Mutex
	seeds := map[int64]int{}
	aspects := map[string]int{}
	data := makePNG(t, 10, 10)
	caller := &fakeCaller{fn: func(model string, req *gemini.Request) (*gemini.Response, error) {
		mu.Lock()
		if req.Seed != nil {
			seeds[*req.Seed]++
		}
		aspects[req.AspectRatio]++
		mu.Unlock()
		return &gemini.Response{Data: data, MimeType: "image/png"}, nil
	}}
	svc, _ := testService(t, caller)

	seed := int64(7)
	resp := svc.Story(context.Background(), &StoryRequest{
		Prompt:      "a seed grows",
		Steps:       3,
		AspectRatio: "3:4",
		Seed:        &seed,
	})
	if !resp.Success {
		t.Fatalf("Story failed: %s", resp.Message)
	}
	mu.Lock()
	defer mu.Unlock()
	if seeds[7] != 3 {
		t.Errorf("seed forwarded on %d of 3 steps", seeds[7])
	}
	if aspects["3:4"] != 3 {
		t.Errorf("aspect ratio forwarded on %d of 3 steps", aspects["3:4"])
	}
}

// stubPreviewer records what would have been opened.
type stubPreviewer struct {
	mu    sync.Mutex
	paths []string
}

func (p *stubPreviewer) Open(paths []string) {
	p.mu.Lock()
	p.paths = append(p.paths, paths...)
	p.mu.Unlock()
}

func TestPreview_GlobalSuppressionWins(t *testing.T) {
	prev := &stubPreviewer{}
	dir := t.TempDir()
	cfg := &config.Config{
		APIKey:       "test-key",
		PrimaryModel: "primary-model",
		Timeout:      5 * time.Second,
		OutputDir:    dir,
		NoPreview:    true,
	}
	svc := NewService(cfg, okCaller(t), prev, testLogger())

	resp := svc.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox", Preview: true})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	if len(prev.paths) != 0 {
		t.Errorf("preview launched despite global suppression: %v", prev.paths)
	}
}

func TestPreview_OpensArtifacts(t *testing.T) {
	prev := &stubPreviewer{}
	dir := t.TempDir()
	cfg := &config.Config{
		APIKey:       "test-key",
		PrimaryModel: "primary-model",
		Timeout:      5 * time.Second,
		OutputDir:    dir,
	}
	svc := NewService(cfg, okCaller(t), prev, testLogger())

	resp := svc.Generate(context.Background(), &GenerateRequest{Prompt: "a red fox", Preview: true})
	if !resp.Success {
		t.Fatalf("Generate failed: %s", resp.Message)
	}
	if len(prev.paths) != 1 {
		t.Errorf("preview opened %d paths, want 1", len(prev.paths))
	}
}
