package generate

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bananaforge/imagegen-mcp/internal/config"
	"github.com/bananaforge/imagegen-mcp/internal/files"
	"github.com/bananaforge/imagegen-mcp/internal/gemini"
	"github.com/bananaforge/imagegen-mcp/internal/imaging"
	"github.com/bananaforge/imagegen-mcp/internal/naming"
)

// restorePrompt is sent when the restore tool is called without an explicit
// instruction.
const restorePrompt = "Restore this image: repair damage and scratches, " +
	"remove noise and compression artifacts, improve clarity and detail, " +
	"preserve the original content and composition"

// gridCellSize is the per-cell edge length of montage outputs.
const gridCellSize = 512

// Previewer opens finished artifacts in the platform viewer. Failures are
// the previewer's problem; the pipeline never depends on it.
type Previewer interface {
	Open(paths []string)
}

// Service runs the full generation pipeline for every tool: validation,
// reference loading, batch fan-out with model fallback, decoding, naming,
// and persistence.
type Service struct {
	cfg  *config.Config
	orch *Orchestrator
	refs *files.RefCache
	prev Previewer
	log  *slog.Logger
}

// NewService wires a pipeline around a Gemini caller. prev may be nil to
// disable viewer launching entirely.
func NewService(cfg *config.Config, caller gemini.Caller, prev Previewer, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:  cfg,
		orch: NewOrchestrator(caller, cfg.Timeout, log),
		refs: files.NewRefCache(),
		prev: prev,
		log:  log,
	}
}

// fail builds the response for an error that aborts the whole call.
func fail(err *Error) *Response {
	return &Response{
		Success: false,
		Message: err.Error(),
		Errors:  []string{err.Error()},
	}
}

// candidates builds the model list for one call, honoring a per-call
// override of the primary.
func (s *Service) candidates(override string) []string {
	return BuildCandidates(defaulted(override, s.cfg.PrimaryModel), s.cfg.FallbackModels)
}

// loadReferences resolves and loads reference images, searching the fixed
// input locations. A missing file is a validation failure naming everywhere
// that was searched.
func (s *Service) loadReferences(names []string) ([]gemini.InlineImage, *Error) {
	if len(names) == 0 {
		return nil, nil
	}
	refs := make([]gemini.InlineImage, 0, len(names))
	for _, name := range names {
		path, searched, err := files.FindInput(name, s.cfg.OutputDir)
		if err != nil {
			return nil, errorf(KindValidation, "reference image %q not found (searched: %s)",
				name, strings.Join(searched, ", "))
		}
		ref, err := s.refs.Load(path)
		if err != nil {
			return nil, errorf(KindValidation, "reference image %q unreadable: %v", name, err)
		}
		refs = append(refs, gemini.InlineImage{MimeType: ref.MimeType, Data: ref.Data})
	}
	return refs, nil
}

// attemptSpec is everything one batch slot needs.
type attemptSpec struct {
	prompt      string
	refs        []gemini.InlineImage
	resolution  string
	aspectRatio string
	seed        *int64
	format      imaging.Format
	nameOpts    naming.Options
}

// runAttempt is the full path for one output: orchestrated generation,
// format conversion, naming, and persistence.
func (s *Service) runAttempt(ctx context.Context, candidates []string, state *naming.State, spec attemptSpec) (*Artifact, *Error) {
	outcome, aerr := s.orch.Attempt(ctx, candidates, &gemini.Request{
		Prompt:       spec.prompt,
		InlineImages: spec.refs,
		Resolution:   spec.resolution,
		AspectRatio:  spec.aspectRatio,
		Seed:         spec.seed,
	})
	if aerr != nil {
		return nil, aerr
	}

	data, err := imaging.Convert(outcome.Data, imaging.FormatFromMime(outcome.MimeType), spec.format)
	if err != nil {
		return nil, wrapErr(KindDecode, err)
	}
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, wrapErr(KindDecode, err)
	}

	name := state.Resolve(spec.nameOpts)
	path, err := files.Save(s.cfg.OutputDir, name, data)
	if err != nil {
		// Generation succeeded but the bytes are lost; the slot fails.
		return nil, wrapErr(KindIO, err)
	}

	return &Artifact{
		Path:         path,
		ModelUsed:    outcome.ModelUsed,
		UsedFallback: outcome.UsedFallback,
		PrimaryModel: outcome.PrimaryModel,
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		SizeBytes:    int64(len(data)),
		Index:        spec.nameOpts.Index,
	}, nil
}

// assemble builds the call-level response from batch results. Auth failures
// take the whole call down with no partial results; everything else is
// aggregated.
func (s *Service) assemble(action string, artifacts []*Artifact, errs []*Error) *Response {
	for _, e := range errs {
		if e.Kind == KindAuth {
			return fail(e)
		}
	}

	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}

	if len(artifacts) == 0 {
		msg := fmt.Sprintf("no images were %s", action)
		if len(messages) > 0 {
			// The last failure stands in for the batch.
			msg += ": " + messages[len(messages)-1]
		}
		return &Response{Success: false, Message: msg, Errors: messages}
	}

	msg := fmt.Sprintf("Successfully %s %d image(s)", action, len(artifacts))
	for _, a := range artifacts {
		if a.UsedFallback {
			msg += fmt.Sprintf(" (primary model %s unavailable, served by fallback %s)",
				a.PrimaryModel, a.ModelUsed)
			break
		}
	}
	if len(messages) > 0 {
		msg += fmt.Sprintf("; %d attempt(s) failed", len(messages))
	}
	return &Response{Success: true, Message: msg, Artifacts: artifacts, Errors: messages}
}

// maybePreview launches the viewer for a successful call. The global
// no-preview setting wins over any per-call request.
func (s *Service) maybePreview(requested bool, resp *Response) {
	if !requested || s.cfg.NoPreview || s.prev == nil || !resp.Success {
		return
	}
	paths := make([]string, len(resp.Artifacts))
	for i, a := range resp.Artifacts {
		paths[i] = a.Path
	}
	s.prev.Open(paths)
}

// Generate handles the generate_image tool.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) *Response {
	if err := validatePrompt(req.Prompt); err != nil {
		return fail(err)
	}
	if err := validateRefCount(req.ReferenceImages, MaxRefImagesGenerate); err != nil {
		return fail(err)
	}
	count := req.OutputCount
	if count == 0 {
		count = 1
	}
	if err := validateOutputCount(count); err != nil {
		return fail(err)
	}
	styles, verr := ParseStyles(req.Styles)
	if verr != nil {
		return fail(verr)
	}
	variations, verr := ParseVariations(req.Variations)
	if verr != nil {
		return fail(verr)
	}
	layout := defaulted(req.Layout, "separate")
	if layout != "separate" && layout != "grid" {
		return fail(errorf(KindValidation, "invalid layout %q (allowed: separate, grid)", req.Layout))
	}
	format, err := imaging.ParseFormat(defaulted(req.FileFormat, "jpeg"))
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	resolution, verr := ParseResolution(req.Resolution)
	if verr != nil {
		return fail(verr)
	}
	aspect, verr := ParseAspectRatio(req.AspectRatio)
	if verr != nil {
		return fail(verr)
	}

	prompts := ExpandPrompts(req.Prompt, styles, variations, count)
	if len(req.FilenameSuffixes) > 0 && len(req.FilenameSuffixes) != len(prompts) {
		return fail(errorf(KindValidation,
			"filename_suffixes has %d entries but the batch produces %d outputs",
			len(req.FilenameSuffixes), len(prompts)))
	}

	if err := naming.EnsureWritable(s.cfg.OutputDir); err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	refs, verr := s.loadReferences(req.ReferenceImages)
	if verr != nil {
		return fail(verr)
	}

	candidates := s.candidates(req.Model)
	state := naming.NewState(s.cfg.OutputDir)
	parallel := req.Parallel
	if parallel == 0 {
		parallel = DefaultParallel
	}

	s.log.Info("starting generation batch",
		"outputs", len(prompts), "parallel", parallel, "primary", candidates[0])

	artifacts, errs := runBatch(ctx, len(prompts), parallel, func(ctx context.Context, i int) (*Artifact, *Error) {
		var suffix string
		if len(req.FilenameSuffixes) > 0 {
			suffix = req.FilenameSuffixes[i]
		}
		return s.runAttempt(ctx, candidates, state, attemptSpec{
			prompt:      prompts[i],
			refs:        refs,
			resolution:  resolution,
			aspectRatio: aspect,
			seed:        req.Seed,
			format:      format,
			nameOpts: naming.Options{
				Prompt:   prompts[i],
				Filename: req.Filename,
				Index:    i,
				Total:    len(prompts),
				Suffix:   suffix,
				Ext:      naming.Ext(string(format)),
			},
		})
	})

	resp := s.assemble("generated", artifacts, errs)
	if resp.Success && layout == "grid" && len(resp.Artifacts) > 1 {
		s.appendMontage(resp, state, format, naming.Options{
			Prompt:   req.Prompt,
			Filename: req.Filename,
			Suffix:   "grid",
			Ext:      naming.Ext(string(format)),
		}, imaging.ComposeGrid)
	}
	s.maybePreview(req.Preview, resp)
	return resp
}

// montageFunc composes a set of decoded artifacts into one image.
type montageFunc func([]image.Image, int) (*image.NRGBA, error)

// appendMontage re-reads a batch's artifacts, composes them, and appends
// the montage as one more artifact. Montage failures are logged, never
// fatal: the individual outputs are already on disk.
func (s *Service) appendMontage(resp *Response, state *naming.State, format imaging.Format, nameOpts naming.Options, compose montageFunc) {
	imgs := make([]image.Image, 0, len(resp.Artifacts))
	for _, a := range resp.Artifacts {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			s.log.Warn("montage skipped: cannot re-read artifact", "path", a.Path, "error", err)
			return
		}
		img, _, err := imaging.Decode(data)
		if err != nil {
			s.log.Warn("montage skipped: cannot decode artifact", "path", a.Path, "error", err)
			return
		}
		imgs = append(imgs, img)
	}

	montage, err := compose(imgs, gridCellSize)
	if err != nil {
		s.log.Warn("montage composition failed", "error", err)
		return
	}
	data, err := imaging.Encode(montage, format)
	if err != nil {
		s.log.Warn("montage encoding failed", "error", err)
		return
	}

	name := state.Resolve(nameOpts)
	path, err := files.Save(s.cfg.OutputDir, name, data)
	if err != nil {
		s.log.Warn("montage write failed", "error", err)
		return
	}

	first := resp.Artifacts[0]
	resp.Artifacts = append(resp.Artifacts, &Artifact{
		Path:         path,
		ModelUsed:    first.ModelUsed,
		UsedFallback: first.UsedFallback,
		PrimaryModel: first.PrimaryModel,
		Width:        montage.Bounds().Dx(),
		Height:       montage.Bounds().Dy(),
		SizeBytes:    int64(len(data)),
		Index:        len(resp.Artifacts),
	})
}

// Edit handles the edit_image and restore_image tools.
func (s *Service) Edit(ctx context.Context, req *EditRequest) *Response {
	prompt := req.Prompt
	if req.Restore && strings.TrimSpace(prompt) == "" {
		prompt = restorePrompt
	}
	if err := validatePrompt(prompt); err != nil {
		return fail(err)
	}
	if strings.TrimSpace(req.InputFile) == "" {
		return fail(errorf(KindValidation, "input_file must not be empty"))
	}
	format, err := imaging.ParseFormat(defaulted(req.FileFormat, "jpeg"))
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	resolution, verr := ParseResolution(req.Resolution)
	if verr != nil {
		return fail(verr)
	}
	aspect, verr := ParseAspectRatio(req.AspectRatio)
	if verr != nil {
		return fail(verr)
	}

	if err := naming.EnsureWritable(s.cfg.OutputDir); err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	path, searched, err := files.FindInput(req.InputFile, s.cfg.OutputDir)
	if err != nil {
		return fail(errorf(KindValidation, "input image %q not found (searched: %s)",
			req.InputFile, strings.Join(searched, ", ")))
	}
	ref, err := s.refs.Load(path)
	if err != nil {
		return fail(errorf(KindValidation, "input image %q unreadable: %v", req.InputFile, err))
	}

	action := "edited"
	if req.Restore {
		action = "restored"
	}

	state := naming.NewState(s.cfg.OutputDir)
	artifact, aerr := s.runAttempt(ctx, s.candidates(""), state, attemptSpec{
		prompt:      prompt,
		refs:        []gemini.InlineImage{{MimeType: ref.MimeType, Data: ref.Data}},
		resolution:  resolution,
		aspectRatio: aspect,
		seed:        req.Seed,
		format:      format,
		nameOpts: naming.Options{
			Prompt:   action + " " + prompt,
			Filename: req.Filename,
			Total:    1,
			Ext:      naming.Ext(string(format)),
		},
	})

	var artifacts []*Artifact
	var errs []*Error
	if aerr != nil {
		errs = append(errs, aerr)
	} else {
		artifacts = append(artifacts, artifact)
	}
	resp := s.assemble(action, artifacts, errs)
	s.maybePreview(req.Preview, resp)
	return resp
}

// Icon handles the generate_icon tool: one base generation, post-processed
// into one artifact per requested size.
func (s *Service) Icon(ctx context.Context, req *IconRequest) *Response {
	if err := validatePrompt(req.Prompt); err != nil {
		return fail(err)
	}
	style, verr := parseChoice("style", defaulted(req.Style, "modern"), iconStyles)
	if verr != nil {
		return fail(verr)
	}
	iconType, verr := parseChoice("type", defaulted(req.IconType, "app-icon"), iconTypes)
	if verr != nil {
		return fail(verr)
	}
	corners, verr := parseChoice("corners", defaulted(req.Corners, "rounded"), iconCorners)
	if verr != nil {
		return fail(verr)
	}
	sizes, verr := ParseIconSizes(req.Sizes)
	if verr != nil {
		return fail(verr)
	}
	if err := validateRefCount(req.ReferenceImages, MaxRefImagesOther); err != nil {
		return fail(err)
	}
	format, err := imaging.ParseFormat(defaulted(req.FileFormat, "png"))
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	resolution, verr := ParseResolution(req.Resolution)
	if verr != nil {
		return fail(verr)
	}
	background := defaulted(req.Background, "transparent")
	bg, err := imaging.ParseBackground(background)
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	opts := imaging.IconOptions{
		Background: bg,
		Rounded:    corners == "rounded",
		Format:     format,
	}
	if err := imaging.ValidateIconOptions(opts); err != nil {
		return fail(wrapErr(KindValidation, err))
	}

	if err := naming.EnsureWritable(s.cfg.OutputDir); err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	refs, verr := s.loadReferences(req.ReferenceImages)
	if verr != nil {
		return fail(verr)
	}

	prompt := IconPrompt(req.Prompt, style, iconType, corners, bg.Transparent, background)
	outcome, aerr := s.orch.Attempt(ctx, s.candidates(""), &gemini.Request{
		Prompt:       prompt,
		InlineImages: refs,
		Resolution:   resolution,
		AspectRatio:  "1:1",
	})
	if aerr != nil {
		return s.assemble("generated", nil, []*Error{aerr})
	}
	base, _, err := imaging.Decode(outcome.Data)
	if err != nil {
		return s.assemble("generated", nil, []*Error{wrapErr(KindDecode, err)})
	}

	state := naming.NewState(s.cfg.OutputDir)
	var artifacts []*Artifact
	var errs []*Error
	for i, size := range sizes {
		icon, err := imaging.RenderIcon(base, size, opts)
		if err != nil {
			errs = append(errs, wrapErr(KindDecode, err))
			continue
		}
		data, err := imaging.Encode(icon, format)
		if err != nil {
			errs = append(errs, wrapErr(KindDecode, err))
			continue
		}
		name := state.Resolve(naming.Options{
			Prompt:   req.Prompt,
			Filename: req.Filename,
			Index:    i,
			Total:    len(sizes),
			Suffix:   strconv.Itoa(size),
			Ext:      naming.Ext(string(format)),
		})
		path, err := files.Save(s.cfg.OutputDir, name, data)
		if err != nil {
			errs = append(errs, wrapErr(KindIO, err))
			continue
		}
		artifacts = append(artifacts, &Artifact{
			Path:         path,
			ModelUsed:    outcome.ModelUsed,
			UsedFallback: outcome.UsedFallback,
			PrimaryModel: outcome.PrimaryModel,
			Width:        size,
			Height:       size,
			SizeBytes:    int64(len(data)),
			Index:        i,
		})
	}

	resp := s.assemble("generated", artifacts, errs)
	if resp.Success {
		resp.Message = fmt.Sprintf("Successfully generated icon at %d size(s)", len(artifacts))
		for _, a := range artifacts {
			if a.UsedFallback {
				resp.Message += fmt.Sprintf(" (primary model %s unavailable, served by fallback %s)",
					a.PrimaryModel, a.ModelUsed)
				break
			}
		}
	}
	s.maybePreview(req.Preview, resp)
	return resp
}

// Pattern handles the generate_pattern tool.
func (s *Service) Pattern(ctx context.Context, req *PatternRequest) *Response {
	if err := validatePrompt(req.Prompt); err != nil {
		return fail(err)
	}
	style, verr := parseChoice("style", defaulted(req.Style, "abstract"), patternStyles)
	if verr != nil {
		return fail(verr)
	}
	patternType, verr := parseChoice("type", defaulted(req.PatternType, "seamless"), patternTypes)
	if verr != nil {
		return fail(verr)
	}
	density, verr := parseChoice("density", defaulted(req.Density, "medium"), patternDensity)
	if verr != nil {
		return fail(verr)
	}
	colors, verr := parseChoice("colors", defaulted(req.Colors, "colorful"), patternColors)
	if verr != nil {
		return fail(verr)
	}
	if _, verr := parseChoice("repeat", defaulted(req.Repeat, "tile"), patternRepeat); verr != nil {
		return fail(verr)
	}
	size := defaulted(req.Size, "256x256")
	if err := validateRefCount(req.ReferenceImages, MaxRefImagesOther); err != nil {
		return fail(err)
	}
	format, err := imaging.ParseFormat(defaulted(req.FileFormat, "jpeg"))
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	resolution, verr := ParseResolution(req.Resolution)
	if verr != nil {
		return fail(verr)
	}

	if err := naming.EnsureWritable(s.cfg.OutputDir); err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	refs, verr := s.loadReferences(req.ReferenceImages)
	if verr != nil {
		return fail(verr)
	}

	prompt := PatternPrompt(req.Prompt, style, patternType, density, colors, size)
	state := naming.NewState(s.cfg.OutputDir)
	artifact, aerr := s.runAttempt(ctx, s.candidates(""), state, attemptSpec{
		prompt:     prompt,
		refs:       refs,
		resolution: resolution,
		format:     format,
		nameOpts: naming.Options{
			Prompt:   "pattern " + req.Prompt,
			Filename: req.Filename,
			Total:    1,
			Ext:      naming.Ext(string(format)),
		},
	})

	var artifacts []*Artifact
	var errs []*Error
	if aerr != nil {
		errs = append(errs, aerr)
	} else {
		artifacts = append(artifacts, artifact)
	}
	resp := s.assemble("generated", artifacts, errs)
	s.maybePreview(req.Preview, resp)
	return resp
}

// Story handles the generate_story tool: a sequence of related images, one
// per step.
func (s *Service) Story(ctx context.Context, req *StoryRequest) *Response {
	if err := validatePrompt(req.Prompt); err != nil {
		return fail(err)
	}
	steps := req.Steps
	if steps == 0 {
		steps = 4
	}
	if steps < 2 || steps > MaxStorySteps {
		return fail(errorf(KindValidation, "steps %d out of range (2-%d)", steps, MaxStorySteps))
	}
	if err := validateRefCount(req.ReferenceImages, MaxRefImagesOther); err != nil {
		return fail(err)
	}
	storyType, verr := parseChoice("type", defaulted(req.StoryType, "story"), storyTypes)
	if verr != nil {
		return fail(verr)
	}
	style, verr := parseChoice("style", defaulted(req.Style, "consistent"), storyStyles)
	if verr != nil {
		return fail(verr)
	}
	layout, verr := parseChoice("layout", defaulted(req.Layout, "separate"), storyLayouts)
	if verr != nil {
		return fail(verr)
	}
	transition, verr := parseChoice("transition", defaulted(req.Transition, "smooth"), storyTransitions)
	if verr != nil {
		return fail(verr)
	}
	format, err := imaging.ParseFormat(defaulted(req.FileFormat, "jpeg"))
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	resolution, verr := ParseResolution(req.Resolution)
	if verr != nil {
		return fail(verr)
	}
	aspect, verr := ParseAspectRatio(req.AspectRatio)
	if verr != nil {
		return fail(verr)
	}

	if err := naming.EnsureWritable(s.cfg.OutputDir); err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	refs, verr := s.loadReferences(req.ReferenceImages)
	if verr != nil {
		return fail(verr)
	}

	prompts := make([]string, steps)
	for i := 0; i < steps; i++ {
		prompts[i] = StoryStepPrompt(req.Prompt, i, steps, storyType, style, transition)
	}

	candidates := s.candidates("")
	state := naming.NewState(s.cfg.OutputDir)
	parallel := req.Parallel
	if parallel == 0 {
		parallel = DefaultParallel
	}

	s.log.Info("starting story batch", "steps", steps, "parallel", parallel)

	artifacts, errs := runBatch(ctx, steps, parallel, func(ctx context.Context, i int) (*Artifact, *Error) {
		return s.runAttempt(ctx, candidates, state, attemptSpec{
			prompt:      prompts[i],
			refs:        refs,
			resolution:  resolution,
			aspectRatio: aspect,
			seed:        req.Seed,
			format:      format,
			nameOpts: naming.Options{
				Prompt:   prompts[i],
				Filename: req.Filename,
				Index:    i,
				Total:    steps,
				Ext:      naming.Ext(string(format)),
			},
		})
	})

	resp := s.assemble("generated", artifacts, errs)
	if resp.Success {
		if len(resp.Artifacts) == steps {
			resp.Message = fmt.Sprintf("Successfully generated complete %d-step %s sequence",
				steps, storyType)
		} else {
			resp.Message = fmt.Sprintf("Generated %d out of %d requested %s steps",
				len(resp.Artifacts), steps, storyType)
		}
		for _, a := range resp.Artifacts {
			if a.UsedFallback {
				resp.Message += fmt.Sprintf(" (primary model %s unavailable, served by fallback %s)",
					a.PrimaryModel, a.ModelUsed)
				break
			}
		}
	}
	if resp.Success && len(resp.Artifacts) > 1 {
		switch layout {
		case "grid":
			s.appendMontage(resp, state, format, naming.Options{
				Prompt:   req.Prompt,
				Filename: req.Filename,
				Suffix:   "grid",
				Ext:      naming.Ext(string(format)),
			}, imaging.ComposeGrid)
		case "comic":
			s.appendMontage(resp, state, format, naming.Options{
				Prompt:   req.Prompt,
				Filename: req.Filename,
				Suffix:   "comic",
				Ext:      naming.Ext(string(format)),
			}, imaging.ComposeStrip)
		}
	}
	s.maybePreview(req.Preview, resp)
	return resp
}

// Diagram handles the generate_diagram tool.
func (s *Service) Diagram(ctx context.Context, req *DiagramRequest) *Response {
	if err := validatePrompt(req.Prompt); err != nil {
		return fail(err)
	}
	diagramType, verr := parseChoice("type", defaulted(req.DiagramType, "flowchart"), diagramTypes)
	if verr != nil {
		return fail(verr)
	}
	style, verr := parseChoice("style", defaulted(req.Style, "professional"), diagramStyles)
	if verr != nil {
		return fail(verr)
	}
	layout, verr := parseChoice("layout", defaulted(req.Layout, "hierarchical"), diagramLayouts)
	if verr != nil {
		return fail(verr)
	}
	complexity, verr := parseChoice("complexity", defaulted(req.Complexity, "detailed"), diagramComplexity)
	if verr != nil {
		return fail(verr)
	}
	colors, verr := parseChoice("colors", defaulted(req.Colors, "accent"), diagramColors)
	if verr != nil {
		return fail(verr)
	}
	annotations, verr := parseChoice("annotations", defaulted(req.Annotations, "detailed"), diagramAnnotations)
	if verr != nil {
		return fail(verr)
	}
	if err := validateRefCount(req.ReferenceImages, MaxRefImagesOther); err != nil {
		return fail(err)
	}
	format, err := imaging.ParseFormat(defaulted(req.FileFormat, "jpeg"))
	if err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	resolution, verr := ParseResolution(req.Resolution)
	if verr != nil {
		return fail(verr)
	}

	if err := naming.EnsureWritable(s.cfg.OutputDir); err != nil {
		return fail(wrapErr(KindValidation, err))
	}
	refs, verr := s.loadReferences(req.ReferenceImages)
	if verr != nil {
		return fail(verr)
	}

	prompt := DiagramPrompt(req.Prompt, diagramType, style, layout, complexity, colors, annotations)
	state := naming.NewState(s.cfg.OutputDir)
	artifact, aerr := s.runAttempt(ctx, s.candidates(""), state, attemptSpec{
		prompt:     prompt,
		refs:       refs,
		resolution: resolution,
		format:     format,
		nameOpts: naming.Options{
			Prompt:   "diagram " + req.Prompt,
			Filename: req.Filename,
			Total:    1,
			Ext:      naming.Ext(string(format)),
		},
	})

	var artifacts []*Artifact
	var errs []*Error
	if aerr != nil {
		errs = append(errs, aerr)
	} else {
		artifacts = append(artifacts, artifact)
	}
	resp := s.assemble("generated", artifacts, errs)
	s.maybePreview(req.Preview, resp)
	return resp
}
