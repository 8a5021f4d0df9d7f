package generate

import (
	"sort"
	"strings"
)

// The tool surface accepts a number of closed string sets. Each set gets a
// parse helper so bad values fail at the boundary with the allowed values
// spelled out, before any network work starts.

func parseChoice(field, value string, allowed []string) (string, *Error) {
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	return "", errorf(KindValidation, "invalid %s %q (allowed: %s)", field, value, strings.Join(allowed, ", "))
}

var (
	artStyles = []string{
		"photorealistic", "watercolor", "oil-painting", "sketch", "pixel-art",
		"anime", "vintage", "modern", "abstract", "minimalist",
	}

	variationKinds = []string{
		"lighting", "angle", "color-palette", "composition", "mood",
		"season", "time-of-day",
	}

	iconTypes   = []string{"app-icon", "favicon", "ui-element"}
	iconStyles  = []string{"flat", "skeuomorphic", "minimal", "modern"}
	iconCorners = []string{"rounded", "sharp"}
	iconSizes   = []int{16, 32, 64, 128, 256, 512, 1024}

	patternTypes   = []string{"seamless", "texture", "wallpaper"}
	patternStyles  = []string{"geometric", "organic", "abstract", "floral", "tech"}
	patternDensity = []string{"sparse", "medium", "dense"}
	patternColors  = []string{"mono", "duotone", "colorful"}
	patternRepeat  = []string{"tile", "mirror"}

	storyTypes       = []string{"story", "process", "tutorial", "timeline"}
	storyStyles      = []string{"consistent", "evolving"}
	storyLayouts     = []string{"separate", "grid", "comic"}
	storyTransitions = []string{"smooth", "dramatic", "fade"}

	diagramTypes = []string{
		"flowchart", "architecture", "network", "database", "wireframe",
		"mindmap", "sequence",
	}
	diagramStyles      = []string{"professional", "clean", "hand-drawn", "technical"}
	diagramLayouts     = []string{"horizontal", "vertical", "hierarchical", "circular"}
	diagramComplexity  = []string{"simple", "detailed", "comprehensive"}
	diagramColors      = []string{"mono", "accent", "categorical"}
	diagramAnnotations = []string{"minimal", "detailed"}

	aspectRatios = []string{
		"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9",
	}

	resolutions = []string{"1K", "2K", "4K"}
)

// ParseStyles validates an art style list for the generate tool.
func ParseStyles(values []string) ([]string, *Error) {
	return parseChoices("style", values, artStyles)
}

// ParseVariations validates a variation kind list for the generate tool.
func ParseVariations(values []string) ([]string, *Error) {
	return parseChoices("variation", values, variationKinds)
}

func parseChoices(field string, values, allowed []string) ([]string, *Error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		parsed, err := parseChoice(field, v, allowed)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// ParseIconSizes validates the requested pixel sizes against the supported
// set and returns them sorted ascending with duplicates removed.
func ParseIconSizes(values []int) ([]int, *Error) {
	if len(values) == 0 {
		return []int{1024}, nil
	}
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		ok := false
		for _, a := range iconSizes {
			if v == a {
				ok = true
				break
			}
		}
		if !ok {
			return nil, errorf(KindValidation, "invalid icon size %d (allowed: %v)", v, iconSizes)
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out, nil
}

// ParseAspectRatio validates an aspect ratio string; empty means unset.
func ParseAspectRatio(value string) (string, *Error) {
	if value == "" {
		return "", nil
	}
	return parseChoice("aspect_ratio", value, aspectRatios)
}

// ParseResolution validates a resolution tier; empty means unset.
func ParseResolution(value string) (string, *Error) {
	if value == "" {
		return "", nil
	}
	return parseChoice("resolution", value, resolutions)
}

// defaulted returns value, or fallback when value is empty.
func defaulted(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
