package generate

import (
	"fmt"
	"strings"
)

// variationClauses maps each variation kind to its two fixed expansion
// clauses. The order here is the order of the produced prompts.
var variationClauses = map[string][]string{
	"lighting":      {"dramatic lighting", "soft lighting"},
	"angle":         {"from above", "close-up view"},
	"color-palette": {"warm color palette", "cool color palette"},
	"composition":   {"centered composition", "rule of thirds composition"},
	"mood":          {"cheerful mood", "dramatic mood"},
	"season":        {"in spring", "in winter"},
	"time-of-day":   {"at sunrise", "at sunset"},
}

// ExpandPrompts produces the full prompt list for one generate call.
//
// Each style yields one styled prompt. Variations then cross with the
// styled prompts (or the base prompt when no styles were given), two
// clauses per variation kind, and the cross product replaces the style
// list. Without styles or variations the base prompt is repeated
// outputCount times. The list is finally truncated to outputCount, so
// outputCount bounds the batch even when the expansion is larger.
func ExpandPrompts(prompt string, styles, variations []string, outputCount int) []string {
	var out []string
	for _, style := range styles {
		out = append(out, fmt.Sprintf("%s, %s style", prompt, style))
	}
	if len(variations) > 0 {
		bases := out
		if len(bases) == 0 {
			bases = []string{prompt}
		}
		var crossed []string
		for _, base := range bases {
			for _, v := range variations {
				for _, clause := range variationClauses[v] {
					crossed = append(crossed, fmt.Sprintf("%s, %s", base, clause))
				}
			}
		}
		if len(crossed) > 0 {
			out = crossed
		}
	}
	if len(out) == 0 && outputCount > 1 {
		for i := 0; i < outputCount; i++ {
			out = append(out, prompt)
		}
	}
	if outputCount > 0 && len(out) > outputCount {
		out = out[:outputCount]
	}
	if len(out) == 0 {
		return []string{prompt}
	}
	return out
}

// IconPrompt composes the generation prompt for an icon request.
func IconPrompt(prompt, style, iconType, corners string, transparent bool, background string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s style %s", prompt, style, iconType)
	if iconType == "app-icon" {
		fmt.Fprintf(&b, ", %s corners", corners)
	}
	if !transparent {
		fmt.Fprintf(&b, ", %s background", background)
	}
	b.WriteString(", clean design, high quality, professional")
	return b.String()
}

// PatternPrompt composes the generation prompt for a pattern request. The
// seamless type gets an extra tileability clause; size is a free-form tile
// dimension such as "256x256".
func PatternPrompt(prompt, style, patternType, density, colors, size string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s style %s pattern, %s density, %s colors",
		prompt, style, patternType, density, colors)
	if patternType == "seamless" {
		b.WriteString(", tileable, repeating pattern")
	}
	fmt.Fprintf(&b, ", %s tile size, high quality", size)
	return b.String()
}

// storyTypeContext adds per-type framing to each step prompt.
var storyTypeContext = map[string]string{
	"story":    ", narrative sequence, %s art style",
	"process":  ", procedural step, instructional illustration",
	"tutorial": ", tutorial step, educational diagram",
	"timeline": ", chronological progression, timeline visualization",
}

// StoryStepPrompt composes the prompt for one step of a sequence. Steps are
// zero-indexed; the rendered prompt counts from one.
func StoryStepPrompt(prompt string, step, steps int, storyType, style, transition string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, step %d of %d", prompt, step+1, steps)
	if ctx, ok := storyTypeContext[storyType]; ok {
		if strings.Contains(ctx, "%s") {
			fmt.Fprintf(&b, ctx, style)
		} else {
			b.WriteString(ctx)
		}
	}
	if step > 0 {
		fmt.Fprintf(&b, ", %s transition from previous step", transition)
	}
	return b.String()
}

// DiagramPrompt composes the generation prompt for a diagram request.
func DiagramPrompt(prompt, diagramType, style, layout, complexity, colors, annotations string) string {
	return fmt.Sprintf(
		"%s, %s diagram, %s style, %s layout, %s level of detail, %s color scheme, %s annotations and labels, clean technical illustration, clear visual hierarchy",
		prompt, diagramType, style, layout, complexity, colors, annotations)
}
