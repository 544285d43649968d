package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// WriteText prints the view as a plain text report, colors follow color.NoColor
func WriteText(w io.Writer, v View) error {
	bold := color.New(color.Bold).SprintFunc()
	if v.Empty {
		_, err := fmt.Fprintln(w, v.EmptyMessage)
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", bold("Topic:"), v.Topic)
	fmt.Fprintf(&sb, "%s %s %s\n", bold("Cluster strength:"), starLine(v.Stars), v.StrengthLabel)
	fmt.Fprintf(&sb, "posts: %d, existing links: %d, link density: %s, opportunities: %d\n\n",
		v.Stats.NumPosts, v.Stats.ExistingLinks, v.Stats.LinkDensity, v.Stats.Opportunities)

	if v.NoSuggestions {
		sb.WriteString(v.NoSuggestionsText + "\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	for _, r := range v.Rows {
		fmt.Fprintf(&sb, "%s %s -> %s\n", scoreColor(r.ScoreClass).Sprintf("[%3d%%]", r.Score), r.SourceTitle, r.TargetTitle)
		fmt.Fprintf(&sb, "       anchor: %q, url: %s\n", r.Anchor, r.TargetURL)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func scoreColor(class string) *color.Color {
	switch class {
	case ScoreHigh:
		return color.New(color.FgGreen)
	case ScoreMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func starLine(stars [maxStars]bool) string {
	var sb strings.Builder
	for _, on := range stars {
		if on {
			sb.WriteString("★")
			continue
		}
		sb.WriteString("☆")
	}
	return sb.String()
}
