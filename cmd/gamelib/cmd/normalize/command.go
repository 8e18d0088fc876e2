// Package normalize provides the normalize command for checking how titles
// compare during identity matching.
package normalize

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/gamelib/internal/appcontext"
	"github.com/agentstation/gamelib/internal/cmd/output"
	"github.com/agentstation/gamelib/pkg/normalize"
)

// Report describes one title, and optionally its similarity to another.
type Report struct {
	Title       string   `json:"title" yaml:"title"`
	Normalized  string   `json:"normalized" yaml:"normalized"`
	Slug        string   `json:"slug" yaml:"slug"`
	Other       string   `json:"other,omitempty" yaml:"other,omitempty"`
	Similarity  *float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
	LikelyMatch *bool    `json:"likelyMatch,omitempty" yaml:"likelyMatch,omitempty"`
}

// NewReport normalizes title and, when other is non-empty, scores the pair.
func NewReport(title, other string) Report {
	r := Report{
		Title:      title,
		Normalized: normalize.Normalize(title),
		Slug:       normalize.Slugify(title),
	}
	if other != "" {
		score := normalize.Similarity(title, other)
		likely := normalize.IsLikelyMatch(title, other)
		r.Other = other
		r.Similarity = &score
		r.LikelyMatch = &likely
	}
	return r
}

// NewCommand creates the normalize command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <title> [other-title]",
		GroupID: "tools",
		Short:   "Show the normalized form of a title",
		Example: `  gamelib normalize "The Witcher 3: Wild Hunt - Game of the Year Edition"
  gamelib normalize "Terraria 2" "Terraria 3"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var other string
			if len(args) == 2 {
				other = args[1]
			}
			report := NewReport(args[0], other)
			return output.Render(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), report, nil)
		},
	}
}
