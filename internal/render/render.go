// Package render presents aggregated profiles in the terminal, either as JSON
// or as a plain text card.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/naka-gawa/gitmetrics/internal/domain"
)

const (
	barWidth     = 30
	barGlyph     = "█"
	githubWebURL = "https://github.com/"
)

// Format selects an output representation.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or text)", s)
	}
}

//go:embed templates/profile.txt.tmpl
var profileTemplate string

var profileTmpl = template.Must(template.New("profile").Parse(profileTemplate))

type row struct {
	Label   string
	Count   int
	Bar     string
	Percent string
}

type profileViewModel struct {
	Title      string
	Login      string
	ProfileURL string
	Details    []string

	PublicRepos int
	Followers   int
	Following   int
	Stars       int
	Forks       int

	NoRepos       bool
	Activity      []row
	Languages     []row
	LanguageWidth int
	TopRepos      []domain.Repository
	Popularity    domain.Popularity
}

// Profile writes p to w in the requested format.
func Profile(w io.Writer, p *domain.CompleteProfile, format Format) error {
	if format == FormatText {
		return Text(w, p)
	}
	return JSON(w, p)
}

// JSON writes v as pretty-printed JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// Text writes p as a human readable card with bar charts.
func Text(w io.Writer, p *domain.CompleteProfile) error {
	vm := profileViewModel{
		Title:       p.Profile.DisplayName(),
		Login:       p.Profile.Login,
		ProfileURL:  githubWebURL + p.Profile.Login,
		Details:     details(p.Profile),
		PublicRepos: p.Profile.PublicRepos,
		Followers:   p.Profile.Followers,
		Following:   p.Profile.Following,
		Stars:       p.TotalStats.Stars,
		Forks:       p.TotalStats.Forks,
		NoRepos:     len(p.Repos) == 0,
		Activity:    rows(p.Activity.Labels, p.Activity.Data),
		Languages:   rows(p.LanguageStats.Labels, p.LanguageStats.Data),
		TopRepos:    p.TopRepos,
		Popularity:  p.Popularity,
	}
	for _, l := range vm.Languages {
		vm.LanguageWidth = max(vm.LanguageWidth, len(l.Label))
	}

	var buf bytes.Buffer
	if err := profileTmpl.Execute(&buf, vm); err != nil {
		return fmt.Errorf("render profile: %w", err)
	}
	buf.WriteString("\n")
	_, err := buf.WriteTo(w)
	return err
}

// Suggestions writes one suggestion per line.
func Suggestions(w io.Writer, suggestions []domain.UserSuggestion) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, "No users found")
		return err
	}
	for _, s := range suggestions {
		line := s.Login
		if s.Type != "" {
			line += " (" + s.Type + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func details(p domain.Profile) []string {
	var out []string
	if p.Bio != "" {
		out = append(out, p.Bio)
	}
	if p.Location != "" {
		out = append(out, "Location: "+p.Location)
	}
	if p.Company != "" {
		out = append(out, "Company: "+p.Company)
	}
	if p.Blog != "" {
		out = append(out, "Blog: "+p.Blog)
	}
	if !p.CreatedAt.IsZero() {
		out = append(out, "Joined "+p.CreatedAt.Format("January 2006"))
	}
	return out
}

// rows scales parallel label/count slices into bar chart rows.
func rows(labels []string, data []int) []row {
	total, peak := 0, 0
	for _, n := range data {
		total += n
		peak = max(peak, n)
	}

	out := make([]row, 0, len(labels))
	for i, label := range labels {
		n := data[i]
		width, share := 0, 0.0
		if peak > 0 {
			width = max(1, n*barWidth/peak)
			share = float64(n) * 100 / float64(total)
		}
		out = append(out, row{
			Label:   label,
			Count:   n,
			Bar:     strings.Repeat(barGlyph, width),
			Percent: fmt.Sprintf("%.1f%%", share),
		})
	}
	return out
}
