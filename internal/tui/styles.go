package tui

import "github.com/charmbracelet/lipgloss"

// Palette used by the browser and the plain-text renderers
var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorDim     = lipgloss.Color("#565f89")
	colorAccent  = lipgloss.Color("#7dcfff")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")
	colorSuccess = lipgloss.Color("#9ece6a")
)

type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Type     lipgloss.Style
	Tag      lipgloss.Style
	Upvoted  lipgloss.Style
	Pending  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Editor   lipgloss.Style
}

func NewStyles() *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Header:   lipgloss.NewStyle().Foreground(colorDim).MarginBottom(1),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(colorPrimary).Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(colorDim),
		Type:     lipgloss.NewStyle().Foreground(colorAccent),
		Tag:      lipgloss.NewStyle().Foreground(colorWarning),
		Upvoted:  lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(colorWarning).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Help:     lipgloss.NewStyle().Foreground(colorDim).MarginTop(1),
		Editor:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(0, 1),
	}
}
