package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const AppName = "signalfeed"

var LogoLines = []string{
	"▄▄▄▄ ▄ ▄▄▄▄ ▄▄ ▄▄  ▄▄▄  ▄▄",
	"▀▄▄  ▄ ██ ▄ ██▄██ ██▄█▀ ██",
	"▄▄█▀ █ ██▄█ ██ ██ ██ ██ ██▄▄",
}

const CompactLogo = "signalfeed ›"

// Banner gradient colors.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#FF6B6B"),
}

var (
	PrimaryColor   = lipgloss.Color("#FF6B6B")
	SecondaryColor = lipgloss.Color("#4ECDC4")
	AccentColor    = lipgloss.Color("#95E1D3")

	BackgroundColor = lipgloss.Color("#1A1A2E")
	SurfaceColor    = lipgloss.Color("#16213E")
	TextColor       = lipgloss.Color("#EAEAEA")
	MutedColor      = lipgloss.Color("#94A3B8")

	ErrorColor   = lipgloss.Color("#EF4444")
	SuccessColor = lipgloss.Color("#10B981")
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Bold(true).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	SelectedOptionStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(AccentColor).
				Bold(true)

	DisabledOptionStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Faint(true)

	CursorOptionStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(BackgroundColor).
			Background(SecondaryColor).
			Padding(0, 1).
			Bold(true)
)

// RenderBanner renders the logo with the gradient applied per line.
func RenderBanner() string {
	out := ""
	for i, line := range LogoLines {
		color := BannerColors[i%len(BannerColors)]
		out += lipgloss.NewStyle().Foreground(color).Bold(true).Render(line) + "\n"
	}
	return out
}
