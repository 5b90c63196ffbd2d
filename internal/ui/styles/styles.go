// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

// Default palette, used until ApplyTheme overrides a token.
var (
	defaultAccentColor  = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}
	defaultTextColor    = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	defaultMutedColor   = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"}
	defaultErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	defaultSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	defaultBorderColor  = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
)

var (
	// Semantic color names
	AccentColor        = defaultAccentColor
	TextPrimaryColor   = defaultTextColor
	TextMutedColor     = defaultMutedColor
	StatusErrorColor   = defaultErrorColor
	StatusSuccessColor = defaultSuccessColor
	BorderDefaultColor = defaultBorderColor

	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// Button colors
	ButtonTextColor             = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor        = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonSecondaryBgColor      = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonSecondaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}
	ButtonDangerBgColor         = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDangerFocusBgColor    = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}
	ButtonDisabledBgColor       = lipgloss.AdaptiveColor{Light: "#2D2D2D", Dark: "#2D2D2D"}

	// Toast notification colors
	ToastBorderSuccessColor = defaultSuccessColor
	ToastBorderErrorColor   = defaultErrorColor
	ToastBorderInfoColor    = defaultAccentColor
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

var (
	TitleStyle lipgloss.Style
	MutedStyle lipgloss.Style
	LabelStyle lipgloss.Style
	ErrorStyle lipgloss.Style

	SelectionIndicatorStyle lipgloss.Style

	PrimaryButtonStyle          lipgloss.Style
	PrimaryButtonFocusedStyle   lipgloss.Style
	SecondaryButtonStyle        lipgloss.Style
	SecondaryButtonFocusedStyle lipgloss.Style
	DangerButtonStyle           lipgloss.Style
	DangerButtonFocusedStyle    lipgloss.Style
	DisabledButtonStyle         lipgloss.Style

	DiffAddedStyle     lipgloss.Style
	DiffDeletedStyle   lipgloss.Style
	DiffUnchangedStyle lipgloss.Style

	StatusBarStyle lipgloss.Style
)

func init() {
	rebuildStyles()
}
