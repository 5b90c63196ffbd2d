package styles

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// This avoids import cycles (styles can't import ui packages, but they can register).
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ApplyTheme resets the palette to its defaults, applies the overrides in
// colors (token name to hex) and rebuilds every style. On error nothing changes.
func ApplyTheme(colors map[string]string) error {
	overrides := make(map[ColorToken]lipgloss.AdaptiveColor, len(colors))
	for key, value := range colors {
		token := ColorToken(key)
		if !slices.Contains(AllTokens(), token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		overrides[token] = lipgloss.AdaptiveColor{Light: value, Dark: value}
	}

	pick := func(token ColorToken, def lipgloss.AdaptiveColor) lipgloss.AdaptiveColor {
		if c, ok := overrides[token]; ok {
			return c
		}
		return def
	}

	AccentColor = pick(TokenAccent, defaultAccentColor)
	TextPrimaryColor = pick(TokenText, defaultTextColor)
	TextMutedColor = pick(TokenMuted, defaultMutedColor)
	StatusErrorColor = pick(TokenError, defaultErrorColor)
	StatusSuccessColor = pick(TokenSuccess, defaultSuccessColor)
	BorderDefaultColor = pick(TokenBorder, defaultBorderColor)

	ToastBorderSuccessColor = StatusSuccessColor
	ToastBorderErrorColor = StatusErrorColor
	ToastBorderInfoColor = AccentColor

	rebuildStyles()
	return nil
}

// rebuildStyles recreates all Style objects with updated colors.
// This is necessary because lipgloss.Style objects capture colors at creation time.
func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	LabelStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)

	base := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)
	focused := func(s lipgloss.Style) lipgloss.Style {
		return s.Underline(true).UnderlineSpaces(true)
	}

	PrimaryButtonStyle = base.Background(ButtonPrimaryBgColor)
	PrimaryButtonFocusedStyle = focused(base.Background(AccentColor))
	SecondaryButtonStyle = base.Background(ButtonSecondaryBgColor)
	SecondaryButtonFocusedStyle = focused(base.Background(ButtonSecondaryFocusBgColor))
	DangerButtonStyle = base.Background(ButtonDangerBgColor)
	DangerButtonFocusedStyle = focused(base.Background(ButtonDangerFocusBgColor))
	DisabledButtonStyle = base.Bold(false).Foreground(TextMutedColor).Background(ButtonDisabledBgColor)

	DiffAddedStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor).Bold(true)
	DiffDeletedStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Strikethrough(true)
	DiffUnchangedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Padding(0, 1)

	for _, fn := range styleRebuilders {
		fn()
	}
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
