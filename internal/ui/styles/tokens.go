package styles

// ColorToken names a themeable color.
type ColorToken string

// Color tokens users can override under theme.colors.
const (
	TokenAccent  ColorToken = "accent"  // focus borders, focused buttons, cursor
	TokenText    ColorToken = "text"    // document text and titles
	TokenMuted   ColorToken = "muted"   // hints, counters, unchanged diff words
	TokenError   ColorToken = "error"   // validation toasts, deleted diff words
	TokenSuccess ColorToken = "success" // inserted diff words
	TokenBorder  ColorToken = "border"  // unfocused panel borders
)

// AllTokens returns every themeable token in display order.
func AllTokens() []ColorToken {
	return []ColorToken{TokenAccent, TokenText, TokenMuted, TokenError, TokenSuccess, TokenBorder}
}
