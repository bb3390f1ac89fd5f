package domain

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is used when no preference is stored.
const DefaultTheme = ThemeDark

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme maps a stored value to a theme, falling back to DefaultTheme.
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s)
	default:
		return DefaultTheme
	}
}
