package models

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemePreferenceKey is the preference name the theme is stored under.
const ThemePreferenceKey = "theme"

// ParseTheme maps free text to a theme; anything but "dark" or "light" is rejected.
func ParseTheme(raw string) (Theme, bool) {
	switch Theme(raw) {
	case ThemeDark:
		return ThemeDark, true
	case ThemeLight:
		return ThemeLight, true
	}
	return "", false
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleLabel is the text of the toggle button, naming the theme it switches to.
func (t Theme) ToggleLabel() string {
	if t == ThemeDark {
		return "Light Mode"
	}
	return "Dark Mode"
}
