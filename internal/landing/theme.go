package landing

import "encoding/json"

// Theme is the flat set of style tokens every section renders with.
type Theme struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontFamily      string `json:"fontFamily"`
	BorderRadius    string `json:"borderRadius"`
	ButtonStyle     string `json:"buttonStyle"`
}

// DefaultTheme is used whenever a page omits its theme.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    "#000000",
		SecondaryColor:  "#f5f5f5",
		AccentColor:     "#ef4444",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2937",
		FontFamily:      "Inter",
		BorderRadius:    "8px",
		ButtonStyle:     "filled",
	}
}

// ParseTheme decodes a stored theme, filling every blank token from the
// defaults. Absent or malformed input yields DefaultTheme.
func ParseTheme(raw json.RawMessage) Theme {
	theme := DefaultTheme()
	if len(raw) == 0 {
		return theme
	}
	var stored struct {
		PrimaryColor    Text `json:"primaryColor"`
		SecondaryColor  Text `json:"secondaryColor"`
		AccentColor     Text `json:"accentColor"`
		BackgroundColor Text `json:"backgroundColor"`
		TextColor       Text `json:"textColor"`
		FontFamily      Text `json:"fontFamily"`
		BorderRadius    Text `json:"borderRadius"`
		ButtonStyle     Text `json:"buttonStyle"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return theme
	}
	theme.PrimaryColor = stored.PrimaryColor.Or(theme.PrimaryColor)
	theme.SecondaryColor = stored.SecondaryColor.Or(theme.SecondaryColor)
	theme.AccentColor = stored.AccentColor.Or(theme.AccentColor)
	theme.BackgroundColor = stored.BackgroundColor.Or(theme.BackgroundColor)
	theme.TextColor = stored.TextColor.Or(theme.TextColor)
	theme.FontFamily = stored.FontFamily.Or(theme.FontFamily)
	theme.BorderRadius = stored.BorderRadius.Or(theme.BorderRadius)
	theme.ButtonStyle = stored.ButtonStyle.Or(theme.ButtonStyle)
	return theme
}
