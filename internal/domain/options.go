package domain

import "strings"

// DesignStyle selects the visual treatment of the wallpaper.
type DesignStyle string

const (
	StyleMinimalist DesignStyle = "minimalist"
	StyleGradient   DesignStyle = "gradient"
	StyleNeon       DesignStyle = "neon"
	StylePastel     DesignStyle = "pastel"
	StyleGlass      DesignStyle = "glass"
	StyleRetro      DesignStyle = "retro"
	StyleKawaii     DesignStyle = "kawaii"
)

var designStyles = []DesignStyle{
	StyleMinimalist, StyleGradient, StyleNeon, StylePastel,
	StyleGlass, StyleRetro, StyleKawaii,
}

// ParseDesignStyle matches s against the closed set of styles,
// case-insensitively.
func ParseDesignStyle(s string) (DesignStyle, bool) {
	v := DesignStyle(strings.ToLower(strings.TrimSpace(s)))
	for _, style := range designStyles {
		if v == style {
			return style, true
		}
	}
	return "", false
}

// DesignStyleNames returns the accepted design_style values, for error
// messages.
func DesignStyleNames() []string {
	names := make([]string, len(designStyles))
	for i, s := range designStyles {
		names[i] = string(s)
	}
	return names
}

// Theme selects the light or dark variant of a design style.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	default:
		return "", false
	}
}

// Device describes a supported target screen. The wire value for
// aspect_ratio is the device id (WxH in pixels). GenerationRatio is the
// nearest aspect ratio the image model supports; the generated image is
// then fitted to the exact Width x Height.
type Device struct {
	ID              string
	Name            string
	Width           int
	Height          int
	GenerationRatio string
}

var devices = []Device{
	{ID: "1179x2556", Name: "iPhone 14/15 Pro", Width: 1179, Height: 2556, GenerationRatio: "9:16"},
	{ID: "1290x2796", Name: "iPhone Pro Max", Width: 1290, Height: 2796, GenerationRatio: "9:16"},
	{ID: "750x1334", Name: "iPhone SE", Width: 750, Height: 1334, GenerationRatio: "9:16"},
	{ID: "1080x2400", Name: "Android (1080p)", Width: 1080, Height: 2400, GenerationRatio: "9:16"},
}

// DeviceByID resolves an aspect_ratio wire value to a Device.
func DeviceByID(id string) (Device, bool) {
	id = strings.TrimSpace(id)
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// DeviceIDs returns the accepted aspect_ratio values, for error messages.
func DeviceIDs() []string {
	ids := make([]string, len(devices))
	for i, d := range devices {
		ids[i] = d.ID
	}
	return ids
}
