package domain

const (
	// MaxRequestBodySize is the maximum allowed request body size.
	// Generation requests are a handful of short strings, so anything
	// bigger than this is not a legitimate request.
	MaxRequestBodySize = 16 * 1024

	// Defaults applied when a request leaves an option empty.
	DefaultDesignStyle = StyleMinimalist
	DefaultTheme       = ThemeLight
	DefaultDeviceID    = "1179x2556"
)
