package domain

// GenerateReq is the body of POST /api/generate.
type GenerateReq struct {
	NusmodsURL  string `json:"nusmods_url"`
	AspectRatio string `json:"aspect_ratio"` // device id, e.g. "1179x2556"
	DesignStyle string `json:"design_style"`
	Theme       string `json:"theme"`
}

// GenerateRes is the wire response for POST /api/generate. On success
// ImageBase64 holds a base64-encoded PNG and Modules echoes the module
// codes found in the share link. On failure only Error is set.
type GenerateRes struct {
	Success     bool     `json:"success"`
	ImageBase64 string   `json:"image_base64,omitempty"`
	Modules     []string `json:"modules,omitempty"`
	Error       string   `json:"error,omitempty"`
}
