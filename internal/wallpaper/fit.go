package wallpaper

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// FitToDevice resizes and center-crops a generated image to the exact
// device resolution and re-encodes it as PNG. The image model only
// supports a few coarse aspect ratios, so the output rarely matches the
// device pixel-for-pixel.
func FitToDevice(img []byte, width, height int) ([]byte, error) {
	decoded, err := imaging.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return img, nil
	}

	fitted := imaging.Fill(decoded, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode wallpaper: %w", err)
	}
	return buf.Bytes(), nil
}
