package slides

import (
	"fmt"
	"strconv"

	slides "google.golang.org/api/slides/v1"
)

// CreatedPresentation describes a presentation created through the Drive API
type CreatedPresentation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// TextStyle carries the character formatting FormatText applies to a text
// range. Nil pointer fields are left unchanged; FontSize 0 leaves the size
// unchanged; an empty ForegroundColor leaves the color unchanged.
type TextStyle struct {
	Bold            *bool
	Italic          *bool
	FontSize        int64  // points
	ForegroundColor string // hex like "#FF0000"
}

// parseHexColor converts a "#RRGGBB" string into API color components in
// the 0-1 range.
func parseHexColor(hex string) (*slides.OpaqueColor, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return nil, fmt.Errorf("invalid color %q: expected hex like #FF0000", hex)
	}

	var rgb [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: expected hex like #FF0000", hex)
		}
		rgb[i] = float64(v) / 255
	}

	return &slides.OpaqueColor{
		RgbColor: &slides.RgbColor{
			Red:             rgb[0],
			Green:           rgb[1],
			Blue:            rgb[2],
			ForceSendFields: []string{"Red", "Green", "Blue"},
		},
	}, nil
}
