package sheets

import (
	"fmt"
	"strconv"

	sheets "google.golang.org/api/sheets/v4"
)

// CreatedSpreadsheet describes a spreadsheet created through the Drive API
type CreatedSpreadsheet struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// CellRange identifies a rectangular block of cells on a single sheet. Row
// and column indices are zero based; end indices are exclusive.
type CellRange struct {
	SheetID  int64
	StartRow int64
	EndRow   int64
	StartCol int64
	EndCol   int64
}

// toGridRange force-sends every index so that zero values survive
// serialization; an omitted index would mean "unbounded" to the API.
func (r CellRange) toGridRange() *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          r.SheetID,
		StartRowIndex:    r.StartRow,
		EndRowIndex:      r.EndRow,
		StartColumnIndex: r.StartCol,
		EndColumnIndex:   r.EndCol,
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "EndRowIndex", "StartColumnIndex", "EndColumnIndex"},
	}
}

// CellFormat describes the formatting FormatCells applies. Nil and empty
// fields leave the corresponding attribute untouched. Colors are hex
// strings like "#FF0000".
type CellFormat struct {
	Bold            *bool
	BackgroundColor string
	TextColor       string
}

// parseHexColor converts a "#RRGGBB" string into API color components in
// the 0-1 range.
func parseHexColor(hex string) (*sheets.Color, error) {
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

	return &sheets.Color{
		Red:             rgb[0],
		Green:           rgb[1],
		Blue:            rgb[2],
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}, nil
}
