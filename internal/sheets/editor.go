package sheets

import (
	"context"
	"fmt"
	"strings"

	sheets "google.golang.org/api/sheets/v4"
)

// Merge types accepted by MergeCells
const (
	MergeAll     = "MERGE_ALL"
	MergeColumns = "MERGE_COLUMNS"
	MergeRows    = "MERGE_ROWS"
)

// numberFormatPatterns maps SetNumberFormat types to their cell patterns
var numberFormatPatterns = map[string]string{
	"NUMBER":     "0.00",
	"CURRENCY":   "$#,##0.00",
	"PERCENT":    "0.00%",
	"DATE":       "yyyy-mm-dd",
	"TIME":       "h:mm:ss am/pm",
	"DATE_TIME":  "yyyy-mm-dd h:mm:ss",
	"SCIENTIFIC": "0.00E+00",
	"TEXT":       "@",
}

func (c *Client) batchUpdate(ctx context.Context, spreadsheetID string, requests ...*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	res, err := c.sheetsService.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update spreadsheet %s: %w", spreadsheetID, err)
	}

	return res, nil
}

// dimensionRange force-sends the indices so that zero survives
// serialization; an omitted index would mean "unbounded" to the API.
func dimensionRange(sheetID int64, dimension string, startIndex, endIndex int64) *sheets.DimensionRange {
	return &sheets.DimensionRange{
		SheetId:         sheetID,
		Dimension:       dimension,
		StartIndex:      startIndex,
		EndIndex:        endIndex,
		ForceSendFields: []string{"SheetId", "StartIndex", "EndIndex"},
	}
}

// AddSheet adds a new sheet tab and returns its sheet ID
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, sheetName string) (int64, error) {
	res, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{Title: sheetName},
		},
	})
	if err != nil {
		return 0, err
	}

	if len(res.Replies) > 0 && res.Replies[0].AddSheet != nil && res.Replies[0].AddSheet.Properties != nil {
		return res.Replies[0].AddSheet.Properties.SheetId, nil
	}
	return 0, fmt.Errorf("no sheet ID in response")
}

// DeleteSheet removes a sheet tab
func (c *Client) DeleteSheet(ctx context.Context, spreadsheetID string, sheetID int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		DeleteSheet: &sheets.DeleteSheetRequest{
			SheetId:         sheetID,
			ForceSendFields: []string{"SheetId"},
		},
	})
	return err
}

// RenameSheet changes the title of a sheet tab
func (c *Client) RenameSheet(ctx context.Context, spreadsheetID string, sheetID int64, newName string) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         sheetID,
				Title:           newName,
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "title",
		},
	})
	return err
}

// DuplicateSheet copies a sheet tab within the same spreadsheet and returns
// the new tab's properties. An empty newName lets the API pick a "Copy of"
// title.
func (c *Client) DuplicateSheet(ctx context.Context, spreadsheetID string, sheetID int64, newName string) (*sheets.SheetProperties, error) {
	res, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		DuplicateSheet: &sheets.DuplicateSheetRequest{
			SourceSheetId:   sheetID,
			NewSheetName:    newName,
			ForceSendFields: []string{"SourceSheetId"},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(res.Replies) > 0 && res.Replies[0].DuplicateSheet != nil && res.Replies[0].DuplicateSheet.Properties != nil {
		return res.Replies[0].DuplicateSheet.Properties, nil
	}
	return nil, fmt.Errorf("no sheet properties in response")
}

// MoveSheet moves a sheet tab to a new zero-based position
func (c *Client) MoveSheet(ctx context.Context, spreadsheetID string, sheetID, newIndex int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         sheetID,
				Index:           newIndex,
				ForceSendFields: []string{"SheetId", "Index"},
			},
			Fields: "index",
		},
	})
	return err
}

// HideSheet hides or shows a sheet tab
func (c *Client) HideSheet(ctx context.Context, spreadsheetID string, sheetID int64, hidden bool) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId:         sheetID,
				Hidden:          hidden,
				ForceSendFields: []string{"SheetId", "Hidden"},
			},
			Fields: "hidden",
		},
	})
	return err
}

// CopySheetTo copies a sheet tab into another spreadsheet and returns the
// properties of the copy.
func (c *Client) CopySheetTo(ctx context.Context, sourceSpreadsheetID string, sheetID int64, destinationSpreadsheetID string) (*sheets.SheetProperties, error) {
	props, err := c.sheetsService.Spreadsheets.Sheets.CopyTo(sourceSpreadsheetID, sheetID, &sheets.CopySheetToAnotherSpreadsheetRequest{
		DestinationSpreadsheetId: destinationSpreadsheetID,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to copy sheet %d: %w", sheetID, err)
	}
	return props, nil
}

// FormatCells applies text and color formatting to a block of cells. Only
// the attributes set in format are written; everything else is preserved.
func (c *Client) FormatCells(ctx context.Context, spreadsheetID string, rng CellRange, format CellFormat) error {
	cellFormat := &sheets.CellFormat{}
	var fields []string

	if format.Bold != nil {
		cellFormat.TextFormat = &sheets.TextFormat{Bold: *format.Bold}
		if !*format.Bold {
			cellFormat.TextFormat.ForceSendFields = []string{"Bold"}
		}
		fields = append(fields, "textFormat")
	}
	if format.BackgroundColor != "" {
		color, err := parseHexColor(format.BackgroundColor)
		if err != nil {
			return err
		}
		cellFormat.BackgroundColor = color
		fields = append(fields, "backgroundColor")
	}
	if format.TextColor != "" {
		color, err := parseHexColor(format.TextColor)
		if err != nil {
			return err
		}
		if cellFormat.TextFormat == nil {
			cellFormat.TextFormat = &sheets.TextFormat{}
			fields = append(fields, "textFormat")
		}
		cellFormat.TextFormat.ForegroundColor = color
	}
	if len(fields) == 0 {
		return fmt.Errorf("no formatting specified")
	}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  rng.toGridRange(),
			Cell:   &sheets.CellData{UserEnteredFormat: cellFormat},
			Fields: "userEnteredFormat(" + strings.Join(fields, ",") + ")",
		},
	})
	return err
}

func (c *Client) insertDimension(ctx context.Context, spreadsheetID string, sheetID int64, dimension string, startIndex, count int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		InsertDimension: &sheets.InsertDimensionRequest{
			Range: dimensionRange(sheetID, dimension, startIndex, startIndex+count),
		},
	})
	return err
}

// InsertRows inserts count blank rows before the zero-based start index
func (c *Client) InsertRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, count int64) error {
	return c.insertDimension(ctx, spreadsheetID, sheetID, "ROWS", startIndex, count)
}

// InsertColumns inserts count blank columns before the zero-based start index
func (c *Client) InsertColumns(ctx context.Context, spreadsheetID string, sheetID, startIndex, count int64) error {
	return c.insertDimension(ctx, spreadsheetID, sheetID, "COLUMNS", startIndex, count)
}

func (c *Client) deleteDimension(ctx context.Context, spreadsheetID string, sheetID int64, dimension string, startIndex, endIndex int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		DeleteDimension: &sheets.DeleteDimensionRequest{
			Range: dimensionRange(sheetID, dimension, startIndex, endIndex),
		},
	})
	return err
}

// DeleteRows deletes the rows in [startIndex, endIndex)
func (c *Client) DeleteRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	return c.deleteDimension(ctx, spreadsheetID, sheetID, "ROWS", startIndex, endIndex)
}

// DeleteColumns deletes the columns in [startIndex, endIndex)
func (c *Client) DeleteColumns(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	return c.deleteDimension(ctx, spreadsheetID, sheetID, "COLUMNS", startIndex, endIndex)
}

func (c *Client) resizeDimension(ctx context.Context, spreadsheetID string, sheetID int64, dimension string, startIndex, endIndex, pixelSize int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
			Range:      dimensionRange(sheetID, dimension, startIndex, endIndex),
			Properties: &sheets.DimensionProperties{PixelSize: pixelSize},
			Fields:     "pixelSize",
		},
	})
	return err
}

// ResizeRows sets the height in pixels of the rows in [startIndex, endIndex)
func (c *Client) ResizeRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex, pixelSize int64) error {
	return c.resizeDimension(ctx, spreadsheetID, sheetID, "ROWS", startIndex, endIndex, pixelSize)
}

// ResizeColumns sets the width in pixels of the columns in [startIndex, endIndex)
func (c *Client) ResizeColumns(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex, pixelSize int64) error {
	return c.resizeDimension(ctx, spreadsheetID, sheetID, "COLUMNS", startIndex, endIndex, pixelSize)
}

// AutoResizeColumns sizes the columns in [startIndex, endIndex) to fit
// their content.
func (c *Client) AutoResizeColumns(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: dimensionRange(sheetID, "COLUMNS", startIndex, endIndex),
		},
	})
	return err
}

func (c *Client) hideDimension(ctx context.Context, spreadsheetID string, sheetID int64, dimension string, startIndex, endIndex int64, hidden bool) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
			Range: dimensionRange(sheetID, dimension, startIndex, endIndex),
			Properties: &sheets.DimensionProperties{
				HiddenByUser:    hidden,
				ForceSendFields: []string{"HiddenByUser"},
			},
			Fields: "hiddenByUser",
		},
	})
	return err
}

// HideRows hides or shows the rows in [startIndex, endIndex)
func (c *Client) HideRows(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64, hidden bool) error {
	return c.hideDimension(ctx, spreadsheetID, sheetID, "ROWS", startIndex, endIndex, hidden)
}

// HideColumns hides or shows the columns in [startIndex, endIndex)
func (c *Client) HideColumns(ctx context.Context, spreadsheetID string, sheetID, startIndex, endIndex int64, hidden bool) error {
	return c.hideDimension(ctx, spreadsheetID, sheetID, "COLUMNS", startIndex, endIndex, hidden)
}

// MergeCells merges the cells in the range into one. mergeType is one of
// MERGE_ALL, MERGE_COLUMNS or MERGE_ROWS.
func (c *Client) MergeCells(ctx context.Context, spreadsheetID string, rng CellRange, mergeType string) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		MergeCells: &sheets.MergeCellsRequest{
			Range:     rng.toGridRange(),
			MergeType: mergeType,
		},
	})
	return err
}

// UnmergeCells splits every merge that falls inside the range
func (c *Client) UnmergeCells(ctx context.Context, spreadsheetID string, rng CellRange) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UnmergeCells: &sheets.UnmergeCellsRequest{
			Range: rng.toGridRange(),
		},
	})
	return err
}

// AddBorders draws the same border on all four sides and between all cells
// of the range. style is SOLID, DOTTED or DASHED; color is hex.
func (c *Client) AddBorders(ctx context.Context, spreadsheetID string, rng CellRange, style, hexColor string) error {
	color, err := parseHexColor(hexColor)
	if err != nil {
		return err
	}

	border := &sheets.Border{Style: style, Color: color}
	_, err = c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateBorders: &sheets.UpdateBordersRequest{
			Range:           rng.toGridRange(),
			Top:             border,
			Bottom:          border,
			Left:            border,
			Right:           border,
			InnerHorizontal: border,
			InnerVertical:   border,
		},
	})
	return err
}

// SetNumberFormat applies one of the predefined number formats. Currency
// keeps the NUMBER type with a currency pattern; unknown types fall back
// to the plain number pattern.
func (c *Client) SetNumberFormat(ctx context.Context, spreadsheetID string, rng CellRange, formatType string) error {
	pattern, ok := numberFormatPatterns[formatType]
	if !ok {
		pattern = "0.00"
	}
	apiType := formatType
	if formatType == "CURRENCY" {
		apiType = "NUMBER"
	}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: rng.toGridRange(),
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					NumberFormat: &sheets.NumberFormat{
						Type:    apiType,
						Pattern: pattern,
					},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	})
	return err
}

// AddDataValidation restricts the cells in the range to a dropdown of the
// given options.
func (c *Client) AddDataValidation(ctx context.Context, spreadsheetID string, rng CellRange, options []string, strict bool) error {
	values := make([]*sheets.ConditionValue, len(options))
	for i, opt := range options {
		values[i] = &sheets.ConditionValue{UserEnteredValue: opt}
	}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		SetDataValidation: &sheets.SetDataValidationRequest{
			Range: rng.toGridRange(),
			Rule: &sheets.DataValidationRule{
				Condition: &sheets.BooleanCondition{
					Type:   "ONE_OF_LIST",
					Values: values,
				},
				ShowCustomUi: true,
				Strict:       strict,
			},
		},
	})
	return err
}

// CopyPaste copies the source block onto a destination anchored at
// (destRow, destCol), possibly on another sheet of the same spreadsheet.
// pasteType is NORMAL, VALUES, FORMAT or FORMULA.
func (c *Client) CopyPaste(ctx context.Context, spreadsheetID string, source CellRange, destSheetID, destRow, destCol int64, pasteType string) error {
	dest := CellRange{
		SheetID:  destSheetID,
		StartRow: destRow,
		EndRow:   destRow + (source.EndRow - source.StartRow),
		StartCol: destCol,
		EndCol:   destCol + (source.EndCol - source.StartCol),
	}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		CopyPaste: &sheets.CopyPasteRequest{
			Source:      source.toGridRange(),
			Destination: dest.toGridRange(),
			PasteType:   "PASTE_" + pasteType,
		},
	})
	return err
}

// FindReplace replaces text on one sheet and returns the number of
// occurrences changed.
func (c *Client) FindReplace(ctx context.Context, spreadsheetID string, sheetID int64, find, replacement string, matchCase, matchEntireCell bool) (int64, error) {
	res, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		FindReplace: &sheets.FindReplaceRequest{
			Find:            find,
			Replacement:     replacement,
			MatchCase:       matchCase,
			MatchEntireCell: matchEntireCell,
			SheetId:         sheetID,
			ForceSendFields: []string{"SheetId"},
		},
	})
	if err != nil {
		return 0, err
	}

	if len(res.Replies) > 0 && res.Replies[0].FindReplace != nil {
		return res.Replies[0].FindReplace.OccurrencesChanged, nil
	}
	return 0, nil
}

// SortRange sorts the range by one of its columns. sortColIndex is
// relative to the left edge of the range.
func (c *Client) SortRange(ctx context.Context, spreadsheetID string, rng CellRange, sortColIndex int64, ascending bool) error {
	order := "DESCENDING"
	if ascending {
		order = "ASCENDING"
	}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		SortRange: &sheets.SortRangeRequest{
			Range: rng.toGridRange(),
			SortSpecs: []*sheets.SortSpec{{
				DimensionIndex:  rng.StartCol + sortColIndex,
				SortOrder:       order,
				ForceSendFields: []string{"DimensionIndex"},
			}},
		},
	})
	return err
}

// FreezeRowsColumns pins the first rows and columns of a sheet so they
// stay visible while scrolling. Zero counts unfreeze.
func (c *Client) FreezeRowsColumns(ctx context.Context, spreadsheetID string, sheetID, rowCount, columnCount int64) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{
				SheetId: sheetID,
				GridProperties: &sheets.GridProperties{
					FrozenRowCount:    rowCount,
					FrozenColumnCount: columnCount,
					ForceSendFields:   []string{"FrozenRowCount", "FrozenColumnCount"},
				},
				ForceSendFields: []string{"SheetId"},
			},
			Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
		},
	})
	return err
}

// CreateNamedRange registers a named range usable in formulas
func (c *Client) CreateNamedRange(ctx context.Context, spreadsheetID, name string, rng CellRange) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddNamedRange: &sheets.AddNamedRangeRequest{
			NamedRange: &sheets.NamedRange{
				Name:  name,
				Range: rng.toGridRange(),
			},
		},
	})
	return err
}

// AddConditionalFormat adds a boolean-condition rule that paints matching
// cells with the given background color. The rule is inserted ahead of
// any existing rules.
func (c *Client) AddConditionalFormat(ctx context.Context, spreadsheetID string, rng CellRange, conditionType, conditionValue, hexColor string) error {
	color, err := parseHexColor(hexColor)
	if err != nil {
		return err
	}

	_, err = c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddConditionalFormatRule: &sheets.AddConditionalFormatRuleRequest{
			Rule: &sheets.ConditionalFormatRule{
				Ranges: []*sheets.GridRange{rng.toGridRange()},
				BooleanRule: &sheets.BooleanRule{
					Condition: &sheets.BooleanCondition{
						Type:   conditionType,
						Values: []*sheets.ConditionValue{{UserEnteredValue: conditionValue}},
					},
					Format: &sheets.CellFormat{BackgroundColor: color},
				},
			},
			ForceSendFields: []string{"Index"},
		},
	})
	return err
}

// AddNote attaches a note to a single cell
func (c *Client) AddNote(ctx context.Context, spreadsheetID string, sheetID, row, col int64, note string) error {
	rng := CellRange{SheetID: sheetID, StartRow: row, EndRow: row + 1, StartCol: col, EndCol: col + 1}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		UpdateCells: &sheets.UpdateCellsRequest{
			Range: rng.toGridRange(),
			Rows: []*sheets.RowData{{
				Values: []*sheets.CellData{{Note: note}},
			}},
			Fields: "note",
		},
	})
	return err
}

// ProtectRange marks a range as protected. With warningOnly the range
// stays editable but editors see a warning first.
func (c *Client) ProtectRange(ctx context.Context, spreadsheetID string, rng CellRange, description string, warningOnly bool) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddProtectedRange: &sheets.AddProtectedRangeRequest{
			ProtectedRange: &sheets.ProtectedRange{
				Range:       rng.toGridRange(),
				Description: description,
				WarningOnly: warningOnly,
			},
		},
	})
	return err
}

// CreateChart embeds a basic chart over the sheet. The first column of the
// data range is the domain axis and the remaining columns become series.
func (c *Client) CreateChart(ctx context.Context, spreadsheetID, chartType string, data CellRange, positionRow, positionCol int64) error {
	domain := CellRange{SheetID: data.SheetID, StartRow: data.StartRow, EndRow: data.EndRow, StartCol: data.StartCol, EndCol: data.StartCol + 1}
	series := CellRange{SheetID: data.SheetID, StartRow: data.StartRow, EndRow: data.EndRow, StartCol: data.StartCol + 1, EndCol: data.EndCol}

	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		AddChart: &sheets.AddChartRequest{
			Chart: &sheets.EmbeddedChart{
				Spec: &sheets.ChartSpec{
					Title: "Chart",
					BasicChart: &sheets.BasicChartSpec{
						ChartType:      chartType,
						LegendPosition: "RIGHT_LEGEND",
						Domains: []*sheets.BasicChartDomain{{
							Domain: &sheets.ChartData{
								SourceRange: &sheets.ChartSourceRange{
									Sources: []*sheets.GridRange{domain.toGridRange()},
								},
							},
						}},
						Series: []*sheets.BasicChartSeries{{
							Series: &sheets.ChartData{
								SourceRange: &sheets.ChartSourceRange{
									Sources: []*sheets.GridRange{series.toGridRange()},
								},
							},
						}},
					},
				},
				Position: &sheets.EmbeddedObjectPosition{
					OverlayPosition: &sheets.OverlayPosition{
						AnchorCell: &sheets.GridCoordinate{
							SheetId:         data.SheetID,
							RowIndex:        positionRow,
							ColumnIndex:     positionCol,
							ForceSendFields: []string{"SheetId", "RowIndex", "ColumnIndex"},
						},
					},
				},
			},
		},
	})
	return err
}

// CreateFilter puts a basic filter on the range so users can sort and
// filter by the header row.
func (c *Client) CreateFilter(ctx context.Context, spreadsheetID string, rng CellRange) error {
	_, err := c.batchUpdate(ctx, spreadsheetID, &sheets.Request{
		SetBasicFilter: &sheets.SetBasicFilterRequest{
			Filter: &sheets.BasicFilter{Range: rng.toGridRange()},
		},
	})
	return err
}
