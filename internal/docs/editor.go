package docs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// Bullet presets accepted by CreateParagraphBullets
const (
	BulletPresetDisc     = "BULLET_DISC_CIRCLE_SQUARE"
	BulletPresetNumbered = "NUMBERED_DECIMAL_ALPHA_ROMAN"
)

// ErrCellNotFound is returned by UpdateTableCell when no table starts at the
// given index or the row/column lies outside the table.
var ErrCellNotFound = errors.New("table cell not found")

func (c *Client) batchUpdate(ctx context.Context, documentID string, requests ...*docs.Request) (*docs.BatchUpdateDocumentResponse, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}

	res, err := c.docsService.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", documentID, err)
	}

	return res, nil
}

// AppendText appends text at the end of the document body
func (c *Client) AppendText(ctx context.Context, documentID, text string) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Text:                 text,
			EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
		},
	})
	return err
}

// InsertText inserts text at a specific index. Index 1 is the start of the
// document body.
func (c *Client) InsertText(ctx context.Context, documentID, text string, index int64) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Text:     text,
			Location: &docs.Location{Index: index},
		},
	})
	return err
}

// ReplaceText replaces every occurrence of findText with replaceText and
// returns the number of occurrences changed.
func (c *Client) ReplaceText(ctx context.Context, documentID, findText, replaceText string, matchCase bool) (int64, error) {
	res, err := c.batchUpdate(ctx, documentID, &docs.Request{
		ReplaceAllText: &docs.ReplaceAllTextRequest{
			ContainsText: &docs.SubstringMatchCriteria{
				Text:      findText,
				MatchCase: matchCase,
			},
			ReplaceText: replaceText,
		},
	})
	if err != nil {
		return 0, err
	}

	if len(res.Replies) > 0 && res.Replies[0].ReplaceAllText != nil {
		return res.Replies[0].ReplaceAllText.OccurrencesChanged, nil
	}
	return 0, nil
}

// FormatText applies character formatting to a text range. Only the fields
// set in format are touched; explicitly false values clear the attribute.
func (c *Client) FormatText(ctx context.Context, documentID string, startIndex, endIndex int64, format TextFormat) error {
	style := &docs.TextStyle{}
	var fields []string

	if format.Bold != nil {
		style.Bold = *format.Bold
		if !*format.Bold {
			style.ForceSendFields = append(style.ForceSendFields, "Bold")
		}
		fields = append(fields, "bold")
	}
	if format.Italic != nil {
		style.Italic = *format.Italic
		if !*format.Italic {
			style.ForceSendFields = append(style.ForceSendFields, "Italic")
		}
		fields = append(fields, "italic")
	}
	if format.Underline != nil {
		style.Underline = *format.Underline
		if !*format.Underline {
			style.ForceSendFields = append(style.ForceSendFields, "Underline")
		}
		fields = append(fields, "underline")
	}
	if format.FontSize > 0 {
		style.FontSize = &docs.Dimension{Magnitude: float64(format.FontSize), Unit: "PT"}
		fields = append(fields, "fontSize")
	}

	if len(fields) == 0 {
		return fmt.Errorf("no formatting specified")
	}

	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     &docs.Range{StartIndex: startIndex, EndIndex: endIndex},
			TextStyle: style,
			Fields:    strings.Join(fields, ","),
		},
	})
	return err
}

// InsertTable inserts an empty rows x columns table at the given index
func (c *Client) InsertTable(ctx context.Context, documentID string, rows, columns, index int64) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		InsertTable: &docs.InsertTableRequest{
			Rows:     rows,
			Columns:  columns,
			Location: &docs.Location{Index: index},
		},
	})
	return err
}

// InsertImage inserts an inline image fetched from imageURL at the given
// index. Width and height are in points; non-positive values fall back to
// 400x300.
func (c *Client) InsertImage(ctx context.Context, documentID, imageURL string, index, width, height int64) error {
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 300
	}

	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		InsertInlineImage: &docs.InsertInlineImageRequest{
			Uri:      imageURL,
			Location: &docs.Location{Index: index},
			ObjectSize: &docs.Size{
				Width:  &docs.Dimension{Magnitude: float64(width), Unit: "PT"},
				Height: &docs.Dimension{Magnitude: float64(height), Unit: "PT"},
			},
		},
	})
	return err
}

// AddHyperlink links a text range to a URL
func (c *Client) AddHyperlink(ctx context.Context, documentID string, startIndex, endIndex int64, url string) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range: &docs.Range{StartIndex: startIndex, EndIndex: endIndex},
			TextStyle: &docs.TextStyle{
				Link: &docs.Link{Url: url},
			},
			Fields: "link",
		},
	})
	return err
}

// CreateParagraphBullets turns the paragraphs in a range into list items
// using the given bullet preset.
func (c *Client) CreateParagraphBullets(ctx context.Context, documentID string, startIndex, endIndex int64, preset string) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range:        &docs.Range{StartIndex: startIndex, EndIndex: endIndex},
			BulletPreset: preset,
		},
	})
	return err
}

// SetParagraphStyle applies a named paragraph style (HEADING_1, TITLE, ...)
// to the paragraphs in a range.
func (c *Client) SetParagraphStyle(ctx context.Context, documentID string, startIndex, endIndex int64, namedStyle string) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          &docs.Range{StartIndex: startIndex, EndIndex: endIndex},
			ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: namedStyle},
			Fields:         "namedStyleType",
		},
	})
	return err
}

// InsertPageBreak inserts a page break at the given index
func (c *Client) InsertPageBreak(ctx context.Context, documentID string, index int64) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		InsertPageBreak: &docs.InsertPageBreakRequest{
			Location: &docs.Location{Index: index},
		},
	})
	return err
}

// DeleteContent deletes the content between startIndex and endIndex
func (c *Client) DeleteContent(ctx context.Context, documentID string, startIndex, endIndex int64) error {
	_, err := c.batchUpdate(ctx, documentID, &docs.Request{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: &docs.Range{StartIndex: startIndex, EndIndex: endIndex},
		},
	})
	return err
}

// UpdateTableCell replaces the text of a single table cell. The table is
// identified by its start index in the document body; row and column are
// zero-based. Returns ErrCellNotFound when no such cell exists.
func (c *Client) UpdateTableCell(ctx context.Context, documentID string, tableStartIndex, row, column int64, text string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}

	// The cell position has to be read back from the current document
	// structure. Fetch without tab content so doc.Body is populated.
	doc, err := c.docsService.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	if doc.Body == nil {
		return ErrCellNotFound
	}

	for _, element := range doc.Body.Content {
		if element.Table == nil || element.StartIndex != tableStartIndex {
			continue
		}

		table := element.Table
		if row < 0 || row >= int64(len(table.TableRows)) {
			return ErrCellNotFound
		}
		cells := table.TableRows[row].TableCells
		if column < 0 || column >= int64(len(cells)) {
			return ErrCellNotFound
		}
		content := cells[column].Content
		if len(content) == 0 {
			return ErrCellNotFound
		}

		cellStart := content[0].StartIndex
		cellEnd := content[0].EndIndex

		var requests []*docs.Request
		// Keep the paragraph marker at the end of the cell: delete up to
		// endIndex-1 only, and skip the delete entirely for an empty cell.
		if cellEnd-1 > cellStart {
			requests = append(requests, &docs.Request{
				DeleteContentRange: &docs.DeleteContentRangeRequest{
					Range: &docs.Range{StartIndex: cellStart, EndIndex: cellEnd - 1},
				},
			})
		}
		requests = append(requests, &docs.Request{
			InsertText: &docs.InsertTextRequest{
				Text:     text,
				Location: &docs.Location{Index: cellStart},
			},
		})

		_, err := c.batchUpdate(ctx, documentID, requests...)
		return err
	}

	return ErrCellNotFound
}

// AddBookmark creates a named range at the given index and returns its ID.
// Named ranges are the Docs API primitive behind document bookmarks.
func (c *Client) AddBookmark(ctx context.Context, documentID string, index int64, name string) (string, error) {
	res, err := c.batchUpdate(ctx, documentID, &docs.Request{
		CreateNamedRange: &docs.CreateNamedRangeRequest{
			Name:  name,
			Range: &docs.Range{StartIndex: index, EndIndex: index},
		},
	})
	if err != nil {
		return "", err
	}

	if len(res.Replies) > 0 && res.Replies[0].CreateNamedRange != nil {
		return res.Replies[0].CreateNamedRange.NamedRangeId, nil
	}
	return "", nil
}
