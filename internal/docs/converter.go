package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// section is one renderable body of content: the legacy document body, or a
// tab at some nesting depth.
type section struct {
	title string
	depth int
	body  *docs.Body
}

// sections flattens a document into renderable bodies. Legacy documents
// yield a single untitled section; tabbed documents yield one section per
// tab in depth-first order.
func sections(doc *docs.Document) []section {
	if len(doc.Tabs) == 0 {
		return []section{{body: doc.Body}}
	}
	return collectTabs(doc.Tabs, 0)
}

func collectTabs(tabs []*docs.Tab, depth int) []section {
	var out []section
	for i, tab := range tabs {
		sec := section{depth: depth}
		if tab.TabProperties != nil {
			sec.title = tab.TabProperties.Title
		}
		if sec.title == "" {
			sec.title = fmt.Sprintf("Tab %d", i+1)
		}
		if tab.DocumentTab != nil {
			sec.body = tab.DocumentTab.Body
		}
		out = append(out, sec)
		out = append(out, collectTabs(tab.ChildTabs, depth+1)...)
	}
	return out
}

// DocumentToPlainText extracts the body text of a Google Doc. Multi-tab
// documents get a "=== title ===" separator before each tab; a document with
// a single tab (or a legacy body) comes back as bare text.
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	secs := sections(doc)

	var sb strings.Builder
	for _, sec := range secs {
		if len(secs) > 1 {
			sb.WriteString(strings.Repeat("  ", sec.depth))
			sb.WriteString("=== " + sec.title + " ===\n\n")
		}
		writeBodyText(&sb, sec.body)
		if len(secs) > 1 {
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func writeBodyText(sb *strings.Builder, body *docs.Body) {
	if body == nil {
		return
	}
	for _, element := range body.Content {
		switch {
		case element.Paragraph != nil:
			for _, elem := range element.Paragraph.Elements {
				if elem.TextRun != nil {
					sb.WriteString(elem.TextRun.Content)
				}
			}
		case element.Table != nil:
			writeTableText(sb, element.Table)
		}
	}
}

func writeTableText(sb *strings.Builder, table *docs.Table) {
	for _, row := range table.TableRows {
		for _, cell := range row.TableCells {
			sb.WriteString(cellText(cell))
			sb.WriteString("\t")
		}
		sb.WriteString("\n")
	}
}

// cellText flattens a table cell to a single line
func cellText(cell *docs.TableCell) string {
	var sb strings.Builder
	for _, element := range cell.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, elem := range element.Paragraph.Elements {
			if elem.TextRun != nil {
				sb.WriteString(elem.TextRun.Content)
			}
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(sb.String()), "\n", " ")
}

// namedStyleHeading maps Docs named paragraph styles to Markdown heading
// depth
var namedStyleHeading = map[string]int{
	"HEADING_1": 1,
	"HEADING_2": 2,
	"HEADING_3": 3,
	"HEADING_4": 4,
	"HEADING_5": 5,
	"HEADING_6": 6,
}

// DocumentToMarkdown converts a Google Doc to Markdown. The document title
// becomes an H1; tabs of multi-tab documents become headings nested below
// it. Character styles map to Markdown emphasis and tables to pipe tables.
func DocumentToMarkdown(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var sb strings.Builder
	if doc.Title != "" {
		sb.WriteString("# " + doc.Title + "\n\n")
	}

	secs := sections(doc)
	for _, sec := range secs {
		if len(secs) > 1 {
			sb.WriteString(strings.Repeat("#", sec.depth+2))
			sb.WriteString(" " + sec.title + "\n\n")
		}
		writeBodyMarkdown(&sb, sec.body)
	}

	return sb.String(), nil
}

func writeBodyMarkdown(sb *strings.Builder, body *docs.Body) {
	if body == nil {
		return
	}
	for _, element := range body.Content {
		switch {
		case element.Paragraph != nil:
			writeParagraphMarkdown(sb, element.Paragraph)
		case element.Table != nil:
			writeTableMarkdown(sb, element.Table)
		}
	}
}

func writeParagraphMarkdown(sb *strings.Builder, para *docs.Paragraph) {
	var text strings.Builder
	for _, elem := range para.Elements {
		switch {
		case elem.TextRun != nil:
			text.WriteString(renderRunMarkdown(elem.TextRun))
		case elem.InlineObjectElement != nil:
			text.WriteString("[inline object]")
		}
	}
	if text.Len() == 0 {
		return
	}

	heading := 0
	if para.ParagraphStyle != nil {
		heading = namedStyleHeading[para.ParagraphStyle.NamedStyleType]
	}

	switch {
	case heading > 0:
		sb.WriteString(strings.Repeat("#", heading))
		sb.WriteString(" ")
		sb.WriteString(text.String())
		sb.WriteString("\n\n")
	case para.Bullet != nil:
		// List items stay on adjacent lines
		sb.WriteString("- ")
		sb.WriteString(text.String())
		sb.WriteString("\n")
	default:
		sb.WriteString(text.String())
		sb.WriteString("\n\n")
	}
}

// renderRunMarkdown renders one text run with its character style applied.
// The paragraph terminator is stripped; paragraph breaks are reintroduced by
// the caller.
func renderRunMarkdown(run *docs.TextRun) string {
	content := strings.TrimRight(run.Content, "\n")
	if content == "" {
		return ""
	}

	style := run.TextStyle
	if style == nil {
		return content
	}

	if style.Link != nil && style.Link.Url != "" {
		return "[" + strings.TrimSpace(content) + "](" + style.Link.Url + ")"
	}

	if style.WeightedFontFamily != nil && strings.Contains(style.WeightedFontFamily.FontFamily, "Courier") {
		return "`" + strings.TrimSpace(content) + "`"
	}

	switch {
	case style.Bold && style.Italic:
		return "***" + content + "***"
	case style.Bold:
		return "**" + content + "**"
	case style.Italic:
		return "*" + content + "*"
	}
	return content
}

func writeTableMarkdown(sb *strings.Builder, table *docs.Table) {
	if len(table.TableRows) == 0 {
		return
	}

	for rowIndex, row := range table.TableRows {
		sb.WriteString("|")
		for _, cell := range row.TableCells {
			sb.WriteString(" " + cellText(cell) + " |")
		}
		sb.WriteString("\n")

		// Header separator after the first row
		if rowIndex == 0 {
			sb.WriteString("|")
			for range row.TableCells {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}
