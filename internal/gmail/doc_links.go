package gmail

import "regexp"

// DocLink is a Google Docs/Drive reference found in a message body.
type DocLink struct {
	URL        string `json:"url"`
	DocumentID string `json:"documentId"`
	Type       string `json:"type"` // "document", "spreadsheet", "presentation", "drive"
}

// docLinkRegex matches the /d/{id} URL families on docs.google.com and
// drive.google.com. The drive "open?id=" form is matched separately because
// the ID lives in the query string.
var (
	docLinkRegex  = regexp.MustCompile(`https?://(?:docs|drive)\.google\.com/(document|spreadsheets|presentation|file)/d/([a-zA-Z0-9_-]+)`)
	driveOpenLink = regexp.MustCompile(`https?://drive\.google\.com/open\?id=([a-zA-Z0-9_-]+)`)
)

// linkTypeFor maps the URL path segment to the DocLink type label.
var linkTypeFor = map[string]string{
	"document":     "document",
	"spreadsheets": "spreadsheet",
	"presentation": "presentation",
	"file":         "drive",
}

// ExtractDocLinks scans text for Google Docs/Drive URLs, in order of
// appearance, keeping the first occurrence of each document ID.
func ExtractDocLinks(text string) []*DocLink {
	var links []*DocLink
	seen := make(map[string]bool)

	for _, m := range docLinkRegex.FindAllStringSubmatch(text, -1) {
		if seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		links = append(links, &DocLink{URL: m[0], DocumentID: m[2], Type: linkTypeFor[m[1]]})
	}

	for _, m := range driveOpenLink.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		links = append(links, &DocLink{URL: m[0], DocumentID: m[1], Type: "drive"})
	}

	return links
}
