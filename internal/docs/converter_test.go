package docs

import (
	"testing"

	docs "google.golang.org/api/docs/v1"
)

// para builds a single-run paragraph
func para(content string) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{
				{TextRun: &docs.TextRun{Content: content}},
			},
		},
	}
}

func styledPara(style string, content string) *docs.StructuralElement {
	el := para(content)
	el.Paragraph.ParagraphStyle = &docs.ParagraphStyle{NamedStyleType: style}
	return el
}

func bulletPara(content string) *docs.StructuralElement {
	el := para(content)
	el.Paragraph.Bullet = &docs.Bullet{ListId: "list1"}
	return el
}

func tableCell(content string) *docs.TableCell {
	return &docs.TableCell{Content: []*docs.StructuralElement{para(content)}}
}

func TestDocumentToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		doc      *docs.Document
		expected string
		wantErr  bool
	}{
		{
			name:    "Nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name: "Title and paragraph",
			doc: &docs.Document{
				Title: "Test Document",
				Body:  &docs.Body{Content: []*docs.StructuralElement{para("This is a test.\n")}},
			},
			expected: "# Test Document\n\nThis is a test.\n\n",
		},
		{
			name: "Headings and bullets",
			doc: &docs.Document{
				Title: "Spec",
				Body: &docs.Body{Content: []*docs.StructuralElement{
					styledPara("HEADING_1", "Overview\n"),
					para("Body text\n"),
					bulletPara("item one\n"),
					bulletPara("item two\n"),
				}},
			},
			expected: "# Spec\n\n# Overview\n\nBody text\n\n- item one\n- item two\n",
		},
		{
			name: "Character styles",
			doc: &docs.Document{
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{
						Paragraph: &docs.Paragraph{
							Elements: []*docs.ParagraphElement{
								{TextRun: &docs.TextRun{Content: "Go "}},
								{TextRun: &docs.TextRun{Content: "fast", TextStyle: &docs.TextStyle{Bold: true}}},
								{TextRun: &docs.TextRun{Content: " and "}},
								{TextRun: &docs.TextRun{Content: "loose", TextStyle: &docs.TextStyle{Italic: true}}},
								{TextRun: &docs.TextRun{Content: "!\n"}},
							},
						},
					},
					{
						Paragraph: &docs.Paragraph{
							Elements: []*docs.ParagraphElement{
								{TextRun: &docs.TextRun{Content: "both\n", TextStyle: &docs.TextStyle{Bold: true, Italic: true}}},
							},
						},
					},
				}},
			},
			expected: "Go **fast** and *loose*!\n\n***both***\n\n",
		},
		{
			name: "Links and code",
			doc: &docs.Document{
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{
						Paragraph: &docs.Paragraph{
							Elements: []*docs.ParagraphElement{
								{TextRun: &docs.TextRun{Content: "see "}},
								{TextRun: &docs.TextRun{
									Content:   "the docs\n",
									TextStyle: &docs.TextStyle{Link: &docs.Link{Url: "https://example.com"}},
								}},
							},
						},
					},
					{
						Paragraph: &docs.Paragraph{
							Elements: []*docs.ParagraphElement{
								{TextRun: &docs.TextRun{
									Content:   "run()\n",
									TextStyle: &docs.TextStyle{WeightedFontFamily: &docs.WeightedFontFamily{FontFamily: "Courier New"}},
								}},
							},
						},
					},
				}},
			},
			expected: "see [the docs](https://example.com)\n\n`run()`\n\n",
		},
		{
			name: "Table with header separator",
			doc: &docs.Document{
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{
						Table: &docs.Table{TableRows: []*docs.TableRow{
							{TableCells: []*docs.TableCell{tableCell("Name\n"), tableCell("Role\n")}},
							{TableCells: []*docs.TableCell{tableCell("Ada\n"), tableCell("Engineer\n")}},
						}},
					},
				}},
			},
			expected: "| Name | Role |\n| --- | --- |\n| Ada | Engineer |\n\n",
		},
		{
			name: "Tabs become nested headings",
			doc: &docs.Document{
				Title: "Handbook",
				Tabs: []*docs.Tab{
					{
						TabProperties: &docs.TabProperties{Title: "Intro"},
						DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("Welcome.\n")}}},
					},
					{
						TabProperties: &docs.TabProperties{Title: "Policies"},
						DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("Policy text.\n")}}},
						ChildTabs: []*docs.Tab{
							{
								TabProperties: &docs.TabProperties{Title: "Leave"},
								DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("Ask first.\n")}}},
							},
						},
					},
				},
			},
			expected: "# Handbook\n\n## Intro\n\nWelcome.\n\n## Policies\n\nPolicy text.\n\n### Leave\n\nAsk first.\n\n",
		},
		{
			name: "Empty paragraphs and section breaks are skipped",
			doc: &docs.Document{
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{SectionBreak: &docs.SectionBreak{}},
					para("\n"),
					para("Hi.\n"),
				}},
			},
			expected: "Hi.\n\n",
		},
		{
			name: "Inline objects get a placeholder",
			doc: &docs.Document{
				Body: &docs.Body{Content: []*docs.StructuralElement{
					{
						Paragraph: &docs.Paragraph{
							Elements: []*docs.ParagraphElement{
								{InlineObjectElement: &docs.InlineObjectElement{InlineObjectId: "img1"}},
								{TextRun: &docs.TextRun{Content: " chart\n"}},
							},
						},
					},
				}},
			},
			expected: "[inline object] chart\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DocumentToMarkdown(tt.doc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DocumentToMarkdown failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDocumentToPlainText(t *testing.T) {
	tests := []struct {
		name     string
		doc      *docs.Document
		expected string
		wantErr  bool
	}{
		{
			name:    "Nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name: "Legacy body without title prefix",
			doc: &docs.Document{
				Title: "Ignored",
				Body: &docs.Body{Content: []*docs.StructuralElement{
					para("Hello world.\n"),
					para("Second line.\n"),
				}},
			},
			expected: "Hello world.\nSecond line.\n",
		},
		{
			name: "Table cells are tab separated",
			doc: &docs.Document{
				Body: &docs.Body{Content: []*docs.StructuralElement{
					para("Before.\n"),
					{
						Table: &docs.Table{TableRows: []*docs.TableRow{
							{TableCells: []*docs.TableCell{tableCell("a\n"), tableCell("b\n")}},
						}},
					},
				}},
			},
			expected: "Before.\na\tb\t\n",
		},
		{
			name: "Multiple tabs get separators",
			doc: &docs.Document{
				Tabs: []*docs.Tab{
					{
						TabProperties: &docs.TabProperties{Title: "Notes"},
						DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("alpha\n")}}},
					},
					{
						TabProperties: &docs.TabProperties{Title: "Archive"},
						DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("beta\n")}}},
					},
				},
			},
			expected: "=== Notes ===\n\nalpha\n\n=== Archive ===\n\nbeta\n\n",
		},
		{
			name: "Single tab renders as bare text",
			doc: &docs.Document{
				Tabs: []*docs.Tab{
					{
						DocumentTab: &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("alpha\n")}}},
					},
				},
			},
			expected: "alpha\n",
		},
		{
			name: "Child tabs are indented",
			doc: &docs.Document{
				Tabs: []*docs.Tab{
					{
						TabProperties: &docs.TabProperties{Title: "Top"},
						DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("t\n")}}},
						ChildTabs: []*docs.Tab{
							{
								TabProperties: &docs.TabProperties{Title: "Sub"},
								DocumentTab:   &docs.DocumentTab{Body: &docs.Body{Content: []*docs.StructuralElement{para("s\n")}}},
							},
						},
					},
				},
			},
			expected: "=== Top ===\n\nt\n\n  === Sub ===\n\ns\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DocumentToPlainText(tt.doc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DocumentToPlainText failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
