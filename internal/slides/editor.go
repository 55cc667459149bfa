package slides

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	slides "google.golang.org/api/slides/v1"
)

// Errors returned by AddSpeakerNotes when the notes infrastructure of a
// slide cannot be located.
var (
	ErrNoNotesPage  = errors.New("notes page not found")
	ErrNoNotesShape = errors.New("notes shape not found")
)

func (c *Client) batchUpdate(ctx context.Context, presentationID string, requests ...*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	if presentationID == "" {
		return nil, fmt.Errorf("presentationID is required")
	}

	res, err := c.slidesService.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update presentation %s: %w", presentationID, err)
	}

	return res, nil
}

// newObjectID builds a page element ID that is unique within a presentation
// for all practical purposes. The API requires client-chosen IDs on create
// requests when the caller wants to address the element afterwards.
func newObjectID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// elementProperties positions a new page element on a slide. Coordinates and
// dimensions are in points. The translate components are force-sent so an
// element can be placed at the page origin.
func elementProperties(slideID string, x, y, width, height float64) *slides.PageElementProperties {
	return &slides.PageElementProperties{
		PageObjectId: slideID,
		Size: &slides.Size{
			Width:  &slides.Dimension{Magnitude: width, Unit: "PT"},
			Height: &slides.Dimension{Magnitude: height, Unit: "PT"},
		},
		Transform: &slides.AffineTransform{
			ScaleX:          1,
			ScaleY:          1,
			TranslateX:      x,
			TranslateY:      y,
			Unit:            "PT",
			ForceSendFields: []string{"TranslateX", "TranslateY"},
		},
	}
}

// AddSlide appends a blank slide and returns its object ID. A non-nil index
// inserts the slide at that zero-based position instead.
func (c *Client) AddSlide(ctx context.Context, presentationID string, index *int64) (string, error) {
	req := &slides.CreateSlideRequest{
		ObjectId: newObjectID("slide"),
	}
	if index != nil {
		req.InsertionIndex = *index
		req.ForceSendFields = append(req.ForceSendFields, "InsertionIndex")
	}

	res, err := c.batchUpdate(ctx, presentationID, &slides.Request{CreateSlide: req})
	if err != nil {
		return "", err
	}

	if len(res.Replies) > 0 && res.Replies[0].CreateSlide != nil {
		return res.Replies[0].CreateSlide.ObjectId, nil
	}
	return "", fmt.Errorf("no slide ID in response")
}

// AddTextBox creates a text box on a slide and fills it with text. Returns
// the object ID of the new text box.
func (c *Client) AddTextBox(ctx context.Context, presentationID, slideID, text string, x, y, width, height float64) (string, error) {
	textBoxID := newObjectID("textbox")

	_, err := c.batchUpdate(ctx, presentationID,
		&slides.Request{
			CreateShape: &slides.CreateShapeRequest{
				ObjectId:          textBoxID,
				ShapeType:         "TEXT_BOX",
				ElementProperties: elementProperties(slideID, x, y, width, height),
			},
		},
		&slides.Request{
			InsertText: &slides.InsertTextRequest{
				ObjectId: textBoxID,
				Text:     text,
			},
		},
	)
	if err != nil {
		return "", err
	}
	return textBoxID, nil
}

// DeleteSlide removes a slide from the presentation
func (c *Client) DeleteSlide(ctx context.Context, presentationID, slideID string) error {
	_, err := c.batchUpdate(ctx, presentationID, &slides.Request{
		DeleteObject: &slides.DeleteObjectRequest{ObjectId: slideID},
	})
	return err
}

// InsertImage places an image from a publicly reachable URL on a slide and
// returns the object ID of the new image element.
func (c *Client) InsertImage(ctx context.Context, presentationID, slideID, imageURL string, x, y, width, height float64) (string, error) {
	imageID := newObjectID("image")

	_, err := c.batchUpdate(ctx, presentationID, &slides.Request{
		CreateImage: &slides.CreateImageRequest{
			ObjectId:          imageID,
			Url:               imageURL,
			ElementProperties: elementProperties(slideID, x, y, width, height),
		},
	})
	if err != nil {
		return "", err
	}
	return imageID, nil
}

// ReplaceText replaces every occurrence of findText across all slides and
// returns the number of occurrences changed.
func (c *Client) ReplaceText(ctx context.Context, presentationID, findText, replaceText string, matchCase bool) (int64, error) {
	res, err := c.batchUpdate(ctx, presentationID, &slides.Request{
		ReplaceAllText: &slides.ReplaceAllTextRequest{
			ContainsText: &slides.SubstringMatchCriteria{
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

// FormatText applies character formatting to a fixed index range inside a
// shape. Only the fields set in style are touched; explicitly false values
// clear the attribute. The start index is force-sent because shape text
// begins at index zero.
func (c *Client) FormatText(ctx context.Context, presentationID, shapeID string, startIndex, endIndex int64, style TextStyle) error {
	textStyle := &slides.TextStyle{}
	var fields []string

	if style.Bold != nil {
		textStyle.Bold = *style.Bold
		if !*style.Bold {
			textStyle.ForceSendFields = append(textStyle.ForceSendFields, "Bold")
		}
		fields = append(fields, "bold")
	}
	if style.Italic != nil {
		textStyle.Italic = *style.Italic
		if !*style.Italic {
			textStyle.ForceSendFields = append(textStyle.ForceSendFields, "Italic")
		}
		fields = append(fields, "italic")
	}
	if style.FontSize > 0 {
		textStyle.FontSize = &slides.Dimension{Magnitude: float64(style.FontSize), Unit: "PT"}
		fields = append(fields, "fontSize")
	}
	if style.ForegroundColor != "" {
		color, err := parseHexColor(style.ForegroundColor)
		if err != nil {
			return err
		}
		textStyle.ForegroundColor = &slides.OptionalColor{OpaqueColor: color}
		fields = append(fields, "foregroundColor")
	}

	if len(fields) == 0 {
		return fmt.Errorf("no formatting specified")
	}

	_, err := c.batchUpdate(ctx, presentationID, &slides.Request{
		UpdateTextStyle: &slides.UpdateTextStyleRequest{
			ObjectId: shapeID,
			TextRange: &slides.Range{
				Type:            "FIXED_RANGE",
				StartIndex:      &startIndex,
				EndIndex:        &endIndex,
				ForceSendFields: []string{"StartIndex"},
			},
			Style:  textStyle,
			Fields: strings.Join(fields, ","),
		},
	})
	return err
}

// AddShape places a shape of the given type on a slide and returns the
// object ID of the new element. Shape types are API enum names such as
// RECTANGLE, ELLIPSE or ARROW.
func (c *Client) AddShape(ctx context.Context, presentationID, slideID, shapeType string, x, y, width, height float64) (string, error) {
	shapeID := newObjectID("shape")

	_, err := c.batchUpdate(ctx, presentationID, &slides.Request{
		CreateShape: &slides.CreateShapeRequest{
			ObjectId:          shapeID,
			ShapeType:         shapeType,
			ElementProperties: elementProperties(slideID, x, y, width, height),
		},
	})
	if err != nil {
		return "", err
	}
	return shapeID, nil
}

// DuplicateSlide copies a slide within the presentation and returns the
// object ID of the copy. The API places the copy right after the original.
func (c *Client) DuplicateSlide(ctx context.Context, presentationID, slideID string) (string, error) {
	res, err := c.batchUpdate(ctx, presentationID, &slides.Request{
		DuplicateObject: &slides.DuplicateObjectRequest{
			ObjectId:        slideID,
			ObjectIds:       map[string]string{},
			ForceSendFields: []string{"ObjectIds"},
		},
	})
	if err != nil {
		return "", err
	}

	if len(res.Replies) > 0 && res.Replies[0].DuplicateObject != nil {
		return res.Replies[0].DuplicateObject.ObjectId, nil
	}
	return "", fmt.Errorf("no object ID in response")
}

// AddSpeakerNotes replaces the speaker notes of a slide. The notes live in a
// text box on the slide's notes page; the notes body is the second text box
// there, the first being the slide thumbnail placeholder. Returns
// ErrNoNotesPage or ErrNoNotesShape when the slide has no usable notes
// infrastructure.
func (c *Client) AddSpeakerNotes(ctx context.Context, presentationID, slideID, notes string) error {
	presentation, err := c.GetPresentation(ctx, presentationID)
	if err != nil {
		return err
	}

	var notesPageID string
	for _, slide := range presentation.Slides {
		if slide.ObjectId != slideID {
			continue
		}
		if slide.SlideProperties != nil && slide.SlideProperties.NotesPage != nil {
			notesPageID = slide.SlideProperties.NotesPage.ObjectId
		}
		break
	}
	if notesPageID == "" {
		return ErrNoNotesPage
	}

	notesPage, err := c.slidesService.Presentations.Pages.Get(presentationID, notesPageID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get notes page %s: %w", notesPageID, err)
	}

	var notesShape *slides.PageElement
	for _, element := range notesPage.PageElements {
		if element.Shape == nil || element.Shape.ShapeType != "TEXT_BOX" {
			continue
		}
		if notesShape == nil {
			// First text box is the slide thumbnail placeholder, but
			// keep it as a fallback in case it is the only one.
			notesShape = element
			continue
		}
		notesShape = element
		break
	}
	if notesShape == nil {
		return ErrNoNotesShape
	}

	var requests []*slides.Request
	if shapeHasText(notesShape.Shape) {
		requests = append(requests, &slides.Request{
			DeleteText: &slides.DeleteTextRequest{
				ObjectId:  notesShape.ObjectId,
				TextRange: &slides.Range{Type: "ALL"},
			},
		})
	}
	requests = append(requests, &slides.Request{
		InsertText: &slides.InsertTextRequest{
			ObjectId:        notesShape.ObjectId,
			Text:            notes,
			InsertionIndex:  0,
			ForceSendFields: []string{"InsertionIndex"},
		},
	})

	_, err = c.batchUpdate(ctx, presentationID, requests...)
	return err
}

// shapeHasText reports whether a shape contains any text runs. Deleting all
// text from an empty shape is an API error, so callers check first.
func shapeHasText(shape *slides.Shape) bool {
	if shape.Text == nil {
		return false
	}
	for _, element := range shape.Text.TextElements {
		if element.TextRun != nil && element.TextRun.Content != "" {
			return true
		}
	}
	return false
}
