package forms

import (
	"context"
	"fmt"

	forms "google.golang.org/api/forms/v1"
)

// Choice question types accepted by AddChoiceQuestion
const (
	ChoiceRadio    = "RADIO"
	ChoiceCheckbox = "CHECKBOX"
	ChoiceDropdown = "DROP_DOWN"
)

func (c *Client) batchUpdate(ctx context.Context, formID string, requests ...*forms.Request) (*forms.BatchUpdateFormResponse, error) {
	if formID == "" {
		return nil, fmt.Errorf("formID is required")
	}

	res, err := c.formsService.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update form %s: %w", formID, err)
	}

	return res, nil
}

// addQuestion inserts a question item at the top of the form. The index is
// force-sent because zero is the only position the callers use.
func (c *Client) addQuestion(ctx context.Context, formID, questionText string, required bool, question *forms.Question) error {
	question.Required = required
	_, err := c.batchUpdate(ctx, formID, &forms.Request{
		CreateItem: &forms.CreateItemRequest{
			Item: &forms.Item{
				Title:        questionText,
				QuestionItem: &forms.QuestionItem{Question: question},
			},
			Location: &forms.Location{
				Index:           0,
				ForceSendFields: []string{"Index"},
			},
		},
	})
	return err
}

// AddTextQuestion adds a short-answer question, or a long-form paragraph
// question when paragraph is set
func (c *Client) AddTextQuestion(ctx context.Context, formID, questionText string, paragraph, required bool) error {
	return c.addQuestion(ctx, formID, questionText, required, &forms.Question{
		TextQuestion: &forms.TextQuestion{Paragraph: paragraph},
	})
}

// AddChoiceQuestion adds a choice question of the given type. RADIO and
// DROP_DOWN allow one selection, CHECKBOX allows several.
func (c *Client) AddChoiceQuestion(ctx context.Context, formID, questionText, choiceType string, options []string, required bool) error {
	if len(options) == 0 {
		return fmt.Errorf("at least one option is required")
	}

	choices := make([]*forms.Option, len(options))
	for i, option := range options {
		choices[i] = &forms.Option{Value: option}
	}

	return c.addQuestion(ctx, formID, questionText, required, &forms.Question{
		ChoiceQuestion: &forms.ChoiceQuestion{
			Type:    choiceType,
			Options: choices,
		},
	})
}

// AddScaleQuestion adds a linear scale question. The low bound is force-sent
// because the API allows scales starting at zero.
func (c *Client) AddScaleQuestion(ctx context.Context, formID, questionText string, low, high int64, lowLabel, highLabel string, required bool) error {
	scale := &forms.ScaleQuestion{
		Low:             low,
		High:            high,
		ForceSendFields: []string{"Low"},
	}
	if lowLabel != "" {
		scale.LowLabel = lowLabel
	}
	if highLabel != "" {
		scale.HighLabel = highLabel
	}

	return c.addQuestion(ctx, formID, questionText, required, &forms.Question{
		ScaleQuestion: scale,
	})
}

// AddDateQuestion adds a date question
func (c *Client) AddDateQuestion(ctx context.Context, formID, questionText string, includeYear, required bool) error {
	return c.addQuestion(ctx, formID, questionText, required, &forms.Question{
		DateQuestion: &forms.DateQuestion{IncludeYear: includeYear},
	})
}

// AddTimeQuestion adds a time-of-day question, or a duration question when
// duration is set
func (c *Client) AddTimeQuestion(ctx context.Context, formID, questionText string, duration, required bool) error {
	return c.addQuestion(ctx, formID, questionText, required, &forms.Question{
		TimeQuestion: &forms.TimeQuestion{Duration: duration},
	})
}

// UpdateSettings applies the given form updates, one masked request per
// field so untouched settings are preserved
func (c *Client) UpdateSettings(ctx context.Context, formID string, updates FormUpdates) error {
	if updates.isEmpty() {
		return fmt.Errorf("no settings specified")
	}

	var requests []*forms.Request
	if updates.Title != nil {
		requests = append(requests, &forms.Request{
			UpdateFormInfo: &forms.UpdateFormInfoRequest{
				Info:       &forms.Info{Title: *updates.Title},
				UpdateMask: "title",
			},
		})
	}
	if updates.Description != nil {
		requests = append(requests, &forms.Request{
			UpdateFormInfo: &forms.UpdateFormInfoRequest{
				Info:       &forms.Info{Description: *updates.Description},
				UpdateMask: "description",
			},
		})
	}
	if updates.QuizMode != nil {
		quiz := &forms.QuizSettings{IsQuiz: *updates.QuizMode}
		if !*updates.QuizMode {
			quiz.ForceSendFields = append(quiz.ForceSendFields, "IsQuiz")
		}
		requests = append(requests, &forms.Request{
			UpdateSettings: &forms.UpdateSettingsRequest{
				Settings:   &forms.FormSettings{QuizSettings: quiz},
				UpdateMask: "quizSettings.isQuiz",
			},
		})
	}

	_, err := c.batchUpdate(ctx, formID, requests...)
	return err
}

// DeleteQuestion removes the item at the given zero-based index. Callers
// are expected to bounds-check against the fetched form first; the API
// rejects out-of-range indices.
func (c *Client) DeleteQuestion(ctx context.Context, formID string, index int64) error {
	_, err := c.batchUpdate(ctx, formID, &forms.Request{
		DeleteItem: &forms.DeleteItemRequest{
			Location: &forms.Location{
				Index:           index,
				ForceSendFields: []string{"Index"},
			},
		},
	})
	return err
}
