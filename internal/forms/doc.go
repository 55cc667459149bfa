// Package forms provides a client for building Google Forms and reading
// their responses.
//
// A form is created with just a title; questions arrive through batchUpdate
// requests, each inserted at the top of the form: short and paragraph text,
// radio, checkbox and dropdown choices, linear scales, dates and times.
// Settings updates use field masks so a title change never touches quiz
// mode. Responses are read-only through the responses API.
//
// Example usage:
//
//	client, err := forms.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	form, err := client.CreateForm(ctx, "Team Survey", "")
package forms
