// Package rendering renders action plans as Markdown or plain text for
// printing, saving and sharing.
package rendering

import "fmt"

// TemplateError reports a plan template that could not be loaded, parsed
// or executed.
type TemplateError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("%s plan template: %s", e.Format, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a request that cannot be rendered at all: no plan,
// or a format without a template.
type RenderError struct {
	Format  Format
	Message string
}

func (e *RenderError) Error() string {
	if e.Format == "" {
		return "cannot render plan: " + e.Message
	}
	return fmt.Sprintf("cannot render %s plan: %s", e.Format, e.Message)
}
