package webpage

import (
	"fmt"
	"strings"
)

type ElementKind string

const (
	ElementButton ElementKind = "Button"
	ElementLink   ElementKind = "Link"
)

type InteractiveElement struct {
	Kind  ElementKind `json:"kind"`
	Label string      `json:"label"`
}

func (e InteractiveElement) String() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Label)
}

// ExtractedContext is the grounding context taken from one page. BodyText
// is empty, never missing, when the page could not be fetched or parsed.
type ExtractedContext struct {
	BodyText            string               `json:"body_text"`
	InteractiveElements []InteractiveElement `json:"interactive_elements"`
}

const elementsSummaryPrefix = "The page contains these interactive elements: "

// ElementsSummary joins the interactive elements into a single sentence for
// the prompt. It returns "" when the page had none.
func (c ExtractedContext) ElementsSummary() string {
	if len(c.InteractiveElements) == 0 {
		return ""
	}

	labels := make([]string, 0, len(c.InteractiveElements))
	for _, element := range c.InteractiveElements {
		labels = append(labels, element.String())
	}

	return elementsSummaryPrefix + strings.Join(labels, ", ")
}

func emptyContext() ExtractedContext {
	return ExtractedContext{
		BodyText:            "",
		InteractiveElements: []InteractiveElement{},
	}
}
