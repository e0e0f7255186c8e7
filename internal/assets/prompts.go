// Package assets provides embedded static assets for the application.
//
// Prompt templates are stored as text files under prompts/ and embedded at compile time.
package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

// RepaintSystemPrompt sets the ground rules for every wall repaint request.
//
//go:embed prompts/repaint-system.txt
var RepaintSystemPrompt string

//go:embed prompts/repaint-instruction.txt
var repaintInstructionTemplate string

// template.Must panics on malformed templates, catching errors at program
// startup rather than at call time.
var repaintInstructionTmpl = template.Must(template.New("repaint").Parse(repaintInstructionTemplate))

// RepaintPromptData holds the colour injected into the repaint instruction.
type RepaintPromptData struct {
	ColorName        string
	ColorHex         string
	ColorDescription string
}

// RenderRepaintInstruction renders the per-request repaint instruction.
func RenderRepaintInstruction(data RepaintPromptData) string {
	var buf bytes.Buffer
	// Execution errors are not expected with this template; return whatever rendered.
	_ = repaintInstructionTmpl.Execute(&buf, data)
	return buf.String()
}
