package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/learnspacy/annotate"
)

const quitCommand = "quit"

// Handler annotates each line entered at the prompt.
type Handler struct {
	Printer *annotate.Printer

	// Err receives pipeline errors, the loop goes on after them
	Err io.Writer

	history []string
}

func NewHandler(p *annotate.Printer, errOut io.Writer) *Handler {
	return &Handler{Printer: p, Err: errOut}
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.Printer.Renderer.Out, "🔑 Ctrl+F: next Format, Ctrl+X: Toggle headers, 🔧 quit")

	for {
		in := prompt.Input("      ✍  ", h.completer,
			prompt.OptionTitle("learnspacy repl"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(h.history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Printer.Renderer.NextFormat()
					fmt.Fprintln(h.Printer.Renderer.Out, "Format set to: "+h.Printer.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Printer.Renderer.HasHeader = !h.Printer.Renderer.HasHeader
					fmt.Fprintf(h.Printer.Renderer.Out, "Headers set to %t\n", h.Printer.Renderer.HasHeader)
				}}),
		)

		if !h.Eval(in) {
			return nil
		}
	}
}

// Eval annotates one input line. It returns false when the loop should end.
func (h *Handler) Eval(in string) bool {
	text := strings.TrimSpace(in)
	if text == quitCommand {
		return false
	}

	if text == "" {
		return true
	}

	h.history = append(h.history, text)

	if _, err := h.Printer.Annotate(text); err != nil {
		fmt.Fprintf(h.Err, "✍  %v\n", err)
	}

	return true
}

// completer suggests previous inputs starting with the text before the
// cursor.
func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	befCursor := in.TextBeforeCursor()

	if "" == befCursor {
		return s
	}

	seen := map[string]bool{}
	for i := len(h.history) - 1; i >= 0; i-- {
		text := h.history[i]
		if seen[text] || !strings.HasPrefix(text, befCursor) {
			continue
		}

		seen[text] = true
		s = append(s, prompt.Suggest{Text: text, Description: "history"})
	}

	if strings.HasPrefix(quitCommand, befCursor) {
		s = append(s, prompt.Suggest{Text: quitCommand, Description: "🔧 exit"})
	}

	return s
}
