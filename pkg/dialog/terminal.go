package dialog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor  = lipgloss.Color("#8BC34A")
	warningColor = lipgloss.Color("#FFC107")
	mutedColor   = lipgloss.Color("#6B7280")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle    = lipgloss.NewStyle().Foreground(mutedColor).Width(22)
	copyableStyle = lipgloss.NewStyle().Foreground(accentColor).Italic(true)
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(warningColor)
	dividerStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

// Terminal renders prompts to Out and reads the answer from In.
type Terminal struct {
	In          io.Reader
	Out         io.Writer
	AutoApprove bool

	readOnce sync.Once
	answers  chan answer
}

type answer struct {
	line string
	err  error
}

func NewTerminal(in io.Reader, out io.Writer, autoApprove bool) *Terminal {
	return &Terminal{In: in, Out: out, AutoApprove: autoApprove}
}

// Confirm prints the prompt and waits for "y" or "yes". Any other answer,
// including end of input, rejects.
func (t *Terminal) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintln(t.Out, Render(prompt)); err != nil {
		return false, fmt.Errorf("failed to render prompt: %w", err)
	}
	if t.AutoApprove {
		fmt.Fprintln(t.Out, "approved automatically")
		return true, nil
	}

	fmt.Fprint(t.Out, "Approve? [y/N]: ")

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case got, ok := <-t.lines():
		if !ok {
			return false, nil
		}
		if got.err != nil && !errors.Is(got.err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", got.err)
		}
		switch strings.ToLower(strings.TrimSpace(got.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// lines starts the single goroutine that reads In. A Confirm abandoned by
// its context leaves the next line for the following Confirm. The channel
// closes after the first read error.
func (t *Terminal) lines() <-chan answer {
	t.readOnce.Do(func() {
		t.answers = make(chan answer)
		go func() {
			defer close(t.answers)
			reader := bufio.NewReader(t.In)
			for {
				line, err := reader.ReadString('\n')
				t.answers <- answer{line: line, err: err}
				if err != nil {
					return
				}
			}
		}()
	})
	return t.answers
}

func (t *Terminal) Notify(ctx context.Context, message string) error {
	_, err := fmt.Fprintln(t.Out, titleStyle.Render(message))
	return err
}

// Render formats a prompt for display.
func Render(prompt Prompt) string {
	var sections []string
	if prompt.Title != "" {
		sections = append(sections, titleStyle.Render(prompt.Title))
	}
	for _, panel := range prompt.Panels {
		if panel == nil || panel.Len() == 0 {
			continue
		}
		sections = append(sections, panelStyle.Render(renderPanel(panel)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderPanel(panel *Panel) string {
	lines := make([]string, 0, len(panel.Components))
	for _, component := range panel.Components {
		switch component.Kind {
		case KindHeading:
			lines = append(lines, headingStyle.Render(component.Value))
		case KindRow:
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
				labelStyle.Render(component.Label), component.Value))
		case KindDivider:
			lines = append(lines, dividerStyle.Render(strings.Repeat("─", 32)))
		case KindCopyable:
			lines = append(lines, copyableStyle.Render(component.Value))
		case KindWarning:
			lines = append(lines, warningStyle.Render("! "+component.Value))
		default:
			lines = append(lines, component.Value)
		}
	}
	return strings.Join(lines, "\n")
}
