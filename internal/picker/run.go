package picker

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"go-autoindex/internal/model"
)

// ErrAborted is returned when the user interrupts the session.
var ErrAborted = errors.New("selection aborted")

// Run shows the checklist on the given terminal and blocks until the user
// confirms. The only ways out are confirmation, Ctrl+C and ctx ending.
func Run(ctx context.Context, set model.MatchedSet, in io.Reader, out io.Writer) (model.MatchedSet, error) {
	// Detect the color profile from the real terminal; package-level styles
	// pick it up through the default renderer.
	lipgloss.SetColorProfile(termenv.NewOutput(out).ColorProfile())

	p := tea.NewProgram(NewModel(set),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		if interrupted(ctx, err) {
			return nil, ErrAborted
		}
		return nil, fmt.Errorf("selection session: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, errors.New("selection session: unexpected model type")
	}
	if m.State() != StateConfirmed {
		return nil, ErrAborted
	}
	return m.Result(), nil
}

// interrupted reports whether the program ended because of SIGINT or a
// cancelled context rather than a failure.
func interrupted(ctx context.Context, err error) bool {
	if errors.Is(err, tea.ErrInterrupted) {
		return true
	}
	return errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrProgramPanic) && ctx.Err() != nil
}

// WriteList prints the set as a flat, non-interactive listing.
func WriteList(w io.Writer, set model.MatchedSet) {
	if set.Len() == 0 {
		fmt.Fprintln(w, "No matching directories.")
		return
	}
	for _, l := range set {
		fmt.Fprintf(w, "%s (%d files)\n", l.Entry.Name(), len(l.Files))
		for _, f := range l.Files {
			fmt.Fprintf(w, "  %s\n", f.URL)
		}
	}
}
