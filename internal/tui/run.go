package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("mood selection cancelled")

// RunMoodPicker shows the picker on the terminal until the user confirms or
// cancels. Canceling ctx closes the picker.
func RunMoodPicker(ctx context.Context, opts ...tea.ProgramOption) (Choice, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(NewMoodPicker(), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return Choice{}, ErrCancelled
		}
		return Choice{}, fmt.Errorf("mood picker failed: %w", err)
	}

	picker, ok := final.(MoodPicker)
	if !ok || !picker.Confirmed() {
		return Choice{}, ErrCancelled
	}
	return picker.Selected(), nil
}

// RunMoodPickerIO runs the picker against explicit streams without a TTY.
func RunMoodPickerIO(ctx context.Context, in io.Reader, out io.Writer) (Choice, error) {
	return RunMoodPicker(ctx, tea.WithInput(in), tea.WithOutput(out))
}
