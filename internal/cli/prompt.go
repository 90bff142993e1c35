package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/tracker"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// maxFormAttempts bounds how often a rejected field is asked again.
const maxFormAttempts = 3

// Prompter asks questions on a terminal. Reads respect context cancellation.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewPrompter creates a prompter reading from r and writing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	if r == nil {
		panic("reader cannot be nil")
	}
	if w == nil {
		w = io.Discard
	}
	return &Prompter{reader: bufio.NewReader(r), writer: w}
}

// ReadLine reads one trimmed line. A canceled context returns
// ErrInputCancelled immediately; the pending read finishes in the background.
func (p *Prompter) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		value, err := p.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		// a final line without a newline still counts
		if errors.Is(res.err, io.EOF) && res.value != "" {
			res.err = nil
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Ask prints label and returns the answer, or def when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", err
	}

	answer, err := p.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// CompleteRevenue asks for whatever in is missing and re-asks fields the
// form validation rejects.
func (p *Prompter) CompleteRevenue(ctx context.Context, in tracker.RevenueInput) (tracker.RevenueInput, error) {
	var err error
	if strings.TrimSpace(in.Client) == "" {
		if in.Client, err = p.Ask(ctx, "Client", ""); err != nil {
			return in, err
		}
	}
	if strings.TrimSpace(in.Revenue) == "" {
		if in.Revenue, err = p.Ask(ctx, "Revenue", ""); err != nil {
			return in, err
		}
	}

	for range maxFormAttempts {
		_, _, verr := in.Validate()
		if verr == nil {
			return in, nil
		}

		var ve *common.ValidationError
		if !errors.As(verr, &ve) {
			return in, verr
		}
		_, _ = fmt.Fprintln(p.writer, FormatError(ve.Message))

		switch ve.Field {
		case "client":
			in.Client, err = p.Ask(ctx, "Client", "")
		default:
			in.Revenue, err = p.Ask(ctx, "Revenue", "")
		}
		if err != nil {
			return in, err
		}
	}

	if _, _, err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}
