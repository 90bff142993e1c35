package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_ReadLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain line", input: "acme\n", expected: "acme"},
		{name: "surrounding whitespace", input: "  acme  \n", expected: "acme"},
		{name: "empty line", input: "\n", expected: ""},
		{name: "no trailing newline", input: "acme", expected: "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), nil)
			got, err := p.ReadLine(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPrompter_ReadLineEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), nil)
	_, err := p.ReadLine(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_ContextCancellation(t *testing.T) {
	t.Run("already canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewPrompter(strings.NewReader("ignored\n"), nil)
		_, err := p.ReadLine(ctx)
		assert.Equal(t, ErrInputCancelled, err)
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pr.Close() }()
		defer func() { _ = pw.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := NewPrompter(pr, nil).ReadLine(ctx)
		assert.Equal(t, ErrInputCancelled, err)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestPrompter_AskDefault(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n"), &out)

	got, err := p.Ask(context.Background(), "Note", "none")
	require.NoError(t, err)
	assert.Equal(t, "none", got)
	assert.Contains(t, out.String(), "Note [none]")
}

func TestPrompter_CompleteRevenue(t *testing.T) {
	t.Run("fills missing fields", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("Acme\n120.50\n"), nil)

		in, err := p.CompleteRevenue(context.Background(), tracker.RevenueInput{Note: "retainer"})
		require.NoError(t, err)
		assert.Equal(t, tracker.RevenueInput{Client: "Acme", Revenue: "120.50", Note: "retainer"}, in)
	})

	t.Run("re-asks a rejected amount", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("-5\n40\n"), &out)

		in, err := p.CompleteRevenue(context.Background(), tracker.RevenueInput{Client: "Acme", Revenue: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "40", in.Revenue)
		assert.Contains(t, out.String(), "Revenue must be a number.")
		assert.Contains(t, out.String(), "Revenue must be greater than zero.")
	})

	t.Run("gives up after repeated failures", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("x\nx\nx\n"), nil)

		_, err := p.CompleteRevenue(context.Background(), tracker.RevenueInput{Client: "Acme", Revenue: "x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrValidation))
	})
}
