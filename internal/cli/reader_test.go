package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedValue string
		expectError   bool
	}{
		{name: "successful read", input: "test input\n", expectedValue: "test input"},
		{name: "read with extra whitespace", input: "  test input  \n", expectedValue: "test input"},
		{name: "empty line", input: "\n", expectedValue: ""},
		{name: "last line without newline", input: "yes", expectedValue: "yes"},
		{name: "end of input", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewLineReader(strings.NewReader(tt.input)).ReadLine(context.Background())

			if tt.expectError {
				assert.ErrorIs(t, err, io.EOF)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValue, result)
		})
	}
}

func TestLineReader_ContextCancellation(t *testing.T) {
	t.Run("immediate cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewLineReader(strings.NewReader("ignored\n")).ReadLine(ctx)
		assert.Equal(t, ErrInputCancelled, err)
	})

	t.Run("cancellation during read", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pr.Close() }()
		defer func() { _ = pw.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := NewLineReader(pr).ReadLine(ctx)
		assert.Equal(t, ErrInputCancelled, err)
	})
}

func TestLineReader_MultipleReads(t *testing.T) {
	r := NewLineReader(strings.NewReader("line1\nline2\nline3\n"))
	ctx := context.Background()

	for _, want := range []string{"line1", "line2", "line3"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
