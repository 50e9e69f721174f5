package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestInterruptHandler_Interrupt(t *testing.T) {
	var out bytes.Buffer
	handler := NewInterruptHandler(&out)
	ctx := handler.HandleInterrupts(context.Background(), func() string { return "3 of 10 entries saved" })
	defer handler.Stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled before an interrupt")
	default:
	}

	handler.interrupt()
	handler.interrupt()

	assert.True(t, handler.WasInterrupted())
	assert.Error(t, ctx.Err())
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("Interrupted!")))
	assert.Contains(t, out.String(), "3 of 10 entries saved")
}

func TestInterruptHandler_StopIsIdempotent(t *testing.T) {
	handler := NewInterruptHandler(io.Discard)
	ctx := handler.HandleInterrupts(context.Background(), nil)
	handler.Stop()
	handler.Stop()

	assert.NoError(t, ctx.Err())
	assert.False(t, handler.WasInterrupted())
}
