package routes_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/filbar/swapper/web/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockComponent implements the templ.Component interface for testing.
type MockComponent struct {
	RenderFunc func(ctx context.Context, w io.Writer) error
}

func (m MockComponent) Render(ctx context.Context, w io.Writer) error {
	return m.RenderFunc(ctx, w)
}

func TestSafeRenderTemplate(t *testing.T) {
	t.Run("successful render", func(t *testing.T) {
		// Create a mock component that writes "Hello, World!" to the writer
		mockComponent := MockComponent{
			RenderFunc: func(_ context.Context, w io.Writer) error {
				_, err := w.Write([]byte("Hello, World!"))
				if err != nil {
					return fmt.Errorf("failed to write data: %w", err)
				}

				return nil
			},
		}

		// Create a test response recorder
		recorder := httptest.NewRecorder()

		// Call the function
		err := routes.SafeRenderTemplate(mockComponent, recorder)

		// Assert there's no error
		require.NoError(t, err)

		// Assert the response has the correct content type
		assert.Equal(t, "text/html; charset=UTF-8", recorder.Header().Get("Content-Type"))

		// Assert the response body is correct
		assert.Equal(t, "Hello, World!", recorder.Body.String())
	})

	t.Run("render error", func(t *testing.T) {
		// Create a mock component that returns an error
		expectedErr := errors.New("render error")
		mockComponent := MockComponent{
			RenderFunc: func(_ context.Context, _ io.Writer) error {
				return expectedErr
			},
		}

		// Create a test response recorder
		recorder := httptest.NewRecorder()

		// Call the function
		err := routes.SafeRenderTemplate(mockComponent, recorder)

		// Assert the error is returned and wrapped
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not render template")

		// Assert no response was written
		assert.Empty(t, recorder.Body.String())
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("encodes value", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		err := routes.WriteJSON(map[string]int{"count": 2}, recorder)

		require.NoError(t, err)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"count": 2}`, recorder.Body.String())
	})

	t.Run("unencodable value", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		err := routes.WriteJSON(make(chan int), recorder)

		require.Error(t, err)
		assert.Empty(t, recorder.Body.String())
	})
}
