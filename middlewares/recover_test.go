package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clipdrop/internal"
	"github.com/dmitrymomot/clipdrop/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	newCtx := func() internal.Context {
		return newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/upload", nil))
	}

	t.Run("converts panic to PanicError with stack", func(t *testing.T) {
		t.Parallel()
		handler := middlewares.Recover()(func(c internal.Context) error {
			panic("chrome went away")
		})

		err := handler(newCtx())
		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Equal(t, "chrome went away", pe.Value)
		require.NotEmpty(t, pe.Stack)
		require.Contains(t, string(pe.Stack), "goroutine")
	})

	t.Run("stack disabled", func(t *testing.T) {
		t.Parallel()
		handler := middlewares.Recover(middlewares.WithRecoverDisablePrintStack())(func(c internal.Context) error {
			panic(errors.New("boom"))
		})

		pe, ok := middlewares.AsPanicError(handler(newCtx()))
		require.True(t, ok)
		require.Nil(t, pe.Stack)
		require.Equal(t, "panic: boom", pe.Error())
	})

	t.Run("stack size bound", func(t *testing.T) {
		t.Parallel()
		handler := middlewares.Recover(middlewares.WithRecoverStackSize(64))(func(c internal.Context) error {
			panic(42)
		})

		pe, ok := middlewares.AsPanicError(handler(newCtx()))
		require.True(t, ok)
		require.LessOrEqual(t, len(pe.Stack), 64)
	})

	t.Run("passes errors and nil through", func(t *testing.T) {
		t.Parallel()
		want := errors.New("plain")
		handler := middlewares.Recover()(func(c internal.Context) error { return want })
		require.ErrorIs(t, handler(newCtx()), want)

		handler = middlewares.Recover()(func(c internal.Context) error { return nil })
		require.NoError(t, handler(newCtx()))
	})
}
