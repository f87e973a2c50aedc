package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCached(t *testing.T) {
	calls := 0
	h := Cached(time.Minute, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"calls":1}`))
	})

	for i := 0; i < 3; i++ {
		r, err := http.NewRequest(http.MethodGet, "/v1/posts", nil)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, `{"calls":1}`, w.Body.String())
	}

	assert.Equal(t, 1, calls)
}

func TestCached_SkipsErrors(t *testing.T) {
	calls := 0
	h := Cached(time.Minute, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		r, err := http.NewRequest(http.MethodGet, "/v1/posts", nil)
		require.NoError(t, err)

		h.ServeHTTP(httptest.NewRecorder(), r)
	}

	assert.Equal(t, 2, calls)
}
