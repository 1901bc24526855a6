package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/aanand-mishra/sinja/internal/types"
)

var student42 = types.StudentRecord{
	ID:            42,
	Name:          "Ana",
	LastName:      "Gómez",
	BornPlace:     "Cali",
	Degree:        "Derecho",
	Place:         "ANDES",
	ScoreAdmision: 420,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080/api")
	require.Error(t, err)

	_, err = New("/search")
	require.Error(t, err)
}

func TestExists_FoundWithRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		_ = json.NewEncoder(w).Encode(student42)
	})

	res := c.Exists(context.Background(), 42)

	require.Equal(t, ExistsFound, res.Kind)
	require.True(t, res.Decoded())
	require.NoError(t, res.DecodeErr)
	require.Equal(t, student42, *res.Record)
}

func TestExists_FoundWithoutUsableBody(t *testing.T) {
	bodies := map[string]string{
		"empty":     "",
		"blank":     "  \n",
		"null":      "null",
		"malformed": "{not json",
		"html":      "<html>ok</html>",
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			res := c.Exists(context.Background(), 42)

			require.Equal(t, ExistsFound, res.Kind)
			require.False(t, res.Decoded())
			require.Nil(t, res.Record)
			require.Error(t, res.DecodeErr)
			require.NoError(t, res.Err)
		})
	}
}

func TestExists_AnySuccessStatusIsFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res := c.Exists(context.Background(), 7)
	require.Equal(t, ExistsFound, res.Kind)
	require.ErrorIs(t, res.DecodeErr, ErrEmptyBody)
}

func TestExists_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	res := c.Exists(context.Background(), 42)
	require.Equal(t, ExistsNotFound, res.Kind)
	require.NoError(t, res.Err)
}

func TestExists_OtherStatusesAreErrors(t *testing.T) {
	for _, status := range []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusConflict,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
	} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			res := c.Exists(context.Background(), 42)

			require.Equal(t, ExistsError, res.Kind)
			require.Equal(t, status, StatusCode(res.Err))
			require.False(t, IsTransport(res.Err))
		})
	}
}

func TestExists_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base, WithLogger(quietLogger()))
	require.NoError(t, err)

	res := c.Exists(context.Background(), 42)

	require.Equal(t, ExistsError, res.Kind)
	require.True(t, IsTransport(res.Err))
	require.Zero(t, StatusCode(res.Err))
}

func TestExists_TimeoutIsTransportFailure(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	defer close(release)

	res := c.Exists(context.Background(), 1)
	require.Equal(t, ExistsError, res.Kind)
	require.True(t, IsTransport(res.Err))
}

func TestExists_Idempotent(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	first := c.Exists(context.Background(), 42)
	second := c.Exists(context.Background(), 42)

	require.Equal(t, first.Kind, second.Kind)
	require.EqualValues(t, 2, calls.Load(), "each check is its own request, nothing is cached")
}

func TestCreate_PostsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/save", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, float64(42), got["id"])
		assert.Equal(t, "Gómez", got["lastName"])
		assert.Equal(t, float64(420), got["scoreAdmision"])
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.Create(context.Background(), student42))
}

func TestCreate_SuccessIgnoresBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "garbage{")
	})

	require.NoError(t, c.Create(context.Background(), student42))
}

func TestCreate_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	})

	err := c.Create(context.Background(), student42)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "create", re.Op)
	require.Equal(t, http.StatusBadRequest, re.StatusCode)
	require.Contains(t, re.Body, "boom")
}

func TestRemove(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/delete", r.URL.Path)
		if r.URL.Query().Get("id") == "42" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	require.NoError(t, c.Remove(context.Background(), 42))

	err := c.Remove(context.Background(), 9)
	require.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestClient_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}, WithTracer(tp.Tracer("test")))

	c.Exists(context.Background(), 1)
	_ = c.Create(context.Background(), student42)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	require.Equal(t, "remote.exists", spans[0].Name())
	require.NotEqual(t, codes.Error, spans[0].Status().Code, "404 on exists is an answer, not a failure")

	require.Equal(t, "remote.create", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)
}
