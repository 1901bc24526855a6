// Package remote talks to the student API: an existence check, a create
// and a delete, each exactly one HTTP exchange with no retries and no
// caching between calls.
//
//	exists  GET    /search?id=N   2xx found, 404 absent, else error
//	create  POST   /save          2xx created, else error
//	remove  DELETE /delete?id=N   2xx deleted, else error
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aanand-mishra/sinja/internal/tracing"
	"github.com/aanand-mishra/sinja/internal/types"
)

// RequestIDHeader carries a per-call correlation id to the API.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// StudentAPI is what the workflows need from the remote store.
type StudentAPI interface {
	// Exists classifies the identifier as found, not found, or error.
	Exists(ctx context.Context, id int64) ExistsResult
	// Create returns nil when the record was accepted.
	Create(ctx context.Context, rec types.StudentRecord) error
	// Remove returns nil when the record was deleted.
	Remove(ctx context.Context, id int64) error
}

// Client is the net/http implementation of StudentAPI.
type Client struct {
	base   *url.URL
	http   *http.Client
	log    *slog.Logger
	tracer trace.Tracer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. to set a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for per-call records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTracer sets the tracer used for per-call spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote.New: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote.New: base url %q needs a scheme and host", baseURL)
	}

	c := &Client{
		base:   u,
		http:   http.DefaultClient,
		log:    slog.Default(),
		tracer: otel.GetTracerProvider().Tracer(tracing.InstrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Exists issues GET /search?id=N.
func (c *Client) Exists(ctx context.Context, id int64) ExistsResult {
	resp, err := c.do(ctx, "exists", http.MethodGet, "search", idQuery(id), nil)
	if err != nil {
		return ExistsResult{Kind: ExistsError, Err: err}
	}

	switch {
	case isSuccess(resp.status):
		res := ExistsResult{Kind: ExistsFound}
		if resp.bodyErr != nil {
			res.DecodeErr = resp.bodyErr
		} else {
			res.Record, res.DecodeErr = decodeRecord(resp.body)
		}
		if res.DecodeErr != nil {
			c.log.Warn("student found without usable detail",
				slog.Int64("id", id),
				slog.String("error", res.DecodeErr.Error()))
		}
		return res
	case resp.status == http.StatusNotFound:
		return ExistsResult{Kind: ExistsNotFound}
	default:
		return ExistsResult{Kind: ExistsError, Err: resp.remoteError("exists")}
	}
}

// Create issues POST /save with the JSON-encoded record. Any success
// status counts, whatever the body holds.
func (c *Client) Create(ctx context.Context, rec types.StudentRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("create: encode record: %w", err)
	}

	resp, err := c.do(ctx, "create", http.MethodPost, "save", nil, payload)
	if err != nil {
		return err
	}
	if !isSuccess(resp.status) {
		return resp.remoteError("create")
	}
	return nil
}

// Remove issues DELETE /delete?id=N.
func (c *Client) Remove(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, "remove", http.MethodDelete, "delete", idQuery(id), nil)
	if err != nil {
		return err
	}
	if !isSuccess(resp.status) {
		return resp.remoteError("remove")
	}
	return nil
}

type response struct {
	status  int
	body    []byte
	bodyErr error
}

func (r response) remoteError(op string) *RemoteError {
	return &RemoteError{Op: op, StatusCode: r.status, Body: string(r.body)}
}

// do performs one exchange. The returned error is always a *TransportError;
// a completed exchange with any status returns a response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload []byte) (response, error) {
	u := c.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	target := u.String()
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "remote."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
			attribute.String("request.id", requestID),
		))
	defer span.End()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return response{}, &TransportError{Op: op, URL: target, Err: err}
	}
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("calling student api",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("url", target),
		slog.String("request_id", requestID))

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("student api unreachable",
			slog.String("op", op),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return response{}, &TransportError{Op: op, URL: target, Err: err}
	}
	defer httpResp.Body.Close()

	resp := response{status: httpResp.StatusCode}
	resp.body, resp.bodyErr = io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if resp.bodyErr != nil {
		resp.bodyErr = fmt.Errorf("read response body: %w", resp.bodyErr)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.status))
	if !isSuccess(resp.status) && !(op == "exists" && resp.status == http.StatusNotFound) {
		span.SetStatus(codes.Error, httpResp.Status)
	}

	c.log.Info("student api responded",
		slog.String("op", op),
		slog.Int("status", resp.status),
		slog.String("request_id", requestID))

	return resp, nil
}

func idQuery(id int64) url.Values {
	return url.Values{"id": {strconv.FormatInt(id, 10)}}
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
