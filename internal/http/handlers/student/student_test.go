package student_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/sinja/internal/config"
	"github.com/aanand-mishra/sinja/internal/http/handlers/student"
	"github.com/aanand-mishra/sinja/internal/remote"
	"github.com/aanand-mishra/sinja/internal/storage/sqlite"
	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/utils/response"
	"github.com/aanand-mishra/sinja/internal/workflow"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "students.db")}
	store, err := sqlite.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(student.Routes(store, discard))
	t.Cleanup(srv.Close)
	return srv
}

var luis = types.StudentRecord{
	ID:            1001,
	Name:          "Luis",
	LastName:      "Pérez",
	BornPlace:     "Bogotá",
	Degree:        "Ingeniería de Sistemas",
	Place:         "ANDES",
	ScoreAdmision: 450,
}

func save(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/save", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func decodeError(t *testing.T, resp *http.Response) response.Response {
	t.Helper()
	var r response.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return r
}

func TestSave(t *testing.T) {
	srv := setupServer(t)

	resp := save(t, srv, mustJSON(t, luis))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var echoed types.StudentRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoed))
	assert.Equal(t, luis, echoed)

	dup := save(t, srv, mustJSON(t, luis))
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
}

func TestSave_BadRequests(t *testing.T) {
	srv := setupServer(t)

	bad := luis
	bad.Name = "L4is"
	bad.ScoreAdmision = 501

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed", "{", "unexpected EOF"},
		{"invalid fields", mustJSON(t, bad), "field name must contain only letters and spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := save(t, srv, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			r := decodeError(t, resp)
			assert.Equal(t, response.StatusError, r.Status)
			assert.Contains(t, r.Error, tt.wantErr)
		})
	}
}

func TestSave_ValidationMessageNamesEveryField(t *testing.T) {
	srv := setupServer(t)

	bad := luis
	bad.Place = "  "
	bad.ScoreAdmision = 501

	resp := save(t, srv, mustJSON(t, bad))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	r := decodeError(t, resp)
	assert.Contains(t, r.Error, "field place is required")
	assert.Contains(t, r.Error, "field scoreAdmision must be at most 500")
}

func TestSearch(t *testing.T) {
	srv := setupServer(t)
	save(t, srv, mustJSON(t, luis))

	resp, err := http.Get(srv.URL + "/search?id=1001")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got types.StudentRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, luis, got)

	missing, err := http.Get(srv.URL + "/search?id=7")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	invalid, err := http.Get(srv.URL + "/search?id=abc")
	require.NoError(t, err)
	defer invalid.Body.Close()
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}

func TestDelete(t *testing.T) {
	srv := setupServer(t)
	save(t, srv, mustJSON(t, luis))

	del := func(id string) int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/delete?id="+id, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, del("1001"))
	assert.Equal(t, http.StatusNotFound, del("1001"))
	assert.Equal(t, http.StatusBadRequest, del(""))
}

func TestRoutes_MethodMismatch(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Post(srv.URL+"/search?id=1", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	srv := setupServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/search?id=1", nil)
	require.NoError(t, err)
	req.Header.Set(student.RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(student.RequestIDHeader))

	fresh, err := http.Get(srv.URL + "/search?id=1")
	require.NoError(t, err)
	defer fresh.Body.Close()
	assert.NotEmpty(t, fresh.Header.Get(student.RequestIDHeader))
}

// The client workflows driven against the stub server over real HTTP.
func TestWorkflowsAgainstStubServer(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	api, err := remote.New(srv.URL, remote.WithLogger(discard))
	require.NoError(t, err)

	form := types.Form{
		types.FieldID:            "1001",
		types.FieldName:          "Luis",
		types.FieldLastName:      "Pérez",
		types.FieldBornPlace:     "Bogotá",
		types.FieldDegree:        "Ingeniería de Sistemas",
		types.FieldPlace:         "ANDES",
		types.FieldScoreAdmision: "450",
	}

	reg := workflow.NewRegistration(api, workflow.WithLogger(discard))
	out := reg.Submit(ctx, form)
	require.Equal(t, workflow.Succeeded, out.Kind, out.Message)

	again := reg.Submit(ctx, form)
	require.Equal(t, workflow.Rejected, again.Kind)
	assert.Equal(t, workflow.ReasonDuplicate, again.Reason)

	lookup := workflow.NewLookup(api, workflow.WithLogger(discard))
	found := lookup.Find(ctx, "1001")
	require.Equal(t, workflow.Present, found.Kind)
	require.NotNil(t, found.Record)
	assert.Equal(t, luis, *found.Record)

	yes := workflow.ConfirmFunc(func(context.Context, int64) (bool, error) { return true, nil })
	deletion := workflow.NewDeletion(api, yes, workflow.WithLogger(discard))
	require.Equal(t, workflow.Succeeded, deletion.Delete(ctx, "1001").Kind)

	assert.Equal(t, workflow.Absent, lookup.Find(ctx, "1001").Kind)

	gone := deletion.Delete(ctx, "1001")
	assert.Equal(t, workflow.Failed, gone.Kind)
	assert.Equal(t, http.StatusNotFound, gone.StatusCode())
}

// The client only checks that an id is digits; positivity is enforced by
// the service, so id 0 is refused at creation time.
func TestWorkflowsAgainstStubServer_ZeroIDRefusedByService(t *testing.T) {
	srv := setupServer(t)

	api, err := remote.New(srv.URL, remote.WithLogger(discard))
	require.NoError(t, err)

	form := types.Form{
		types.FieldID:            "0",
		types.FieldName:          "Luis",
		types.FieldLastName:      "Pérez",
		types.FieldBornPlace:     "Bogotá",
		types.FieldDegree:        "Ingeniería de Sistemas",
		types.FieldPlace:         "ANDES",
		types.FieldScoreAdmision: "450",
	}

	out := workflow.NewRegistration(api, workflow.WithLogger(discard)).Submit(context.Background(), form)

	require.Equal(t, workflow.Failed, out.Kind)
	assert.Equal(t, workflow.ReasonCreationFailed, out.Reason)
	assert.Equal(t, http.StatusBadRequest, out.StatusCode())
}
