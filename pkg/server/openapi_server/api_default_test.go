// SPDX-License-Identifier: MIT

package openapi_server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/routing"
	"github.com/natevvv/grid-astar/pkg/search"
)

const testMaze = `1111111
1000001
1011101
1000001
1111111
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	m, err := grid.ParseMaze(testMaze)
	require.NoError(t, err)
	router := routing.NewRouter(m.Grid, zap.NewNop(), 7)
	service := NewDefaultApiService(router, search.PolicyOverwrite)
	server := httptest.NewServer(NewRouter(zap.NewNop(), NewDefaultApiController(service)))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, method, url, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetGrid(t *testing.T) {
	server := newTestServer(t)
	var g Grid
	code := do(t, http.MethodGet, server.URL+"/grid", "", &g)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 7, g.Width)
	assert.Equal(t, 5, g.Depth)
	assert.Equal(t, 1, g.Border)
	assert.Len(t, g.Offsets, 4)
	assert.Contains(t, g.Blocked, Location{X: 2, Z: 2})
}

func TestSearchLifecycle(t *testing.T) {
	server := newTestServer(t)

	var created SearchResult
	code := do(t, http.MethodPost, server.URL+"/searches",
		`{"start":{"x":1,"z":1},"goal":{"x":5,"z":3},"policy":"relax"}`, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, Location{X: 1, Z: 1}, created.Start)
	assert.Equal(t, Location{X: 5, Z: 3}, created.Goal)
	assert.Equal(t, "relax", created.Policy)
	assert.Equal(t, "searching", created.State)

	var steps StepResults
	code = do(t, http.MethodPost, server.URL+"/searches/"+created.Id+"/steps", "", &steps)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, steps.Steps, 1)
	require.NotNil(t, steps.Steps[0].Closed)
	assert.Equal(t, grid.MakeLocation(1, 1), steps.Steps[0].Closed.Location)

	code = do(t, http.MethodPost, server.URL+"/searches/"+created.Id+"/steps", `{"count":100}`, &steps)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "found", steps.State)

	var trace StepResults
	code = do(t, http.MethodGet, server.URL+"/searches/"+created.Id+"/steps", "", &trace)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, trace.Steps, 1+len(steps.Steps))
	assert.Equal(t, "found", trace.State)

	var path Path
	code = do(t, http.MethodGet, server.URL+"/searches/"+created.Id+"/path", "", &path)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, path.Complete)
	assert.InDelta(t, 6.0, path.Length, 1e-9)
	assert.Equal(t, Location{X: 1, Z: 1}, path.Waypoints[0])
	assert.Equal(t, Location{X: 5, Z: 3}, path.Waypoints[len(path.Waypoints)-1])

	var snapshot SearchSnapshot
	code = do(t, http.MethodGet, server.URL+"/searches/"+created.Id, "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "found", snapshot.State)
	assert.Equal(t, grid.MakeLocation(5, 3), snapshot.EndNode.Location)
	assert.Nil(t, snapshot.Next)
	assert.Equal(t, len(trace.Steps), snapshot.Kpis.Steps)

	var fc map[string]interface{}
	code = do(t, http.MethodGet, server.URL+"/searches/"+created.Id+"/geojson", "", &fc)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "FeatureCollection", fc["type"])

	code = do(t, http.MethodDelete, server.URL+"/searches/"+created.Id, "", nil)
	assert.Equal(t, http.StatusOK, code)

	var errResp ErrorResponse
	code = do(t, http.MethodGet, server.URL+"/searches/"+created.Id, "", &errResp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, errResp.Message)
}

func TestCreateSearchRandomEndpoints(t *testing.T) {
	server := newTestServer(t)
	var created SearchResult
	code := do(t, http.MethodPost, server.URL+"/searches", "", &created)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEqual(t, created.Start, created.Goal)
	assert.Equal(t, "overwrite", created.Policy)
}

func TestCreateSearchRejectsBadRequests(t *testing.T) {
	server := newTestServer(t)
	tests := []struct {
		name string
		body string
		code int
	}{
		{"blocked start", `{"start":{"x":2,"z":2},"goal":{"x":5,"z":3}}`, http.StatusBadRequest},
		{"outside grid", `{"start":{"x":1,"z":1},"goal":{"x":9,"z":9}}`, http.StatusBadRequest},
		{"unknown policy", `{"policy":"greedy"}`, http.StatusBadRequest},
		{"unknown field", `{"speed":3}`, http.StatusBadRequest},
		{"malformed", `{"start":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp ErrorResponse
			code := do(t, http.MethodPost, server.URL+"/searches", tt.body, &errResp)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}

func TestStepSearchRejectsNegativeCount(t *testing.T) {
	server := newTestServer(t)
	var created SearchResult
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/searches", "", &created))

	var errResp ErrorResponse
	code := do(t, http.MethodPost, server.URL+"/searches/"+created.Id+"/steps", `{"count":-1}`, &errResp)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUnknownSession(t *testing.T) {
	server := newTestServer(t)
	for _, suffix := range []string{"", "/path", "/geojson", "/steps"} {
		var errResp ErrorResponse
		code := do(t, http.MethodGet, server.URL+"/searches/nope"+suffix, "", &errResp)
		assert.Equal(t, http.StatusNotFound, code, suffix)
	}
}

func TestCustomErrorHandler(t *testing.T) {
	m, err := grid.ParseMaze(testMaze)
	require.NoError(t, err)
	service := NewDefaultApiService(routing.NewRouter(m.Grid, nil, 7), search.PolicyOverwrite)

	handler := func(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse) {
		w.WriteHeader(http.StatusTeapot)
	}
	controller := NewDefaultApiController(service, WithDefaultApiErrorHandler(handler))
	server := httptest.NewServer(NewRouter(zap.NewNop(), controller))
	defer server.Close()

	code := do(t, http.MethodGet, server.URL+"/searches/nope", "", nil)
	assert.Equal(t, http.StatusTeapot, code)
}

func TestStepSearchWithHugeCount(t *testing.T) {
	server := newTestServer(t)
	var created SearchResult
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/searches",
		`{"start":{"x":1,"z":1},"goal":{"x":5,"z":3}}`, &created))

	var steps StepResults
	code := do(t, http.MethodPost, server.URL+"/searches/"+created.Id+"/steps",
		fmt.Sprintf(`{"count":%d}`, math.MaxInt64), &steps)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "found", steps.State)
	assert.NotEmpty(t, steps.Steps)
}

func TestListSearches(t *testing.T) {
	server := newTestServer(t)
	var list []SearchResult
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/searches", "", &list))
	assert.Empty(t, list)

	var first, second SearchResult
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/searches", "", &first))
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/searches", `{"policy":"relax"}`, &second))

	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/searches", "", &list))
	assert.ElementsMatch(t, []SearchResult{first, second}, list)

	require.Equal(t, http.StatusOK, do(t, http.MethodDelete, server.URL+"/searches/"+first.Id, "", nil))
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/searches", "", &list))
	assert.Equal(t, []SearchResult{second}, list)
}
