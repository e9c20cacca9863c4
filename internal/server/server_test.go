package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lines-drawer/internal/board"
	"lines-drawer/internal/geom"
	"lines-drawer/internal/raster"
	"lines-drawer/internal/router"
	"lines-drawer/internal/shapes"
)

var wall = geom.NewCurve(geom.Seg(geom.Vec(50, 50), geom.Vec(50, 100)))

func newServer(t *testing.T) (*Server, *board.Board) {
	t.Helper()
	r, err := router.New(router.DefaultOptions())
	require.NoError(t, err)
	b := board.New(r, board.Options{Obstacles: []geom.Curve{wall}, KeepObstacles: true})
	return New(r, b, raster.Canvas{Width: 120, Height: 120, StrokeWidth: 2}), b
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s.Routes(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var got map[string]interface{}
	decodeBody(t, rec, &got)
	assert.Equal(t, "ready", got["status"])
	assert.Equal(t, 1.0, got["curves"])
	assert.Equal(t, "layered", got["strategy"])
}

func TestPreflight(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s.Routes(), http.MethodOptions, "/route", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRoute(t *testing.T) {
	s, b := newServer(t)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/route", `{"start": {"x": 25, "y": 60}, "end": {"x": 75, "y": 75}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RouteResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Segments)
	require.Len(t, resp.Path, 4)
	assert.Equal(t, geom.Vec(25, 60), resp.Path[0])
	assert.Equal(t, geom.Vec(75, 75), resp.Path[3])
	assert.Greater(t, resp.Length, geom.Vec(25, 60).Distance(geom.Vec(75, 75)))

	assert.Len(t, b.Snapshot().Curves, 1, "route without commit leaves the board alone")

	rec = do(t, h, http.MethodPost, "/route", `{"start": {"x": 25, "y": 60}, "end": {"x": 75, "y": 75}, "commit": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Len(t, b.Snapshot().Curves, 2)
}

func TestRouteNoPath(t *testing.T) {
	r, err := router.New(router.DefaultOptions())
	require.NoError(t, err)
	square, err := geom.CurveFromPoints([]geom.Vector{
		geom.Vec(0, 0), geom.Vec(100, 0), geom.Vec(100, 100), geom.Vec(0, 100), geom.Vec(0, 0),
	})
	require.NoError(t, err)
	s := New(r, board.New(r, board.Options{Obstacles: []geom.Curve{square}}), raster.Canvas{Width: 1, Height: 1, StrokeWidth: 1})

	rec := do(t, s.Routes(), http.MethodPost, "/route", `{"start": {"x": 50, "y": 50}, "end": {"x": 200, "y": 50}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RouteResponse
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.Empty(t, resp.Path)
}

func TestRequestErrors(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	for _, path := range []string{"/pins", "/route", "/intersect", "/visibility"} {
		rec := do(t, h, http.MethodPost, path, `{"x":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := do(t, h, http.MethodPost, "/route", `{"start": {"x": 1, "y": 1}, "end": {"x": 1, "y": 1}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/pins", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPins(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/pins", `{"x": 20, "y": 50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out board.Outcome
	decodeBody(t, rec, &out)
	assert.Equal(t, 1, out.Pins)
	assert.False(t, out.Paired)

	rec = do(t, h, http.MethodPost, "/pins", `{"x": 30, "y": 150}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &out)
	assert.True(t, out.Routed)
	assert.Equal(t, 2, out.Curves)

	do(t, h, http.MethodPost, "/pins", `{"x": 1, "y": 1}`)
	rec = do(t, h, http.MethodPost, "/pins", `{"x": 1, "y": 1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestIntersect(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/intersect",
		`{"a": {"start": {"x": 0, "y": 0}, "end": {"x": 10, "y": 10}}, "b": {"start": {"x": 0, "y": 10}, "end": {"x": 10, "y": 0}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"intersect": true}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/intersect",
		`{"a": {"start": {"x": 0, "y": 0}, "end": {"x": 10, "y": 0}}, "b": {"start": {"x": 0, "y": 50}, "end": {"x": 10, "y": 50}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"intersect": false}`, rec.Body.String())
}

func TestVisibility(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s.Routes(), http.MethodPost, "/visibility", `{"start": {"x": 25, "y": 60}, "end": {"x": 75, "y": 75}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Waypoints []geom.Vector   `json:"waypoints"`
		Lines     [][]geom.Vector `json:"lines"`
		NumEdges  int             `json:"numEdges"`
	}
	decodeBody(t, rec, &got)
	assert.Len(t, got.Waypoints, 6)
	assert.NotEmpty(t, got.Lines)
	assert.Equal(t, len(got.Lines), got.NumEdges)
}

func TestBoardGeoJSONAndClear(t *testing.T) {
	s, _ := newServer(t)
	h := s.Routes()

	do(t, h, http.MethodPost, "/pins", `{"x": 5, "y": 5}`)

	rec := do(t, h, http.MethodGet, "/board", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	curves, err := shapes.ParseCurves(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []geom.Curve{wall}, curves)

	rec = do(t, h, http.MethodDelete, "/board", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out board.Outcome
	decodeBody(t, rec, &out)
	assert.Zero(t, out.Pins)
	assert.Equal(t, 1, out.Curves, "preloaded obstacles are kept")
}

func TestBoardPNG(t *testing.T) {
	s, _ := newServer(t)
	rec := do(t, s.Routes(), http.MethodGet, "/board.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestHandlerLogsRequests(t *testing.T) {
	s, _ := newServer(t)

	var logs bytes.Buffer
	rec := do(t, s.Handler(&logs), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), `"GET /health HTTP/1.1" 200`)
}
