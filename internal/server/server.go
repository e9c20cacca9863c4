// Package server exposes the board and the router over HTTP
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"lines-drawer/internal/board"
	"lines-drawer/internal/geom"
	"lines-drawer/internal/raster"
	"lines-drawer/internal/router"
	"lines-drawer/internal/shapes"
)

type RouteRequest struct {
	Start  geom.Vector `json:"start"`
	End    geom.Vector `json:"end"`
	Commit bool        `json:"commit,omitempty"` // add the found curve to the board
}

type RouteResponse struct {
	Path     []geom.Vector `json:"path"`
	Success  bool          `json:"success"`
	Message  string        `json:"message,omitempty"`
	Length   float64       `json:"length,omitempty"`
	Segments int           `json:"segments"`
}

type IntersectRequest struct {
	A geom.Segment `json:"a"`
	B geom.Segment `json:"b"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Server serves one board
type Server struct {
	router *router.Router
	board  *board.Board
	canvas raster.Canvas
}

func New(r *router.Router, b *board.Board, canvas raster.Canvas) *Server {
	return &Server{router: r, board: b, canvas: canvas}
}

// Routes returns the API routes with CORS applied
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/pins", s.pin).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/route", s.route).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/intersect", s.intersect).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/visibility", s.visibility).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/board", s.boardGeoJSON).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/board", s.clearBoard).Methods(http.MethodDelete)
	r.HandleFunc("/board.png", s.boardPNG).Methods(http.MethodGet, http.MethodOptions)
	return r
}

// Handler wraps Routes with access logging to w and panic recovery
func (s *Server) Handler(w io.Writer) http.Handler {
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CombinedLoggingHandler(w, s.Routes()),
	)
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GET /health - Health check endpoint
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	state := s.board.Snapshot()
	opts := s.router.Options()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"pins":      len(state.Pins),
		"curves":    len(state.Curves),
		"obstacles": state.Obstacles,
		"strategy":  opts.Strategy.String(),
	})
}

// POST /pins - Pin a point, every second pin routes a curve
func (s *Server) pin(w http.ResponseWriter, r *http.Request) {
	var p geom.Vector
	if !decode(w, r, &p) {
		return
	}

	log.Printf("📍 Pin (%.2f, %.2f)\n", p.X, p.Y)
	s.dispatch(w, board.PinPoint{X: p.X, Y: p.Y})
}

// POST /route - Route between start and end around the board's curves
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")
	defer log.Println("========================================")

	var req RouteRequest
	if !decode(w, r, &req) {
		return
	}

	log.Printf("   Start: (%.2f, %.2f)\n", req.Start.X, req.Start.Y)
	log.Printf("   End:   (%.2f, %.2f)\n", req.End.X, req.End.Y)

	if req.Start == req.End {
		writeError(w, http.StatusUnprocessableEntity, board.ErrDegenerateSegment)
		return
	}

	var (
		curve geom.Curve
		ok    bool
	)
	if req.Commit {
		out, err := s.board.Dispatch(board.Connect{A: req.Start, B: req.End})
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		curve, ok = out.Curve, out.Routed
	} else {
		curve, ok = s.router.FindNonIntersectingCurve(req.Start, req.End, s.board.Snapshot().Curves)
	}

	response := RouteResponse{Success: ok, Path: []geom.Vector{}}
	if !ok {
		log.Println("❌ No path found")
		response.Message = "No non-intersecting curve found"
	} else {
		response.Path = curve.Points()
		response.Length = curve.Length()
		response.Segments = len(curve.Segments)
		log.Printf("✅ Path found with %d segments, length %.2f\n", response.Segments, response.Length)
	}
	writeJSON(w, http.StatusOK, response)
}

// POST /intersect - Check two segments with the router's keep distance
func (s *Server) intersect(w http.ResponseWriter, r *http.Request) {
	var req IntersectRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"intersect": s.router.DetectSegmentsIntersection(req.A, req.B),
	})
}

// POST /visibility - Get the waypoint graph for start and end
func (s *Server) visibility(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if !decode(w, r, &req) {
		return
	}

	curves := s.board.Snapshot().Curves
	graph := s.router.VisibilityGraph(req.Start, req.End, curves)
	lines := graph.Lines()

	log.Printf("📊 Returning %d visibility lines over %d waypoints\n", len(lines), len(graph.Nodes))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"waypoints": graph.Nodes,
		"lines":     lines,
		"numNodes":  len(graph.Nodes),
		"numEdges":  len(lines),
	})
}

// GET /board - Board contents as GeoJSON
func (s *Server) boardGeoJSON(w http.ResponseWriter, r *http.Request) {
	state := s.board.Snapshot()
	fc := shapes.FeatureCollection(state.Curves, state.Pins)

	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// GET /board.png - Board snapshot as PNG
func (s *Server) boardPNG(w http.ResponseWriter, r *http.Request) {
	img := raster.Render(s.board.Snapshot(), s.canvas)

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// DELETE /board - Remove pins and drawn curves
func (s *Server) clearBoard(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, board.ClearBoard{})
}

func (s *Server) dispatch(w http.ResponseWriter, action board.Action) {
	out, err := s.board.Dispatch(action)
	if err != nil {
		log.Printf("❌ %v\n", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrInvalidPoint), errors.Is(err, board.ErrDegenerateSegment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, board.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to write response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Success: false, Error: err.Error()})
}
