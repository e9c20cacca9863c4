package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ttacon/chalk"

	"lines-drawer/internal/board"
	"lines-drawer/internal/config"
	"lines-drawer/internal/geom"
	"lines-drawer/internal/raster"
	"lines-drawer/internal/router"
	"lines-drawer/internal/server"
	"lines-drawer/internal/shapes"
)

func check(err error, msg string) {
	if err != nil {
		fmt.Print(chalk.Red)
		log.Print(msg, chalk.Reset)
		log.Fatalln(err)
	}
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	log.Println("========================================")
	log.Println("🚀 Lines Drawer Server")
	log.Println("========================================")

	cfg, err := config.Load(*configPath)
	check(err, "Could not load configuration")

	opts, err := cfg.RouterOptions()
	check(err, "Invalid router options")

	r, err := router.New(opts)
	check(err, "Could not create router")

	log.Printf("   Strategy: %s\n", opts.Strategy)
	log.Printf("   Keep distance: %.2f, offset: %.2f\n", opts.KeepDistance, opts.Offset)

	var obstacles []geom.Curve
	if cfg.ObstaclesDir != "" {
		log.Printf("Loading obstacles from %s...\n", cfg.ObstaclesDir)
		obstacles, err = shapes.LoadCurvesDir(cfg.ObstaclesDir)
		check(err, "Could not load obstacles")
		if cfg.SimplifyEpsilon > 0 {
			obstacles = shapes.SimplifyAll(obstacles, cfg.SimplifyEpsilon)
		}
		if b, ok := shapes.Bounds(obstacles); ok {
			log.Printf("✅ Loaded %d obstacle curves\n", len(obstacles))
			log.Printf("   Bounding box: (%.2f, %.2f) to (%.2f, %.2f)\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
		} else {
			log.Println("ℹ️  No obstacle curves found")
		}
	}
	log.Println("")

	b := board.New(r, board.Options{Obstacles: obstacles, KeepObstacles: cfg.KeepObstacles})
	srv := server.New(r, b, raster.Canvas{
		Width:       cfg.Canvas.Width,
		Height:      cfg.Canvas.Height,
		StrokeWidth: cfg.Canvas.StrokeWidth,
	})

	log.Printf("Server starting on %s\n", cfg.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  GET    /health      - Check server status")
	log.Println("  POST   /pins        - Pin a point, every second pin draws a curve")
	log.Println("  POST   /route       - Compute a curve between start and end")
	log.Println("  POST   /intersect   - Check two segments for intersection")
	log.Println("  POST   /visibility  - Get the waypoint graph for a route")
	log.Println("  GET    /board       - Get pins and curves as GeoJSON")
	log.Println("  GET    /board.png   - Get a PNG snapshot of the board")
	log.Println("  DELETE /board       - Clear pins and drawn curves")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	check(http.ListenAndServe(cfg.Addr, srv.Handler(os.Stdout)), "Server stopped")
}
