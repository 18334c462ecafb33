package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/topomap/areagraph/areagraph"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile   = flag.String("config", "params.yaml", "Path to configuration file")
	inputFile    = flag.String("input", "graph.json", "Path to the skeleton graph JSON export")
	outputFile   = flag.String("output", "map.osm.xml", "Output file for the osmAG XML map")
	csvFile      = flag.String("csv", "", "Write room areas as CSV to this file")
	geojsonFile  = flag.String("geojson", "", "Write rooms and passages as GeoJSON to this file")
	renderFile   = flag.String("render", "", "Write a debug render of the merged map to this file")
	renderFormat = flag.String("render-format", "svg", "Debug render format: svg or png")
	showChart    = flag.Bool("chart", false, "Print a bar chart of room areas to stdout")
)

func main() {
	flag.Parse()
	fmt.Printf("areagraph version: %s\n", Version)

	config, err := areagraph.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Warning: %v, using default parameters", err)
		config = areagraph.DefaultConfig()
	} else {
		log.Printf("Loaded config from %s", *configFile)
	}

	vg, err := areagraph.LoadVoriGraph(*inputFile)
	if err != nil {
		log.Fatalf("Failed to load skeleton graph: %v", err)
	}
	fmt.Printf("Loaded skeleton graph: %d vertices, %d half-edges\n",
		len(vg.Vertices), len(vg.HalfEdges))

	g := areagraph.BuildAreaGraph(vg)
	fmt.Printf("Built area graph: %d vertices, %d passages\n",
		len(g.Vertices), len(g.Passages))

	g.MergeAreas()
	g.MergeRoomCell()
	g.Prune()
	g.ArrangeRoomIDs()
	g.MergeRoomPolygons()
	fmt.Printf("Merged into %d rooms with %d passages\n",
		len(g.Vertices), len(g.Passages))

	proj := config.Projection()

	out, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file %s: %v", *outputFile, err)
	}
	if err := areagraph.ExportOsmAG(g, out, proj, config.ExportOptions()); err != nil {
		log.Fatalf("Failed to export osmAG map: %v", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("Failed to close output file %s: %v", *outputFile, err)
	}
	fmt.Printf("Wrote osmAG map: %s\n", *outputFile)

	if *csvFile != "" {
		writeCSV(g, proj)
	}
	if *geojsonFile != "" {
		writeGeoJSON(g, proj)
	}
	if *renderFile != "" {
		writeRender(g)
	}
	if *showChart {
		areagraph.WriteAreaChart(os.Stdout, g, proj)
	}

	fmt.Println("Done!")
}

func writeCSV(g *areagraph.AreaGraph, proj areagraph.Projection) {
	f, err := os.Create(*csvFile)
	if err != nil {
		log.Fatalf("Failed to create CSV file %s: %v", *csvFile, err)
	}
	defer closeFile(f, *csvFile)

	if err := areagraph.WriteAreaCSV(f, g, proj); err != nil {
		log.Fatalf("Failed to write area CSV: %v", err)
	}
	fmt.Printf("Wrote room areas: %s\n", *csvFile)
}

func writeGeoJSON(g *areagraph.AreaGraph, proj areagraph.Projection) {
	f, err := os.Create(*geojsonFile)
	if err != nil {
		log.Fatalf("Failed to create GeoJSON file %s: %v", *geojsonFile, err)
	}
	defer closeFile(f, *geojsonFile)

	if err := areagraph.WriteGeoJSON(f, g, proj); err != nil {
		log.Fatalf("Failed to write GeoJSON: %v", err)
	}
	fmt.Printf("Wrote GeoJSON: %s\n", *geojsonFile)
}

func writeRender(g *areagraph.AreaGraph) {
	f, err := os.Create(*renderFile)
	if err != nil {
		log.Fatalf("Failed to create render file %s: %v", *renderFile, err)
	}
	defer closeFile(f, *renderFile)

	renderer := areagraph.NewMapRenderer(g)
	switch *renderFormat {
	case "svg":
		err = renderer.RenderToSVG(f)
	case "png":
		err = renderer.RenderToPNG(f)
	default:
		log.Fatalf("Invalid render format: %s (must be svg or png)", *renderFormat)
	}
	if err != nil {
		log.Fatalf("Failed to render map: %v", err)
	}
	fmt.Printf("Wrote debug render: %s\n", *renderFile)
}

func closeFile(f *os.File, path string) {
	if err := f.Close(); err != nil {
		log.Printf("Warning: error closing %s: %v", path, err)
	}
}
