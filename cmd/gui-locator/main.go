package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/menta2k/gui-locator/internal/utils"
	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/llamacpp"
	"github.com/menta2k/gui-locator/pkg/ollama"
	"github.com/menta2k/gui-locator/pkg/pipeline"
	"github.com/menta2k/gui-locator/pkg/processing"
)

func main() {
	var in, task, model, url, backend string
	var outDir, ext string
	var quality int
	var lossless bool
	var maxDim, maxTokens int
	var debug, asJSON bool

	flag.StringVar(&in, "in", "", "input screenshot path or URL (jpg/png/webp)")
	flag.StringVar(&task, "task", "", "element to localize, e.g. 'click the submit button'")
	flag.StringVar(&model, "model", "hcompany/holo2-4b", "model name")
	flag.StringVar(&backend, "backend", "ollama", "backend to use: ollama or llamacpp")
	flag.StringVar(&url, "url", "", "server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")

	flag.StringVar(&outDir, "out", "out", "output directory for debug overlays")
	flag.StringVar(&ext, "ext", "png", "debug overlay format: png|jpg|webp")
	flag.IntVar(&quality, "quality", 92, "debug overlay quality (for jpg/webp)")
	flag.BoolVar(&lossless, "lossless", false, "debug overlay WebP lossless mode")

	flag.IntVar(&maxDim, "maxdim", 1280, "max long side before grid alignment (px), 0=original")
	flag.IntVar(&maxTokens, "maxtokens", 32, "generation token cap")

	flag.BoolVar(&debug, "debug", false, "save a click overlay image")
	flag.BoolVar(&asJSON, "json", false, "print the full result bundle as JSON")

	flag.Parse()
	if in == "" || task == "" {
		log.Fatalf("usage: %s -in screenshot.png|URL -task \"click the submit button\" [-backend ollama|llamacpp] [-url server_url] [-debug]", filepath.Base(os.Args[0]))
	}

	var gen client.Generator
	var err error
	switch backend {
	case "ollama":
		if url == "" {
			url = "http://localhost:11434"
		}
		gen, err = ollama.NewClient(url, model, nil)
		if err != nil {
			log.Fatalf("Failed to create Ollama client: %v", err)
		}
	case "llamacpp":
		if url == "" {
			url = "http://localhost:8080"
		}
		gen, err = llamacpp.NewClient(url, model, nil)
		if err != nil {
			log.Fatalf("Failed to create llama.cpp client: %v", err)
		}
	default:
		log.Fatalf("Unknown backend: %s (use 'ollama' or 'llamacpp')\n", backend)
	}

	cfg := pipeline.DefaultConfig()
	cfg.Geometry.MaxDimension = maxDim
	cfg.MaxTokens = maxTokens
	p := pipeline.NewWithConfig(gen, cfg)

	processor := processing.NewProcessor()
	img, err := processor.LoadImageSmart(in)
	if err != nil {
		log.Fatal(err)
	}

	result, err := p.Locate(context.Background(), img, task)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("task=%q -> (%d,%d) normalized, (%.1f,%.1f) px on %dx%d",
		result.Task, result.Coordinates.X, result.Coordinates.Y,
		result.Coordinates.XPixel, result.Coordinates.YPixel,
		result.ImageWidth, result.ImageHeight)
	if result.Thinking != "" {
		log.Printf("thinking: %s", result.Thinking)
	}

	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(data))
	}

	if debug {
		if err := utils.EnsureDir(outDir); err != nil {
			log.Fatal(err)
		}
		processed, err := processor.DecodeBase64(result.ProcessedImage)
		if err != nil {
			log.Fatal(err)
		}
		overlay := processor.CreateClickOverlay(processed, result.Coordinates.XPixel, result.Coordinates.YPixel)
		outPath := utils.GenerateOutputFilename(in, outDir, "_click", ext)
		if err := processor.SaveImage(overlay, outPath, ext, quality, lossless); err != nil {
			log.Fatalf("overlay save failed: %v", err)
		}
		log.Printf("wrote %s", outPath)
	}
}
