// Command spiritammo extracts scripture verse candidates from PDF, EPUB, and
// plain-text documents.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/danteata/spiritammo/core/books"
	"github.com/danteata/spiritammo/core/doc"
	"github.com/danteata/spiritammo/core/verse"
	"github.com/danteata/spiritammo/internal/acquire"
	"github.com/danteata/spiritammo/internal/api"
	"github.com/danteata/spiritammo/internal/formats"
	"github.com/danteata/spiritammo/internal/formats/epub"
	"github.com/danteata/spiritammo/internal/formats/pdf"
	"github.com/danteata/spiritammo/internal/formats/txt"
	"github.com/danteata/spiritammo/internal/logging"
	"github.com/danteata/spiritammo/internal/pipeline"
	"github.com/danteata/spiritammo/internal/recognize"
	"github.com/danteata/spiritammo/internal/store"
)

const version = "0.1.0"

// CLI defines the command-line interface for spiritammo.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"text"`

	Extract ExtractCmd `cmd:"" help:"Extract verse candidates from a document"`
	Serve   ServeCmd   `cmd:"" help:"Start the extraction API server"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ExtractCmd runs one extraction and prints the candidates.
type ExtractCmd struct {
	Path   string `arg:"" help:"Document to process" type:"existingfile"`
	Format string `help:"Override format detection (pdf, epub, txt)"`
	Top    int    `help:"Show at most N candidates" default:"10"`
	JSON   bool   `help:"Emit the full result as JSON"`
	Save   string `help:"Save candidates to this SQLite database" type:"path"`
}

func (c *ExtractCmd) Run() error {
	logger, err := logging.New(CLI.LogLevel, CLI.LogFormat)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.Path, err)
	}

	name := filepath.Base(c.Path)
	var format doc.Format
	if c.Format != "" {
		format, err = doc.ParseFormat(c.Format)
	} else {
		format, err = doc.DetectFormat(name, data)
	}
	if err != nil {
		return err
	}

	var sink pipeline.Sink
	if !c.JSON {
		sink = func(ev pipeline.Progress) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %-10s %s\n", ev.Percent, ev.Stage, ev.Message)
		}
	}

	p := newPipeline(logger, sink)
	result, err := p.Run(context.Background(), doc.New(name, format, data))
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(result, c.Top)
	}

	if c.Save != "" {
		return saveResult(c.Save, result)
	}
	return nil
}

func printResult(result *pipeline.Result, top int) {
	fmt.Printf("document:   %s (%s, %d bytes)\n", result.Document.Name, result.Document.Format, result.Document.SizeBytes)
	fmt.Printf("method:     %s (confidence %d)\n", result.Acquired.Method, result.Acquired.Confidence)
	if result.LowConfidence {
		fmt.Println("warning:    acquired text is low confidence; review candidates carefully")
	}
	fmt.Printf("candidates: %d\n\n", len(result.Candidates))

	shown := result.Candidates
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}
	for _, c := range shown {
		text := c.Text
		if len(text) > 70 {
			text = text[:67] + "..."
		}
		fmt.Printf("  %3d  %-20s %s\n", c.Confidence, c.Reference, text)
	}
}

func saveResult(path string, result *pipeline.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	records := make([]verse.ImportableRecord, len(result.Candidates))
	for i, c := range result.Candidates {
		records[i] = verse.ToImportableRecord(c)
	}
	inserted, err := st.Save(context.Background(), result.Document.Name, records)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved %d new records to %s\n", inserted, path)
	return nil
}

// ServeCmd starts the HTTP API server.
type ServeCmd struct {
	Port int    `help:"Listen port" default:"8080"`
	DB   string `help:"SQLite database path for saved verses" type:"path"`
}

func (c *ServeCmd) Run() error {
	logger, err := logging.New(CLI.LogLevel, CLI.LogFormat)
	if err != nil {
		return err
	}

	hub := api.NewHub(logger)
	go hub.Run()

	p := newPipeline(logger, func(ev pipeline.Progress) {
		hub.Broadcast(api.ProgressMessage{
			Type:     "progress",
			Stage:    ev.Stage,
			Progress: ev.Percent,
			Message:  ev.Message,
		})
	})

	var st *store.Store
	if c.DB != "" {
		st, err = store.Open(c.DB)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	return api.NewServer(api.Config{Port: c.Port}, p, st, hub, logger).Start()
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("spiritammo %s\n", version)
	return nil
}

func newPipeline(logger *slog.Logger, sink pipeline.Sink) *pipeline.Pipeline {
	registry := formats.NewRegistry(
		txt.New(logger),
		pdf.New(logger),
		epub.New(logger),
	)
	return pipeline.New(
		acquire.New(registry, logger),
		recognize.New(books.Standard(), logger),
		logger,
		sink,
	)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("spiritammo"),
		kong.Description("Scripture verse extraction from PDF, EPUB, and text documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
