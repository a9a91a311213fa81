// Command salonbook-import loads reviews or gallery items from a JSON array
// into the document store. The whole file is validated before anything is
// written.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vbonduro/salonbook/internal/config"
	"github.com/vbonduro/salonbook/internal/domain"
	"github.com/vbonduro/salonbook/internal/logging"
	"github.com/vbonduro/salonbook/internal/service"
	"github.com/vbonduro/salonbook/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		collection = flag.String("collection", domain.CollectionReview, "target collection (review or galleryitem)")
		file       = flag.String("file", "", "path to a JSON array of documents, - for stdin")
	)
	flag.Parse()

	if *file == "" {
		fatal("-file is required")
	}

	cfg := config.Load()
	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fatal(err.Error())
	}
	defer cleanup()

	batch, err := readBatch(*file)
	if err != nil {
		fatal(err.Error())
	}

	docs := store.Connect(cfg.DatabaseURL, cfg.DatabaseName, logger)
	defer func() { _ = docs.Close() }()
	if !docs.Enabled() {
		fatal("document store unavailable, check DATABASE_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids, err := service.NewImportService(docs, logger).Import(ctx, *collection, batch)
	for _, id := range ids {
		fmt.Println(id)
	}
	if err != nil {
		var ierr *service.ImportError
		if errors.As(err, &ierr) {
			for _, el := range ierr.Elements {
				for _, f := range el.Err.Fields {
					fmt.Fprintf(os.Stderr, "element %d: %s: %s\n", el.Index, f.Field, f.Message)
				}
			}
		}
		fatal(err.Error())
	}
}

func readBatch(path string) ([]map[string]any, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	return decodeBatch(r)
}

func decodeBatch(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var batch []map[string]any
	if err := dec.Decode(&batch); err != nil {
		return nil, fmt.Errorf("input must be a JSON array of objects: %w", err)
	}
	return batch, nil
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
