package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/learnspacy/storage/filesystem"
	"github.com/revelaction/learnspacy/storage/sqlite/zombiezen"
)

func exportCommand(opts ExportOptions, ui UI) error {
	var pool Pool
	sqlPool, err := pool.OpenExisting(opts.From)
	if err != nil {
		return err
	}
	defer pool.Close()

	src := zombiezen.NewCacheStore(sqlPool)
	dst, err := filesystem.NewDocStore(opts.To)
	if err != nil {
		return err
	}

	docs, err := src.List()
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		_, err := fmt.Fprintln(ui.Out, "No docs to export")
		return err
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(len(docs))
	bar.AppendCompleted()
	bar.PrependElapsed()

	count := 0
	for _, meta := range docs {
		doc, found, err := src.Find(meta.Model, meta.Text)
		if err != nil {
			uiprogress.Stop()
			return fmt.Errorf("failed to read doc %d: %w", meta.Id, err)
		}
		if !found {
			uiprogress.Stop()
			return fmt.Errorf("doc %d not found in %s", meta.Id, opts.From)
		}

		if err := dst.Write(doc); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("failed to write doc %d: %w", doc.Id, err)
		}
		count++
		bar.Incr()
	}
	uiprogress.Stop()

	_, err = fmt.Fprintf(ui.Out, "Exported %d docs to %s\n", count, opts.To)
	return err
}
