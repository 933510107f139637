package main

import (
	"errors"
	"fmt"

	"github.com/revelaction/learnspacy/stat"
)

func statCommand(opts StatOptions, texts []string, ui UI) (err error) {
	s, err := newSession(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	if opts.Cached && s.store == nil {
		return errors.New("-cached needs a cache, set it via -cache, LEARNSPACY_CACHE or the config file")
	}

	if len(texts) == 0 && !opts.Cached {
		texts = []string{s.cfg.Text}
	}

	hdl := stat.NewHandler()

	// texts are written to the cache as they are processed
	seen := map[[2]string]bool{}
	for _, text := range texts {
		doc, err := s.pipeline.Process(text)
		if err != nil {
			return err
		}
		seen[[2]string{doc.Model, doc.Text}] = true
		hdl.Aggregate(doc)
	}

	if opts.Cached {
		docs, err := s.store.List()
		if err != nil {
			return err
		}
		for _, meta := range docs {
			if seen[[2]string{meta.Model, meta.Text}] {
				continue
			}
			doc, found, err := s.store.Find(meta.Model, meta.Text)
			if err != nil {
				return err
			}
			if found {
				hdl.Aggregate(doc)
			}
		}
	}

	stats := hdl.Get()
	if stats.NumDocs == 0 {
		_, err := fmt.Fprintln(ui.Out, "No docs")
		return err
	}

	fmt.Fprintf(ui.Out, "Num docs %d, num tokens %d, num tokens per doc %d\n", stats.NumDocs, stats.NumTokens, stats.TokensPerDocMean)
	fmt.Fprintf(ui.Out, "Num alpha %d, num stop %d, num entities %d\n", stats.NumAlpha, stats.NumStop, stats.NumEntities)
	for _, pos := range stat.Keys(stats.PosDis) {
		fmt.Fprintf(ui.Out, "pos %s %d\n", pos, stats.PosDis[pos])
	}
	for _, label := range stat.Keys(stats.LabelDis) {
		fmt.Fprintf(ui.Out, "label %s %d\n", label, stats.LabelDis[label])
	}

	return nil
}
