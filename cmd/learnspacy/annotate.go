package main

import (
	"strings"
)

// runScriptCommand annotates the configured text and prints the similarity
// table of the configured words.
func runScriptCommand(opts RunOptions, ui UI) (err error) {
	s, err := newSession(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	p := s.printer(ui, opts.RenderOptions)
	if _, err := p.Annotate(s.cfg.Text); err != nil {
		return err
	}

	progress, stop := progressBar(opts.Progress)
	p.Progress = progress
	_, err = p.SimilarityTableOf(s.cfg.Words)
	stop()
	return err
}

func annotateCommand(opts AnnotateOptions, texts []string, ui UI) (err error) {
	s, err := newSession(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	if len(texts) == 0 {
		texts = []string{s.cfg.Text}
	}

	p := s.printer(ui, opts.RenderOptions)
	for _, text := range texts {
		if _, err := p.Annotate(strings.TrimSpace(text)); err != nil {
			return err
		}
	}

	return nil
}
