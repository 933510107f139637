package main

import (
	"github.com/gosuri/uiprogress"

	"github.com/revelaction/learnspacy/render"
)

func similarityCommand(opts SimilarityOptions, words []string, ui UI) (err error) {
	s, err := newSession(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	p := s.printer(ui, RenderOptions{Color: opts.Color, Format: render.Defaultformat})

	progress, stop := progressBar(opts.Progress)
	p.Progress = progress
	if len(words) == 0 {
		_, err = p.SimilarityTableOf(s.cfg.Words)
	} else {
		_, err = p.SimilarityTable(words)
	}
	stop()
	return err
}

// progressBar returns a similarity progress callback driving a bar and the
// func to stop it. Disabled, both do nothing.
func progressBar(enabled bool) (func(done, total int), func()) {
	if !enabled {
		return nil, func() {}
	}

	uiprogress.Start()
	var bar *uiprogress.Bar
	progress := func(done, total int) {
		if bar == nil {
			bar = uiprogress.AddBar(total)
			bar.AppendCompleted()
			bar.PrependElapsed()
		}
		_ = bar.Set(done)
	}

	return progress, uiprogress.Stop
}
