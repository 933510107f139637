package main

import (
	"github.com/revelaction/learnspacy/repl"
)

func replCommand(opts ReplOptions, ui UI) (err error) {
	s, err := newSession(opts.CommonOptions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()

	h := repl.NewHandler(s.printer(ui, opts.RenderOptions), ui.Err)
	return h.Run()
}
