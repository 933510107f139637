// Package spacy runs a spaCy model in a python3 child process.
//
// The child runs an embedded bridge script that loads the model and answers
// one JSON request per line on stdin with one JSON response per line on
// stdout:
//
//	{"op":"process","text":"Apple is looking at buying U.K. startup"}
//	{"doc":{"model":"en_core_web_sm","text":"...","tokens":[...],"ents":[...]}}
//
//	{"op":"similarity","a":"dog","b":"bus"}
//	{"score":0.21}
//
// A similarity request with a context compares a and b as tokens of the doc
// of the context text. The bridge keeps the last context doc, so a table
// built within one text processes it once.
//
//	{"op":"similarity","a":"dog","b":"bus","context":"rotweiller dog bus"}
//
// The first line the child writes is a handshake, {"ready":true,...} once the
// model is loaded. Anything the child writes to stderr (f.ex. spaCy warnings
// about missing vectors) goes to the logger.
package spacy

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/revelaction/learnspacy/pipeline"
	sent "github.com/revelaction/learnspacy/sentence"
)

const (
	DefaultPython = "python3"

	maxLineSize = 64 << 20
)

//go:embed bridge.py
var bridgeScript string

// Config holds the settings to start the child process.
type Config struct {
	// Model is the spaCy package name, f.ex. en_core_web_sm
	Model string

	// Python is the interpreter, DefaultPython if empty
	Python string

	// Command replaces "<Python> -c <bridge>". The model name is appended as
	// last argument.
	Command []string

	// Env is appended to the current environment of the child
	Env []string

	Logger *zap.Logger
}

type request struct {
	Op      string `json:"op"`
	Text    string `json:"text,omitempty"`
	A       string `json:"a,omitempty"`
	B       string `json:"b,omitempty"`
	Context string `json:"context,omitempty"`
}

type response struct {
	Doc   *sent.Doc `json:"doc,omitempty"`
	Score *float64  `json:"score,omitempty"`
	Error string    `json:"error,omitempty"`
}

type handshake struct {
	Ready   bool   `json:"ready"`
	Model   string `json:"model"`
	Version string `json:"version"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Pipeline is a loaded spaCy model. Calls are serialized.
type Pipeline struct {
	model   string
	version string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	stdout *bufio.Scanner
	stderr *logWriter
	logger *zap.Logger

	mu     sync.Mutex
	closed bool

	// set when the child died or the protocol broke
	broken bool
}

var (
	_ pipeline.Pipeline   = (*Pipeline)(nil)
	_ pipeline.Contextual = (*Pipeline)(nil)
)

// Load starts the child process and waits until it has loaded the model or
// ctx is done. Always Close the returned pipeline.
func Load(ctx context.Context, cfg Config) (*Pipeline, error) {
	if cfg.Model == "" {
		cfg.Model = pipeline.DefaultModel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("model", cfg.Model))

	args := cfg.Command
	if len(args) == 0 {
		python := cfg.Python
		if python == "" {
			python = DefaultPython
		}
		args = []string{python, "-c", bridgeScript}
	}

	cmd := exec.Command(args[0], append(args[1:len(args):len(args)], cfg.Model)...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	stderr := &logWriter{logger: logger}
	cmd.Stderr = stderr

	loadErr := func(err error) error {
		return &pipeline.Error{Op: "load", Model: cfg.Model, Err: err}
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, loadErr(err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, loadErr(err)
	}

	logger.Debug("starting pipeline process", zap.String("command", args[0]))
	if err := cmd.Start(); err != nil {
		return nil, loadErr(err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	p := &Pipeline{
		model:  cfg.Model,
		cmd:    cmd,
		stdin:  stdin,
		enc:    json.NewEncoder(stdin),
		stdout: scanner,
		stderr: stderr,
		logger: logger,
	}

	type result struct {
		hs  handshake
		err error
	}

	ch := make(chan result, 1)
	go func() {
		var r result
		r.err = p.readLine(&r.hs)
		ch <- r
	}()

	var r result
	select {
	case <-ctx.Done():
		p.kill()
		return nil, loadErr(ctx.Err())
	case r = <-ch:
	}

	if r.err != nil {
		p.kill()
		return nil, loadErr(r.err)
	}

	if !r.hs.Ready {
		p.kill()
		if r.hs.Code == "model_not_found" {
			return nil, loadErr(fmt.Errorf("%w: %s", pipeline.ErrModelNotFound, r.hs.Error))
		}
		return nil, loadErr(errors.New(r.hs.Error))
	}

	p.version = r.hs.Version
	logger.Debug("pipeline loaded", zap.String("spacy", r.hs.Version), zap.Int("pid", cmd.Process.Pid))

	return p, nil
}

func (p *Pipeline) Model() string {
	return p.model
}

// Version returns the spaCy version reported by the child.
func (p *Pipeline) Version() string {
	return p.version
}

func (p *Pipeline) Process(text string) (sent.Doc, error) {
	if err := pipeline.ValidateText(p.model, text); err != nil {
		return sent.Doc{}, err
	}

	resp, err := p.call(request{Op: "process", Text: text})
	if err != nil {
		return sent.Doc{}, err
	}

	if resp.Doc == nil {
		return sent.Doc{}, p.opErr("process", errors.New("response without doc"))
	}

	return *resp.Doc, nil
}

func (p *Pipeline) Similarity(a, b string) (float64, error) {
	return p.similarity("", a, b)
}

// InContext returns a Scorer that compares words as tokens of the doc of
// text, the way Token.similarity does within one doc. A word that is not a
// token of text is compared on its own; a repeated word resolves to its last
// token.
func (p *Pipeline) InContext(text string) pipeline.Scorer {
	return &contextScorer{p: p, text: text}
}

type contextScorer struct {
	p    *Pipeline
	text string
}

func (s *contextScorer) Similarity(a, b string) (float64, error) {
	return s.p.similarity(s.text, a, b)
}

func (p *Pipeline) similarity(within, a, b string) (float64, error) {
	if err := pipeline.ValidateWords(p.model, within, a, b); err != nil {
		return 0, err
	}

	resp, err := p.call(request{Op: "similarity", A: a, B: b, Context: within})
	if err != nil {
		return 0, err
	}

	if resp.Score == nil {
		return 0, p.opErr("similarity", errors.New("response without score"))
	}

	return *resp.Score, nil
}

// Close ends the child process. It is safe to call Close more than once.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	// EOF on stdin ends the bridge loop
	p.stdin.Close()
	err := p.cmd.Wait()
	p.stderr.Flush()
	p.logger.Debug("pipeline process exited", zap.Error(err))

	if err != nil && !p.broken {
		return p.opErr("close", err)
	}

	return nil
}

func (p *Pipeline) call(req request) (response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.broken {
		return response{}, p.opErr(req.Op, pipeline.ErrNotLoaded)
	}

	if err := p.enc.Encode(req); err != nil {
		p.broken = true
		return response{}, p.opErr(req.Op, err)
	}

	var resp response
	if err := p.readLine(&resp); err != nil {
		p.broken = true
		return response{}, p.opErr(req.Op, err)
	}

	if resp.Error != "" {
		return response{}, p.opErr(req.Op, errors.New(resp.Error))
	}

	return resp, nil
}

func (p *Pipeline) readLine(v any) error {
	if !p.stdout.Scan() {
		if err := p.stdout.Err(); err != nil {
			return err
		}
		return fmt.Errorf("pipeline process exited: %w", io.ErrUnexpectedEOF)
	}

	if err := json.Unmarshal(p.stdout.Bytes(), v); err != nil {
		return fmt.Errorf("JSON decoding error: %w", err)
	}

	return nil
}

func (p *Pipeline) kill() {
	p.closed = true
	p.stdin.Close()
	_ = p.cmd.Process.Kill()
	_ = p.cmd.Wait()
	p.stderr.Flush()
}

func (p *Pipeline) opErr(op string, err error) error {
	return &pipeline.Error{Op: op, Model: p.model, Err: err}
}

// logWriter sends each line written to it to the logger.
type logWriter struct {
	logger *zap.Logger
	buf    []byte
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.log(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(b), nil
}

// Flush logs a last line without a trailing newline. Call it once the
// writer gets no more writes.
func (w *logWriter) Flush() {
	w.log(w.buf)
	w.buf = nil
}

func (w *logWriter) log(b []byte) {
	if line := strings.TrimSpace(string(b)); line != "" {
		w.logger.Warn("pipeline stderr", zap.String("line", line))
	}
}
