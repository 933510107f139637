package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/revelaction/learnspacy/config"
	"github.com/revelaction/learnspacy/render"
)

// CommonOptions are shared by the commands that load a pipeline. Empty
// values leave the config file and environment untouched.
type CommonOptions struct {
	ConfigPath string
	Model      string
	Python     string
	Cache      string
	Scorer     string
	LogLevel   string
	Timeout    int // seconds, negative = not set
}

type RenderOptions struct {
	Color  bool
	Header bool
	Format string
}

// Option structs for subcommands that have flags
type RunOptions struct {
	CommonOptions
	RenderOptions
	Progress bool
}

type AnnotateOptions struct {
	CommonOptions
	RenderOptions
}

type SimilarityOptions struct {
	CommonOptions
	Color    bool
	Progress bool
}

type ReplOptions struct {
	CommonOptions
	RenderOptions
}

type StatOptions struct {
	CommonOptions
	Cached bool
}

type ExportOptions struct {
	From string
	To   string
}

// enumFlag implements flag.Value for restricted strings
type enumFlag struct {
	allowed []string
	value   *string
}

func (e *enumFlag) String() string {
	if e.value == nil {
		return ""
	}
	return *e.value
}

func (e *enumFlag) Set(value string) error {
	for _, a := range e.allowed {
		if a == value {
			*e.value = value
			return nil
		}
	}
	return fmt.Errorf("allowed values are %s", strings.Join(e.allowed, ", "))
}

func addCommonFlags(fs *flag.FlagSet, opts *CommonOptions) {
	fs.StringVar(&opts.ConfigPath, "config", os.Getenv("LEARNSPACY_CONFIG"), "Path to a YAML config file")
	fs.StringVar(&opts.ConfigPath, "c", os.Getenv("LEARNSPACY_CONFIG"), "alias for -config")
	fs.StringVar(&opts.Model, "model", "", "spaCy model package (default en_core_web_sm)")
	fs.StringVar(&opts.Model, "m", "", "alias for -model")
	fs.StringVar(&opts.Python, "python", "", "Python interpreter with spaCy installed (default python3)")
	fs.StringVar(&opts.Cache, "cache", "", "Path to a SQLite cache file, empty disables the cache")

	scorerFlag := &enumFlag{allowed: []string{config.ScorerSpacy, config.ScorerOpenAI}, value: &opts.Scorer}
	fs.Var(scorerFlag, "scorer", "Similarity backend: spacy vectors or openai embeddings (default spacy)")

	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error (default warn)")
	fs.IntVar(&opts.Timeout, "timeout", -1, "Seconds to wait for the model to load, 0 waits forever")
}

func addRenderFlags(fs *flag.FlagSet, opts *RenderOptions) {
	fs.BoolVar(&opts.Color, "color", false, "Colorize POS tags and entity labels")
	fs.BoolVar(&opts.Header, "header", false, "Print a title line before each section")

	opts.Format = render.Defaultformat
	formatFlag := &enumFlag{allowed: render.SupportedFormats(), value: &opts.Format}
	fs.Var(formatFlag, "format", "Sections to print: "+strings.Join(render.SupportedFormats(), ", "))
	fs.Var(formatFlag, "f", "alias for -format")
}

// parseFlags parses args and prints usage on -h or on error.
func parseFlags(fs *flag.FlagSet, args []string, ui UI) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(ui.Out)
			fs.Usage()
			return err
		}
		fs.SetOutput(ui.Err)
		fprintErr(ui.Err, err)
		fs.Usage()
		return err
	}
	return nil
}

func parseMainArgs(args []string, ui UI) (string, []string, error) {
	fs := flag.NewFlagSet("learnspacy", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	setupUsage(fs)

	if err := parseFlags(fs, args, ui); err != nil {
		return "", nil, err
	}

	// without a command, annotate the default text and words
	if fs.NArg() == 0 {
		return "run", nil, nil
	}

	cmd := fs.Arg(0)
	cmdArgs := fs.Args()[1:]
	return cmd, cmdArgs, nil
}

func parseRunArgs(args []string, ui UI) (RunOptions, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts RunOptions
	addCommonFlags(fs, &opts.CommonOptions)
	addRenderFlags(fs, &opts.RenderOptions)
	fs.BoolVar(&opts.Progress, "progress", false, "Show a progress bar while building the similarity table")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s run [options]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Annotate the configured text and print the similarity table of the configured words.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args, ui); err != nil {
		return opts, err
	}

	if fs.NArg() > 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("run command does not accept arguments")
	}

	return opts, nil
}

func parseAnnotateArgs(args []string, ui UI) (AnnotateOptions, []string, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts AnnotateOptions
	addCommonFlags(fs, &opts.CommonOptions)
	addRenderFlags(fs, &opts.RenderOptions)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s annotate [options] [text...]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Print the token, detail and entity passes of each text. Without texts the configured text is used.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args, ui); err != nil {
		return opts, nil, err
	}

	return opts, fs.Args(), nil
}

func parseSimilarityArgs(args []string, ui UI) (SimilarityOptions, []string, error) {
	fs := flag.NewFlagSet("similarity", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts SimilarityOptions
	addCommonFlags(fs, &opts.CommonOptions)
	fs.BoolVar(&opts.Color, "color", false, "Colorize the words")
	fs.BoolVar(&opts.Progress, "progress", false, "Show a progress bar while building the table")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s similarity [options] [word...]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Print the similarity of every pair of words. Without words the configured words are tokenized.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args, ui); err != nil {
		return opts, nil, err
	}

	return opts, fs.Args(), nil
}

func parseReplArgs(args []string, ui UI) (ReplOptions, error) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ReplOptions
	addCommonFlags(fs, &opts.CommonOptions)
	addRenderFlags(fs, &opts.RenderOptions)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s repl [options]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Annotate each line typed at the prompt. Ctrl+F cycles formats, Ctrl+X toggles headers.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args, ui); err != nil {
		return opts, err
	}

	if fs.NArg() > 0 {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("repl command does not accept arguments")
	}

	return opts, nil
}

func parseStatArgs(args []string, ui UI) (StatOptions, []string, error) {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts StatOptions
	addCommonFlags(fs, &opts.CommonOptions)
	fs.BoolVar(&opts.Cached, "cached", false, "Also aggregate every doc stored in the cache")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s stat [options] [text...]\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Show token, POS and entity counts of the texts.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args, ui); err != nil {
		return opts, nil, err
	}

	return opts, fs.Args(), nil
}

func parseExportArgs(args []string, ui UI) (ExportOptions, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts ExportOptions
	fs.StringVar(&opts.From, "from", os.Getenv("LEARNSPACY_CACHE"), "Source SQLite cache file")
	fs.StringVar(&opts.To, "to", "", "Destination directory for the JSON docs")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s export -from <cache.db> -to <dir>\n", os.Args[0])
		_, _ = fmt.Fprintf(fs.Output(), "\nDescription:\n")
		_, _ = fmt.Fprintf(fs.Output(), "  Export the cached docs from SQLite to JSON files.\n")
		_, _ = fmt.Fprintf(fs.Output(), "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args, ui); err != nil {
		return opts, err
	}

	if opts.From == "" || opts.To == "" {
		fs.SetOutput(ui.Err)
		fs.Usage()
		return opts, errors.New("both -from and -to must be specified")
	}

	return opts, nil
}

func parseVersionArgs(args []string, ui UI) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s version\n", os.Args[0])
	}

	return parseFlags(fs, args, ui)
}

func setupUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: %s [command] [command options] [arguments...]\n", os.Args[0])
		_, _ = fmt.Fprintf(output, "\nDescription:\n")
		_, _ = fmt.Fprintf(output, "  Print spaCy annotations and word similarities. Without a command, run is used.\n")
		_, _ = fmt.Fprintf(output, "\nCommands:\n")
		_, _ = fmt.Fprintf(output, "  run         Annotate the configured text and print a similarity table.\n")
		_, _ = fmt.Fprintf(output, "  annotate    Print token, detail and entity passes of texts.\n")
		_, _ = fmt.Fprintf(output, "  similarity  Print the similarity table of words.\n")
		_, _ = fmt.Fprintf(output, "  repl        Enter interactive annotate mode.\n")
		_, _ = fmt.Fprintf(output, "  stat        Show statistics for texts or cached docs.\n")
		_, _ = fmt.Fprintf(output, "  export      Export cached docs from SQLite to filesystem.\n")
		_, _ = fmt.Fprintf(output, "  version     Show version.\n")
		_, _ = fmt.Fprintf(output, "  help        Show help for a command.\n")
	}
}
