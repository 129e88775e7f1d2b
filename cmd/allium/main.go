// Command allium splits source files into atoms and prints them with their
// positions. Malformed input is reported with a caret snippet and scanning
// resumes after it.
//
// Usage:
//
//	allium [flags] file...
//	allium -i
//
// A file may be "-" for standard input, an s3://bucket/key URL, or a local
// path; .gz and .zst files are decompressed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"github.com/sanity-io/litter"

	"github.com/hassan/allium/internal/diag"
	"github.com/hassan/allium/internal/input"
	"github.com/hassan/allium/internal/lexer"
	"github.com/hassan/allium/internal/source"
)

var (
	width = flag.Int("width", diag.DefaultWidth, "Show at most `n` columns of a source line in diagnostics.")

	colorMode = flag.String("color", "auto", "Colorize output: `mode` is auto, always or never.")

	verbose = flag.Bool("v", false, "Log per-file progress.")

	quiet = flag.Bool("q", false, "Only log errors.")

	breaks = flag.Bool("breaks", false, "List whitespace and comment atoms too.")

	dump = flag.Bool("dump", false, "Dump the atom records instead of listing them.")

	interactive = flag.Bool("i", false, "Scan lines typed at a prompt.")

	backing = flag.String("backing", "cached", "Byte backing `strategy`: cached, memory or seek.")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file...\n       %s -i\n\nFlags:\n", os.Args[0], os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log := diag.NewLogger(os.Stdout, os.Stderr, cfg)
	opts := listing{breaks: *breaks, dump: *dump}

	if *interactive {
		return repl(log, os.Stdout, opts)
	}
	if flag.NArg() == 0 {
		usage()
		return 2
	}

	strategy, err := input.ParseStrategy(*backing)
	if err != nil {
		log.Error("%v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opener := &input.Opener{}
	status := 0
	for _, name := range flag.Args() {
		f, closer, err := opener.Source(ctx, name, strategy)
		if err != nil {
			log.Error("%v", err)
			status = 1
			continue
		}
		log.Verbose("scanning %s (%s backing)", f.Path(), strategy)
		if !scanFile(log, os.Stdout, f, opts) {
			status = 1
		}
		if err := closer.Close(); err != nil {
			log.Warn("closing %s: %v", name, err)
		}
	}
	return status
}

func config() (diag.Config, error) {
	color, err := diag.ParseColor(*colorMode, os.Stderr)
	if err != nil {
		return diag.Config{}, err
	}
	cfg := diag.Config{Width: *width, Color: color, Level: diag.LevelInfo}
	switch {
	case *quiet:
		cfg.Level = diag.LevelError
	case *verbose:
		cfg.Level = diag.LevelVerbose
	}
	return cfg, nil
}

// listing controls what scanFile prints.
type listing struct {
	breaks bool
	dump   bool
}

// record is the dumped form of one atom.
type record struct {
	Kind   string
	Text   string
	At     string
	Offset int
	Len    int
}

// scanFile prints the atoms of f to w and reports malformed input through
// log. It returns false if anything was reported.
func scanFile(log *diag.Logger, w io.Writer, f *source.File, opts listing) bool {
	s := lexer.New(f)
	clean := true
	count := 0
	var records []record

	for {
		a, err := s.NextAtom()
		if err != nil {
			var me *lexer.MalformedError
			var ne *lexer.NoAtomError
			switch {
			case errors.As(err, &me):
				log.Report(diag.LevelError, me.At, me.Message)
			case errors.As(err, &ne):
				log.Report(diag.LevelError, ne.At, fmt.Sprintf("unexpected character %q", ne.At.Char()))
			default:
				log.Error("%s: %v", f.Path(), err)
				return false
			}
			clean = false
			if err := s.Recover(); err != nil {
				log.Error("%s: %v", f.Path(), err)
				return false
			}
			continue
		}
		if a.Kind == lexer.AtomEOF {
			break
		}
		count++
		if a.Kind.IsBreak() && !opts.breaks {
			continue
		}

		pos, err := diag.PositionOf(a.Span.Start())
		if err != nil {
			log.Error("%s: %v", f.Path(), err)
			return false
		}
		if opts.dump {
			records = append(records, record{
				Kind:   a.Kind.String(),
				Text:   a.Text(),
				At:     pos.String(),
				Offset: pos.Offset,
				Len:    a.Span.Len(),
			})
			continue
		}
		fmt.Fprintf(w, "%-20s %-14s %q\n", pos, a.Kind, a.Text())
	}

	if opts.dump {
		fmt.Fprintln(w, litter.Options{StripPackageNames: true}.Sdump(records))
	}
	log.Verbose("%s: %d atoms, %d lines", f.Path(), count, f.LineCount())
	return clean
}

const prompt = "allium> "

// repl scans each line typed at the prompt as its own source.
func repl(log *diag.Logger, w io.Writer, opts listing) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	for n := 1; ; {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return 0
		}
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		scanFile(log, w, source.FromString(fmt.Sprintf("<stdin:%d>", n), line), opts)
		n++
	}
}
