package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/pipeline"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorDim   = "\x1b[2m"
)

func useColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	trace := flag.Bool("trace", false, "log every relation step to stderr")
	jobs := flag.Int("j", runtime.NumCPU(), "number of cases to run concurrently")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-trace] [-j N] [%s]\n", os.Args[0], config.SuiteFileName)
		flag.PrintDefaults()
	}
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		found, err := config.FindSuite(".")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if found == "" {
			fmt.Fprintf(os.Stderr, "Error: no %s found\n", config.SuiteFileName)
			flag.Usage()
			os.Exit(2)
		}
		path = found
	}

	suite, err := config.LoadSuite(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *trace || suite.Trace {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetOutput(io.Discard)
	}

	results, err := pipeline.RunSuite(context.Background(), pipeline.Default(), suite, path, *jobs, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if report(os.Stdout, results, useColor(os.Stdout)) > 0 {
		os.Exit(1)
	}
}

// report prints one line per case plus failure details, and returns the
// number of failed cases.
func report(w io.Writer, results []*pipeline.PipelineContext, color bool) int {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + colorReset
	}

	failed := 0
	for _, r := range results {
		outcome := "not run"
		switch {
		case r.RelationErr != nil:
			outcome = "error: " + r.RelationErr.Error()
		case r.Result != nil:
			outcome = r.Result.String()
		}
		status := paint(colorGreen, "ok  ")
		if !r.Passed() {
			status = paint(colorRed, "FAIL")
			failed++
		}
		fmt.Fprintf(w, "%s %s: %s(%s, %s) = %s", status, r.Case.Name, r.Case.Direction, r.Case.A, r.Case.B, outcome)
		if n := r.Queue.Pushed(); n > 0 {
			fmt.Fprint(w, paint(colorDim, fmt.Sprintf(" [%d obligations]", n)))
		}
		fmt.Fprintln(w)
		for _, o := range r.Queue.Pending() {
			fmt.Fprintf(w, "       %s\n", paint(colorDim, o.String()))
		}
		for _, e := range r.Errors {
			fmt.Fprintf(w, "       %v\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d cases, %d failed\n", len(results), failed)
	return failed
}
