package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/htmlexpect"
	"github.com/hyperifyio/htmlexpect/internal/specfile"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		specPath  string
		inputPath string
		rootTag   string
		verbose   bool
	)

	flag.StringVar(&specPath, "spec", "structure.yaml", "Path to YAML or JSON expected-structure file")
	flag.StringVar(&inputPath, "input", "", "Path to HTML document to validate (default: stdin)")
	flag.StringVar(&rootTag, "root", "", "Validate the first element with this tag name instead of the document element")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	os.Exit(run(specPath, inputPath, rootTag))
}

// run returns the process exit code: 0 for a pass, 1 for a validation
// failure, 2 for spec, input or usage problems.
func run(specPath, inputPath, rootTag string) int {
	expected, err := specfile.Load(specPath)
	if err != nil {
		log.Error().Err(err).Str("spec", specPath).Msg("load expected structure")
		return 2
	}

	var in io.Reader = os.Stdin
	name := "stdin"
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			log.Error().Err(err).Str("input", inputPath).Msg("open document")
			return 2
		}
		defer f.Close()
		in = f
		name = inputPath
	}

	actual, err := htmlexpect.ParseHTML(in)
	if err != nil {
		log.Error().Err(err).Str("input", name).Msg("parse document")
		return 2
	}
	if rootTag != "" {
		sub := htmlexpect.First(actual, rootTag)
		if sub == nil {
			log.Error().Str("root", rootTag).Str("input", name).Msg("no such element in document")
			return 1
		}
		actual = sub
	}

	log.Debug().Str("spec", specPath).Str("input", name).Msg("validating")
	result, err := htmlexpect.Validate(expected, actual)
	if err != nil {
		log.Error().Err(err).Msg("validate")
		return 2
	}
	if !result.Passed() {
		f := result.Failure()
		log.Error().
			Str("kind", string(f.Kind)).
			Str("path", f.PathString()).
			Str("input", name).
			Msg(f.Error())
		return 1
	}

	log.Info().Str("input", name).Msg("document matches expected structure")
	return 0
}
