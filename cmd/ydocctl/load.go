package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joshuapare/ydockit/internal/source"
	"github.com/joshuapare/ydockit/pkg/decode"
	"github.com/joshuapare/ydockit/pkg/session"
)

// stdinArg reads the update from standard input.
const stdinArg = "-"

// readInputs reads every argument, "-" meaning stdin. Unreadable files are
// returned as failures.
func readInputs(args []string) ([]session.Input, []session.Failure, error) {
	c, err := appConfig()
	if err != nil {
		return nil, nil, err
	}
	reader := source.NewReader(c.Limits())

	var inputs []session.Input
	var failures []session.Failure
	for _, arg := range args {
		printVerbose("Reading: %s\n", arg)
		var in session.Input
		if arg == stdinArg {
			in, err = reader.ReadFrom("stdin", os.Stdin)
		} else {
			in, err = reader.ReadFile(arg)
		}
		if err != nil {
			failures = append(failures, session.Failure{Name: arg, Err: err})
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, failures, nil
}

// newDecoder builds a decoder from the config and global flags.
func newDecoder() (*decode.Decoder, error) {
	c, err := appConfig()
	if err != nil {
		return nil, err
	}
	opts := append(c.DecodeOptions(), decode.WithLogger(debugLogger()))
	return decode.New(opts...), nil
}

// loadDocuments reads and decodes args as one batch. Documents come back in
// argument order; failures are printed and counted.
func loadDocuments(args []string) ([]session.Document, int, error) {
	inputs, failures, err := readInputs(args)
	if err != nil {
		return nil, 0, err
	}
	dec, err := newDecoder()
	if err != nil {
		return nil, 0, err
	}
	c, _ := appConfig()

	registry := session.NewRegistry(session.WithLogger(debugLogger()))
	loader := session.NewLoader(session.WithDecoder(dec), session.WithConcurrency(c.Concurrency))
	failures = append(failures, registry.LoadBatch(context.Background(), loader, inputs)...)

	for _, f := range failures {
		printError("%s\n", f.Error())
	}
	return registry.Documents(), len(failures), nil
}

// batchError summarizes failed inputs for the exit status.
func batchError(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d input(s) failed", failed, total)
}
