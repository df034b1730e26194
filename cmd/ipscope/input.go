package main

import (
	"io"
	"os"
	"strings"

	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/jsonvalue"
)

// readInput returns the document and the selector for the view command.
// A lone argument starting with "." is a selector and the document comes
// from stdin, as in `cat result.json | ipscope view .malicious`.
func readInput(file, selector string, stdin *os.File) ([]byte, string, error) {
	if selector == "" && strings.HasPrefix(file, ".") {
		if _, err := os.Stat(file); err != nil {
			file, selector = "", file
		}
	}
	if selector == "" {
		selector = "."
	}

	var input []byte
	if file == "" {
		info, err := stdin.Stat()
		if err != nil {
			return nil, "", errors.NewInputError("failed to access stdin", err)
		}
		if (info.Mode() & os.ModeCharDevice) == 0 {
			input, err = io.ReadAll(stdin)
			if err != nil {
				return nil, "", errors.NewInputError("failed to read from stdin", err)
			}
		}
	} else {
		var err error
		input, err = os.ReadFile(file)
		if err != nil {
			return nil, "", errors.NewInputError("failed to read file "+file, err)
		}
	}

	if len(strings.TrimSpace(string(input))) == 0 {
		return nil, "", errors.NewInputError("usage: cat result.json | ipscope view [selector], or ipscope view <file> [selector]", errors.ErrEmptyInput)
	}
	return input, selector, nil
}

func parseInput(input []byte) (jsonvalue.Value, error) {
	v, err := jsonvalue.ParseAny(input)
	if err != nil {
		return jsonvalue.Value{}, errors.NewParsingError("input is not valid JSON or YAML", err)
	}
	return v, nil
}
