package shell

import (
	"bufio"
	"io"

	"github.com/chzyer/readline"
)

type lineReader interface {
	Readline() (string, error)
	Close() error
}

func (s *Shell) newReader() (lineReader, error) {
	if !s.emitPrompt {
		return &scanReader{scanner: bufio.NewScanner(s.input)}, nil
	}

	return readline.NewEx(&readline.Config{
		Prompt:      s.config.Prompt,
		HistoryFile: s.config.HistoryFile,
	})
}

// scanReader reads plain lines, for input that is not a terminal.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Readline() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return r.scanner.Text(), nil
}

func (r *scanReader) Close() error {
	return nil
}
