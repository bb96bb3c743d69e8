// Package cmdline splits a shell input line into an argument vector.
package cmdline

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// BackgroundMarker ends a command line that should run in the background.
const BackgroundMarker = "&"

// Parse tokenizes line. Quoted runs are kept as one argument. A trailing
// token starting with BackgroundMarker is removed and reported as bg.
func Parse(line string) (argv []string, bg bool, err error) {
	argv, err = shellquote.Split(line)
	if err != nil {
		return nil, false, fmt.Errorf("error parsing command: %w", err)
	}

	if len(argv) == 0 {
		return nil, false, nil
	}

	if last := argv[len(argv)-1]; strings.HasPrefix(last, BackgroundMarker) {
		bg = true
		argv = argv[:len(argv)-1]
	}

	return argv, bg, nil
}
