// Package shell implements the job-control core of tsh: the read loop,
// command dispatch, builtins and the asynchronous reaping of children.
//
// The job table is shared by the main flow and the signal handlers. Every
// access goes through the shell's sigmask.Mask with the relevant signals
// blocked, see Eval and reapChildren.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"tsh/internal/cmdline"
	"tsh/internal/config"
	"tsh/internal/jobs"
	"tsh/internal/sigmask"
)

type Options struct {
	Logger *slog.Logger

	// EmitPrompt reads lines with readline and a prompt. Otherwise lines are
	// read from Input without any prompt.
	EmitPrompt bool
	Input      io.Reader

	// Out receives job announcements and listings, Err receives error
	// messages.
	Out io.Writer
	Err io.Writer

	// Standard streams handed to every child.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Exit terminates the shell. Defaults to os.Exit.
	Exit func(code int)
}

type Shell struct {
	config *config.Config
	logger *slog.Logger
	jobs   *jobs.Table
	mask   *sigmask.Mask

	emitPrompt bool
	input      io.Reader
	out        io.Writer
	errOut     io.Writer

	stdin  *os.File
	stdout *os.File
	stderr *os.File

	signalChans []chan os.Signal
	exit        func(int)
}

func New(cfg *config.Config, opts Options) (*Shell, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	s := &Shell{
		config:     cfg,
		logger:     opts.Logger,
		jobs:       jobs.NewTable(cfg.MaxJobs),
		mask:       sigmask.New(),
		emitPrompt: opts.EmitPrompt,
		input:      opts.Input,
		out:        opts.Out,
		errOut:     opts.Err,
		stdin:      opts.Stdin,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		exit:       opts.Exit,
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if s.input == nil {
		s.input = os.Stdin
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.errOut == nil {
		s.errOut = os.Stderr
	}
	if s.stdin == nil {
		s.stdin = os.Stdin
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.exit == nil {
		s.exit = os.Exit
	}

	s.setupSignalHandling()

	return s, nil
}

// Close stops signal handling. Children that are still running are left
// alone.
func (s *Shell) Close() {
	s.stopSignalHandling()
}

// Run reads and evaluates lines until end of input. It returns nil on end
// of input and the error for any fatal condition.
func (s *Shell) Run() error {
	reader, err := s.newReader()
	if err != nil {
		return fmt.Errorf("error initializing reader: %w", err)
	}
	defer reader.Close()

	for {
		line, err := reader.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return Fatal(fmt.Errorf("read: %w", err))
		}

		if err := s.Eval(line); err != nil {
			fmt.Fprintln(s.errOut, err)

			if IsFatal(err) {
				return err
			}
		}
	}
}

// Eval evaluates one command line. Builtins run immediately. Anything else
// is started as a child in its own process group and tracked as a job; the
// call returns once a foreground job has exited or stopped, or right away
// for a background job.
func (s *Shell) Eval(line string) error {
	argv, bg, err := cmdline.Parse(line)
	if err != nil {
		return err
	}

	if len(argv) == 0 {
		return nil
	}

	if ok, err := s.executeBuiltin(argv); ok {
		return err
	}

	text := strings.TrimRight(line, "\r\n")

	pid, err := s.launch(argv, bg, text)
	if err != nil || pid == 0 {
		return err
	}

	if !bg {
		s.waitFG(pid)
	}

	return nil
}

// launch starts argv and registers it. SIGCHLD stays blocked from before the
// child exists until it is in the job table, so the reaper can never see a
// child it does not know about. A pid of 0 with a nil error means the
// command could not be executed.
func (s *Shell) launch(argv []string, bg bool, text string) (int, error) {
	chld := s.mask.Block(sigmask.Of(syscall.SIGCHLD))
	defer chld.Restore()

	pid, err := s.startProcess(argv)
	if err != nil {
		if isResourceError(err) {
			return 0, Fatal(fmt.Errorf("fork: %w", err))
		}

		s.logger.Debug("exec failed", "argv", argv, "err", err)
		s.notFound(argv[0])

		return 0, nil
	}

	state := jobs.Foreground
	if bg {
		state = jobs.Background
	}

	if err := s.addJob(pid, state, text); err != nil {
		// The shell is about to exit; don't leave an untracked child behind.
		_ = killpg(pid, syscall.SIGKILL)

		return 0, Fatal(fmt.Errorf("add job %d: %w", pid, err))
	}

	return pid, nil
}

func (s *Shell) notFound(name string) {
	g := s.mask.Block(sigmask.All)
	defer g.Restore()

	fmt.Fprintf(s.out, "%s: Command not found\n", name)
}

// Jobs returns a snapshot of the job table ordered by job id.
func (s *Shell) Jobs() []jobs.Job {
	g := s.mask.Block(sigmask.All)
	defer g.Restore()

	return s.jobs.List()
}
