package shell

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"tsh/internal/jobs"
	"tsh/internal/sigmask"
)

// Each signal gets its own goroutine and a one-slot channel, so a signal
// that arrives while its handler is deferred stays pending exactly once.
func (s *Shell) setupSignalHandling() {
	handlers := map[syscall.Signal]func(*sigmask.Frame){
		syscall.SIGCHLD: s.reapChildren,
		syscall.SIGINT:  s.forwardToForeground(syscall.SIGINT),
		syscall.SIGTSTP: s.forwardToForeground(syscall.SIGTSTP),
		syscall.SIGQUIT: s.quitOnSignal,
	}

	for sig, handler := range handlers {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sig)
		s.signalChans = append(s.signalChans, ch)

		go s.handleSignals(sig, ch, handler)
	}
}

func (s *Shell) stopSignalHandling() {
	for _, ch := range s.signalChans {
		signal.Stop(ch)
		close(ch)
	}
	s.signalChans = nil
}

func (s *Shell) handleSignals(
	sig syscall.Signal,
	ch <-chan os.Signal,
	handler func(*sigmask.Frame),
) {
	for range ch {
		s.mask.Deliver(sig, handler)
	}
}

// reapChildren collects every child that has exited, been killed, stopped
// or continued since the last SIGCHLD, without blocking. Signals coalesce,
// so one delivery may stand for several children.
func (s *Shell) reapChildren(f *sigmask.Frame) {
	for s.reapOne(f) {
	}
}

func (s *Shell) reapOne(f *sigmask.Frame) bool {
	g := f.Block(sigmask.All)
	defer g.Restore()

	var status unix.WaitStatus

	pid, err := unix.Wait4(
		-1,
		&status,
		unix.WNOHANG|unix.WUNTRACED|unix.WCONTINUED,
		nil,
	)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return true
		}
		if !errors.Is(err, unix.ECHILD) {
			s.fatal(Fatal(fmt.Errorf("waitpid error: %w", err)))
		}
		return false
	}

	if pid <= 0 {
		return false
	}

	s.updateJob(pid, status)

	return true
}

// must hold all signals blocked
func (s *Shell) updateJob(pid int, status unix.WaitStatus) {
	job, ok := s.jobs.FindByPID(pid)
	if !ok {
		s.logger.Debug("untracked child", "pid", pid, "status", int(status))
		return
	}

	switch {
	case status.Exited():
		s.jobs.Remove(pid)
		s.logger.Debug("job exited", "jid", job.JID, "pid", pid, "code", status.ExitStatus())

	case status.Signaled():
		fmt.Fprintf(
			s.out,
			"Job [%d] (%d) terminated by signal %d\n",
			job.JID,
			pid,
			int(status.Signal()),
		)
		s.jobs.Remove(pid)

	case status.Stopped():
		fmt.Fprintf(
			s.out,
			"Job [%d] (%d) stopped by signal %d\n",
			job.JID,
			pid,
			int(status.StopSignal()),
		)
		if err := s.jobs.SetState(pid, jobs.Stopped); err != nil {
			s.logger.Debug("stop job", "pid", pid, "err", err)
		}

	case status.Continued():
		// Resumed from outside the shell; bg and fg set the state themselves.
		if job.State == jobs.Stopped {
			if err := s.jobs.SetState(pid, jobs.Background); err != nil {
				s.logger.Debug("continue job", "pid", pid, "err", err)
			}
		}
	}
}

// forwardToForeground passes a terminal signal on to the foreground job's
// process group. Without a foreground job the signal is ignored.
func (s *Shell) forwardToForeground(sig syscall.Signal) func(*sigmask.Frame) {
	return func(f *sigmask.Frame) {
		g := f.Block(sigmask.All)
		defer g.Restore()

		pid, ok := s.jobs.ForegroundPID()
		if !ok {
			return
		}

		s.logger.Debug("forwarding signal", "signal", unix.SignalName(sig), "pid", pid)

		if err := killpg(pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
			s.fatal(Fatal(fmt.Errorf("kill (%d): %w", -pid, err)))
		}
	}
}

func (s *Shell) quitOnSignal(f *sigmask.Frame) {
	g := f.Block(sigmask.All)
	defer g.Restore()

	fmt.Fprintln(s.out, "Terminating after receipt of SIGQUIT signal")
	s.exit(1)
}

// fatal reports err and terminates. It is used where there is no caller to
// return the error to.
func (s *Shell) fatal(err error) {
	fmt.Fprintln(s.errOut, err)
	s.exit(1)
}
