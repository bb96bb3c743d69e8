package shell

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// startProcess runs argv in a new process group headed by the child, so
// terminal signals aimed at the shell's group never reach it directly. The
// child starts with the default signal mask. Its exit is collected by
// reapChildren, never by exec.Cmd.Wait.
func (s *Shell) startProcess(argv []string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid

	// Drops the process handle only; the child keeps running.
	if err := cmd.Process.Release(); err != nil {
		s.logger.Debug("release process handle", "pid", pid, "err", err)
	}

	return pid, nil
}

// isResourceError reports whether a failed start was the fork itself
// rather than the command.
func isResourceError(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}

func kill(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}

// killpg signals the process group led by pid.
func killpg(pid int, sig syscall.Signal) error {
	return unix.Kill(-pid, sig)
}
