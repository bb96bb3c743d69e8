package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"tsh/internal/jobs"
	"tsh/internal/sigmask"
)

func (s *Shell) executeBuiltin(args []string) (bool, error) {
	switch args[0] {
	case "quit", "exit":
		s.exit(0)
		return true, nil
	case "jobs":
		s.listJobs()
		return true, nil
	case "bg", "fg":
		return true, s.doBgFg(args)
	case "cd":
		return true, s.changeDirectory(args[1:])
	default:
		return false, nil
	}
}

// doBgFg resumes a job named by pid or %jid. bg continues the process and
// leaves it in the background; fg continues its whole process group and
// waits for it in the foreground.
func (s *Shell) doBgFg(args []string) error {
	name := args[0]

	if len(args) < 2 {
		return fmt.Errorf("%s command requires PID or %%jobid argument", name)
	}

	pid, err := s.resume(name, args[1])
	if err != nil {
		return err
	}

	if name == "fg" {
		s.waitFG(pid)
	}

	return nil
}

func (s *Shell) resume(name, target string) (int, error) {
	g := s.mask.Block(sigmask.All)
	defer g.Restore()

	job, err := s.resolveTarget(name, target)
	if err != nil {
		return 0, err
	}

	switch name {
	case "bg":
		if err := kill(job.PID, syscall.SIGCONT); err != nil {
			return 0, Fatal(fmt.Errorf("kill (%d): %w", job.PID, err))
		}

		if err := s.jobs.SetState(job.PID, jobs.Background); err != nil {
			return 0, err
		}

		s.announce(job.JID, job.PID, job.Cmdline)

	case "fg":
		if err := killpg(job.PID, syscall.SIGCONT); err != nil {
			return 0, Fatal(fmt.Errorf("kill (%d): %w", -job.PID, err))
		}

		if err := s.jobs.SetState(job.PID, jobs.Foreground); err != nil {
			return 0, err
		}
	}

	s.logger.Debug("job resumed", "builtin", name, "jid", job.JID, "pid", job.PID)

	return job.PID, nil
}

// must hold all signals blocked
func (s *Shell) resolveTarget(name, target string) (jobs.Job, error) {
	if jid, ok := strings.CutPrefix(target, "%"); ok {
		n, err := strconv.Atoi(jid)
		if err != nil || n <= 0 {
			return jobs.Job{}, fmt.Errorf("%s: argument must be a PID or %%jobid", name)
		}

		job, ok := s.jobs.FindByJID(n)
		if !ok {
			return jobs.Job{}, fmt.Errorf("%s: No such job", target)
		}

		return job, nil
	}

	pid, err := strconv.Atoi(target)
	if err != nil || pid <= 0 {
		return jobs.Job{}, fmt.Errorf("%s: argument must be a PID or %%jobid", name)
	}

	job, ok := s.jobs.FindByPID(pid)
	if !ok {
		return jobs.Job{}, fmt.Errorf("(%d): No such process", pid)
	}

	return job, nil
}

func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 {
		dir = s.config.HomeDir
	} else {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}
