package shell

import (
	"fmt"

	"tsh/internal/jobs"
	"tsh/internal/sigmask"
)

// addJob registers a freshly started child and announces it when it runs
// in the background.
func (s *Shell) addJob(pid int, state jobs.State, text string) error {
	g := s.mask.Block(sigmask.All)
	defer g.Restore()

	jid, err := s.jobs.Register(pid, state, text)
	if err != nil {
		return err
	}

	s.logger.Debug("job added", "jid", jid, "pid", pid, "state", state)

	if state == jobs.Background {
		s.announce(jid, pid, text)
	}

	return nil
}

func (s *Shell) announce(jid, pid int, text string) {
	fmt.Fprintf(s.out, "[%d] (%d) %s\n", jid, pid, text)
}

func (s *Shell) listJobs() {
	g := s.mask.Block(sigmask.All)
	defer g.Restore()

	for _, job := range s.jobs.List() {
		fmt.Fprintf(s.out, "[%d] (%d) %s %s\n", job.JID, job.PID, job.State, job.Cmdline)
	}
}
