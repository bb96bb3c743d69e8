package shell

import (
	"time"

	"tsh/internal/jobs"
	"tsh/internal/sigmask"
)

// waitFG blocks until pid is no longer the foreground job. The mask is only
// held while the table is read, never while sleeping, so the reaper can run
// in between.
func (s *Shell) waitFG(pid int) {
	for s.isForeground(pid) {
		time.Sleep(s.config.PollInterval)
	}
}

func (s *Shell) isForeground(pid int) bool {
	g := s.mask.Block(sigmask.All)
	defer g.Restore()

	fg, ok := s.jobs.ForegroundPID()
	if !ok || fg != pid {
		return false
	}

	job, ok := s.jobs.FindByPID(pid)

	return ok && job.State == jobs.Foreground
}
