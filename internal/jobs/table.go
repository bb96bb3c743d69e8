// Package jobs holds the shell's job table.
//
// The table performs no locking of its own. Every caller is expected to
// hold the shell's notification mask for the duration of an operation, see
// package sigmask.
package jobs

import (
	"slices"
)

const DefaultCapacity = 16

type Job struct {
	PID     int
	JID     int
	State   State
	Cmdline string
}

type Table struct {
	byJID    map[int]*Job
	byPID    map[int]*Job
	capacity int
}

func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Table{
		byJID:    make(map[int]*Job, capacity),
		byPID:    make(map[int]*Job, capacity),
		capacity: capacity,
	}
}

// Register adds a job for pid and returns its job id, the smallest positive
// integer not held by another tracked job.
func (t *Table) Register(pid int, state State, cmdline string) (int, error) {
	if pid <= 0 {
		return 0, ErrInvalidPID
	}
	if state == Undefined || state > Stopped {
		return 0, InvalidStateError{State: state}
	}
	if _, ok := t.byPID[pid]; ok {
		return 0, ErrDuplicatePID
	}
	if len(t.byJID) >= t.capacity {
		return 0, ErrTableFull
	}
	if state == Foreground {
		if _, ok := t.ForegroundPID(); ok {
			return 0, ErrForegroundTaken
		}
	}

	jid := 1
	for t.byJID[jid] != nil {
		jid++
	}

	job := &Job{
		PID:     pid,
		JID:     jid,
		State:   state,
		Cmdline: cmdline,
	}
	t.byJID[jid] = job
	t.byPID[pid] = job

	return jid, nil
}

func (t *Table) Remove(pid int) bool {
	job, ok := t.byPID[pid]
	if !ok {
		return false
	}

	delete(t.byPID, pid)
	delete(t.byJID, job.JID)

	return true
}

// FindByPID returns a copy of the job tracking pid.
func (t *Table) FindByPID(pid int) (Job, bool) {
	job, ok := t.byPID[pid]
	if !ok {
		return Job{}, false
	}

	return *job, true
}

// FindByJID returns a copy of the job with id jid.
func (t *Table) FindByJID(jid int) (Job, bool) {
	job, ok := t.byJID[jid]
	if !ok {
		return Job{}, false
	}

	return *job, true
}

func (t *Table) ForegroundPID() (int, bool) {
	for _, job := range t.byPID {
		if job.State == Foreground {
			return job.PID, true
		}
	}

	return 0, false
}

// SetState transitions the job tracking pid. Moving a job into Foreground
// while another job holds it returns ErrForegroundTaken.
func (t *Table) SetState(pid int, state State) error {
	if state == Undefined || state > Stopped {
		return InvalidStateError{State: state}
	}

	job, ok := t.byPID[pid]
	if !ok {
		return ErrJobNotFound
	}

	if state == Foreground {
		if fg, ok := t.ForegroundPID(); ok && fg != pid {
			return ErrForegroundTaken
		}
	}

	job.State = state

	return nil
}

// List returns a snapshot of every tracked job ordered by job id.
func (t *Table) List() []Job {
	list := make([]Job, 0, len(t.byJID))
	jids := make([]int, 0, len(t.byJID))
	for jid := range t.byJID {
		jids = append(jids, jid)
	}
	slices.Sort(jids)
	for _, jid := range jids {
		list = append(list, *t.byJID[jid])
	}

	return list
}

func (t *Table) Len() int {
	return len(t.byJID)
}

func (t *Table) Cap() int {
	return t.capacity
}
