package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xtamtamx/pickaxe-rcon/internal/console"
)

// ConsoleClient is the slice of the console bridge the scheduler needs.
// Tasks only ever send commands and create backups.
type ConsoleClient interface {
	SendCommand(ctx context.Context, command string) console.CommandResult
	CreateBackup(ctx context.Context, name string) console.BackupResult
}

// Scheduler arms persisted tasks on a cron engine and executes them.
// Task mutations and their persistence happen under one lock, so the
// file on disk never disagrees with the in-memory schedule.
type Scheduler struct {
	client       ConsoleClient
	store        *Store
	cron         *cron.Cron
	backupSettle time.Duration
	cmdTimeout   time.Duration

	mu      sync.Mutex // guards tasks and entries, held across persist
	tasks   map[string]*Task
	entries map[string]cron.EntryID
}

// New builds a scheduler over the given console client and task store.
// backupSettle is the pause between save-all and the archive step of a
// @backup task.
func New(client ConsoleClient, store *Store, backupSettle, cmdTimeout time.Duration) *Scheduler {
	logger := cron.PrintfLogger(log.New(log.Writer(), "[scheduler] ", log.LstdFlags))
	return &Scheduler{
		client: client,
		store:  store,
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		)),
		backupSettle: backupSettle,
		cmdTimeout:   cmdTimeout,
		tasks:        map[string]*Task{},
		entries:      map[string]cron.EntryID{},
	}
}

// Start loads persisted tasks, arms the enabled ones and starts the
// cron engine. Tasks that fail to arm are logged and left disabled on
// the engine but keep their persisted state.
func (s *Scheduler) Start() error {
	tasks, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = tasks
	for id, task := range s.tasks {
		if !task.Enabled {
			continue
		}
		if err := s.arm(id, task); err != nil {
			log.Printf("[scheduler] failed to arm task %s (%s): %v", id, task.Name, err)
		}
	}

	s.cron.Start()
	log.Printf("[scheduler] started with %d tasks (%d armed)", len(s.tasks), len(s.entries))
	return nil
}

// Stop halts the cron engine and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("[scheduler] stopped")
}

// AddTask creates, persists and (if enabled) arms a new task. Zero or
// negative intervals default to 60 minutes; an empty cron spec defaults
// to hourly.
func (s *Scheduler) AddTask(name, command, scheduleType string, intervalMinutes float64, cronSpec string) (*Task, error) {
	if name == "" || command == "" {
		return nil, fmt.Errorf("task name and command are required")
	}

	task := &Task{
		Name:         name,
		Command:      command,
		ScheduleType: scheduleType,
		Enabled:      true,
		Created:      time.Now().UTC(),
	}

	switch scheduleType {
	case ScheduleInterval:
		if intervalMinutes <= 0 {
			intervalMinutes = 60
		}
		task.IntervalMinutes = intervalMinutes
	case ScheduleCron:
		if cronSpec == "" {
			cronSpec = "0 * * * *"
		}
		if _, err := cron.ParseStandard(cronSpec); err != nil {
			return nil, fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
		}
		task.Cron = cronSpec
	default:
		return nil, fmt.Errorf("unknown schedule type %q", scheduleType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = fmt.Sprintf("task_%d", time.Now().UnixNano())
	s.tasks[task.ID] = task
	if err := s.store.Save(s.tasks); err != nil {
		delete(s.tasks, task.ID)
		return nil, err
	}

	if err := s.arm(task.ID, task); err != nil {
		log.Printf("[scheduler] failed to arm task %s: %v", task.ID, err)
	}

	log.Printf("[scheduler] added task %s (%s)", task.ID, task.Name)
	return task, nil
}

// RemoveTask disarms and deletes a task. Returns false when the ID is
// unknown.
func (s *Scheduler) RemoveTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false
	}

	s.disarm(id)
	delete(s.tasks, id)
	if err := s.store.Save(s.tasks); err != nil {
		log.Printf("[scheduler] failed to persist task removal: %v", err)
	}

	log.Printf("[scheduler] removed task %s (%s)", id, task.Name)
	return true
}

// ToggleTask enables or disables a task. Toggling to the current state
// is a no-op beyond persistence; a task is never double-armed.
func (s *Scheduler) ToggleTask(id string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false
	}

	task.Enabled = enabled
	if enabled {
		if _, armed := s.entries[id]; !armed {
			if err := s.arm(id, task); err != nil {
				log.Printf("[scheduler] failed to arm task %s: %v", id, err)
			}
		}
	} else {
		s.disarm(id)
	}

	if err := s.store.Save(s.tasks); err != nil {
		log.Printf("[scheduler] failed to persist task toggle: %v", err)
	}
	return true
}

// GetTasks returns a snapshot of all tasks keyed by ID
func (s *Scheduler) GetTasks() map[string]Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Task, len(s.tasks))
	for id, task := range s.tasks {
		out[id] = *task
	}
	return out
}

// GetTask returns a snapshot of one task
func (s *Scheduler) GetTask(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// arm registers the task with the cron engine. Callers hold the lock.
func (s *Scheduler) arm(id string, task *Task) error {
	var schedule cron.Schedule
	switch task.ScheduleType {
	case ScheduleInterval:
		minutes := task.IntervalMinutes
		if minutes <= 0 {
			minutes = 60
		}
		schedule = cron.Every(time.Duration(minutes * float64(time.Minute)))
	case ScheduleCron:
		parsed, err := cron.ParseStandard(task.Cron)
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", task.Cron, err)
		}
		schedule = parsed
	default:
		return fmt.Errorf("unknown schedule type %q", task.ScheduleType)
	}

	s.entries[id] = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.executeTask(id)
	}))
	return nil
}

// disarm removes the task's cron entry if armed. Callers hold the lock.
func (s *Scheduler) disarm(id string) {
	if entry, ok := s.entries[id]; ok {
		s.cron.Remove(entry)
		delete(s.entries, id)
	}
}

// executeTask runs one firing of a task. Failures are logged, never
// propagated; a broken command must not disarm the schedule.
func (s *Scheduler) executeTask(id string) {
	s.mu.Lock()
	task, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	name, command := task.Name, task.Command
	s.mu.Unlock()

	log.Printf("[scheduler] running task %s (%s)", id, name)
	ctx, cancel := context.WithTimeout(context.Background(), s.cmdTimeout+s.backupSettle+time.Minute)
	defer cancel()

	// Sentinel match is case- and whitespace-insensitive so a hand-edited
	// tasks file still triggers the backup path.
	if strings.EqualFold(strings.TrimSpace(command), BackupSentinel) {
		s.runBackup(ctx, name)
	} else {
		s.runCommands(ctx, name, command)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.tasks[id]; ok {
		now := time.Now().UTC()
		task.LastRun = &now
		if err := s.store.Save(s.tasks); err != nil {
			log.Printf("[scheduler] failed to persist last run: %v", err)
		}
	}
}

// runBackup flushes the world to disk, waits for the save to settle,
// then archives it.
func (s *Scheduler) runBackup(ctx context.Context, name string) {
	res := s.client.SendCommand(ctx, "save-all")
	if !res.Success {
		log.Printf("[scheduler] task %q: save-all failed: %s", name, res.Error)
	}

	time.Sleep(s.backupSettle)

	backup := s.client.CreateBackup(ctx, fmt.Sprintf("auto_%s", time.Now().Format("20060102_150405")))
	if !backup.Success {
		log.Printf("[scheduler] task %q: backup failed: %s", name, backup.Error)
		return
	}
	log.Printf("[scheduler] task %q: created %s", name, backup.Filename)
}

// runCommands dispatches each sub-command that passes the safety gate.
// An unsafe sub-command is skipped without stopping its siblings.
func (s *Scheduler) runCommands(ctx context.Context, name, command string) {
	for _, sub := range SplitCommands(command) {
		if !IsSafe(sub) {
			log.Printf("[scheduler] task %q: skipping unsafe command %q", name, sub)
			continue
		}
		if res := s.client.SendCommand(ctx, sub); !res.Success {
			log.Printf("[scheduler] task %q: command %q failed: %s", name, sub, res.Error)
		}
	}
}
