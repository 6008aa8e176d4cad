package scheduler

import "time"

// ScheduleType values for Task.ScheduleType
const (
	ScheduleInterval = "interval"
	ScheduleCron     = "cron"
)

// BackupSentinel is the reserved command meaning "run the backup sequence"
// instead of sending console commands.
const BackupSentinel = "@backup"

// MultiCommandSeparator joins multiple console commands in one task.
const MultiCommandSeparator = " && "

// Task is a persistent unit of scheduled work. The ID is assigned at
// creation and never changes.
type Task struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Command         string     `json:"command"`
	ScheduleType    string     `json:"schedule_type"`
	IntervalMinutes float64    `json:"interval_minutes,omitempty"`
	Cron            string     `json:"cron,omitempty"`
	Enabled         bool       `json:"enabled"`
	Created         time.Time  `json:"created"`
	LastRun         *time.Time `json:"last_run"`
}
