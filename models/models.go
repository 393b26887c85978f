package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	TaskTypeHabit  = "habit"
	TaskTypeOneoff = "oneoff"
)

const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// Action categories.
const (
	CategoryHobby    = "hobby"
	CategoryRecovery = "recovery"
	CategoryGrowth   = "growth"
	CategoryLifework = "lifework"
	CategoryOther    = "other"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"unique" json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"default:user" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Task is a habit or a one-off item. DueDate stays null for habits.
type Task struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	Title     string    `json:"title"`
	TaskType  string    `gorm:"size:16;index" json:"task_type"`
	Priority  int       `gorm:"default:3" json:"priority"` // 1-5
	Volume    int       `gorm:"default:5" json:"volume"`   // 1-10
	DueDate   *string   `gorm:"size:10" json:"due_date"`   // YYYY-MM-DD, oneoff only
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsHidden  bool      `gorm:"default:false" json:"is_hidden"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Action is a type of loggable activity, not an occurrence.
// Kind is the canonical display name; Title is a legacy mirror kept in
// sync at the persistence boundary so rows from the old schema keep
// rendering. Engines only ever look at Kind.
type Action struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Category  string    `gorm:"size:16;default:other" json:"category"`
	WantScore int       `gorm:"default:3" json:"want_score"` // 0-5, legacy blend weight
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	IsHidden  bool      `gorm:"default:false" json:"is_hidden"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return a.BeforeSave(tx)
}

// BeforeSave mirrors Kind and Title both ways so both schema generations
// stay readable.
func (a *Action) BeforeSave(tx *gorm.DB) error {
	if a.Kind == "" {
		a.Kind = a.Title
	}
	if a.Title == "" {
		a.Title = a.Kind
	}
	return nil
}

func (a *Action) AfterFind(tx *gorm.DB) error {
	if a.Kind == "" {
		a.Kind = a.Title
	}
	return nil
}

// TaskEntry is one day's completion state for one task.
type TaskEntry struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex:idx_user_day_task" json:"user_id"`
	Day    string `gorm:"size:10;uniqueIndex:idx_user_day_task" json:"day"`
	TaskID string `gorm:"size:36;uniqueIndex:idx_user_day_task" json:"task_id"`
	Status string `gorm:"size:8;default:todo" json:"status"`
}

func (e *TaskEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ActionEntry is one logged occurrence of an action on a given day.
// Several entries per action per day are fine.
type ActionEntry struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;index:idx_entry_user_day" json:"user_id"`
	Day          string    `gorm:"size:10;index:idx_entry_user_day" json:"day"`
	ActionID     string    `gorm:"size:36;index" json:"action_id"`
	Note         *string   `json:"note"`
	Volume       *int      `json:"volume"`       // 1-10
	Satisfaction *int      `json:"satisfaction"` // 1-5, legacy blend input
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *ActionEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// DailyLog is the user review of one day: a free-text note and the
// self-rated fulfillment (1-100, null when unrated).
type DailyLog struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	UserID      string  `gorm:"size:36;uniqueIndex:idx_user_day" json:"user_id"`
	Day         string  `gorm:"size:10;uniqueIndex:idx_user_day" json:"day"`
	Note        *string `json:"note"`
	Fulfillment *int    `json:"fulfillment"`
}

func (d *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
