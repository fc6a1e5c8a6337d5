package domain

import (
	"errors"
	"time"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrQuotaExceeded   = errors.New("event quota exceeded for plan")
	ErrContactExists   = errors.New("contact already exists")
	ErrContactNotFound = errors.New("contact not found")
)

// TaskStatus is the completion state of a single event task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Task is a unit of preparation work attached to an event.
type Task struct {
	Title     string     `json:"title" bson:"title"`
	Tag       string     `json:"tag" bson:"tag"`
	Status    TaskStatus `json:"status" bson:"status"`
	StartedAt time.Time  `json:"started_at" bson:"started_at"`
}

// Attendee records a single attendance on an event.
type Attendee struct {
	AccountID string `json:"account_id" bson:"account_id"`
	Type      string `json:"type" bson:"type"`
}

// Event is organized by an account and carries its preparation tasks and
// attendee list.
type Event struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	OwnerID     string     `json:"owner_id" bson:"owner_id"`
	Date        time.Time  `json:"date" bson:"date"`
	Tasks       []Task     `json:"tasks,omitempty" bson:"tasks,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty" bson:"attendees,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// Accomplishment returns the percentage of tasks already completed.
// Events without tasks count as fully accomplished.
func (e *Event) Accomplishment() float64 {
	if len(e.Tasks) == 0 {
		return 100
	}
	done := 0
	for _, t := range e.Tasks {
		if t.Status == TaskCompleted {
			done++
		}
	}
	return float64(done) / float64(len(e.Tasks)) * 100
}

// RemainingTasks returns the tasks not yet completed.
func (e *Event) RemainingTasks() []Task {
	var out []Task
	for _, t := range e.Tasks {
		if t.Status != TaskCompleted {
			out = append(out, t)
		}
	}
	return out
}

// Contact links two accounts in each other's contact lists.
type Contact struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	ContactID string    `json:"contact_id" bson:"contact_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
