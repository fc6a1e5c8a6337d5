package handler

import (
	"time"

	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

type taskRequest struct {
	Title     string    `json:"title" validate:"required"`
	Tag       string    `json:"tag"`
	Status    string    `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	StartedAt time.Time `json:"startedAt"`
}

type createEventRequest struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Date        time.Time     `json:"date" validate:"required"`
	Tasks       []taskRequest `json:"tasks" validate:"dive"`
}

type updateEventRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Location    *string       `json:"location"`
	Date        *time.Time    `json:"date"`
	Tasks       []taskRequest `json:"tasks" validate:"dive"`
}

type taskResponse struct {
	Title     string    `json:"title"`
	Tag       string    `json:"tag,omitempty"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
}

type attendeeResponse struct {
	AccountID string `json:"accountId"`
	Type      string `json:"type"`
}

type eventResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Location    string             `json:"location,omitempty"`
	OwnerID     string             `json:"ownerId"`
	Date        time.Time          `json:"date"`
	Tasks       []taskResponse     `json:"tasks,omitempty"`
	Attendees   []attendeeResponse `json:"attendees,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type attendanceResponse struct {
	EventID string           `json:"eventId"`
	Total   int64            `json:"total"`
	ByType  map[string]int64 `json:"byType,omitempty"`
}

type nextDateResponse struct {
	NextEventDate time.Time `json:"nextEventDate"`
}

type taskReportResponse struct {
	Accomplishment  float64            `json:"accomplishment"`
	RemainingTotal  int                `json:"remainingTotal"`
	RemainingTitles []string           `json:"remainingTitles,omitempty"`
	TagPercentages  map[string]float64 `json:"tagPercentages,omitempty"`
}

func toTaskInputs(reqs []taskRequest) []ports.TaskInput {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]ports.TaskInput, 0, len(reqs))
	for _, t := range reqs {
		out = append(out, ports.TaskInput{
			Title:     t.Title,
			Tag:       t.Tag,
			Status:    t.Status,
			StartedAt: t.StartedAt,
		})
	}
	return out
}

func toEventResponse(e *domain.Event) eventResponse {
	resp := eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		OwnerID:     e.OwnerID,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
	for _, t := range e.Tasks {
		resp.Tasks = append(resp.Tasks, taskResponse{
			Title:     t.Title,
			Tag:       t.Tag,
			Status:    string(t.Status),
			StartedAt: t.StartedAt,
		})
	}
	for _, a := range e.Attendees {
		resp.Attendees = append(resp.Attendees, attendeeResponse{
			AccountID: a.AccountID,
			Type:      a.Type,
		})
	}
	return resp
}
