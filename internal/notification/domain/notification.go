package domain

import "time"

// Notification is one row of the backend notifications table.
type Notification struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institution_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Priority      string    `json:"priority"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	ActionURL     *string   `json:"action_url,omitempty"`
	ActionLabel   *string   `json:"action_label,omitempty"`
}

// Snapshot is what the bell dropdown renders: newest first plus the unread counter.
type Snapshot struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unread_count"`
}

type UnreadCount struct {
	Count int `json:"count"`
}
