package model

import "time"

// DefaultMessageType is used when a message is posted without a type.
// Known types are "message", "decision" and "announcement".
const DefaultMessageType = "message"

// Message represents a project channel message in the database.
type Message struct {
	ID          string
	SenderID    string
	SenderName  string
	SenderRole  string
	Content     string
	Type        string
	ProjectID   string
	ProjectName string
	CreatedAt   time.Time
}

// MessageRequest represents a message creation request.
type MessageRequest struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
}

// MessageResponse represents message data returned by the API.
type MessageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	SenderRole  string    `json:"senderRole"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewMessageResponse maps a Message to its response shape.
func NewMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		SenderRole:  m.SenderRole,
		Content:     m.Content,
		Type:        m.Type,
		ProjectID:   m.ProjectID,
		ProjectName: m.ProjectName,
		CreatedAt:   m.CreatedAt,
	}
}

// Stats holds the dashboard counters.
type Stats struct {
	Projects int64 `json:"projects"`
	Members  int64 `json:"members"`
	Messages int64 `json:"messages"`
}
