package model

import "time"

// DateLayout is the wire format for calendar dates such as project deadlines.
const DateLayout = "2006-01-02"

const (
	ProjectStatusInProgress   = "In Progress"
	DefaultProjectDescription = "New project Nexaboard"
)

// Project represents a project in the database.
type Project struct {
	ID            string
	Name          string
	Description   string
	TotalProgress int
	Status        string
	ManagerID     string
	ManagerName   string
	TeamIDs       []string
	Deadline      time.Time
	CreatedAt     time.Time
}

// ProjectRequest represents a project creation request.
type ProjectRequest struct {
	Name      string `json:"name"`
	ManagerID string `json:"managerId"`
	Deadline  string `json:"deadline"`
}

// ProjectUpdateRequest carries optional fields; nil means unchanged.
type ProjectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Deadline    *string `json:"deadline"`
}

// ProjectResponse represents project data returned by the API.
type ProjectResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	TotalProgress int    `json:"totalProgress"`
	Status        string `json:"status"`
	ManagerName   string `json:"managerName"`
	ManagerID     string `json:"managerId"`
	Deadline      string `json:"deadline,omitempty"`
	TeamSize      int    `json:"teamSize"`
}

// NewProjectResponse maps a Project to its response shape.
func NewProjectResponse(p *Project) ProjectResponse {
	resp := ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		TotalProgress: p.TotalProgress,
		Status:        p.Status,
		ManagerName:   p.ManagerName,
		ManagerID:     p.ManagerID,
		TeamSize:      len(p.TeamIDs),
	}
	if !p.Deadline.IsZero() {
		resp.Deadline = p.Deadline.Format(DateLayout)
	}
	return resp
}
