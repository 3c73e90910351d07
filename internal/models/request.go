package models

type UpdateJobRequest struct {
	Status      *JobStatus `json:"status,omitempty" example:"in_progress"`
	Notes       *string    `json:"notes,omitempty"`
	Description *string    `json:"description,omitempty"`
}

func (r UpdateJobRequest) Patch() JobPatch {
	return JobPatch{
		Status:      r.Status,
		Notes:       r.Notes,
		Description: r.Description,
	}
}

type CreateMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// NetworkRequest is the host's connectivity report.
type NetworkRequest struct {
	Online *bool `json:"online" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
