package contract

type CreateAttendanceRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=ajuste atestado"`
	Reason     string `json:"reason" validate:"required,min=3,max=1000"`
	TargetDate string `json:"target_date" validate:"required,holidaydate"`
	Photo      string `json:"photo" validate:"omitempty"`
}

type DecideRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type AttendanceRequestResponse struct {
	ID         string `json:"id"`
	Badge      string `json:"badge"`
	UserName   string `json:"user_name"`
	Kind       string `json:"kind"`
	Reason     string `json:"reason"`
	TargetDate string `json:"target_date"`
	PhotoURL   string `json:"photo_url,omitempty"`
	Status     string `json:"status"`
	DecidedBy  string `json:"decided_by,omitempty"`
	DecidedAt  string `json:"decided_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}
