package entity

type RequestKind string

const (
	RequestAjuste   RequestKind = "ajuste"
	RequestAtestado RequestKind = "atestado"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// IsTerminal reports whether the request has already been decided.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}

type AttendanceRequest struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	CompanyCode string        `gorm:"not null;index" json:"company_code"`
	Badge       string        `gorm:"not null;index" json:"badge"`
	UserName    string        `gorm:"not null" json:"user_name"`
	Kind        RequestKind   `gorm:"not null" json:"kind"`
	Reason      string        `gorm:"not null" json:"reason"`
	TargetDate  string        `gorm:"not null" json:"target_date"`
	PhotoURL    string        `json:"photo_url"`
	Status      RequestStatus `gorm:"not null;index" json:"status"`
	DecidedBy   string        `json:"decided_by,omitempty"`
	DecidedAt   int64         `json:"decided_at,omitempty"`
	CreatedAt   int64         `gorm:"not null;autoCreateTime:false" json:"created_at"`
}
