package contract

// MaxPhotoSizeBytes bounds decoded photo payloads (punch selfies, request
// attachments, logos).
const MaxPhotoSizeBytes = 5 * 1024 * 1024

type PunchRequest struct {
	// Badge is only honoured for totem sessions, which punch for others.
	Badge     string   `json:"badge" validate:"omitempty,badge"`
	Password  string   `json:"password" validate:"omitempty,max=64"`
	Type      string   `json:"type" validate:"omitempty,oneof=entrada intervalo retorno saida"`
	Photo     string   `json:"photo" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Address   string   `json:"address" validate:"omitempty,max=200"`
	Signature string   `json:"signature" validate:"omitempty"`
	Mood      string   `json:"mood" validate:"omitempty,max=20"`
}

type RecordResponse struct {
	ID               string  `json:"id"`
	UserName         string  `json:"user_name"`
	Badge            string  `json:"badge"`
	Timestamp        string  `json:"timestamp"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Address          string  `json:"address"`
	FallbackLocation bool    `json:"fallback_location"`
	PhotoURL         string  `json:"photo_url"`
	Mood             string  `json:"mood,omitempty"`
}

type SlotResponse struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Time  string `json:"time"`
	Done  bool   `json:"done"`
}

type TimelineResponse struct {
	Date          string          `json:"date"`
	Slots         []*SlotResponse `json:"slots"`
	NextType      string          `json:"next_type"`
	WorkedMinutes int             `json:"worked_minutes"`
	Holiday       string          `json:"holiday,omitempty"`
}

type DayGroupResponse struct {
	Day     string            `json:"day"`
	Records []*RecordResponse `json:"records"`
}

// DeviceMetadata is the JSON snapshot exported from the profile screen.
type DeviceMetadata struct {
	GeneratedAt string       `json:"generated_at"`
	User        *UserSession `json:"user"`
	UserAgent   string       `json:"user_agent"`
	RemoteIP    string       `json:"remote_ip"`
	Records     int          `json:"records"`
	LastPunch   string       `json:"last_punch,omitempty"`
}
