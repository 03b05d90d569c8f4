package contract

type UpdateCompanyRequest struct {
	Name                *string  `json:"name" validate:"omitempty,min=2,max=120"`
	CNPJ                *string  `json:"cnpj" validate:"omitempty,cnpj"`
	AddressStreet       *string  `json:"address_street" validate:"omitempty,max=120"`
	AddressNumber       *string  `json:"address_number" validate:"omitempty,max=20"`
	AddressNeighborhood *string  `json:"address_neighborhood" validate:"omitempty,max=80"`
	AddressCity         *string  `json:"address_city" validate:"omitempty,max=80"`
	AddressState        *string  `json:"address_state" validate:"omitempty,len=2"`
	AddressZipCode      *string  `json:"address_zip_code" validate:"omitempty,max=9"`
	Logo                *string  `json:"logo" validate:"omitempty"`
	GeofenceEnabled     *bool    `json:"geofence_enabled"`
	GeofenceLat         *float64 `json:"geofence_lat" validate:"omitempty,latitude"`
	GeofenceLng         *float64 `json:"geofence_lng" validate:"omitempty,longitude"`
	GeofenceRadius      *float64 `json:"geofence_radius" validate:"omitempty,gt=0,lte=50000"`
	WeeklyHours         *int     `json:"weekly_hours" validate:"omitempty,min=1,max=60"`
	ToleranceMinutes    *int     `json:"tolerance_minutes" validate:"omitempty,min=0,max=60"`
	OvertimePercent     *int     `json:"overtime_percent" validate:"omitempty,min=0,max=200"`
}

type HolidayRequest struct {
	Date        string `json:"date" validate:"required,holidaydate"`
	Description string `json:"description" validate:"required,min=2,max=120"`
	Type        string `json:"type" validate:"required,oneof=feriado parada"`
}

type TotemSecretResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

type TotemCodeResponse struct {
	Code string `json:"code"`
}

type LookupResponse struct {
	CNPJ      string             `json:"cnpj"`
	LegalName string             `json:"legal_name"`
	TradeName string             `json:"trade_name"`
	RegStatus string             `json:"registration_status"`
	Address   *LookupAddress     `json:"address"`
	Partners  []*PartnerResponse `json:"qsa"`
	Cached    bool               `json:"cached"`
}

type LookupAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

type PartnerResponse struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type DashboardResponse struct {
	CompanyName     string   `json:"company_name"`
	ActiveEmployees int      `json:"active_employees"`
	PunchesToday    int      `json:"punches_today"`
	PresentNow      []string `json:"present_now"`
	PendingRecords  int      `json:"pending_records"`
	TodayIsHoliday  bool     `json:"today_is_holiday"`
	HolidayName     string   `json:"holiday_name,omitempty"`
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type GeofenceResponse struct {
	Enabled bool    `json:"enabled"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Radius  float64 `json:"radius"`
}

type CompanyResponse struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	CNPJ             string             `json:"cnpj"`
	LegalName        string             `json:"legal_name"`
	RegStatus        string             `json:"registration_status"`
	Address          *LookupAddress     `json:"address"`
	LogoURL          string             `json:"logo_url,omitempty"`
	AdminName        string             `json:"admin_name"`
	AdminEmail       string             `json:"admin_email,omitempty"`
	Holidays         []*HolidayResponse `json:"holidays"`
	Geofence         *GeofenceResponse  `json:"geofence"`
	WeeklyHours      int                `json:"weekly_hours"`
	ToleranceMinutes int                `json:"tolerance_minutes"`
	OvertimePercent  int                `json:"overtime_percent"`
	UpdatedAt        string             `json:"updated_at"`
}
