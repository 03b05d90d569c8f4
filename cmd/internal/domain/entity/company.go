package entity

import "sort"

type HolidayType string

const (
	HolidayFeriado HolidayType = "feriado"
	HolidayParada  HolidayType = "parada"
)

// Holiday lives embedded in its company. Date is always stored in the
// canonical YYYY-MM-DD form.
type Holiday struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Type        HolidayType `json:"type"`
}

// HolidaySet is kept ordered by date.
type HolidaySet []Holiday

func (s HolidaySet) Sorted() HolidaySet {
	out := make(HolidaySet, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

func (s HolidaySet) FindByDate(date string) (Holiday, bool) {
	for _, h := range s {
		if h.Date == date {
			return h, true
		}
	}
	return Holiday{}, false
}

// Company is the tenant. Its ID is the access code employees type at login.
type Company struct {
	ID                  string    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	CNPJ                string    `gorm:"column:cnpj;index" json:"cnpj"`
	LegalName           string    `json:"legal_name"`
	RegStatus           RegStatus `json:"registration_status"`
	AddressStreet       string    `json:"address_street"`
	AddressNumber       string    `json:"address_number"`
	AddressNeighborhood string    `json:"address_neighborhood"`
	AddressCity         string    `json:"address_city"`
	AddressState        string    `json:"address_state"`
	AddressZipCode      string    `json:"address_zip_code"`
	LogoURL             string    `json:"logo_url"`

	AdminName         string `gorm:"not null" json:"admin_name"`
	AdminEmail        string `gorm:"not null;uniqueIndex" json:"admin_email"`
	AdminPasswordHash string `json:"-"`
	TotemSecret       string `json:"-"`

	Holidays HolidaySet `gorm:"type:text;serializer:json" json:"holidays"`

	GeofenceEnabled bool    `gorm:"not null;default:false" json:"geofence_enabled"`
	GeofenceLat     float64 `json:"geofence_lat"`
	GeofenceLng     float64 `json:"geofence_lng"`
	GeofenceRadius  float64 `json:"geofence_radius"`

	WeeklyHours      int `gorm:"not null;default:44" json:"weekly_hours"`
	ToleranceMinutes int `gorm:"not null;default:10" json:"tolerance_minutes"`
	OvertimePercent  int `gorm:"not null;default:50" json:"overtime_percent"`

	CreatedAt int64 `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}
