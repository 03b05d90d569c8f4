package entity

import "time"

type RecordStatus string

const (
	RecordSynchronized RecordStatus = "synchronized"
	RecordPending      RecordStatus = "pending"
)

type PunchType string

const (
	PunchEntrada   PunchType = "entrada"
	PunchIntervalo PunchType = "intervalo"
	PunchRetorno   PunchType = "retorno"
	PunchSaida     PunchType = "saida"
)

func (p PunchType) Valid() bool {
	switch p {
	case PunchEntrada, PunchIntervalo, PunchRetorno, PunchSaida:
		return true
	}
	return false
}

// PointRecord is a single punch. Records are never edited or deleted once
// written.
type PointRecord struct {
	ID               int64        `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CompanyCode      string       `gorm:"not null;index" json:"company_code"`
	UserName         string       `gorm:"not null" json:"user_name"`
	Badge            string       `gorm:"not null;index" json:"badge"`
	Timestamp        time.Time    `gorm:"not null;index" json:"timestamp"`
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	Address          string       `json:"address"`
	FallbackLocation bool         `gorm:"not null;default:false" json:"fallback_location"`
	PhotoURL         string       `json:"photo_url"`
	Status           RecordStatus `gorm:"not null" json:"status"`
	Signature        string       `json:"signature"`
	Type             PunchType    `gorm:"not null" json:"type"`
	Mood             string       `json:"mood"`
}
