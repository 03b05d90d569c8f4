package entity

type Employee struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	CompanyCode  string `gorm:"not null;uniqueIndex:idx_employee_company_badge;index" json:"company_code"`
	Badge        string `gorm:"not null;uniqueIndex:idx_employee_company_badge" json:"badge"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `json:"email"`
	Function     string `json:"function"`
	Shift        string `json:"shift"`
	PasswordHash string `gorm:"not null" json:"-"`
	PhotoURL     string `json:"photo_url"`
	Active       bool   `gorm:"not null;default:true" json:"active"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}
