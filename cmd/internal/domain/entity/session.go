package entity

// Session is the logged-in identity. The row existing is what makes a token
// valid: logout deletes it.
type Session struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Email       string
	Role        Role   `gorm:"not null"`
	CompanyCode string `gorm:"not null;index"`
	Badge       string
	PhotoURL    string
	ActiveView  string
	ExpiresAt   int64 `gorm:"not null;index"`
	CreatedAt   int64 `gorm:"not null;autoCreateTime:false"`
}
