package entity

type RegStatus string

const (
	StatusActive    RegStatus = "ACTIVE"
	StatusClosed    RegStatus = "CLOSED"
	StatusSuspended RegStatus = "SUSPENDED"
	StatusUnfit     RegStatus = "UNFIT"
	StatusUnknown   RegStatus = "UNKNOWN"
)

// CNPJLookup caches what the federal registry returned for a CNPJ, so the
// company profile screen can auto-fill legal fields.
type CNPJLookup struct {
	CNPJ                string `gorm:"primaryKey;column:cnpj"`
	LegalName           string
	TradeName           string
	RegStatus           RegStatus
	AddressStreet       string
	AddressNumber       string
	AddressNeighborhood string
	AddressCity         string
	AddressState        string
	AddressZipCode      string

	// Found controls negative caching: false means the registry answered 404
	// and the CNPJ must not be queried again until the entry expires.
	Found    bool  `gorm:"not null"`
	CachedAt int64 `gorm:"autoUpdateTime:false;index"`

	Partners []*CNPJPartner `gorm:"foreignKey:LookupCNPJ;references:CNPJ;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type CNPJPartner struct {
	ID         int    `gorm:"primaryKey"`
	LookupCNPJ string `gorm:"uniqueIndex:idx_cnpj_partner_name;index"`
	Name       string `gorm:"uniqueIndex:idx_cnpj_partner_name"`
	Role       string
}
