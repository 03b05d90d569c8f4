package contract

type EmployeeLoginRequest struct {
	CompanyCode string `json:"company_code" validate:"required,min=3,max=20,nospaces"`
	Badge       string `json:"badge" validate:"required,badge"`
	Password    string `json:"password" validate:"required,min=4,max=64"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type TotemLoginRequest struct {
	CompanyCode string `json:"company_code" validate:"required,min=3,max=20,nospaces"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// AdminSignupRequest creates a new company together with its administrator.
type AdminSignupRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=120"`
	AdminName   string `json:"admin_name" validate:"required,min=2,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=64,hasdigit,hasletter"`
	CNPJ        string `json:"cnpj" validate:"omitempty,cnpj"`
}

type ChangeViewRequest struct {
	View string `json:"view" validate:"required"`
}

type SessionResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt string       `json:"expires_at"`
	User      *UserSession `json:"user"`
}

// UserSession is the logged in identity as the client sees it.
type UserSession struct {
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role"`
	CompanyCode string   `json:"company_code"`
	Badge       string   `json:"badge,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	ActiveView  string   `json:"active_view"`
	Reachable   []string `json:"reachable_views"`
}
