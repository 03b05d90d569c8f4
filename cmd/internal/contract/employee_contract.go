package contract

type CreateEmployeeRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Badge    string `json:"badge" validate:"required,badge"`
	Email    string `json:"email" validate:"omitempty,email"`
	Function string `json:"function" validate:"required,max=80"`
	Shift    string `json:"shift" validate:"required,max=40"`
	Password string `json:"password" validate:"required,min=4,max=64"`
	Photo    string `json:"photo" validate:"omitempty"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=80"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Function *string `json:"function" validate:"omitempty,max=80"`
	Shift    *string `json:"shift" validate:"omitempty,max=40"`
	Password *string `json:"password" validate:"omitempty,min=4,max=64"`
	Photo    *string `json:"photo" validate:"omitempty"`
	Active   *bool   `json:"active"`
}

type EmployeeResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Badge     string `json:"badge"`
	Email     string `json:"email,omitempty"`
	Function  string `json:"function"`
	Shift     string `json:"shift"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
