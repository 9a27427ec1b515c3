package company

type OnboardRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	RegistrationNumber string `json:"registration_number"`
	AdminName          string `json:"admin_name" binding:"required"`
	AdminEmail         string `json:"admin_email" binding:"required,email"`
	AdminPassword      string `json:"admin_password" binding:"required,min=6"`
}

type UpdateCompanyRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	IsActive           *bool  `json:"is_active"`
}

type CompanyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registration_number"`
	IsActive           bool   `json:"is_active"`
}

type OnboardResponse struct {
	Company    CompanyResponse `json:"company"`
	AdminEmail string          `json:"admin_email"`
}
