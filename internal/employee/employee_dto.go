package employee

type CreateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	DepartmentID     string  `json:"department_id" binding:"omitempty,uuid"`
	ManagerID        string  `json:"manager_id" binding:"omitempty,uuid"`
	EmployeeNumber   string  `json:"employee_number"`
	Phone            string  `json:"phone"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status"`
	Salary           float64 `json:"salary" binding:"omitempty,gte=0"`
	LeaveTotal       *int    `json:"leave_total"`
	// Optional existing login to link to the new employee record.
	UserID string `json:"user_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	DepartmentID     string  `json:"department_id" binding:"omitempty,uuid"`
	ManagerID        string  `json:"manager_id" binding:"omitempty,uuid"`
	EmployeeNumber   string  `json:"employee_number"`
	Phone            string  `json:"phone"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status"`
	Salary           float64 `json:"salary" binding:"omitempty,gte=0"`
	LeaveTotal       *int    `json:"leave_total"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeManagerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type EmployeeResponse struct {
	ID               string                      `json:"id"`
	CompanyID        string                      `json:"company_id"`
	FullName         string                      `json:"full_name"`
	Email            string                      `json:"email"`
	EmployeeNumber   string                      `json:"employee_number"`
	Phone            string                      `json:"phone,omitempty"`
	HireDate         string                      `json:"hire_date"`
	EmploymentStatus string                      `json:"employment_status"`
	Salary           float64                     `json:"salary"`
	DepartmentID     string                      `json:"department_id,omitempty"`
	ManagerID        string                      `json:"manager_id,omitempty"`
	LeaveTotal       int                         `json:"leave_total"`
	LeaveUsed        int                         `json:"leave_used"`
	LeaveRemaining   int                         `json:"leave_remaining"`
	Department       *EmployeeDepartmentResponse `json:"department,omitempty"`
	Manager          *EmployeeManagerResponse    `json:"manager,omitempty"`
}
