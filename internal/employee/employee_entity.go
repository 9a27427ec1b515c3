package employee

import (
	"time"

	"go-hrms/internal/department"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID     *uuid.UUID `gorm:"type:uuid"`
	ManagerID        *uuid.UUID `gorm:"type:uuid;index"`
	FullName         string     `gorm:"size:255;not null"`
	Email            string     `gorm:"size:255;uniqueIndex:uq_employee_email"`
	EmployeeNumber   string     `gorm:"size:50;uniqueIndex:uq_employee_number"`
	Phone            string     `gorm:"size:50"`
	HireDate         time.Time
	EmploymentStatus string  `gorm:"size:50;default:'ACTIVE'"`
	Salary           float64 `gorm:"type:numeric(12,2);default:0"`

	// Leave balance. leave_remaining is always leave_total - leave_used;
	// both sides are updated in a single statement so the pair can never
	// drift apart.
	LeaveTotal     int `gorm:"not null;default:12"`
	LeaveUsed      int `gorm:"not null;default:0"`
	LeaveRemaining int `gorm:"not null;default:12"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Department *department.Department `gorm:"foreignKey:DepartmentID"`
	Manager    *Employee              `gorm:"foreignKey:ManagerID"`
}
