package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// Incident is a persisted record of a leave transition whose balance
// adjustment did not apply. The leave write already committed when one of
// these is created; the row is the operator's signal that an employee's
// counters may have drifted.
type Incident struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveID    uuid.UUID `gorm:"type:uuid;not null"`
	Action     string    `gorm:"type:varchar(20);not null"`
	Days       int       `gorm:"type:int;not null"`
	Reason     string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time
}

func (Incident) TableName() string {
	return "reconciliation_incidents"
}
