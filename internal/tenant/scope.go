package tenant

import "gorm.io/gorm"

// Scope restricts a query to a single company. Every tenant-owned table
// carries a company_id column, so the predicate is uniform across modules.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
