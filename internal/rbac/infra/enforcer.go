package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer builds a casbin enforcer from the shared RBAC model only.
// No policy file is attached: each tenant's rules are loaded into its
// company domain on demand (see the rbac service's LoadCompanyPolicy).
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
