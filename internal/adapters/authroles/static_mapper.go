package authroles

import (
	domainauth "github.com/corpintra/portal-ui-api/internal/domain/auth"
)

// StaticRoleMapper translates directory group names into portal roles
// by simple membership rules. Groups that match nothing map to the
// base user role so every signed-in employee can browse the portal.
type StaticRoleMapper struct {
	AdminGroups []string
	HRGroups    []string
}

func (m StaticRoleMapper) Map(groups []string) []string {
	roles := []string{string(domainauth.RoleUser)}
	if matchesAny(groups, m.AdminGroups) {
		roles = append(roles, string(domainauth.RoleAdmin))
	}
	if matchesAny(groups, m.HRGroups) {
		roles = append(roles, string(domainauth.RoleHR))
	}
	return roles
}

func matchesAny(groups, wanted []string) bool {
	for _, g := range groups {
		for _, w := range wanted {
			if w != "" && g == w {
				return true
			}
		}
	}
	return false
}
