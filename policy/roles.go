package policy

import "github.com/skubra/cleargate/util"

// DefaultRoleVocabulary is the known application role set. Identity
// provider internal roles outside this vocabulary are dropped at claim
// extraction.
var DefaultRoleVocabulary = []string{"viewer", "analyst", "manager", "admin", "auditor"}

// RoleSet holds a principal's application roles.
type RoleSet []string

// Has reports whether the set contains the role. Admin does not bypass
// this raw check; use the derived predicates for hierarchy semantics.
func (r RoleSet) Has(role string) bool {
	return util.Contains(r, role)
}

// HasAny reports whether the set contains at least one of the roles.
// Admin satisfies any requirement.
func (r RoleSet) HasAny(roles ...string) bool {
	if r.IsAdmin() {
		return true
	}
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal is an administrator.
func (r RoleSet) IsAdmin() bool { return r.Has("admin") }

// IsManager reports manager privileges; admin implies manager.
func (r RoleSet) IsManager() bool { return r.Has("manager") || r.IsAdmin() }

// IsAuditor reports auditor privileges; admin implies auditor.
func (r RoleSet) IsAuditor() bool { return r.Has("auditor") || r.IsAdmin() }

// IsAnalyst reports analyst privileges; manager and admin imply analyst.
func (r RoleSet) IsAnalyst() bool { return r.Has("analyst") || r.IsManager() }

// IntersectVocabulary keeps only roles within the known vocabulary,
// preserving claim order and dropping duplicates.
func IntersectVocabulary(raw []string, vocabulary []string) RoleSet {
	if len(vocabulary) == 0 {
		vocabulary = DefaultRoleVocabulary
	}
	kept := util.Filter(raw, func(role string) bool { return util.Contains(vocabulary, role) })
	return RoleSet(util.Unique(kept))
}
