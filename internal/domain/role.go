package domain

// Role is a capability a user holds. A user may hold several at once.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleDirector Role = "DIRECTOR"
	RoleMusician Role = "MUSICIAN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDirector, RoleMusician:
		return true
	}
	return false
}

// RoleSet is a small set of roles with explicit membership checks.
// Backed by a slice; role lists are tiny (at most three entries).
type RoleSet []Role

func (rs RoleSet) Has(r Role) bool {
	for _, held := range rs {
		if held == r {
			return true
		}
	}
	return false
}

// Add returns a RoleSet containing r, without duplicating an existing entry.
func (rs RoleSet) Add(r Role) RoleSet {
	if rs.Has(r) {
		return rs
	}
	return append(rs, r)
}

func (rs RoleSet) Validate() error {
	for _, r := range rs {
		if !r.IsValid() {
			return ErrInvalidRole
		}
	}
	return nil
}

// Strings converts the set for storage as a text[] column.
func (rs RoleSet) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// RoleSetFromStrings rebuilds a RoleSet from its stored form,
// dropping anything that is not a known role.
func RoleSetFromStrings(values []string) RoleSet {
	var rs RoleSet
	for _, v := range values {
		if r := Role(v); r.IsValid() {
			rs = rs.Add(r)
		}
	}
	return rs
}
