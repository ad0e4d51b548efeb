package domain

// Tenant identifies an organization and the PostgreSQL schema holding its data.
// Every scoped repository call receives it explicitly.
type Tenant struct {
	ID     int64
	Slug   string
	Schema string
	Active bool
}

// IsZero returns true if the tenant was not resolved
func (t Tenant) IsZero() bool {
	return t.Schema == ""
}
