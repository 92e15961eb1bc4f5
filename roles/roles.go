package roles

// Role is a machine-readable role name. Roles are reference data at request
// time: they grant a set of scopes and are mutated only by out-of-band
// administration.
type Role string

const (
	Customer         Role = "Customer"
	Support          Role = "Support"
	WarehouseStuff   Role = "Warehouse stuff"
	ContentManager   Role = "Content manager"
	MarketingManager Role = "Marketing manager"
	Admin            Role = "Admin"
)
