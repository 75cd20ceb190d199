package network

// RepInfo describes how one representation type behaves in the network.
type RepInfo struct {
	Name string
	// OneWay chains are never reversed when chains are merged.
	OneWay bool
	// LimitedAccess roads only share a level with other roads where they run
	// nearly parallel, as at on and off ramps.
	LimitedAccess bool
	// ExportType is assigned to chains of this type by AssignExportTypes.
	ExportType int
	// Power marks power lines, which PowerLines selects for draping.
	Power bool
}

// RepTable maps representation types to their behaviour. Types missing from
// the table are two-way, not limited access, and export as NoValue.
type RepTable map[int]RepInfo

// IsOneWay reports whether rep is one-way.
func (t RepTable) IsOneWay(rep int) bool { return t[rep].OneWay }

// IsLimitedAccess reports whether rep is a limited access road.
func (t RepTable) IsLimitedAccess(rep int) bool { return t[rep].LimitedAccess }

// IsPower reports whether rep is a power line.
func (t RepTable) IsPower(rep int) bool { return t[rep].Power }

// PowerLines returns a DrapeRoadsWhere filter keeping power line chains.
func (t RepTable) PowerLines() func(*Chain) bool {
	return func(c *Chain) bool { return t.IsPower(c.RepType) }
}
