package projection

// Target is something a projected total could pay for.
type Target struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// DefaultTargets are the example purchases shown next to a projection.
var DefaultTargets = []Target{
	{Name: "🎉 Concert Tickets", Cost: 200},
	{Name: "📱 New iPhone", Cost: 1200},
	{Name: "🌴 Dream Vacation", Cost: 3000},
	{Name: "💍 Wedding Fund", Cost: 8000},
	{Name: "🏠 Home Upgrade", Cost: 5000},
}

// Affordable returns the targets whose cost does not exceed total, in input
// order.
func Affordable(total float64, targets []Target) []Target {
	affordable := []Target{}
	for _, target := range targets {
		if total >= target.Cost {
			affordable = append(affordable, target)
		}
	}
	return affordable
}
