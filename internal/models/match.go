package models

// RouteMetrics compares the direct return leg against the detour through a
// load's pickup and dropoff.
type RouteMetrics struct {
	DirectKm    float64 `json:"direct_distance_km"`
	DirectHours float64 `json:"direct_time_hours"`
	DetourKm    float64 `json:"detour_distance_km"`
	DetourHours float64 `json:"detour_time_hours"`
	ExtraKm     float64 `json:"extra_distance_km"`
	ExtraHours  float64 `json:"extra_time_hours"`

	ToPickupKm     float64 `json:"distance_to_pickup_km"`
	PickupToDropKm float64 `json:"pickup_to_dropoff_km"`
	DropToHomeKm   float64 `json:"dropoff_to_home_km"`
}

// Profitability is the full cost breakdown for accepting one load.
type Profitability struct {
	ExtraDistanceKm    float64 `json:"extra_distance_km"`
	EstimatedTimeHours float64 `json:"estimated_time_hours"`
	FuelCost           float64 `json:"fuel_cost"`
	TimeCost           float64 `json:"time_cost"`
	NetProfit          float64 `json:"net_profit"`
	ProfitabilityScore float64 `json:"profitability_score"`
}

// Opportunity is one ranked candidate load for a trip. Computed fresh on
// every matching call and never persisted: load availability changes
// between cycles. Entries produced by the degraded fallback path carry no
// Metrics/Calculation and no rank.
type Opportunity struct {
	Load        *Load          `json:"load"`
	DeviationKm float64        `json:"deviation_km"`
	Metrics     *RouteMetrics  `json:"route_metrics,omitempty"`
	Calculation *Profitability `json:"calculation,omitempty"`
	Rank        int            `json:"rank,omitempty"`
}
