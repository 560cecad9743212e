package core

// Visit is one logged site visit. Fields mirror what the frontend's
// geolocation lookup provides; all are optional free text.
type Visit struct {
	IP        string `json:"ip"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Org       string `json:"org"`
	Timestamp string `json:"timestamp"`
	Loc       string `json:"loc"`
	// Date is stamped server-side at insert; the client never supplies it.
	// The user counts key on it since Timestamp is free-form client text.
	Date string `json:"-"`
}

// LocationStat aggregates visits sharing a coordinate pair.
type LocationStat struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
	Org     string `json:"org"`
	Count   int    `json:"count"`
}

// VisitorStats is the aggregate view served by GET /visitors/stats.
type VisitorStats struct {
	MonthlyUsers int            `json:"monthlyUsers"`
	TodayUsers   int            `json:"todayUsers"`
	Countries    map[string]int `json:"countries"`
	Locations    []LocationStat `json:"locations"`
}

// RateTable maps a currency code to its rate against the EUR base.
type RateTable map[string]float64
