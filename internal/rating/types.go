package rating

// Counts are the raw per-player counters an operator types in for one match.
type Counts struct {
	Kills   int
	Assists int
	Deaths  int
}

// MetricVector is the derived stat line stored for a player in a match.
// The JSON field names are the stored document format and must not change.
type MetricVector struct {
	K      int     `json:"K" msgpack:"K"`
	A      int     `json:"A" msgpack:"A"`
	D      int     `json:"D" msgpack:"D"`
	Diff   int     `json:"+/-" msgpack:"+/-"`
	KPR    float64 `json:"KPR" msgpack:"KPR"`
	DPR    float64 `json:"DPR" msgpack:"DPR"`
	SVR    float64 `json:"SVR" msgpack:"SVR"`
	Impact float64 `json:"IMPACT" msgpack:"IMPACT"`
	Rating float64 `json:"RATING" msgpack:"RATING"`
	KD     float64 `json:"KD" msgpack:"KD"`
	Helps  int     `json:"HELPS" msgpack:"HELPS"`
}

// PlayerLine is a MetricVector attached to the nickname it was entered for.
type PlayerLine struct {
	Nickname string `json:"nickname" msgpack:"nickname"`
	MetricVector
}

// Rates are lifetime per-round figures recomputed from summed counters.
type Rates struct {
	KD     float64 `json:"kd"`
	KPR    float64 `json:"kpr"`
	DPR    float64 `json:"dpr"`
	SVR    float64 `json:"svr"`
	Impact float64 `json:"impact"`
}
