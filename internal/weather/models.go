package weather

// DateLayout is the calendar-day format used for record dates and date parameters.
// Dates in this format compare lexicographically in chronological order.
const DateLayout = "2006-01-02"

// Condition represents a weather category token as it appears in the dataset.
// Comparison is exact and case-sensitive.
type Condition string

const (
	ConditionDrizzle Condition = "drizzle"
	ConditionRain    Condition = "rain"
	ConditionSun     Condition = "sun"
	ConditionSnow    Condition = "snow"
	ConditionFog     Condition = "fog"
)

// Record is a single dated weather observation.
type Record struct {
	Date          string    `json:"date"`
	Precipitation float64   `json:"precipitation"`
	TempMax       float64   `json:"temp_max"`
	TempMin       float64   `json:"temp_min"`
	Wind          float64   `json:"wind"`
	Weather       Condition `json:"weather"`
}
