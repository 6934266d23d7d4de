package weather

import "fmt"

// ValidationError reports a malformed query parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Param == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s parameter: %s", e.Param, e.Reason)
}

// NotFoundError is returned when an exact-date query selects no records. This
// covers a day missing from the collection as well as a day recorded under a
// different weather than the one requested; both answer 404.
type NotFoundError struct {
	Date    string
	Weather Condition
}

func (e *NotFoundError) Error() string {
	if e.Weather != "" {
		return fmt.Sprintf("no %s record found for date %s", e.Weather, e.Date)
	}
	return fmt.Sprintf("no record found for date %s", e.Date)
}
