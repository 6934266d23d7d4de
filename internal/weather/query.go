package weather

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Recognized query parameter keys. Range keys carry their comparison operator.
const (
	ParamDate       = "date"
	ParamDateAfter  = "date>"
	ParamDateFrom   = "date>="
	ParamDateBefore = "date<"
	ParamDateUntil  = "date<="
	ParamWeather    = "weather"
	ParamLimit      = "limit"
)

var recognizedParams = map[string]bool{
	ParamDate:       true,
	ParamDateAfter:  true,
	ParamDateFrom:   true,
	ParamDateBefore: true,
	ParamDateUntil:  true,
	ParamWeather:    true,
	ParamLimit:      true,
}

// dateParams lists the keys whose values must be dates.
var dateParams = []string{ParamDate, ParamDateAfter, ParamDateFrom, ParamDateBefore, ParamDateUntil}

// Params maps recognized query keys to their raw values.
type Params map[string]string

// ParseRawQuery tokenizes a raw (still escaped) query string into Params.
//
// Keys are split from values at the first of '=', '<' or '>', escaped or
// not, so "date>=X" yields key "date>=" rather than the key "date>" that
// url.ParseQuery would produce. Unrecognized keys are dropped before their
// values are decoded; a recognized key given twice is a ValidationError.
func ParseRawQuery(raw string) (Params, error) {
	params := make(Params)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key, rawValue, ok := splitParam(pair)
		if !ok || !recognizedParams[key] {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, &ValidationError{Param: key, Reason: "malformed escape: " + err.Error()}
		}
		if _, dup := params[key]; dup {
			return nil, &ValidationError{Param: key, Reason: "supplied more than once"}
		}
		params[key] = value
	}
	return params, nil
}

// splitParam decodes pair up to its operator and returns the decoded key
// (operator included for range keys) and the still escaped value.
func splitParam(pair string) (key, rawValue string, ok bool) {
	var name []byte
	for i := 0; i < len(pair); {
		c, n, valid := unescapeByte(pair, i)
		if !valid {
			return "", "", false
		}
		i += n

		switch c {
		case '=':
			return string(name), pair[i:], len(name) > 0
		case '<', '>':
			op := string(c)
			if i < len(pair) {
				if next, m, valid := unescapeByte(pair, i); valid && next == '=' {
					op += "="
					i += m
				}
			}
			return string(name) + op, pair[i:], len(name) > 0
		}
		name = append(name, c)
	}
	return "", "", false
}

// unescapeByte decodes the byte at s[i], which may be a %XX escape or '+'.
func unescapeByte(s string, i int) (c byte, n int, ok bool) {
	switch s[i] {
	case '%':
		if i+3 > len(s) {
			return 0, 0, false
		}
		d, err := url.QueryUnescape(s[i : i+3])
		if err != nil {
			return 0, 0, false
		}
		return d[0], 3, true
	case '+':
		return ' ', 1, true
	default:
		return s[i], 1, true
	}
}

// Bound is one side of a date range.
type Bound struct {
	Date      string
	Inclusive bool
}

// DateFilterKind tags which form of date constraint a query carries.
type DateFilterKind uint8

const (
	DateAny DateFilterKind = iota
	DateExact
	DateRange
)

func (k DateFilterKind) String() string {
	switch k {
	case DateExact:
		return "exact"
	case DateRange:
		return "range"
	default:
		return "any"
	}
}

// DateFilter constrains record dates.
//
// An Exact filter may still carry Lower/Upper bounds when the request supplied
// both forms; the bounds then apply in conjunction with the exact day.
type DateFilter struct {
	Kind  DateFilterKind
	Day   string
	Lower *Bound
	Upper *Bound
}

// Matches reports whether date satisfies the filter.
func (f DateFilter) Matches(date string) bool {
	if f.Kind == DateExact && date != f.Day {
		return false
	}
	return f.aboveLower(date) && f.belowUpper(date)
}

func (f DateFilter) aboveLower(date string) bool {
	if f.Lower == nil {
		return true
	}
	if f.Lower.Inclusive {
		return date >= f.Lower.Date
	}
	return date > f.Lower.Date
}

func (f DateFilter) belowUpper(date string) bool {
	if f.Upper == nil {
		return true
	}
	if f.Upper.Inclusive {
		return date <= f.Upper.Date
	}
	return date < f.Upper.Date
}

// Predicates is the conjunction of filters derived from one request.
type Predicates struct {
	Date    DateFilter
	Weather Condition // empty matches any weather
	Limit   int       // 0 means unlimited
}

// Matches reports whether r satisfies every active predicate. Limit is not a
// per-record predicate and is ignored here.
func (p Predicates) Matches(r Record) bool {
	if !p.Date.Matches(r.Date) {
		return false
	}
	return p.Weather == "" || r.Weather == p.Weather
}

// queryRequest is the validated form of Params. The param tag names the query
// key reported in validation errors.
type queryRequest struct {
	Date    string `param:"date" validate:"omitempty,datetime=2006-01-02"`
	After   string `param:"date>" validate:"omitempty,excluded_with=From,datetime=2006-01-02"`
	From    string `param:"date>=" validate:"omitempty,datetime=2006-01-02"`
	Before  string `param:"date<" validate:"omitempty,excluded_with=Until,datetime=2006-01-02"`
	Until   string `param:"date<=" validate:"omitempty,datetime=2006-01-02"`
	Weather string `param:"weather"`
	Limit   *int   `param:"limit" validate:"omitempty,gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("param")
	})
	return v
}

// Parse turns Params into Predicates. Malformed dates and non-positive or
// non-integer limits fail with a *ValidationError.
func Parse(params Params) (Predicates, error) {
	for _, key := range dateParams {
		if v, ok := params[key]; ok && strings.TrimSpace(v) == "" {
			return Predicates{}, &ValidationError{Param: key, Reason: "must be a date in YYYY-MM-DD format"}
		}
	}

	req := queryRequest{
		Date:    params[ParamDate],
		After:   params[ParamDateAfter],
		From:    params[ParamDateFrom],
		Before:  params[ParamDateBefore],
		Until:   params[ParamDateUntil],
		Weather: params[ParamWeather],
	}
	if s, ok := params[ParamLimit]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Predicates{}, &ValidationError{Param: ParamLimit, Reason: "must be a positive integer"}
		}
		req.Limit = &n
	}

	if err := validate.Struct(req); err != nil {
		return Predicates{}, toValidationError(err)
	}

	p := Predicates{Weather: Condition(req.Weather)}
	if req.Limit != nil {
		p.Limit = *req.Limit
	}

	switch {
	case req.From != "":
		p.Date.Lower = &Bound{Date: req.From, Inclusive: true}
	case req.After != "":
		p.Date.Lower = &Bound{Date: req.After}
	}
	switch {
	case req.Until != "":
		p.Date.Upper = &Bound{Date: req.Until, Inclusive: true}
	case req.Before != "":
		p.Date.Upper = &Bound{Date: req.Before}
	}

	switch {
	case req.Date != "":
		p.Date.Kind = DateExact
		p.Date.Day = req.Date
	case p.Date.Lower != nil || p.Date.Upper != nil:
		p.Date.Kind = DateRange
	}

	return p, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Reason: err.Error()}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "datetime":
		return &ValidationError{Param: fe.Field(), Reason: "must be a date in YYYY-MM-DD format"}
	case "gt":
		return &ValidationError{Param: fe.Field(), Reason: "must be a positive integer"}
	case "excluded_with":
		other := fe.Param()
		if f, ok := reflect.TypeOf(queryRequest{}).FieldByName(other); ok {
			other = f.Tag.Get("param")
		}
		return &ValidationError{Param: fe.Field(), Reason: "cannot be combined with " + other}
	default:
		return &ValidationError{Param: fe.Field(), Reason: "failed " + fe.Tag() + " check"}
	}
}
