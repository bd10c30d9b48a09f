package domain

import "time"

// Timestamp marshals as a second-precision ISO-8601 string. Every datetime
// crossing the wire goes through this type.
type Timestamp time.Time

// MarshalJSON renders the timestamp truncated to whole seconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	formatted := time.Time(t).Truncate(time.Second).Format(time.RFC3339)
	return []byte(`"` + formatted + `"`), nil
}

// UnmarshalJSON parses an ISO-8601 string.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	parsed, err := time.Parse(`"`+time.RFC3339+`"`, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
