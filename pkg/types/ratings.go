package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Ratings maps a rating user to their star value, persisted as JSONB.
type Ratings map[string]int

// Value marshals the map into JSON for the database.
func (r Ratings) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (r *Ratings) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("ratings: unsupported scan type %T", value)
	}

	result := make(Ratings)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*r = result
	return nil
}

// Average returns the mean star value, zero when empty.
func (r Ratings) Average() float64 {
	if len(r) == 0 {
		return 0
	}
	total := 0
	for _, v := range r {
		total += v
	}
	return float64(total) / float64(len(r))
}
