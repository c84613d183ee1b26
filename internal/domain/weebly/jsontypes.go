package weebly

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TagMap stores blog post tags as a JSON object column.
// Keys are platform tag IDs, values are tag names.
type TagMap map[string]string

// Value implements driver.Valuer
func (m TagMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *TagMap) Scan(value any) error {
	if value == nil {
		*m = TagMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tag map column type %T", value)
	}
	if len(data) == 0 {
		*m = TagMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// ChoiceList stores product option choices as a JSON array column
type ChoiceList []string

// Value implements driver.Valuer
func (l ChoiceList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *ChoiceList) Scan(value any) error {
	if value == nil {
		*l = ChoiceList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported choice list column type %T", value)
	}
	if len(data) == 0 {
		*l = ChoiceList{}
		return nil
	}
	return json.Unmarshal(data, l)
}
