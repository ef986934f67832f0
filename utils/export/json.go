package export

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// RowsFromJSON converts a JSON array of flat objects into rows, keeping each
// object's keys in document order. Nested objects and arrays are kept as their
// raw JSON text.
func RowsFromJSON(data []byte) ([]Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON input")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of objects, got %s", doc.Type)
	}

	var rows []Row
	var convErr error
	doc.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			convErr = fmt.Errorf("row %d is not an object", len(rows))
			return false
		}

		row := Row{}
		item.ForEach(func(key, value gjson.Result) bool {
			row = append(row, Field{Key: key.String(), Value: jsonValue(value)})
			return true
		})
		rows = append(rows, row)
		return true
	})
	if convErr != nil {
		return nil, convErr
	}

	return rows, nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num
	case gjson.String:
		return v.Str
	}
	return v.Raw
}
