package http

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// IngredientList accepts either a JSON array of names or one delimited
// string such as "Water, Glycerin; Fragrance".
type IngredientList []string

var delimiterReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", ";", " ")

// UnmarshalJSON implements json.Unmarshaler.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = SplitIngredients(s)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*l = names
	return nil
}

// SplitIngredients splits a delimited ingredient string on commas after
// turning newlines and semicolons into spaces. Blank entries are dropped.
func SplitIngredients(s string) []string {
	parts := strings.Split(delimiterReplacer.Replace(s), ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// CheckProductRequest is the body of POST /check-product.
type CheckProductRequest struct {
	Ingredients IngredientList `json:"ingredients"`
	SkinType    string         `json:"skin_type"`
	ProductName string         `json:"product_name"`
	ProductType string         `json:"prod_type"`
}
