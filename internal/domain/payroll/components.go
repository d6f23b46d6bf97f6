package payroll

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Allowances are the earnings added on top of basic salary. Extra holds
// components without a dedicated field.
type Allowances struct {
	HouseRent decimal.Decimal            `json:"house_rent"`
	Transport decimal.Decimal            `json:"transport"`
	Medical   decimal.Decimal            `json:"medical"`
	Other     decimal.Decimal            `json:"other"`
	Extra     map[string]decimal.Decimal `json:"extra,omitempty"`
}

// UnmarshalJSON accepts the named fields, an "extra" object, and any other
// numeric key, which is added to Extra.
func (a *Allowances) UnmarshalJSON(data []byte) error {
	out := Allowances{}
	extra, err := decodeComponents(data, map[string]*decimal.Decimal{
		"house_rent": &out.HouseRent,
		"transport":  &out.Transport,
		"medical":    &out.Medical,
		"other":      &out.Other,
	})
	if err != nil {
		return fmt.Errorf("allowances: %w", err)
	}
	out.Extra = extra
	*a = out
	return nil
}

func (a Allowances) Total() decimal.Decimal {
	return sumExtra(decimal.Sum(a.HouseRent, a.Transport, a.Medical, a.Other), a.Extra)
}

// Deductions are subtracted from gross salary. Extra holds components
// without a dedicated field.
type Deductions struct {
	Tax           decimal.Decimal            `json:"tax"`
	ProvidentFund decimal.Decimal            `json:"provident_fund"`
	Insurance     decimal.Decimal            `json:"insurance"`
	Other         decimal.Decimal            `json:"other"`
	Extra         map[string]decimal.Decimal `json:"extra,omitempty"`
}

// UnmarshalJSON accepts the named fields, an "extra" object, and any other
// numeric key, which is added to Extra.
func (d *Deductions) UnmarshalJSON(data []byte) error {
	out := Deductions{}
	extra, err := decodeComponents(data, map[string]*decimal.Decimal{
		"tax":            &out.Tax,
		"provident_fund": &out.ProvidentFund,
		"insurance":      &out.Insurance,
		"other":          &out.Other,
	})
	if err != nil {
		return fmt.Errorf("deductions: %w", err)
	}
	out.Extra = extra
	*d = out
	return nil
}

func (d Deductions) Total() decimal.Decimal {
	return sumExtra(decimal.Sum(d.Tax, d.ProvidentFund, d.Insurance, d.Other), d.Extra)
}

func sumExtra(total decimal.Decimal, extra map[string]decimal.Decimal) decimal.Decimal {
	for _, v := range extra {
		total = total.Add(v)
	}
	return total
}

// decodeComponents fills known from data and returns every other key as an
// extra component. Keys repeated between "extra" and the top level are summed.
func decodeComponents(data []byte, known map[string]*decimal.Decimal) (map[string]decimal.Decimal, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var extra map[string]decimal.Decimal
	add := func(key string, v decimal.Decimal) {
		if extra == nil {
			extra = make(map[string]decimal.Decimal)
		}
		extra[key] = extra[key].Add(v)
	}

	for key, value := range raw {
		if dst, ok := known[key]; ok {
			if err := json.Unmarshal(value, dst); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			continue
		}
		if key == "extra" {
			var nested map[string]decimal.Decimal
			if err := json.Unmarshal(value, &nested); err != nil {
				return nil, fmt.Errorf("extra: %w", err)
			}
			for k, v := range nested {
				add(k, v)
			}
			continue
		}
		var v decimal.Decimal
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		add(key, v)
	}
	return extra, nil
}
