// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package models

// CountryShare is one country's percentage of total API calls.
type CountryShare struct {
	Country string  `json:"country"`
	Percent float64 `json:"percent"`
}

// CountryDistribution holds the map shares in backend order. Percentages are
// rounded upstream and need not sum to exactly 100.
type CountryDistribution struct {
	Countries []CountryShare `json:"countries"`
}

// Share returns the percentage recorded for country and whether it was present.
func (d CountryDistribution) Share(country string) (float64, bool) {
	for _, s := range d.Countries {
		if s.Country == country {
			return s.Percent, true
		}
	}
	return 0, false
}

// Total sums all shares.
func (d CountryDistribution) Total() float64 {
	var total float64
	for _, s := range d.Countries {
		total += s.Percent
	}
	return total
}

// Payload converts a distribution back to its wire shape.
func (d CountryDistribution) Payload() CountriesPayload {
	p := CountriesPayload{
		Countries:   make([]string, len(d.Countries)),
		Percentages: make([]float64, len(d.Countries)),
	}
	for i, s := range d.Countries {
		p.Countries[i] = s.Country
		p.Percentages[i] = s.Percent
	}
	return p
}

// CountriesPayload is the body of GET /countries: two index-aligned arrays.
type CountriesPayload struct {
	Countries   []string  `json:"countries" validate:"required,min=1,dive,required"`
	Percentages []float64 `json:"percentages" validate:"eqfield=Countries,dive,gte=0,lte=100"`
}

// Distribution converts the aligned arrays. The payload must have been validated.
func (p CountriesPayload) Distribution() CountryDistribution {
	shares := make([]CountryShare, len(p.Countries))
	for i, c := range p.Countries {
		shares[i] = CountryShare{Country: c, Percent: p.Percentages[i]}
	}
	return CountryDistribution{Countries: shares}
}
