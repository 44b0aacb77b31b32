// Package services wraps the diaflow REST resources. Every service pairs
// the API client with the shared query cache and applies the same
// discipline: reads are cached by (resource, filters), successful writes
// invalidate the affected keys, errors surface to the caller unretried.
package services

import (
	"net/url"

	"github.com/daniilabradorr/diaflow/internal/domain"
)

// apiTimeLayout is what the backend's datetime parser expects for the
// desde/hasta list filters.
const apiTimeLayout = "2006-01-02T15:04:05"

// rangoParams maps a date range onto query parameters. Absent bounds are
// omitted entirely, never sent as empty values.
func rangoParams(r domain.Rango) url.Values {
	params := url.Values{}
	if r.Desde != nil {
		params.Set("desde", r.Desde.Format(apiTimeLayout))
	}
	if r.Hasta != nil {
		params.Set("hasta", r.Hasta.Format(apiTimeLayout))
	}
	return params
}
