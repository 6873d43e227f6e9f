package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// Row is the external shape of a services table row.
type Row struct {
	ID          string          `json:"id,omitempty"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Summary     *string         `json:"summary,omitempty"`
	PriceNote   *string         `json:"price_note,omitempty"`
	IsPublished bool            `json:"is_published"`
	Details     json.RawMessage `json:"details,omitempty"`
}

// Source fetches catalog rows from wherever the catalog lives.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Row, error)
}

// StaticSource serves the compiled-in catalog.
type StaticSource struct{}

func (StaticSource) Name() string { return "static" }

func (StaticSource) Load(context.Context) ([]Row, error) {
	return ToRows(staticServices), nil
}

// FromRows maps rows to services in row order. Unpublished rows are dropped. Rows that
// cannot be mapped are skipped and reported through the returned error; the services
// that did map are still returned.
func FromRows(rows []Row) ([]Service, error) {
	var skipped error
	out := make([]Service, 0, len(rows))
	for _, row := range rows {
		if !row.IsPublished {
			continue
		}
		svc, err := rowToService(row)
		if err != nil {
			skipped = multierr.Append(skipped, err)
			continue
		}
		out = append(out, svc)
	}
	return out, skipped
}

func rowToService(row Row) (Service, error) {
	code := strings.TrimSpace(row.Slug)
	if code == "" {
		return Service{}, fmt.Errorf("row %q: slug is required", row.ID)
	}
	category, err := enums.ParseCategory(row.Category)
	if err != nil {
		return Service{}, fmt.Errorf("row %q: %w", code, err)
	}
	svc := Service{
		Code:     code,
		Name:     strings.TrimSpace(row.Title),
		Category: category,
	}
	if row.Summary != nil {
		svc.Description = strings.TrimSpace(*row.Summary)
	}
	if row.PriceNote != nil {
		svc.PriceNote = strings.TrimSpace(*row.PriceNote)
	}
	if raw := strings.TrimSpace(string(row.Details)); raw != "" && raw != "null" {
		if err := json.Unmarshal(row.Details, &svc.Details); err != nil {
			return Service{}, fmt.Errorf("row %q: decode details: %w", code, err)
		}
	}
	return svc, nil
}

// ToRows renders services in the external row shape, all published.
func ToRows(services []Service) []Row {
	rows := make([]Row, 0, len(services))
	for _, svc := range services {
		row := Row{
			Slug:        svc.Code,
			Title:       svc.Name,
			Category:    string(svc.Category),
			IsPublished: true,
		}
		if svc.Description != "" {
			desc := svc.Description
			row.Summary = &desc
		}
		if svc.PriceNote != "" {
			note := svc.PriceNote
			row.PriceNote = &note
		}
		if len(svc.Details) > 0 {
			raw, err := json.Marshal(svc.Details)
			if err == nil {
				row.Details = raw
			}
		}
		rows = append(rows, row)
	}
	return rows
}
