package catalog

import (
	"context"
	"net/url"
	"strings"
)

type rowSelecter interface {
	Select(ctx context.Context, table string, query url.Values, out any) error
}

// RemoteSource loads the catalog from the backend-as-a-service services table.
type RemoteSource struct {
	client rowSelecter
	table  string
}

func NewRemoteSource(client rowSelecter, table string) *RemoteSource {
	if strings.TrimSpace(table) == "" {
		table = "services"
	}
	return &RemoteSource{client: client, table: table}
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Load(ctx context.Context) ([]Row, error) {
	query := url.Values{
		"is_published": {"eq.true"},
		"order":        {"created_at.asc"},
	}
	var rows []Row
	if err := s.client.Select(ctx, s.table, query, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
