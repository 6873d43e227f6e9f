package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/models"
)

// Repository reads and seeds the services table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every services row, published or not, in display order.
func (r *Repository) List(ctx context.Context) ([]models.CatalogService, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("catalog repository not initialized")
	}
	var rows []models.CatalogService
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// Upsert inserts rows or refreshes the existing row with the same slug.
func (r *Repository) Upsert(ctx context.Context, rows []models.CatalogService) error {
	if r == nil || r.db == nil {
		return errors.New("catalog repository not initialized")
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "category", "summary", "price_note", "details", "position", "is_published", "updated_at"}),
		}).
		Create(&rows).Error
}

// DBSource loads the catalog from the services table.
type DBSource struct {
	repo *Repository
}

func NewDBSource(repo *Repository) *DBSource {
	return &DBSource{repo: repo}
}

func (s *DBSource) Name() string { return "database" }

func (s *DBSource) Load(ctx context.Context) ([]Row, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			ID:          rec.ID.String(),
			Slug:        rec.Slug,
			Title:       rec.Title,
			Category:    rec.Category,
			Summary:     rec.Summary,
			PriceNote:   rec.PriceNote,
			IsPublished: rec.IsPublished,
			Details:     rec.Details,
		})
	}
	return rows, nil
}

// SeedRecords converts services into services table records, keeping their order.
func SeedRecords(services []Service) []models.CatalogService {
	rows := ToRows(services)
	out := make([]models.CatalogService, 0, len(rows))
	for i, row := range rows {
		out = append(out, models.CatalogService{
			Slug:        row.Slug,
			Title:       row.Title,
			Category:    row.Category,
			Summary:     row.Summary,
			PriceNote:   row.PriceNote,
			Details:     row.Details,
			Position:    i + 1,
			IsPublished: true,
		})
	}
	return out
}
