package quotes

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/models"
	dbtypes "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/types"
)

// Repository persists quote requests in the service database.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts the request and its items using the provided transaction.
func (r *Repository) CreateTx(tx *gorm.DB, row *models.QuoteRequest) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(row).Error
}

// FindByReference loads a request with its items.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.QuoteRequest, error) {
	var row models.QuoteRequest
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("reference = ?", reference).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ToModel maps a request onto its database rows.
func ToModel(req Request) *models.QuoteRequest {
	row := &models.QuoteRequest{
		Reference:     req.Reference,
		FullName:      req.FullName,
		Email:         req.Email,
		ClientType:    req.ClientType,
		SessionID:     req.SessionID,
		ItemCount:     len(req.Items),
		TotalQuantity: req.TotalQuantity(),
		Items:         make([]models.QuoteRequestItem, 0, len(req.Items)),
		CreatedAt:     req.RequestedAt,
	}
	if req.Phone != "" {
		phone := req.Phone
		row.Phone = &phone
	}
	if req.HasNotes() {
		notes := req.Notes
		row.Notes = &notes
	}
	for i, item := range req.Items {
		row.Items = append(row.Items, models.QuoteRequestItem{
			Position:    i,
			ServiceCode: item.ServiceCode,
			ServiceName: item.ServiceName,
			Category:    item.Category,
			Quantity:    item.Quantity,
			Details:     dbtypes.JSONMap(item.Details),
		})
	}
	return row
}
