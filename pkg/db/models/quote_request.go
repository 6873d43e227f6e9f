package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/types"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// QuoteRequest is a submitted request for a price quote together with its line items.
type QuoteRequest struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Reference     string             `gorm:"column:reference;not null;uniqueIndex:ux_quote_requests_reference"`
	FullName      string             `gorm:"column:full_name;not null"`
	Email         string             `gorm:"column:email;not null;index:idx_quote_requests_email"`
	ClientType    enums.ClientType   `gorm:"column:client_type;not null"`
	Phone         *string            `gorm:"column:phone"`
	Notes         *string            `gorm:"column:notes"`
	SessionID     string             `gorm:"column:session_id"`
	ItemCount     int                `gorm:"column:item_count;not null;default:0"`
	TotalQuantity int                `gorm:"column:total_quantity;not null;default:0"`
	Items         []QuoteRequestItem `gorm:"foreignKey:QuoteRequestID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (q *QuoteRequest) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// QuoteRequestItem snapshots one cart line at submission time.
type QuoteRequestItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	QuoteRequestID uuid.UUID       `gorm:"column:quote_request_id;type:uuid;not null;index:idx_quote_request_items_request"`
	Position       int             `gorm:"column:position;not null"`
	ServiceCode    string          `gorm:"column:service_code;not null"`
	ServiceName    string          `gorm:"column:service_name;not null"`
	Category       enums.Category  `gorm:"column:category;not null"`
	Quantity       int             `gorm:"column:quantity;not null;default:1"`
	Details        dbtypes.JSONMap `gorm:"column:details;type:jsonb"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *QuoteRequestItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
