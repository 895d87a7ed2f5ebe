package events

import "time"

type ChangeKind string

const (
	ProductCreated  ChangeKind = "created"
	ProductUpdated  ChangeKind = "updated"
	ProductDeleted  ChangeKind = "deleted"
	ProductImported ChangeKind = "imported"
)

// CatalogChange is published whenever an admin changes the product catalog.
type CatalogChange struct {
	Kind      ChangeKind `json:"kind"`
	ProductID string     `json:"productId,omitempty"`
	Count     int        `json:"count,omitempty"` // rows written by an import
	Timestamp time.Time  `json:"timestamp"`
}

func NewCatalogChange(kind ChangeKind, productID string) CatalogChange {
	return CatalogChange{Kind: kind, ProductID: productID, Timestamp: time.Now().UTC()}
}
