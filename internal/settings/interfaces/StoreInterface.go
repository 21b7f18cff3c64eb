package interfaces

import "dashcfg/internal/models"

type StoreInterface interface {
	Load() models.Document
	Save(doc models.Document) error
	UpdateSection(doc models.Document, section string, fields map[string]any)
	Path() string
	Exists() bool
}
