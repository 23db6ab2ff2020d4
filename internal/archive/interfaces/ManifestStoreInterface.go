package interfaces

import "logmerge/internal/models"

type ManifestStoreInterface interface {
	SaveManifest(fileName string, manifest *models.RunManifest) error
	LoadManifest(fileName string) (*models.RunManifest, error)
	Close()
}
