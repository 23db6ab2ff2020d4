package archive

import (
	"fmt"
	json "github.com/goccy/go-json"
	"logmerge/internal/archive/interfaces"
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"os"
	"path/filepath"
)

// FileManager stores run manifests as zstd-compressed JSON.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

func NewManifestStore(fm *FileManager) interfaces.ManifestStoreInterface {
	return fm
}

func (f *FileManager) SaveManifest(fileName string, manifest *models.RunManifest) error {
	jsonData, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}
	f.logger.Infof(providers.TypeApp, "Run %s manifest saved to %s", manifest.RunID, fileName)
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadManifest returns nil without error when no manifest has been written yet.
func (f *FileManager) LoadManifest(fileName string) (*models.RunManifest, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress manifest: %w", err)
	}

	var manifest models.RunManifest
	if err := json.Unmarshal(decompressedData, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if manifest.Version != models.ManifestVersion {
		f.logger.Warnf(providers.TypeApp, "Manifest %s has version %d, expected %d", fileName, manifest.Version, models.ManifestVersion)
	}
	return &manifest, nil
}
