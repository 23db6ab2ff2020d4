package services

import (
	_ "embed"
	"fmt"
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"logmerge/internal/structures"
	"os"
	"path/filepath"

	"github.com/kaptinlin/jsonschema"
)

//go:embed schema/session_log.schema.json
var sessionLogSchema []byte

type LoaderInterface interface {
	Load(path string) (*models.SessionRecord, error)
}

type SessionLoader struct {
	cache  providers.CacheProviderInterface
	logger providers.Logger
	schema *jsonschema.Schema
}

func NewSessionLoader(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) (LoaderInterface, error) {
	loader := &SessionLoader{
		cache:  cache,
		logger: logger,
	}
	if conf.Loader.ValidateSchema {
		compiler := jsonschema.NewCompiler()
		schema, err := compiler.Compile(sessionLogSchema)
		if err != nil {
			return nil, fmt.Errorf("compile session log schema: %w", err)
		}
		loader.schema = schema
	}
	return loader, nil
}

// Load reads and parses one session log. Content problems are reported as
// *models.MalformedLogError; I/O problems are returned wrapped as they are.
func (l *SessionLoader) Load(path string) (*models.SessionRecord, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	root, err := models.ParseNode(data)
	if err != nil {
		return nil, &models.MalformedLogError{Path: path, Err: err}
	}

	if l.schema != nil {
		result := l.schema.ValidateJSON(data)
		if !result.IsValid() {
			return nil, &models.MalformedLogError{Path: path, Err: fmt.Errorf("schema validation failed: %v", result.Errors)}
		}
	}

	key, _ := models.ParseLogFileKey(path)
	record, err := models.NewSessionRecord(path, key, root)
	if err != nil {
		return nil, err
	}
	l.logger.Debugf(providers.TypeResolve, "Loaded %s: %d users, %d comments", path, len(record.Users()), record.CommentCount())
	return record, nil
}

func (l *SessionLoader) read(path string) ([]byte, error) {
	cacheKey, err := filepath.Abs(path)
	if err != nil {
		cacheKey = path
	}
	if data, ok := l.cache.Get(cacheKey); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	l.cache.Set(cacheKey, data)
	return data, nil
}
