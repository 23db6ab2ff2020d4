package services

import (
	"bytes"
	"fmt"
	"logmerge/internal/models"
	"logmerge/internal/providers"
	"logmerge/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/gowebpki/jcs"
	"github.com/jmespath/go-jmespath"
)

type ResolverInterface interface {
	Resolve(pair models.MatchedPair) models.Resolution
}

type Resolver struct {
	loader LoaderInterface
	logger providers.Logger
	field  *jmespath.JMESPath
}

// comparisonView is the compared part of a snapshot in RFC 8785 form.
type comparisonView struct {
	canonical []byte
	count     int
}

func NewResolver(conf *structures.Config, loader LoaderInterface, logger providers.Logger) (ResolverInterface, error) {
	field, err := jmespath.Compile(conf.Compare.Field)
	if err != nil {
		return nil, fmt.Errorf("compile compare.field %q: %w", conf.Compare.Field, err)
	}
	return &Resolver{
		loader: loader,
		logger: logger,
		field:  field,
	}, nil
}

// Resolve loads both sides of a pair and picks the canonical snapshot.
// Identical histories keep v4. Different histories keep v4 only when it has
// strictly more entries, so an equal count goes to v5.
func (r *Resolver) Resolve(pair models.MatchedPair) models.Resolution {
	entry := models.ReconciliationEntry{
		RoomID:          pair.RoomID,
		Timestamp:       pair.TimestampV4,
		PathV4:          pair.PathV4,
		PathV5:          pair.PathV5,
		Divergence:      models.DivergenceMissing,
		CanonicalSource: models.SourceNone,
	}

	v4, v4View, err := r.load(pair.PathV4)
	if err != nil {
		r.logger.Errorf(providers.TypeResolve, "Room %d: %s", pair.RoomID, err)
		return models.Resolution{Entry: entry}
	}
	v5, v5View, err := r.load(pair.PathV5)
	if err != nil {
		r.logger.Errorf(providers.TypeResolve, "Room %d: %s", pair.RoomID, err)
		return models.Resolution{Entry: entry}
	}

	if bytes.Equal(v4View.canonical, v5View.canonical) {
		entry.Divergence = models.DivergenceSame
		entry.CanonicalSource = models.SourceV4
		return models.Resolution{Entry: entry, Canonical: v4, CanonicalPath: pair.PathV4}
	}

	entry.Divergence = models.DivergenceDifferent
	r.logger.Infof(providers.TypeResolve, "Room %d: snapshots differ (v4 %d entries, v5 %d entries)", pair.RoomID, v4View.count, v5View.count)
	if v4View.count > v5View.count {
		entry.CanonicalSource = models.SourceV4
		return models.Resolution{Entry: entry, Canonical: v4, CanonicalPath: pair.PathV4}
	}
	entry.CanonicalSource = models.SourceV5
	return models.Resolution{Entry: entry, Canonical: v5, CanonicalPath: pair.PathV5}
}

func (r *Resolver) load(path string) (*models.SessionRecord, comparisonView, error) {
	if path == "" {
		return nil, comparisonView{}, fmt.Errorf("no snapshot path")
	}
	record, err := r.loader.Load(path)
	if err != nil {
		return nil, comparisonView{}, err
	}
	view, err := r.view(record)
	if err != nil {
		return nil, comparisonView{}, &models.MalformedLogError{Path: path, Err: err}
	}
	return record, view, nil
}

func (r *Resolver) view(record *models.SessionRecord) (comparisonView, error) {
	compact, err := record.Root().MarshalJSON()
	if err != nil {
		return comparisonView{}, err
	}
	var doc interface{}
	if err := json.Unmarshal(compact, &doc); err != nil {
		return comparisonView{}, err
	}

	selected, err := r.field.Search(doc)
	if err != nil {
		return comparisonView{}, fmt.Errorf("evaluate compare field: %w", err)
	}

	count := 0
	switch v := selected.(type) {
	case nil:
		// an absent history compares as an empty one
		selected = []interface{}{}
	case []interface{}:
		count = len(v)
	default:
		count = 1
	}

	raw, err := json.Marshal(selected)
	if err != nil {
		return comparisonView{}, err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return comparisonView{}, err
	}
	return comparisonView{canonical: canonical, count: count}, nil
}
