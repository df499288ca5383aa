// Package searchstore wraps the Elasticsearch place and post indexes
// that back the server-side search pipeline.
package searchstore

import (
	"context"
	"fmt"
	"log"

	"github.com/olivere/elastic/v7"
)

// Store holds the Elasticsearch client and index names
type Store struct {
	client     *elastic.Client
	placeIndex string
	postIndex  string
}

// placeMapping indexes place_id as an exact keyword, the name and
// address as analyzed text, and the location as a geo_point
const placeMapping = `{
	"mappings": {
		"properties": {
			"place_id": {"type": "keyword"},
			"name": {"type": "text"},
			"formatted_address": {"type": "text"},
			"source_keyword": {"type": "keyword"},
			"location": {"type": "geo_point"}
		}
	}
}`

// postMapping nests post locations so geo queries match per reference
const postMapping = `{
	"mappings": {
		"properties": {
			"note_id": {"type": "keyword"},
			"title": {"type": "text"},
			"desc": {"type": "text"},
			"user_id": {"type": "keyword"},
			"nickname": {"type": "keyword"},
			"tag_list": {"type": "text"},
			"source_keyword": {"type": "keyword"},
			"score": {"type": "float"},
			"locations": {
				"type": "nested",
				"properties": {
					"formatted_address": {"type": "text"},
					"lat": {"type": "float"},
					"lng": {"type": "float"},
					"place_id": {"type": "keyword"},
					"location": {"type": "geo_point"}
				}
			}
		}
	}
}`

// New connects to Elasticsearch and ensures both indexes exist
func New(ctx context.Context, url, indexPrefix string) (*Store, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	s := &Store{
		client:     client,
		placeIndex: indexPrefix + "places",
		postIndex:  indexPrefix + "posts",
	}

	if err := s.ensureIndex(ctx, s.placeIndex, placeMapping); err != nil {
		return nil, err
	}
	if err := s.ensureIndex(ctx, s.postIndex, postMapping); err != nil {
		return nil, err
	}

	return s, nil
}

// ensureIndex creates an index with the given mapping if it does not exist
func (s *Store) ensureIndex(ctx context.Context, name, mapping string) error {
	exists, err := s.client.IndexExists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	created, err := s.client.CreateIndex(name).BodyString(mapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	if !created.Acknowledged {
		log.Printf("CreateIndex %s was not acknowledged", name)
	}

	return nil
}
