package searchstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/olivere/elastic/v7"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// preparePost injects geo_points into the post's location references
// and synthesizes a note_id when the record lacks one
func preparePost(post models.RawPlaceNote) models.RawPlaceNote {
	if post.NoteID == "" {
		post.NoteID = "generated_" + uuid.NewString()
	}

	// 复制切片,避免写穿调用方的底层数组
	if len(post.Locations) > 0 {
		locations := make([]models.RawPostLocation, len(post.Locations))
		copy(locations, post.Locations)
		post.Locations = locations
	}

	for i, loc := range post.Locations {
		if loc.Lat != nil && loc.Lng != nil && loc.Location == nil {
			post.Locations[i].Location = &models.RawLatLon{Lat: *loc.Lat, Lon: *loc.Lng}
		}
	}

	return post
}

// AddPost indexes a single post, overwriting any previous version
func (s *Store) AddPost(ctx context.Context, post models.RawPlaceNote) (string, error) {
	doc := preparePost(post)

	_, err := s.client.Index().
		Index(s.postIndex).
		Id(doc.NoteID).
		BodyJson(doc).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to index post %s: %w", doc.NoteID, err)
	}

	return doc.NoteID, nil
}

// GetPostByID fetches one post document, nil when absent
func (s *Store) GetPostByID(ctx context.Context, noteID string) (*models.RawPlaceNote, error) {
	res, err := s.client.Get().Index(s.postIndex).Id(noteID).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", noteID, err)
	}

	var post models.RawPlaceNote
	if err := json.Unmarshal(res.Source, &post); err != nil {
		return nil, fmt.Errorf("failed to decode post %s: %w", noteID, err)
	}

	return &post, nil
}

// SearchPostsByKeyword searches posts by keyword across title, desc,
// tags and source keyword. When scoreWeight > 0 the stored popularity
// score is folded into the ranking via a log1p field_value_factor.
func (s *Store) SearchPostsByKeyword(ctx context.Context, keyword string, size, from int, scoreWeight float64) ([]models.RawPost, error) {
	base := elastic.NewMultiMatchQuery(keyword, "title^3", "desc^2", "tag_list", "source_keyword")

	res, err := s.client.Search().
		Index(s.postIndex).
		Query(scoredQuery(base, scoreWeight)).
		Size(size).
		From(from).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts by keyword: %w", err)
	}

	return decodePosts(res), nil
}

// SearchPostsByLocation searches posts whose nested location references
// fall within the given distance of a point
func (s *Store) SearchPostsByLocation(ctx context.Context, lat, lng float64, distance string, size, from int, scoreWeight float64) ([]models.RawPost, error) {
	geo := elastic.NewNestedQuery("locations",
		elastic.NewGeoDistanceQuery("locations.location").
			Point(lat, lng).
			Distance(distance))

	res, err := s.client.Search().
		Index(s.postIndex).
		Query(scoredQuery(geo, scoreWeight)).
		Size(size).
		From(from).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts by location: %w", err)
	}

	return decodePosts(res), nil
}

// scoredQuery wraps a base query with a function_score over the stored
// score field; log1p keeps zero scores from nulling the relevance
func scoredQuery(base elastic.Query, scoreWeight float64) elastic.Query {
	if scoreWeight <= 0 {
		return base
	}

	return elastic.NewFunctionScoreQuery().
		Query(base).
		AddScoreFunc(elastic.NewFieldValueFactorFunction().
			Field("score").
			Factor(scoreWeight).
			Modifier("log1p").
			Missing(0)).
		BoostMode("multiply")
}

// ImportPostsFromFile bulk-indexes a JSON array of post records
func (s *Store) ImportPostsFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var posts []models.RawPlaceNote
	if err := json.Unmarshal(data, &posts); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	bulk := s.client.Bulk()
	for _, p := range posts {
		doc := preparePost(p)
		bulk.Add(elastic.NewBulkIndexRequest().
			Index(s.postIndex).
			Id(doc.NoteID).
			Doc(doc))
	}

	if bulk.NumberOfActions() == 0 {
		return 0, nil
	}

	res, err := bulk.Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("bulk post import failed: %w", err)
	}

	count := len(posts)
	if res.Errors {
		count -= len(res.Failed())
	}

	return count, nil
}

// ExportPosts scrolls the whole post index into a JSON file
func (s *Store) ExportPosts(ctx context.Context, path string) (int, error) {
	var posts []models.RawPlaceNote

	scroll := s.client.Scroll(s.postIndex).Size(500)
	for {
		res, err := scroll.Do(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("post scroll failed: %w", err)
		}

		for _, hit := range res.Hits.Hits {
			var post models.RawPlaceNote
			if err := json.Unmarshal(hit.Source, &post); err != nil {
				continue
			}
			posts = append(posts, post)
		}
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return len(posts), nil
}

// DeleteAllPosts removes every document from the post index
func (s *Store) DeleteAllPosts(ctx context.Context) (int64, error) {
	res, err := s.client.DeleteByQuery(s.postIndex).
		Query(elastic.NewMatchAllQuery()).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts: %w", err)
	}
	return res.Deleted, nil
}

// decodePosts converts search hits into the wire post shape, carrying
// the ES relevance into _score
func decodePosts(res *elastic.SearchResult) []models.RawPost {
	var posts []models.RawPost
	for _, hit := range res.Hits.Hits {
		var doc models.RawPlaceNote
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}

		post := models.RawPost{
			NoteID:     doc.NoteID,
			Title:      doc.Title,
			Desc:       doc.Desc,
			Time:       doc.Time,
			Nickname:   doc.Nickname,
			LikedCount: doc.LikedCount,
			Locations:  doc.Locations,
			Score:      doc.Score,
			Relevance:  hit.Score,
		}
		posts = append(posts, post)
	}
	return posts
}
