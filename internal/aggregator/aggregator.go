package aggregator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jengzang/tripmap-backend-go/internal/models"
)

// placeholderName is used for post-only entities whose location
// reference and post both lack a usable name
const placeholderName = "未知地点"

// Aggregate merges the three optional source arrays of a raw search
// response into one deduplicated, insertion-ordered entity list, plus
// the travel path copied verbatim. Identifiers are claimed
// first-writer-wins in processing order (route > place > post), while
// post lists are additive: every post referencing an already-claimed
// identifier accumulates on that entity, kept in descending relevance
// order. The input is never mutated.
func Aggregate(raw *models.RawSearchResponse) ([]models.LocationEntity, []models.PathPoint) {
	points := make([]models.PathPoint, 0, len(raw.Points))
	points = append(points, raw.Points...)

	acc := newAccumulator()

	// 1. 路线点：无 place_id 时用 名称+坐标 合成键
	for _, item := range raw.Route {
		id := item.PlaceID
		if id == "" {
			id = SynthesizeID(item.Name, deref(item.Latitude), deref(item.Longitude))
		}
		if acc.has(id) {
			continue
		}
		acc.add(routeEntity(id, item))
	}

	// 2. 附近地点：无 place_id 的记录直接跳过，已占用的 id 不覆盖
	for _, entry := range raw.Places {
		id := entry.Place.PlaceID
		if id == "" || acc.has(id) {
			continue
		}
		acc.add(PlaceEntity(entry.Place, entry.Notes))
	}

	// 3. 帖子：全局按相关度降序（稳定）后逐条并入
	posts := make([]models.RawPost, len(raw.Posts))
	copy(posts, raw.Posts)
	sort.SliceStable(posts, func(i, j int) bool {
		return postRelevance(posts[i]) > postRelevance(posts[j])
	})

	for _, post := range posts {
		summary := summarize(post)
		for _, ref := range post.Locations {
			if ref.PlaceID == "" {
				continue
			}
			if e := acc.get(ref.PlaceID); e != nil {
				e.PostInfos = append(e.PostInfos, summary)
				// 已按降序处理，重排只在上游乱序/同分时起作用
				sort.SliceStable(e.PostInfos, func(i, j int) bool {
					return e.PostInfos[i].RelevanceOf() > e.PostInfos[j].RelevanceOf()
				})
				continue
			}
			acc.add(postEntity(ref, post, summary))
		}
	}

	return acc.entities, points
}

// AggregateJSON parses a raw payload and aggregates it. Only a
// top-level value that is not a JSON object fails; malformed optional
// fields degrade to defaults inside the tolerant decoder.
func AggregateJSON(data []byte) ([]models.LocationEntity, []models.PathPoint, error) {
	var raw models.RawSearchResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid search payload: %w", err)
	}

	entities, points := Aggregate(&raw)
	return entities, points, nil
}

// SynthesizeID builds a stable key for routed items lacking a place_id.
// Collisions are possible only for distinct stops sharing name and
// exact coordinates.
func SynthesizeID(name string, lat, lng float64) string {
	return name + "-" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "-" +
		strconv.FormatFloat(lng, 'f', -1, 64)
}

// accumulator keys entities by identifier while preserving first-seen
// insertion order
type accumulator struct {
	entities []models.LocationEntity
	index    map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

func (a *accumulator) has(id string) bool {
	_, ok := a.index[id]
	return ok
}

func (a *accumulator) get(id string) *models.LocationEntity {
	i, ok := a.index[id]
	if !ok {
		return nil
	}
	return &a.entities[i]
}

func (a *accumulator) add(e models.LocationEntity) {
	a.index[e.ID] = len(a.entities)
	a.entities = append(a.entities, e)
}

func routeEntity(id string, item models.RawRouteItem) models.LocationEntity {
	return models.LocationEntity{
		ID:       id,
		Name:     item.Name,
		Position: models.Position{Lat: deref(item.Latitude), Lng: deref(item.Longitude)},
		Address:  item.FormattedAddress,
		Category: models.CategoryRoute,
		Rating:   deref(item.Rating),
		Photos:   photoURLs(item.Photos),
		Phone:    item.FormattedPhoneNumber,
		Website:  item.Website,
		Hours:    ParseHours(item.WeekdayText),
	}
}

// PlaceEntity converts one nearby-place record (with its notes) into a
// display entity. Exported so the place index can serve single-location
// lookups through the same conversion.
func PlaceEntity(p models.RawPlace, notes []models.RawPlaceNote) models.LocationEntity {
	return models.LocationEntity{
		ID:          p.PlaceID,
		Name:        p.Name,
		Position:    placePosition(p),
		Description: p.Description,
		Address:     p.FormattedAddress,
		Category:    models.CategoryPlace,
		PlaceType:   inferPlaceType(p.SourceKeyword, notes),
		Rating:      deref(p.Rating),
		Photos:      photoURLs(p.Photos),
		Phone:       p.FormattedPhoneNumber,
		Website:     p.Website,
		Hours:       ParseHours(p.WeekdayText),
	}
}

func postEntity(ref models.RawPostLocation, post models.RawPost, summary models.PostSummary) models.LocationEntity {
	name := ref.Name
	if name == "" {
		name = post.Title
	}
	if name == "" {
		name = placeholderName
	}

	photos := make([]string, 0, len(ref.Photos))
	photos = append(photos, ref.Photos...)

	return models.LocationEntity{
		ID:          ref.PlaceID,
		Name:        name,
		Position:    models.Position{Lat: deref(ref.Lat), Lng: deref(ref.Lng)},
		Description: post.Desc,
		Address:     ref.FormattedAddress,
		Category:    models.CategoryPost,
		Rating:      0,
		Photos:      photos,
		PostInfos:   []models.PostSummary{summary},
	}
}

func summarize(post models.RawPost) models.PostSummary {
	return models.PostSummary{
		NoteID:     post.NoteID,
		Title:      post.Title,
		Nickname:   post.Nickname,
		LikedCount: post.LikedCount,
		Time:       post.Time,
		Desc:       post.Desc,
		Score:      post.Score,
		Relevance:  post.Relevance,
	}
}

func postRelevance(post models.RawPost) float64 {
	if post.Relevance != nil {
		return *post.Relevance
	}
	if post.Score != nil {
		return *post.Score
	}
	return 0
}

// placePosition resolves coordinates from whichever shape is present:
// geometry.location first, flat location.lat/lon second, 0,0 otherwise
func placePosition(p models.RawPlace) models.Position {
	if p.Geometry != nil {
		return models.Position{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng}
	}
	if p.Location != nil {
		return models.Position{Lat: p.Location.Lat, Lng: p.Location.Lon}
	}
	return models.Position{}
}

var (
	foodKeywords       = []string{"美食", "food"}
	attractionKeywords = []string{"景点", "attraction"}
)

// inferPlaceType classifies a place as food or attraction by keyword
// search: the place's own source keyword first, then each note's in
// array order, defaulting to attraction.
func inferPlaceType(keyword string, notes []models.RawPlaceNote) models.PlaceType {
	if t, ok := matchKeyword(keyword); ok {
		return t
	}
	for _, note := range notes {
		if t, ok := matchKeyword(note.SourceKeyword); ok {
			return t
		}
	}
	return models.PlaceTypeAttraction
}

func matchKeyword(keyword string) (models.PlaceType, bool) {
	k := strings.ToLower(keyword)
	for _, w := range foodKeywords {
		if strings.Contains(k, w) {
			return models.PlaceTypeFood, true
		}
	}
	for _, w := range attractionKeywords {
		if strings.Contains(k, w) {
			return models.PlaceTypeAttraction, true
		}
	}
	return "", false
}

// photoURLs flattens photo descriptors to URL strings, dropping
// descriptors without one
func photoURLs(photos []models.RawPhoto) []string {
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.PhotoURL != "" {
			urls = append(urls, p.PhotoURL)
		}
	}
	return urls
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
