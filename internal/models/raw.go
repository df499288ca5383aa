package models

import (
	"encoding/json"
)

// RawSearchResponse is the untrusted search payload: three independent,
// each-optional arrays plus an optional travel path. Decoding is
// tolerant: a malformed element or a key of the wrong type degrades to
// its zero value instead of failing the whole payload. Only a
// non-object top level is an error.
type RawSearchResponse struct {
	Route  []RawRouteItem  `json:"route"`
	Places []RawPlaceEntry `json:"places"`
	Posts  []RawPost       `json:"posts"`
	Points []PathPoint     `json:"points"`
	Length int             `json:"places_length"`
	Mode   string          `json:"mode"`
}

// UnmarshalJSON decodes each top-level key independently so that one
// bad array does not drop the rest of the payload.
func (r *RawSearchResponse) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	r.Route = looseSlice[RawRouteItem](m["route"])
	r.Places = looseSlice[RawPlaceEntry](m["places"])
	r.Posts = looseSlice[RawPost](m["posts"])
	r.Points = looseSlice[PathPoint](m["points"])

	if raw, ok := m["mode"]; ok {
		// 忽略类型错误
		_ = json.Unmarshal(raw, &r.Mode)
	}
	if raw, ok := m["places_length"]; ok {
		_ = json.Unmarshal(raw, &r.Length)
	}

	return nil
}

// looseSlice decodes a JSON array element by element, skipping elements
// that do not match the expected shape. A missing or non-array value
// yields nil.
func looseSlice[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	var out []T
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			continue
		}
		out = append(out, v)
	}

	return out
}

// RawPhoto is a photo descriptor. Upstream sends either an object with
// a photo_url or a bare URL string.
type RawPhoto struct {
	Height   int    `json:"height"`
	Width    int    `json:"width"`
	PhotoURL string `json:"photo_url"`
}

// UnmarshalJSON accepts both the object and the bare-string shape.
func (p *RawPhoto) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.PhotoURL = s
		return nil
	}

	type alias RawPhoto
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = RawPhoto(a)
	return nil
}

// RawRouteItem is a candidate stop from a computed route
type RawRouteItem struct {
	PlaceID              string     `json:"place_id"`
	Name                 string     `json:"name"`
	Latitude             *float64   `json:"latitude"`
	Longitude            *float64   `json:"longitude"`
	FormattedAddress     string     `json:"formatted_address"`
	FormattedPhoneNumber string     `json:"formatted_phone_number"`
	Rating               *float64   `json:"rating"`
	URL                  string     `json:"url"`
	Website              string     `json:"website"`
	WeekdayText          []string   `json:"weekday_text"`
	Photos               []RawPhoto `json:"photos"`
}

// RawPlaceEntry wraps a place record with its associated notes
type RawPlaceEntry struct {
	Place RawPlace       `json:"place"`
	Notes []RawPlaceNote `json:"notes"`
}

// RawLatLng is the nested geometry-style coordinate shape
type RawLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RawLatLon is the flat geo_point coordinate shape
type RawLatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RawGeometry holds the geometry.location coordinate shape
type RawGeometry struct {
	Location RawLatLng `json:"location"`
}

// RawPlace is a place record from the nearby-places array. Coordinates
// come in one of two shapes: Geometry.Location or the flat Location.
type RawPlace struct {
	Status               string       `json:"status"`
	Query                string       `json:"query"`
	PlaceID              string       `json:"place_id"`
	Name                 string       `json:"name"`
	FormattedAddress     string       `json:"formatted_address"`
	FormattedPhoneNumber string       `json:"formatted_phone_number"`
	Rating               *float64     `json:"rating"`
	URL                  string       `json:"url"`
	Website              string       `json:"website"`
	WeekdayText          []string     `json:"weekday_text"`
	Geometry             *RawGeometry `json:"geometry"`
	Photos               []RawPhoto   `json:"photos"`
	Location             *RawLatLon   `json:"location"`
	SourceKeyword        string       `json:"source_keyword"`
	Description          string       `json:"description"`
	Relevance            *float64     `json:"_score"`
}

// RawPlaceNote is a social note attached to a nearby place
type RawPlaceNote struct {
	NoteID         string            `json:"note_id"`
	Type           string            `json:"type"`
	Title          string            `json:"title"`
	Desc           string            `json:"desc"`
	VideoURL       string            `json:"video_url"`
	Time           int64             `json:"time"`
	LastUpdateTime int64             `json:"last_update_time"`
	UserID         string            `json:"user_id"`
	Nickname       string            `json:"nickname"`
	Avatar         string            `json:"avatar"`
	LikedCount     string            `json:"liked_count"`
	CollectedCount string            `json:"collected_count"`
	CommentCount   string            `json:"comment_count"`
	ShareCount     string            `json:"share_count"`
	IPLocation     string            `json:"ip_location"`
	TagList        string            `json:"tag_list"`
	NoteURL        string            `json:"note_url"`
	SourceKeyword  string            `json:"source_keyword"`
	Locations      []RawPostLocation `json:"locations"`
	Score          *float64          `json:"score"`
}

// RawPost is a user-shared social post referencing zero or more locations
type RawPost struct {
	NoteID     string            `json:"note_id"`
	Title      string            `json:"title"`
	Desc       string            `json:"desc"`
	Time       int64             `json:"time"`
	Nickname   string            `json:"nickname"`
	LikedCount string            `json:"liked_count"`
	Locations  []RawPostLocation `json:"locations"`
	Score      *float64          `json:"score"`
	Relevance  *float64          `json:"_score"`
}

// RawPostLocation is a location reference carried inside a post.
// Location is not part of the upstream payload; the search index
// injects it as a geo_point derived from lat/lng.
type RawPostLocation struct {
	PlaceID          string     `json:"place_id"`
	Name             string     `json:"name"`
	Lat              *float64   `json:"lat"`
	Lng              *float64   `json:"lng"`
	FormattedAddress string     `json:"formatted_address"`
	Photos           []string   `json:"photos"`
	Location         *RawLatLon `json:"location,omitempty"`
}
