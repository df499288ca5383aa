package models

// Category 地点类别：路线点、普通地点、帖子地点
type Category string

const (
	CategoryRoute Category = "route"
	CategoryPlace Category = "place"
	CategoryPost  Category = "post"
)

// PlaceType distinguishes food places from attractions, only set for
// CategoryPlace entities
type PlaceType string

const (
	PlaceTypeFood       PlaceType = "food"
	PlaceTypeAttraction PlaceType = "attraction"
)

// Position 经纬度坐标
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PathPoint is one point of a travel path polyline, independent of the
// entity list
type PathPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Weekday keys for OpeningHours, fixed set
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// OpeningHours maps weekday name to a free-text hours string, absent
// days are omitted
type OpeningHours map[string]string

// LocationEntity is one map-displayable place/post record produced by
// the aggregator, keyed by a unique identifier
type LocationEntity struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Position    Position      `json:"position"`
	Description string        `json:"description,omitempty"`
	Address     string        `json:"address,omitempty"`
	Category    Category      `json:"category"`
	PlaceType   PlaceType     `json:"placeType,omitempty"`
	Rating      float64       `json:"rating"`
	PostInfos   []PostSummary `json:"postInfos,omitempty"`
	Photos      []string      `json:"photos"`
	Phone       string        `json:"phone,omitempty"`
	Website     string        `json:"website,omitempty"`
	Hours       OpeningHours  `json:"openingHours,omitempty"`
}

// PostSummary 与某个地点关联的帖子摘要，按相关度降序排列
type PostSummary struct {
	NoteID     string   `json:"note_id"`
	Title      string   `json:"title,omitempty"`
	Nickname   string   `json:"nickname,omitempty"`
	LikedCount string   `json:"likedCount,omitempty"`
	Time       int64    `json:"time,omitempty"`
	Desc       string   `json:"desc,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Relevance  *float64 `json:"_score,omitempty"`
}

// RelevanceOf returns the ranking value used to order posts within an
// entity: the search relevance when present, the raw score otherwise
func (p PostSummary) RelevanceOf() float64 {
	if p.Relevance != nil {
		return *p.Relevance
	}
	if p.Score != nil {
		return *p.Score
	}
	return 0
}
