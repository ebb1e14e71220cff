package models

import (
	"time"

	"github.com/lib/pq"
)

// ContentType tags the six content variants that share the engagement
// counters. The tag doubles as the discriminator in the interaction ledger.
type ContentType string

const (
	ContentTypePost         ContentType = "post"
	ContentTypeGig          ContentType = "gig"
	ContentTypeSkateSpot    ContentType = "skate_spot"
	ContentTypeTrickVideo   ContentType = "trick_video"
	ContentTypeForumTopic   ContentType = "forum_topic"
	ContentTypeCommuteAlert ContentType = "commute_alert"
)

// CounterField names a denormalized counter column. Counters are a cache of
// the ledger, never a source of truth.
type CounterField string

const (
	CounterLikes      CounterField = "likes_count"
	CounterComments   CounterField = "comments_count"
	CounterInterested CounterField = "interested_count"
	CounterViews      CounterField = "views_count"
	CounterRatings    CounterField = "ratings_count"
)

type ContentTypeInfo struct {
	Table    string
	Counters map[CounterField]bool
}

// ContentRegistry declares, per content variant, its table and which counter
// columns it carries. A delta against an undeclared counter is rejected up
// front instead of silently writing a column that does not exist.
var ContentRegistry = map[ContentType]ContentTypeInfo{
	ContentTypePost: {
		Table:    "posts",
		Counters: map[CounterField]bool{CounterLikes: true, CounterComments: true, CounterViews: true},
	},
	ContentTypeGig: {
		Table:    "gigs",
		Counters: map[CounterField]bool{CounterLikes: true, CounterComments: true, CounterInterested: true},
	},
	ContentTypeSkateSpot: {
		Table:    "skate_spots",
		Counters: map[CounterField]bool{CounterLikes: true, CounterComments: true, CounterRatings: true},
	},
	ContentTypeTrickVideo: {
		Table:    "trick_videos",
		Counters: map[CounterField]bool{CounterLikes: true, CounterComments: true, CounterViews: true},
	},
	ContentTypeForumTopic: {
		Table:    "forum_topics",
		Counters: map[CounterField]bool{CounterLikes: true, CounterComments: true, CounterViews: true},
	},
	ContentTypeCommuteAlert: {
		Table:    "commute_alerts",
		Counters: map[CounterField]bool{CounterLikes: true, CounterComments: true},
	},
}

func ValidContentType(t ContentType) bool {
	_, ok := ContentRegistry[t]
	return ok
}

type Post struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"userId"`
	Body          string         `gorm:"type:text;not null" json:"body"`
	MediaURLs     pq.StringArray `gorm:"type:text[]" json:"mediaUrls"`
	Hashtags      pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	LikesCount    int64          `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64          `gorm:"not null;default:0" json:"commentsCount"`
	ViewsCount    int64          `gorm:"not null;default:0" json:"viewsCount"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type Gig struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"userId"`
	Title           string    `gorm:"type:varchar(200);not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Venue           string    `gorm:"type:varchar(200)" json:"venue"`
	StartsAt        time.Time `json:"startsAt"`
	LikesCount      int64     `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount   int64     `gorm:"not null;default:0" json:"commentsCount"`
	InterestedCount int64     `gorm:"not null;default:0" json:"interestedCount"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type SkateSpot struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Latitude      float64   `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude     float64   `gorm:"type:decimal(11,8)" json:"longitude"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"`
	RatingsCount  int64     `gorm:"not null;default:0" json:"ratingsCount"`
	Rating        float64   `gorm:"not null;default:0" json:"rating"` // average of ledger ratings
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type TrickVideo struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"userId"`
	Title         string         `gorm:"type:varchar(200);not null" json:"title"`
	VideoURL      string         `gorm:"type:text;not null" json:"videoUrl"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	LikesCount    int64          `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64          `gorm:"not null;default:0" json:"commentsCount"`
	ViewsCount    int64          `gorm:"not null;default:0" json:"viewsCount"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type ForumTopic struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Title         string    `gorm:"type:varchar(200);not null" json:"title"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"`
	ViewsCount    int64     `gorm:"not null;default:0" json:"viewsCount"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CommuteAlert struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Route         string    `gorm:"type:varchar(200);not null" json:"route"`
	Severity      string    `gorm:"type:varchar(20);not null;default:'info'" json:"severity"` // info, warning, danger
	Body          string    `gorm:"type:text" json:"body"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"`
	Active        bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
