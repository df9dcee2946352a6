package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Gallery sort orders accepted by SearchGalleries.
const (
	SortEventDateDesc = "event_date_desc"
	SortEventDateAsc  = "event_date_asc"
	SortTitleAsc      = "title_asc"
	SortCreatedDesc   = "created_desc"
)

const DefaultGallerySort = SortEventDateDesc

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortEventDateDesc, SortEventDateAsc, SortTitleAsc, SortCreatedDesc:
		return true
	default:
		return false
	}
}

// GallerySearchOptions narrows a gallery search. Zero-valued fields are
// ignored.
type GallerySearchOptions struct {
	OwnerID   uint
	GroupID   uint
	TitleLike string
	EventFrom *time.Time
	EventTo   *time.Time
	SortOrder string
}

// GallerySummary is the flat row shape returned by SearchGalleries. Group
// links and images are loaded separately by the repository when needed.
type GallerySummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	UserID      uint      `json:"user_id"`
	EventDate   time.Time `json:"event_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchGalleries runs a dynamic filter query over the galleries table using
// the raw database handle. Filtering by group joins through gallery_group.
func SearchGalleries(db *sql.DB, opts GallerySearchOptions) ([]GallerySummary, error) {
	queryBuilder := psql.Select(
		"galleries.id", "galleries.title", "galleries.description",
		"galleries.user_id", "galleries.event_date", "galleries.created_at",
	).From("galleries")

	if opts.GroupID != 0 {
		queryBuilder = queryBuilder.
			Join("gallery_group ON gallery_group.gallery_id = galleries.id").
			Where(sq.Eq{"gallery_group.group_id": opts.GroupID})
	}
	if opts.OwnerID != 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"galleries.user_id": opts.OwnerID})
	}
	if opts.TitleLike != "" {
		queryBuilder = queryBuilder.Where(sq.Like{"galleries.title": "%" + opts.TitleLike + "%"})
	}
	if opts.EventFrom != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"galleries.event_date": *opts.EventFrom})
	}
	if opts.EventTo != nil {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"galleries.event_date": *opts.EventTo})
	}

	sortOrder := opts.SortOrder
	if sortOrder == "" {
		sortOrder = DefaultGallerySort
	}
	if !IsValidSortOrder(sortOrder) {
		return nil, fmt.Errorf("invalid gallery sort order %q", sortOrder)
	}
	switch sortOrder {
	case SortEventDateDesc:
		queryBuilder = queryBuilder.OrderBy("galleries.event_date DESC")
	case SortEventDateAsc:
		queryBuilder = queryBuilder.OrderBy("galleries.event_date ASC")
	case SortTitleAsc:
		queryBuilder = queryBuilder.OrderBy("galleries.title ASC")
	case SortCreatedDesc:
		queryBuilder = queryBuilder.OrderBy("galleries.created_at DESC")
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for SearchGalleries: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute SearchGalleries query: %w", err)
	}
	defer rows.Close()

	var results []GallerySummary
	for rows.Next() {
		var g GallerySummary
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.UserID, &g.EventDate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery row: %w", err)
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
