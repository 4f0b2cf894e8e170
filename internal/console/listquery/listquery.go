// Package listquery filters, searches, groups and pages the records a
// list store holds. Every function is pure: inputs are never mutated and
// the same criteria over the same records always yields the same result.
package listquery

import (
	"strings"
	"time"

	"github.com/smoralesdev/labtrack-backend/pkg/pagination"
)

// AllValues is the dropdown sentinel meaning "do not filter this field".
// An empty string means the same thing.
const AllValues = "All"

// Criteria is one view's active filter set. Fields compose with AND: a
// record must satisfy the search text, every exact filter and the date
// range to be included.
type Criteria struct {
	// SearchText matches case-insensitively as a substring over the
	// schema's search fields. A record matches when any field matches.
	SearchText string
	// Exact maps field name to required value. Sentinel values are
	// skipped.
	Exact map[string]string
	// DateFrom and DateTo bound the schema's date field inclusively.
	// Either side may be nil.
	DateFrom *time.Time
	DateTo   *time.Time
}

// Schema tells the engine how to read one record type.
type Schema[T any] struct {
	// SearchFields are the field names the free-text search scans.
	SearchFields []string
	// FieldValue extracts the comparable string value of a named field.
	FieldValue func(record T, field string) string
	// DateValue extracts the record's date for range filtering. ok is
	// false when the record has no date, which excludes it from ranged
	// queries only.
	DateValue func(record T) (value time.Time, ok bool)
	// GroupKey buckets records for Aggregate.
	GroupKey func(record T) string
}

// Page is one window over the filtered records.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

func isSentinel(value string) bool {
	return value == "" || strings.EqualFold(value, AllValues)
}

// Apply returns the records matching every active criterion, in input
// order.
func Apply[T any](records []T, criteria Criteria, schema Schema[T]) []T {
	matched := make([]T, 0, len(records))
	for _, record := range records {
		if matches(record, criteria, schema) {
			matched = append(matched, record)
		}
	}
	return matched
}

func matches[T any](record T, criteria Criteria, schema Schema[T]) bool {
	if !matchesSearch(record, criteria.SearchText, schema) {
		return false
	}
	for field, want := range criteria.Exact {
		if isSentinel(want) {
			continue
		}
		if schema.FieldValue == nil {
			return false
		}
		if !strings.EqualFold(schema.FieldValue(record, field), want) {
			return false
		}
	}
	return matchesDateRange(record, criteria, schema)
}

func matchesSearch[T any](record T, text string, schema Schema[T]) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	if schema.FieldValue == nil || len(schema.SearchFields) == 0 {
		return false
	}
	for _, field := range schema.SearchFields {
		haystack := strings.ToLower(schema.FieldValue(record, field))
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func matchesDateRange[T any](record T, criteria Criteria, schema Schema[T]) bool {
	if criteria.DateFrom == nil && criteria.DateTo == nil {
		return true
	}
	if schema.DateValue == nil {
		return false
	}
	value, ok := schema.DateValue(record)
	if !ok {
		return false
	}
	if criteria.DateFrom != nil && value.Before(*criteria.DateFrom) {
		return false
	}
	if criteria.DateTo != nil && value.After(*criteria.DateTo) {
		return false
	}
	return true
}

// Aggregate counts records per group key. Records whose key is empty are
// bucketed under the empty string.
func Aggregate[T any](records []T, schema Schema[T]) map[string]int {
	counts := make(map[string]int)
	if schema.GroupKey == nil {
		return counts
	}
	for _, record := range records {
		counts[schema.GroupKey(record)]++
	}
	return counts
}

// Paginate slices the records into the requested page. Out-of-range page
// numbers clamp to the nearest valid page; page 1 of an empty collection
// is a valid empty page.
func Paginate[T any](records []T, page, pageSize int) Page[T] {
	pageSize = pagination.NormalizePageSize(pageSize)
	totalPages := pagination.TotalPages(len(records), pageSize)
	page = pagination.ClampPage(page, totalPages)
	start, end := pagination.Bounds(len(records), pageSize, page)

	items := make([]T, end-start)
	copy(items, records[start:end])
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(records),
		TotalPages: totalPages,
	}
}
