package utils

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ApplyQueryFeatures applies filter, sort, field selection and pagination
// from request query parameters onto a gorm query. Only whitelisted
// columns are accepted; unknown parameters are ignored.
//
// Recognized controls: sort=col,-col  fields=col,col  page=N  limit=N.
// Any other parameter whose name is whitelisted becomes an equality filter.
func ApplyQueryFeatures(tx *gorm.DB, query url.Values, allowed map[string]bool) *gorm.DB {
	for key, values := range query {
		switch key {
		case "sort", "fields", "page", "limit":
			continue
		}
		if !allowed[key] || len(values) == 0 || values[0] == "" {
			continue
		}
		tx = tx.Where(key+" = ?", values[0])
	}

	if sort := query.Get("sort"); sort != "" {
		for _, field := range strings.Split(sort, ",") {
			field = strings.TrimSpace(field)
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			if !allowed[field] {
				continue
			}
			if desc {
				tx = tx.Order(field + " DESC")
			} else {
				tx = tx.Order(field)
			}
		}
	} else {
		tx = tx.Order("created_at DESC")
	}

	if fields := query.Get("fields"); fields != "" {
		selected := make([]string, 0)
		for _, field := range strings.Split(fields, ",") {
			field = strings.TrimSpace(field)
			if allowed[field] {
				selected = append(selected, field)
			}
		}
		if len(selected) > 0 {
			// id is always needed so relations can still be populated
			if !contains(selected, "id") {
				selected = append(selected, "id")
			}
			tx = tx.Select(selected)
		}
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return tx.Offset((page - 1) * limit).Limit(limit)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
