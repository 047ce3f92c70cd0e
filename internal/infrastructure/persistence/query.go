package persistence

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medishare/backend/internal/domain/shared"
)

// applyPaging orders and pages a query. The sort field falls back to
// defaultField when it is not whitelisted; created_at breaks ties.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(field + " " + dir)
	if field != "created_at" {
		query = query.Order("created_at " + dir)
	}
	query = query.Order("id ASC")

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyEquals adds "column = value" for every listed filter key present
func applyEquals(query *gorm.DB, filter shared.Filter, columns ...string) *gorm.DB {
	for _, column := range columns {
		if value, ok := filter.Filters[column]; ok {
			query = query.Where(column+" = ?", filterValue(value))
		}
	}
	return query
}

// filterValue unwraps typed string enums so every driver binds plain text
func filterValue(v any) any {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}

// translateFindError maps a missing row to a NOT_FOUND domain error
func translateFindError(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity, id)
	}
	return fmt.Errorf("find %s: %w", entity, err)
}

// versionedUpdate writes values only when the stored version is one behind
// the aggregate's. Zero rows means a concurrent writer got there first, or
// the row is gone.
func versionedUpdate(db *gorm.DB, model any, entity string, id uuid.UUID, version int, values map[string]any) error {
	values["version"] = version
	result := db.Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("update %s: %w", entity, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("update %s: %w", entity, err)
	}
	if count == 0 {
		return shared.NewNotFoundError(entity, id)
	}
	return shared.NewDomainError(shared.CodeConcurrencyConflict,
		fmt.Sprintf("%s %s was modified by another transaction", entity, id))
}

// likePattern builds a lower-cased substring pattern with LIKE wildcards escaped
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(strings.TrimSpace(search)))
	return "%" + escaped + "%"
}
