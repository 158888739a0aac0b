package models

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// generateUniqueSlug slugifies value and probes the model's table for
// collisions, appending -2, -3, ... until the slug is free.
func generateUniqueSlug(tx *gorm.DB, model interface{}, value string) (string, error) {
	base := slug.Make(value)
	if base == "" {
		base = "item"
	}

	candidate := base
	counter := 2
	for {
		var count int64
		if err := tx.Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("slug lookup for %q failed: %w", candidate, err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}
