package settings

import "dashcfg/internal/models"

// Merge overlays stored onto defaults one level deep. Sections known to
// defaults take stored fields over default ones; any other stored key, or a
// known key whose stored value is not an object, replaces the section as is.
// Neither argument is modified.
func Merge(defaults, stored models.Document) models.Document {
	merged := make(models.Document, len(defaults)+len(stored))
	for name, section := range defaults {
		merged[name] = models.CloneValue(section)
	}

	for name, value := range stored {
		base, known := merged[name].(map[string]any)
		fields, isMap := value.(map[string]any)
		if !known || !isMap {
			merged[name] = models.CloneValue(value)
			continue
		}
		for field, v := range fields {
			base[field] = models.CloneValue(v)
		}
	}

	return merged
}

func overlay(doc models.Document, section string, fields map[string]any) {
	target, ok := doc[section].(map[string]any)
	if !ok {
		target = make(map[string]any, len(fields))
		doc[section] = target
	}
	for field, value := range fields {
		target[field] = value
	}
}
