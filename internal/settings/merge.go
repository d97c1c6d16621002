package settings

import "encoding/json"

// DeepMerge lays source over target, recursing into nested objects.
// Arrays and scalars are replaced wholesale; keys unknown to target are
// kept so custom fields survive a round trip.
func DeepMerge(target, source map[string]any) map[string]any {
	out := make(map[string]any, len(target)+len(source))
	for k, v := range target {
		out[k] = v
	}
	for k, sourceValue := range source {
		targetValue, exists := out[k]
		if exists {
			targetMap, tok := targetValue.(map[string]any)
			sourceMap, sok := sourceValue.(map[string]any)
			if tok && sok {
				out[k] = DeepMerge(targetMap, sourceMap)
				continue
			}
		}
		out[k] = sourceValue
	}
	return out
}

// mergeOverDefaults lays a stored document over the defaults and decodes
// the result. Unknown keys in the stored document are ignored by the
// decode but still shape the merge, keeping the behavior stable if the
// schema grows.
func mergeOverDefaults(stored map[string]any) (Settings, error) {
	defaults, err := toMap(Defaults())
	if err != nil {
		return Defaults(), err
	}
	merged := DeepMerge(defaults, stored)

	raw, err := json.Marshal(merged)
	if err != nil {
		return Defaults(), err
	}
	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return Defaults(), err
	}
	return out, nil
}

func toMap(s Settings) (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
