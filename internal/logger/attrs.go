package logger

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"
)

// replaceAttrForDev renders map attributes as sorted `key.sub=value` lists so decoded
// option mappings stay readable on one line.
func replaceAttrForDev(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	if v := a.Value.Any(); isStringKeyedMap(v) {
		return slog.String(a.Key, flattenMapAttr(a.Key, v))
	}
	return a
}

// flattenMapAttr flattens string-keyed maps, nested ones included, into space
// separated `prefix.key=value` entries sorted by key. Other values are formatted
// with fmt.Sprint.
func flattenMapAttr(prefix string, value any) string {
	if !isStringKeyedMap(value) {
		return fmt.Sprint(value)
	}

	rv := reflect.ValueOf(value)
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		key := k.String()
		if prefix != "" {
			key = prefix + "." + key
		}

		v := rv.MapIndex(k).Interface()
		if isStringKeyedMap(v) {
			if nested := flattenMapAttr(key, v); nested != "" {
				parts = append(parts, nested)
			}
			continue
		}
		parts = append(parts, key+"="+fmt.Sprint(v))
	}
	return strings.Join(parts, " ")
}

func isStringKeyedMap(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
}

// GetDeadlineInfo returns logging attributes for context deadline information.
// Returns the absolute deadline time and remaining duration if set, or "none" if no deadline.
func GetDeadlineInfo(ctx context.Context) []any {
	deadline, ok := ctx.Deadline()
	if !ok {
		return []any{"deadline", "none", "deadline_remaining", "none"}
	}

	remaining := time.Until(deadline)
	return []any{
		"deadline", deadline.Format(time.RFC3339),
		"deadline_remaining", remaining.String(),
	}
}

// SliceToMap converts alternating key-value pairs to a map. Non-string keys and a
// trailing key without a value are skipped.
func SliceToMap(args []any) map[string]any {
	argsMap := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			argsMap[key] = args[i+1]
		}
	}
	return argsMap
}
