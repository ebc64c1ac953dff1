package kv

import (
	"errors"
	"fmt"
)

// Arguments turns an option value read from a configuration file into decoder
// arguments. Strings become a single argument and arrays one argument per element.
func Arguments(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		args := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			args = append(args, s)
		}
		return args, nil
	default:
		return nil, fmt.Errorf("unsupported option value type %T", raw)
	}
}

// DecodeValue decodes a raw option value. A value that is already decoded (of type T,
// or a table read from a configuration file) is passed through without re-parsing.
func DecodeValue[T any](d Decoder[T], raw any) (T, error) {
	if decoded, ok := raw.(T); ok {
		return decoded, nil
	}

	if table, ok := raw.(map[string]any); ok {
		return fromTable[T](table)
	}

	var zero T
	args, err := Arguments(raw)
	if err != nil {
		return zero, err
	}
	return d.Decode(args...)
}

// fromTable converts a decoded configuration table into the decoder result type.
func fromTable[T any](table map[string]any) (T, error) {
	var out T
	switch target := any(&out).(type) {
	case *Values:
		values := make(Values, len(table))
		for key, raw := range table {
			args, err := Arguments(raw)
			if err != nil {
				return out, fmt.Errorf("key %s: %w", key, err)
			}
			values[key] = args
		}
		*target = values
	case *map[string]string:
		m := make(map[string]string, len(table))
		for key, raw := range table {
			s, err := scalarString(raw)
			if err != nil {
				return out, fmt.Errorf("key %s: %w", key, err)
			}
			m[key] = s
		}
		*target = m
	case *map[string]SigningProfile:
		m := make(map[string]SigningProfile, len(table))
		for key, raw := range table {
			profile, err := profileFromTable(raw)
			if err != nil {
				return out, fmt.Errorf("key %s: %w", key, err)
			}
			m[key] = profile
		}
		*target = m
	default:
		return out, fmt.Errorf("cannot convert table to %T", out)
	}
	return out, nil
}

func profileFromTable(raw any) (SigningProfile, error) {
	switch v := raw.(type) {
	case SigningProfile:
		return v, nil
	case string:
		return ParseSigningProfile(v)
	case map[string]any:
		name, _ := v["profile_name"].(string)
		owner, _ := v["profile_owner"].(string)
		if name == "" {
			return SigningProfile{}, errors.New("missing profile_name")
		}
		return SigningProfile{ProfileName: name, ProfileOwner: owner}, nil
	default:
		return SigningProfile{}, fmt.Errorf("unsupported signing profile type %T", raw)
	}
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool, int, int64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported option value type %T", raw)
	}
}
