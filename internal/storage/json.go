package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, st Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := st.Put(ctx, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadJSON decodes the record under key into v. It returns found=false when
// the record is absent. A decode failure is returned as an error with
// found=true so callers can tell corrupt data from missing data.
func LoadJSON(ctx context.Context, st Store, key string, v any) (found bool, err error) {
	b, ok, err := st.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}
