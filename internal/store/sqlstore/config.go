package sqlstore

import (
	"context"
	"database/sql"
	"errors"
)

// ConfigSet upserts key (normalized to underscores) with value.
func (s *Store) ConfigSet(ctx context.Context, key, value string) error {
	if s.readOnly {
		return errReadOnly
	}
	row := &configModel{Key: normalizeKey(key), Value: value}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

// ConfigGet returns the value for key (normalized to underscores), or
// ("", false, nil) if unset.
func (s *Store) ConfigGet(ctx context.Context, key string) (string, bool, error) {
	var row configModel
	err := s.db.NewSelect().
		Model(&row).
		Where("key = ?", normalizeKey(key)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}
