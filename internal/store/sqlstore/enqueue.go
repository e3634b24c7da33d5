package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	qstore "github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// Enqueue inserts a new job in Pending state.
func (s *Store) Enqueue(ctx context.Context, spec job.Spec) (*job.Job, error) {
	if s.readOnly {
		return nil, errReadOnly
	}
	if strings.TrimSpace(spec.Command) == "" {
		return nil, qstore.ErrInvalidInput
	}
	now := time.Now().UTC()
	model := fromSpec(spec, s.defaultMaxRetries(ctx), now)

	_, err := s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, qstore.ErrDuplicateID
		}
		return nil, err
	}
	return model.toJob(), nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "constraint")
}
