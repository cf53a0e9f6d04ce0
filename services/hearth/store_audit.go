package hearth

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// AuditEntry is a recorded mutation.
type AuditEntry struct {
	ID      int64          `json:"id" yaml:"id"`
	Actor   string         `json:"actor" yaml:"actor"`
	Action  string         `json:"action" yaml:"action"`
	Obj     string         `json:"obj" yaml:"obj"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	At      time.Time      `json:"at" yaml:"at"`
}

func (s *Store) recordAudit(ctx context.Context, actor, action, obj string, details map[string]any) error {
	row := auditModel{Actor: actor, Action: action, Obj: obj, Details: datatypes.JSONMap(details)}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return storeErr("record audit", err)
	}
	return nil
}

// AuditTrail returns the most recent entries for actor, newest first. An
// empty actor lists every entry.
func (s *Store) AuditTrail(ctx context.Context, actor string, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	q := s.conn(ctx).Order("id DESC").Limit(limit)
	if actor != "" {
		q = q.Where("actor = ?", actor)
	}

	var rows []auditModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, storeErr("list audit", err)
	}

	out := make([]AuditEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, AuditEntry{
			ID:      row.ID,
			Actor:   row.Actor,
			Action:  row.Action,
			Obj:     row.Obj,
			Details: map[string]any(row.Details),
			At:      row.At,
		})
	}
	return out, nil
}
