package store

import (
	"context"
	"fmt"

	"github.com/quizdeck/quizdeck/internal/model"
)

// InsertAuditEntry appends one row to the admin activity log.
func (s *Store) InsertAuditEntry(ctx context.Context, e *model.AuditEntry) error {
	e.CreatedAt = now()

	stmt := s.rebind(`INSERT INTO admin_logs
		(admin_id, action, target_type, target_id, old_data, new_data, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := s.db.GetContext(ctx, &e.ID, stmt,
		e.AdminID, e.Action, e.TargetType, e.TargetID,
		e.OldData, e.NewData, e.IPAddress, e.UserAgent, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns one page of audit log entries, newest first,
// with the actor's username and full name joined in.
func (s *Store) ListAuditEntries(ctx context.Context, f model.AuditFilter, page, limit int) ([]model.AuditEntry, int64, error) {
	where := "1 = 1"
	var args []interface{}
	if f.Action != "" {
		where += " AND l.action = ?"
		args = append(args, f.Action)
	}
	if f.TargetType != "" {
		where += " AND l.target_type = ?"
		args = append(args, f.TargetType)
	}
	if f.AdminID != nil {
		where += " AND l.admin_id = ?"
		args = append(args, *f.AdminID)
	}

	var total int64
	countQ := s.rebind("SELECT COUNT(*) FROM admin_logs l WHERE " + where)
	if err := s.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	var entries []model.AuditEntry
	stmt := s.rebind(`SELECT l.*, a.username AS admin_username, a.full_name AS admin_full_name
		FROM admin_logs l
		LEFT JOIN admins a ON l.admin_id = a.id
		WHERE ` + where + ` ORDER BY l.created_at DESC, l.id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, (page-1)*limit)
	if err := s.db.SelectContext(ctx, &entries, stmt, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, total, nil
}
