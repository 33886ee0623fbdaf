package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-drive/internal/model"
)

type PgAuditRepository struct {
	pool *pgxpool.Pool
}

func NewPgAuditRepository(pool *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{pool: pool}
}

func (r *PgAuditRepository) Insert(ctx context.Context, record model.AuditRecord) error {
	var detailsJSON []byte
	if record.Details != nil {
		data, err := json.Marshal(record.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		detailsJSON = data
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_records
		 (id, occurred_at, actor_id, actor_email, action, status,
		  target_type, target_id, target_name, details, ip_address, user_agent, error_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.ID, record.OccurredAt, record.ActorID, record.ActorEmail,
		record.Action, record.Status, record.TargetType, record.TargetID,
		record.TargetName, detailsJSON, record.IPAddress, record.UserAgent, record.Error)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func (r *PgAuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditRecord, model.Meta, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}

	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if action := strings.TrimSpace(query.Action); action != "" {
		where = append(where, fmt.Sprintf("lower(action) = lower($%d)", argIdx))
		args = append(args, action)
		argIdx++
	}
	if actorID := strings.TrimSpace(query.ActorID); actorID != "" {
		where = append(where, fmt.Sprintf("actor_id = $%d", argIdx))
		args = append(args, actorID)
		argIdx++
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		where = append(where, fmt.Sprintf("lower(status) = lower($%d)", argIdx))
		args = append(args, status)
		argIdx++
	}
	if targetID := strings.TrimSpace(query.TargetID); targetID != "" {
		where = append(where, fmt.Sprintf("target_id = $%d", argIdx))
		args = append(args, targetID)
		argIdx++
	}
	if from := strings.TrimSpace(query.From); from != "" {
		where = append(where, fmt.Sprintf("occurred_at >= $%d::timestamptz", argIdx))
		args = append(args, from)
		argIdx++
	}
	if to := strings.TrimSpace(query.To); to != "" {
		where = append(where, fmt.Sprintf("occurred_at <= $%d::timestamptz", argIdx))
		args = append(args, to)
		argIdx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_records %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count audit records: %w", err)
	}

	meta := model.NewMeta(query.Page, query.Limit, total)

	offset := (query.Page - 1) * query.Limit
	dataQuery := fmt.Sprintf(
		`SELECT id, occurred_at, actor_id, actor_email, action, status,
		        target_type, target_id, target_name, details, ip_address, user_agent, error_text
		 FROM audit_records %s
		 ORDER BY occurred_at DESC
		 LIMIT $%d OFFSET $%d`, whereClause, argIdx, argIdx+1)
	args = append(args, query.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]model.AuditRecord, 0)
	for rows.Next() {
		var rec model.AuditRecord
		var detailsJSON []byte

		if err := rows.Scan(
			&rec.ID, &rec.OccurredAt, &rec.ActorID, &rec.ActorEmail,
			&rec.Action, &rec.Status, &rec.TargetType, &rec.TargetID,
			&rec.TargetName, &detailsJSON, &rec.IPAddress, &rec.UserAgent, &rec.Error,
		); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan audit record: %w", err)
		}

		if len(detailsJSON) > 0 {
			var details map[string]any
			if jsonErr := json.Unmarshal(detailsJSON, &details); jsonErr == nil {
				rec.Details = details
			}
		}

		records = append(records, rec)
	}

	return records, meta, rows.Err()
}
