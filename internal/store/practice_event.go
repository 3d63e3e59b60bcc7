package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendPracticeEvent(ctx context.Context, data PracticeEventData) error {
	if data.UserID == "" {
		return fmt.Errorf("practice event: user id is required")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO practice_events
		(sequence, created_at, user_id, kind, problem_id, difficulty, points_delta, outcome, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.UserID, data.Kind, data.ProblemID,
		data.Difficulty, data.PointsDelta, data.Outcome, data.Detail,
	)
	if err != nil {
		return fmt.Errorf("save practice event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPracticeEvents(ctx context.Context, userID string, opts QueryOpts) ([]PracticeEvent, error) {
	query, args := appendQueryOpts(`SELECT id, sequence, created_at, user_id, kind, problem_id,
		difficulty, points_delta, outcome, detail FROM practice_events WHERE user_id = ?`,
		[]any{userID}, opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query practice events: %w", err)
	}
	defer rows.Close()

	var out []PracticeEvent
	for rows.Next() {
		var (
			e       PracticeEvent
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &created, &e.UserID, &e.Kind, &e.ProblemID,
			&e.Difficulty, &e.PointsDelta, &e.Outcome, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan practice event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
