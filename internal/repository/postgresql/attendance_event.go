package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/attendance"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
)

type attendanceEventRepository struct {
	db *database.DB
}

func NewAttendanceEventRepository(db *database.DB) attendance.EventRepository {
	return &attendanceEventRepository{db: db}
}

// Append implements attendance.EventRepository.
func (r *attendanceEventRepository) Append(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (id, user_id, type, recorded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.Type,
		event.RecordedAt,
	).Scan(&event.CreatedAt)

	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to append attendance event: %w", err)
	}

	return event, nil
}

// ListByUserAndRange implements attendance.EventRepository.
func (r *attendanceEventRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, user_id, type, recorded_at, created_at
		FROM attendance_events
		WHERE user_id = $1
		  AND recorded_at >= $2
		  AND recorded_at < $3
		ORDER BY recorded_at
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByRange implements attendance.EventRepository.
func (r *attendanceEventRepository) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, user_id, type, recorded_at, created_at
		FROM attendance_events
		WHERE recorded_at >= $1
		  AND recorded_at < $2
		ORDER BY recorded_at
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountByUserAndTypeInRange implements attendance.EventRepository.
func (r *attendanceEventRepository) CountByUserAndTypeInRange(ctx context.Context, userID string, eventType attendance.EventType, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendance_events
		WHERE user_id = $1
		  AND type = $2
		  AND recorded_at >= $3
		  AND recorded_at < $4
	`, userID, eventType, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance events: %w", err)
	}

	return count, nil
}

func scanEvents(rows pgx.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		var e attendance.Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.RecordedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance event rows: %w", err)
	}

	return events, nil
}
