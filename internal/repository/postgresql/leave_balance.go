package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/leave"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Get(ctx context.Context, userID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	var bal leave.Balance
	err := q.QueryRow(ctx, `
		SELECT user_id, balance_days, updated_at
		FROM leave_balances
		WHERE user_id = $1
	`, userID).Scan(&bal.UserID, &bal.BalanceDays, &bal.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			// No accruals yet means a zero balance, not an error.
			return leave.Balance{UserID: userID}, nil
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return bal, nil
}

// Adjust implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Adjust(ctx context.Context, userID string, delta float64) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO leave_balances (user_id, balance_days, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET balance_days = leave_balances.balance_days + EXCLUDED.balance_days,
		              updated_at = NOW()
	`, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	return nil
}

// RecordAccrual implements leave.BalanceRepository.
func (r *leaveBalanceRepository) RecordAccrual(ctx context.Context, userID string, period string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO leave_accruals (user_id, period)
		VALUES ($1, $2)
		ON CONFLICT (user_id, period) DO NOTHING
	`, userID, period)
	if err != nil {
		return false, fmt.Errorf("failed to record leave accrual: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
