package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/slotswap/slotswap/internal/domain"
)

// SlotRepository implements domain.SlotRepository using SQLite.
type SlotRepository struct {
	db *sql.DB
}

// NewSlotRepository creates a new SQLite-backed SlotRepository.
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db.SqlDB}
}

const slotColumns = "id, user_id, title, start_time, end_time, status, created_at, updated_at"

func scanSlot(row interface{ Scan(...any) error }, s *domain.Slot) error {
	return row.Scan(&s.ID, &s.UserID, &s.Title, &s.StartTime, &s.EndTime, &s.Status, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO slots (user_id, title, start_time, end_time, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		slot.UserID, slot.Title, slot.StartTime.UTC(), slot.EndTime.UTC(), slot.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	slot.ID = id
	slot.CreatedAt = now
	slot.UpdatedAt = now
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot := &domain.Slot{}
	err := scanSlot(r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ?`, id), slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query slot by id: %w", err)
	}
	return slot, nil
}

func (r *SlotRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Slot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE user_id = ? ORDER BY start_time ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

func (r *SlotRepository) ListSwappableExcluding(ctx context.Context, ownerID int64) ([]domain.Slot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM slots
		 WHERE status = ? AND user_id != ? ORDER BY start_time ASC`,
		domain.SlotStatusSwappable, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list swappable slots: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

// UpdateStatus sets the status of a slot owned by ownerID. A slot locked by
// a pending proposal cannot be retargeted through this path; callers get
// ErrSlotLocked instead. The read and write share one transaction so the
// lock check cannot race with proposal creation.
func (r *SlotRepository) UpdateStatus(ctx context.Context, id, ownerID int64, status string) (*domain.Slot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	slot := &domain.Slot{}
	err = scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ? AND user_id = ?`, id, ownerID), slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query slot: %w", err)
	}

	if slot.Status == domain.SlotStatusSwapPending {
		return nil, domain.ErrSlotLocked
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE slots SET status = ?, updated_at = ? WHERE id = ?`,
		status, now, id,
	); err != nil {
		return nil, fmt.Errorf("update slot status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	slot.Status = status
	slot.UpdatedAt = now
	return slot, nil
}

// Delete removes a slot owned by ownerID. Deletion is refused while the slot
// is locked by a pending proposal, so a resolved proposal can never point at
// a missing slot.
func (r *SlotRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM slots WHERE id = ? AND user_id = ?`, id, ownerID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("query slot: %w", err)
	}

	if status == domain.SlotStatusSwapPending {
		return domain.ErrSlotLocked
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	return tx.Commit()
}

func collectSlots(rows *sql.Rows) ([]domain.Slot, error) {
	var slots []domain.Slot
	for rows.Next() {
		var s domain.Slot
		if err := scanSlot(rows, &s); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
