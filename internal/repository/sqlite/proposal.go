package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/slotswap/slotswap/internal/domain"
)

// ProposalRepository implements domain.ProposalRepository using SQLite.
// The two exchange methods are the only multi-record writes in the system
// and each runs in a single transaction.
type ProposalRepository struct {
	db *sql.DB
}

// NewProposalRepository creates a new SQLite-backed ProposalRepository.
func NewProposalRepository(db *DB) *ProposalRepository {
	return &ProposalRepository{db: db.SqlDB}
}

const proposalColumns = "id, requester_user_id, requester_slot_id, receiver_user_id, receiver_slot_id, status, created_at, responded_at"

func scanProposal(row interface{ Scan(...any) error }, p *domain.SwapProposal) error {
	return row.Scan(&p.ID, &p.RequesterUserID, &p.RequesterSlotID, &p.ReceiverUserID, &p.ReceiverSlotID,
		&p.Status, &p.CreatedAt, &p.RespondedAt)
}

// CreateExchange flips both referenced slots from SWAPPABLE to SWAP_PENDING
// and inserts the PENDING proposal, all in one transaction. The flips are
// guarded updates: each demands the slot still be SWAPPABLE, so of two
// concurrent proposals against the same slot exactly one commits and the
// other rolls back with ErrSlotNotSwappable.
func (r *ProposalRepository) CreateExchange(ctx context.Context, proposal *domain.SwapProposal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, slotID := range []int64{proposal.RequesterSlotID, proposal.ReceiverSlotID} {
		if err := lockSlot(ctx, tx, slotID, now); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO swap_proposals (requester_user_id, requester_slot_id, receiver_user_id, receiver_slot_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		proposal.RequesterUserID, proposal.RequesterSlotID,
		proposal.ReceiverUserID, proposal.ReceiverSlotID,
		domain.ProposalStatusPending, now,
	)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	proposal.ID = id
	proposal.Status = domain.ProposalStatusPending
	proposal.CreatedAt = now
	proposal.RespondedAt = nil
	return nil
}

// lockSlot moves a slot into SWAP_PENDING, requiring that it is currently
// SWAPPABLE. Zero rows affected means the slot was concurrently locked,
// resolved, toggled, or deleted.
func lockSlot(ctx context.Context, tx *sql.Tx, slotID int64, now time.Time) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE slots SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.SlotStatusSwapPending, now, slotID, domain.SlotStatusSwappable,
	)
	if err != nil {
		return fmt.Errorf("lock slot %d: %w", slotID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSlotNotSwappable
	}
	return nil
}

// ResolveExchange finalizes a pending proposal. The PENDING->terminal
// transition is a guarded update, so a proposal is resolved at most once no
// matter how many resolution attempts race. The slot mutations share the
// same transaction; a crash never leaves the proposal resolved with stale
// slot state or vice versa.
func (r *ProposalRepository) ResolveExchange(ctx context.Context, proposal *domain.SwapProposal, accept bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	newStatus := domain.ProposalStatusRejected
	if accept {
		newStatus = domain.ProposalStatusAccepted
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE swap_proposals SET status = ?, responded_at = ? WHERE id = ? AND status = ?`,
		newStatus, now, proposal.ID, domain.ProposalStatusPending,
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProposalResolved
	}

	requesterSlot, err := slotForUpdate(ctx, tx, proposal.RequesterSlotID)
	if err != nil {
		return err
	}
	receiverSlot, err := slotForUpdate(ctx, tx, proposal.ReceiverSlotID)
	if err != nil {
		return err
	}

	if accept {
		// Exchange ownership; both slots return to the calendar as busy.
		if err := updateSlotOwnerStatus(ctx, tx, requesterSlot.ID, receiverSlot.UserID, domain.SlotStatusBusy, now); err != nil {
			return err
		}
		if err := updateSlotOwnerStatus(ctx, tx, receiverSlot.ID, requesterSlot.UserID, domain.SlotStatusBusy, now); err != nil {
			return err
		}
	} else {
		// Ownership unchanged; both slots go back on the marketplace.
		if err := updateSlotOwnerStatus(ctx, tx, requesterSlot.ID, requesterSlot.UserID, domain.SlotStatusSwappable, now); err != nil {
			return err
		}
		if err := updateSlotOwnerStatus(ctx, tx, receiverSlot.ID, receiverSlot.UserID, domain.SlotStatusSwappable, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	proposal.Status = newStatus
	proposal.RespondedAt = &now
	return nil
}

func slotForUpdate(ctx context.Context, tx *sql.Tx, slotID int64) (*domain.Slot, error) {
	slot := &domain.Slot{}
	err := scanSlot(tx.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = ?`, slotID), slot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query slot %d: %w", slotID, err)
	}
	return slot, nil
}

func updateSlotOwnerStatus(ctx context.Context, tx *sql.Tx, slotID, ownerID int64, status string, now time.Time) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE slots SET user_id = ?, status = ?, updated_at = ? WHERE id = ?`,
		ownerID, status, now, slotID,
	); err != nil {
		return fmt.Errorf("update slot %d: %w", slotID, err)
	}
	return nil
}

func (r *ProposalRepository) GetByID(ctx context.Context, id int64) (*domain.SwapProposal, error) {
	proposal := &domain.SwapProposal{}
	err := scanProposal(r.db.QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM swap_proposals WHERE id = ?`, id), proposal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query proposal by id: %w", err)
	}
	return proposal, nil
}

func (r *ProposalRepository) ListByReceiver(ctx context.Context, receiverID int64, status string) ([]domain.SwapProposal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+proposalColumns+` FROM swap_proposals
		 WHERE receiver_user_id = ? AND status = ? ORDER BY created_at DESC`,
		receiverID, status)
	if err != nil {
		return nil, fmt.Errorf("list proposals by receiver: %w", err)
	}
	defer rows.Close()

	return collectProposals(rows)
}

func (r *ProposalRepository) ListByRequester(ctx context.Context, requesterID int64) ([]domain.SwapProposal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+proposalColumns+` FROM swap_proposals
		 WHERE requester_user_id = ? ORDER BY created_at DESC`,
		requesterID)
	if err != nil {
		return nil, fmt.Errorf("list proposals by requester: %w", err)
	}
	defer rows.Close()

	return collectProposals(rows)
}

func (r *ProposalRepository) HasPendingForSlot(ctx context.Context, slotID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM swap_proposals
		 WHERE status = ? AND (requester_slot_id = ? OR receiver_slot_id = ?)`,
		domain.ProposalStatusPending, slotID, slotID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count pending proposals: %w", err)
	}
	return count > 0, nil
}

func collectProposals(rows *sql.Rows) ([]domain.SwapProposal, error) {
	var proposals []domain.SwapProposal
	for rows.Next() {
		var p domain.SwapProposal
		if err := scanProposal(rows, &p); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
