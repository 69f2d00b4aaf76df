package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/midasbot/midas/midas/apperrors"
	"github.com/midasbot/midas/midas/database/models"
	"github.com/uptrace/bun"
)

// TransactionOptions configures transaction behavior
type TransactionOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

// TransactionManager provides standardized transaction utilities for
// money movements. Every balance mutation goes through here so the row
// lock ordering stays consistent.
type TransactionManager struct {
	db *bun.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *bun.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// StandardTransactionOptions returns default transaction options
func StandardTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        DefaultTxTimeout,
	}
}

// SerializableTransactionOptions returns serializable isolation level options for critical operations
func SerializableTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelSerializable,
		Timeout:        DefaultTxTimeout,
	}
}

// WithTransaction executes a function within a database transaction
func (tm *TransactionManager) WithTransaction(ctx context.Context, opts *TransactionOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = StandardTransactionOptions()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := tm.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// BalanceOperationOptions configures balance operations
type BalanceOperationOptions struct {
	GuildID        string
	UserID         string
	Amount         int64
	MinimumBalance int64 // Validation threshold
}

// LockPlayer loads a player row FOR UPDATE so later mutations in the
// same transaction see a stable state.
func (tm *TransactionManager) LockPlayer(ctx context.Context, tx bun.Tx, guildID, userID string) (*models.Player, error) {
	var player models.Player
	err := tx.NewSelect().
		Model(&player).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound(fmt.Sprintf("player %s not found", userID))
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	return &player, nil
}

// ValidateAndUpdateBalance validates a player's cash balance and applies the delta
func (tm *TransactionManager) ValidateAndUpdateBalance(ctx context.Context, tx bun.Tx, opts BalanceOperationOptions) error {
	player, err := tm.LockPlayer(ctx, tx, opts.GuildID, opts.UserID)
	if err != nil {
		return err
	}

	if opts.Amount < 0 && player.Balance < -opts.Amount {
		return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", player.Balance, -opts.Amount))
	}

	if opts.MinimumBalance > 0 && player.Balance+opts.Amount < opts.MinimumBalance {
		return apperrors.NewValidation("operation would violate minimum balance constraint")
	}

	result, err := tx.NewUpdate().
		Model((*models.Player)(nil)).
		Set("balance = balance + ?", opts.Amount).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ? AND user_id = ?", opts.GuildID, opts.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.NewNotFound(fmt.Sprintf("player %s not found", opts.UserID))
	}

	return nil
}

// ValidateAndUpdateBank validates a player's bank balance and applies the delta
func (tm *TransactionManager) ValidateAndUpdateBank(ctx context.Context, tx bun.Tx, opts BalanceOperationOptions) error {
	player, err := tm.LockPlayer(ctx, tx, opts.GuildID, opts.UserID)
	if err != nil {
		return err
	}

	if opts.Amount < 0 && player.Bank < -opts.Amount {
		return apperrors.NewValidation(fmt.Sprintf("insufficient bank balance (has %d, needs %d)", player.Bank, -opts.Amount))
	}

	result, err := tx.NewUpdate().
		Model((*models.Player)(nil)).
		Set("bank = bank + ?", opts.Amount).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ? AND user_id = ?", opts.GuildID, opts.UserID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update bank balance: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.NewNotFound(fmt.Sprintf("player %s not found", opts.UserID))
	}

	return nil
}

// Deposit moves cash into the bank within one locked update
func (tm *TransactionManager) Deposit(ctx context.Context, tx bun.Tx, guildID, userID string, amount int64) error {
	player, err := tm.LockPlayer(ctx, tx, guildID, userID)
	if err != nil {
		return err
	}

	if player.Balance < amount {
		return apperrors.NewValidation(fmt.Sprintf("insufficient balance (has %d, needs %d)", player.Balance, amount))
	}

	_, err = tx.NewUpdate().
		Model((*models.Player)(nil)).
		Set("balance = balance - ?", amount).
		Set("bank = bank + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}

	return nil
}

// Withdraw moves bank funds back to cash within one locked update
func (tm *TransactionManager) Withdraw(ctx context.Context, tx bun.Tx, guildID, userID string, amount int64) error {
	player, err := tm.LockPlayer(ctx, tx, guildID, userID)
	if err != nil {
		return err
	}

	if player.Bank < amount {
		return apperrors.NewValidation(fmt.Sprintf("insufficient bank balance (has %d, needs %d)", player.Bank, amount))
	}

	_, err = tx.NewUpdate().
		Model((*models.Player)(nil)).
		Set("bank = bank - ?", amount).
		Set("balance = balance + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to withdraw: %w", err)
	}

	return nil
}

// TransferBalance moves cash between two players. The fee is deducted
// from what the receiver gets, not added on top of the debit.
func (tm *TransactionManager) TransferBalance(ctx context.Context, tx bun.Tx, guildID, fromUserID, toUserID string, amount, fee int64) error {
	if err := tm.ValidateAndUpdateBalance(ctx, tx, BalanceOperationOptions{
		GuildID: guildID,
		UserID:  fromUserID,
		Amount:  -amount,
	}); err != nil {
		return fmt.Errorf("failed to deduct from sender: %w", err)
	}

	if err := tm.ValidateAndUpdateBalance(ctx, tx, BalanceOperationOptions{
		GuildID: guildID,
		UserID:  toUserID,
		Amount:  amount - fee,
	}); err != nil {
		return fmt.Errorf("failed to credit receiver: %w", err)
	}

	return nil
}

// GetDB returns the underlying database connection
func (tm *TransactionManager) GetDB() *bun.DB {
	return tm.db
}
