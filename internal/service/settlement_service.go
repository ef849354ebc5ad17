package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stablecoin-wallet-backend/internal/core/domain"
	"stablecoin-wallet-backend/internal/core/ports"
	"stablecoin-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 10
)

// walletLocks serializes settlement operations per wallet within this
// process. The lock is held from the balance check through the debit so
// two concurrent sends cannot both pass the check against the same funds.
// Cross-process safety comes from the FOR UPDATE row lock in the commit
// transaction.
type walletLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newWalletLocks() *walletLocks {
	return &walletLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (w *walletLocks) get(walletID uuid.UUID) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.locks[walletID]
	if !ok {
		l = &sync.Mutex{}
		w.locks[walletID] = l
	}
	return l
}

// SettlementServiceImpl implements ports.SettlementService: it converts
// fiat-denominated send requests into stable-unit transfers, records every
// attempt in the ledger, and keeps wallet balances consistent with the
// transfers it executes.
type SettlementServiceImpl struct {
	walletRepo  ports.WalletRepository
	txRepo      ports.TransactionRepository
	transactor  ports.DBTransactor
	gateway     ports.TransferGateway
	exchange    ports.ExchangeRateProvider
	encSvc      ports.EncryptionService
	locks       *walletLocks
	sendTimeout time.Duration
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl. sendTimeout
// bounds the gateway call for a single transfer; on expiry the attempt is
// marked FAILED.
func NewSettlementService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	gateway ports.TransferGateway,
	exchange ports.ExchangeRateProvider,
	encSvc ports.EncryptionService,
	sendTimeout time.Duration,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		walletRepo:  walletRepo,
		txRepo:      txRepo,
		transactor:  transactor,
		gateway:     gateway,
		exchange:    exchange,
		encSvc:      encSvc,
		locks:       newWalletLocks(),
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// Send executes an outgoing transfer:
//
//  1. validate amount and recipient address
//  2. quote the exchange rate once and convert fiat -> stable
//  3. under the wallet lock, check funds and persist a PENDING entry
//  4. call the gateway (bounded by sendTimeout); failure marks FAILED
//  5. in one database transaction, re-lock the wallet row, debit both
//     balances and mark the entry COMPLETED
//
// The PENDING entry is written before the gateway call so a crash during
// the transfer leaves an auditable record rather than nothing.
func (s *SettlementServiceImpl) Send(ctx context.Context, userID uuid.UUID, req ports.SendRequest) (*ports.SendResult, error) {
	if req.AmountFiat.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !s.gateway.IsValidAddress(req.RecipientAddress) {
		return nil, apperror.ErrInvalidAddress()
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	rate := s.exchange.GetRate(ctx)
	amountStable := s.exchange.ConvertFiatToStable(req.AmountFiat, rate.Rate)
	if amountStable.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	lock := s.locks.get(wallet.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock: the balance may have moved while we waited.
	wallet, err = s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	if wallet.BalanceStable.LessThan(amountStable) {
		return nil, apperror.ErrInsufficientBalance()
	}

	entry := &domain.Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		RecipientAddress: req.RecipientAddress,
		RecipientName:    req.RecipientName,
		AmountFiat:       req.AmountFiat,
		AmountStable:     amountStable,
		ExchangeRate:     rate.Rate,
		Status:           domain.TransactionStatusPending,
		Kind:             domain.TransactionKindSend,
		CreatedAt:        time.Now().UTC(),
		Description:      req.Description,
	}
	if err := s.txRepo.Create(ctx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record pending transfer: %w", err))
	}

	secretKey, err := s.encSvc.Decrypt(wallet.SecretKeyEnc)
	if err != nil {
		s.markFailed(ctx, entry.ID)
		return nil, apperror.InternalError(fmt.Errorf("decrypt wallet secret: %w", err))
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	reference, err := s.gateway.SendTransfer(sendCtx, wallet.Address, req.RecipientAddress, amountStable, secretKey)
	if err != nil {
		s.markFailed(ctx, entry.ID)
		s.log.Warn().
			Err(err).
			Str("transaction_id", entry.ID.String()).
			Str("wallet_id", wallet.ID.String()).
			Msg("transfer failed")
		return nil, apperror.ErrTransferFailed(err)
	}

	completedAt := time.Now().UTC()
	if err := s.commitTransfer(ctx, wallet.ID, entry.ID, reference, amountStable, rate.Rate, completedAt); err != nil {
		// The transfer went through but the local debit did not. The
		// entry stays PENDING so reconciliation can pick it up.
		s.log.Error().
			Err(err).
			Str("transaction_id", entry.ID.String()).
			Str("transfer_reference", reference).
			Msg("transfer sent but commit failed, entry left pending")
		return nil, apperror.InternalError(fmt.Errorf("commit transfer: %w", err))
	}

	s.log.Info().
		Str("transaction_id", entry.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("transfer_reference", reference).
		Str("amount_stable", amountStable.String()).
		Msg("transfer completed")

	return &ports.SendResult{
		TransactionID:     entry.ID,
		TransferReference: reference,
		AmountFiat:        req.AmountFiat,
		AmountStable:      amountStable,
		ExchangeRate:      rate.Rate,
		Status:            domain.TransactionStatusCompleted,
	}, nil
}

// commitTransfer debits the wallet and marks the ledger entry COMPLETED
// in a single database transaction. The wallet row is locked FOR UPDATE
// so a concurrent process cannot interleave its own debit.
func (s *SettlementServiceImpl) commitTransfer(
	ctx context.Context,
	walletID, entryID uuid.UUID,
	reference string,
	amountStable, rate decimal.Decimal,
	completedAt time.Time,
) error {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.walletRepo.GetByIDForUpdate(ctx, tx, walletID)
	if err != nil {
		return fmt.Errorf("lock wallet row: %w", err)
	}
	if locked == nil {
		return fmt.Errorf("wallet %s disappeared during settlement", walletID)
	}

	newStable := locked.BalanceStable.Sub(amountStable)
	newFiat := s.exchange.ConvertStableToFiat(newStable, rate)
	if err := s.walletRepo.UpdateBalances(ctx, tx, walletID, newStable, newFiat); err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	if err := s.txRepo.MarkCompleted(ctx, tx, entryID, reference, completedAt); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// markFailed records the terminal FAILED state. It deliberately uses a
// background-derived context so the write survives request cancellation.
func (s *SettlementServiceImpl) markFailed(ctx context.Context, entryID uuid.UUID) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.txRepo.MarkFailed(writeCtx, entryID); err != nil {
		s.log.Error().
			Err(err).
			Str("transaction_id", entryID.String()).
			Msg("failed to mark transaction FAILED")
	}
}

// History returns one page of the user's ledger, newest first. A negative
// page clamps to 0; a non-positive size falls back to the default.
func (s *SettlementServiceImpl) History(ctx context.Context, userID uuid.UUID, page, size int) (*ports.HistoryPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}

	transactions, total, err := s.txRepo.ListByUser(ctx, ports.TransactionListParams{
		UserID:   userID,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &ports.HistoryPage{
		Transactions:  transactions,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
	}, nil
}

// Balance reconciles the stored wallet balance against the transfer
// network. The network's stable balance is authoritative; the fiat figure
// is recomputed from it at the current rate and both are persisted when
// they drift from the stored values.
func (s *SettlementServiceImpl) Balance(ctx context.Context, userID uuid.UUID) (*ports.BalanceView, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	rate := s.exchange.GetRate(ctx)

	lock := s.locks.get(wallet.ID)
	lock.Lock()
	defer lock.Unlock()

	networkStable, err := s.gateway.GetBalance(ctx, wallet.Address)
	if err != nil {
		// Network unreachable: serve the stored balance rather than fail.
		s.log.Warn().
			Err(err).
			Str("wallet_id", wallet.ID.String()).
			Msg("network balance lookup failed, serving stored balance")
		return &ports.BalanceView{
			BalanceFiat:   wallet.BalanceFiat,
			BalanceStable: wallet.BalanceStable,
			WalletAddress: wallet.Address,
			ExchangeRate:  rate.Rate,
		}, nil
	}

	fiat := s.exchange.ConvertStableToFiat(networkStable, rate.Rate)
	if !networkStable.Equal(wallet.BalanceStable) || !fiat.Equal(wallet.BalanceFiat) {
		if err := s.persistBalances(ctx, wallet.ID, networkStable, fiat); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("reconcile balances: %w", err))
		}
	}

	return &ports.BalanceView{
		BalanceFiat:   fiat,
		BalanceStable: networkStable,
		WalletAddress: wallet.Address,
		ExchangeRate:  rate.Rate,
	}, nil
}

func (s *SettlementServiceImpl) persistBalances(ctx context.Context, walletID uuid.UUID, balanceStable, balanceFiat decimal.Decimal) error {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.walletRepo.GetByIDForUpdate(ctx, tx, walletID); err != nil {
		return fmt.Errorf("lock wallet row: %w", err)
	}
	if err := s.walletRepo.UpdateBalances(ctx, tx, walletID, balanceStable, balanceFiat); err != nil {
		return fmt.Errorf("update balances: %w", err)
	}
	return tx.Commit(ctx)
}
