package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"stablecoin-wallet-backend/internal/core/domain"
	"stablecoin-wallet-backend/internal/core/ports"
	"stablecoin-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// seedStableBalance is the demo balance every new wallet starts with.
var seedStableBalance = decimal.NewFromInt(1000)

// WalletServiceImpl implements ports.WalletService: the registry that
// guarantees at most one wallet per user.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	gateway    ports.TransferGateway
	exchange   ports.ExchangeRateProvider
	encSvc     ports.EncryptionService
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	gateway ports.TransferGateway,
	exchange ports.ExchangeRateProvider,
	encSvc ports.EncryptionService,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		gateway:    gateway,
		exchange:   exchange,
		encSvc:     encSvc,
		log:        log,
	}
}

// Create is idempotent: a second call for the same user returns the
// existing wallet unchanged with created=false. The find-before-create
// check is the uniqueness guard; the unique index on user_id backs it up
// across processes.
func (s *WalletServiceImpl) Create(ctx context.Context, userID uuid.UUID) (*domain.Wallet, bool, error) {
	existing, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if existing != nil {
		return existing, false, nil
	}

	address, err := s.gateway.GenerateAddress()
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("generate address: %w", err))
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("generate wallet secret: %w", err))
	}
	secretEnc, err := s.encSvc.Encrypt(hex.EncodeToString(secret))
	if err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("encrypt wallet secret: %w", err))
	}

	rate := s.exchange.GetRate(ctx)
	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:            uuid.New(),
		UserID:        userID,
		Address:       address,
		SecretKeyEnc:  secretEnc,
		BalanceStable: seedStableBalance,
		BalanceFiat:   s.exchange.ConvertStableToFiat(seedStableBalance, rate.Rate),
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, false, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("user_id", userID.String()).
		Str("address", wallet.Address).
		Msg("wallet created")

	return wallet, true, nil
}

// Get resolves a user's wallet, failing with WalletNotFound if absent.
func (s *WalletServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return wallet, nil
}
