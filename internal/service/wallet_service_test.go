package service

import (
	"context"
	"errors"
	"testing"

	"stablecoin-wallet-backend/internal/core/domain"
	"stablecoin-wallet-backend/internal/core/ports/mocks"
	"stablecoin-wallet-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	walletRepo *mocks.MockWalletRepository
	gateway    *mocks.MockTransferGateway
	exchange   *mocks.MockExchangeRateProvider
	encSvc     *mocks.MockEncryptionService
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		gateway:    mocks.NewMockTransferGateway(ctrl),
		exchange:   mocks.NewMockExchangeRateProvider(ctrl),
		encSvc:     mocks.NewMockEncryptionService(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.walletRepo, d.gateway, d.exchange, d.encSvc, zerolog.Nop())
	return d
}

func TestWalletService_Create_NewWallet(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	rate := domain.ExchangeRate{Rate: decimal.NewFromInt(1600), Source: domain.RateSourceFallback}

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, nil)
	d.gateway.EXPECT().GenerateAddress().Return("Abc123def456ghi789jkl012mno345pqr7", nil)
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc_secret", nil)
	d.exchange.EXPECT().GetRate(ctx).Return(rate)
	d.exchange.EXPECT().ConvertStableToFiat(seedStableBalance, rate.Rate).
		Return(decimal.NewFromInt(1600000))
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	wallet, created, err := d.svc.Create(ctx, userID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, userID, wallet.UserID)
	assert.Equal(t, "Abc123def456ghi789jkl012mno345pqr7", wallet.Address)
	assert.Equal(t, "enc_secret", wallet.SecretKeyEnc)
	assert.True(t, wallet.BalanceStable.Equal(decimal.NewFromInt(1000)))
	assert.True(t, wallet.BalanceFiat.Equal(decimal.NewFromInt(1600000)))
	assert.True(t, wallet.Active)
}

func TestWalletService_Create_Idempotent(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	existing := &domain.Wallet{
		ID:            uuid.New(),
		UserID:        userID,
		Address:       "ExistingAddr123456789012345678",
		BalanceStable: decimal.NewFromInt(42),
	}

	// No GenerateAddress, no Create: the existing wallet comes back as is.
	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(existing, nil)

	wallet, created, err := d.svc.Create(ctx, userID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, wallet)
}

func TestWalletService_Create_RepoError(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(nil, errors.New("db down"))

	_, _, err := d.svc.Create(ctx, userID)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestWalletService_Get_Found(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	existing := &domain.Wallet{ID: uuid.New(), UserID: userID}

	d.walletRepo.EXPECT().GetByUserID(ctx, userID).Return(existing, nil)

	wallet, err := d.svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, existing, wallet)
}

func TestWalletService_Get_NotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.walletRepo.EXPECT().GetByUserID(ctx, gomock.Any()).Return(nil, nil)

	_, err := d.svc.Get(ctx, uuid.New())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WALLET_001", appErr.Code)
}
