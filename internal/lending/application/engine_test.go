package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/defilending/internal/lending/domain"
)

type recordedEvent struct {
	EventType string
	Key       string
	Payload   any
}

// recordingPublisher 收集发布的事件用于断言。
type recordingPublisher struct {
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, payload any) error {
	p.events = append(p.events, recordedEvent{EventType: eventType, Key: key, Payload: payload})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(publisher domain.EventPublisher) *SimulationEngine {
	return NewSimulationEngine(DefaultConfig(), publisher, testLogger())
}

func seedAlice(t *testing.T, e *SimulationEngine) {
	t.Helper()
	e.CreateUser(context.Background(), "0xalice1", map[string]decimal.Decimal{
		"ETH":  decimal.NewFromInt(10),
		"USDC": decimal.NewFromInt(1_000),
		"DOGE": decimal.NewFromInt(10),
	})
}

func openAccount(t *testing.T, e *SimulationEngine, collateralETH, borrowUSDC int64) *BorrowResult {
	t.Helper()
	result, err := e.Borrow(context.Background(), BorrowCmd{
		UserAddress:      "0xalice1",
		CollateralAsset:  "ETH",
		CollateralAmount: decimal.NewFromInt(collateralETH),
		BorrowAmount:     decimal.NewFromInt(borrowUSDC),
	})
	require.NoError(t, err)
	return result
}

func TestCreateAndGetUser(t *testing.T) {
	e := newTestEngine(nil)
	ctx := context.Background()

	created := e.CreateUser(ctx, "0xalice1", map[string]decimal.Decimal{"ETH": decimal.NewFromInt(10)})
	assert.Equal(t, "0xalice1", created.Address)
	assert.True(t, created.WalletBalance["ETH"].Equal(decimal.NewFromInt(10)))

	got, err := e.GetUser(ctx, "0xalice1")
	require.NoError(t, err)
	assert.True(t, got.WalletBalance["ETH"].Equal(decimal.NewFromInt(10)))

	_, err = e.GetUser(ctx, "0xnobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBorrowOpensAccount(t *testing.T) {
	publisher := &recordingPublisher{}
	e := newTestEngine(publisher)
	seedAlice(t, e)

	result := openAccount(t, e, 5, 10_000)

	assert.Equal(t, "CA_1", result.AccountID)
	assert.True(t, result.HealthFactor.Equal(decimal.NewFromFloat(1.425)))
	// 杠杆 = (15000 + 10000) / 15000
	assert.InDelta(t, 1.6667, result.Leverage.InexactFloat64(), 1e-4)

	// 借款全额进入未部署现金，池子台账同步增加
	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.AvailableCash.Equal(decimal.NewFromInt(10_000)))
	assert.True(t, summary.BorrowedPrincipal.Equal(decimal.NewFromInt(10_000)))
	assert.True(t, summary.AccruedInterest.IsZero())
	assert.Equal(t, "healthy", summary.Status)

	pool := e.GetPoolState()
	assert.True(t, pool.TotalBorrowed.Equal(decimal.NewFromInt(210_000)))
	assert.True(t, pool.Available.Equal(decimal.NewFromInt(790_000)))

	// 抵押物已从钱包扣除
	user, err := e.GetUser(context.Background(), "0xalice1")
	require.NoError(t, err)
	assert.True(t, user.WalletBalance["ETH"].Equal(decimal.NewFromInt(5)))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.CreditAccountOpenedEventType, publisher.events[0].EventType)
}

func TestBorrowValidation(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  BorrowCmd
		want error
	}{
		{
			"unknown user",
			BorrowCmd{UserAddress: "0xghost", CollateralAsset: "ETH",
				CollateralAmount: decimal.NewFromInt(1), BorrowAmount: decimal.NewFromInt(100)},
			domain.ErrUserNotFound,
		},
		{
			"non-positive collateral",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "ETH",
				CollateralAmount: decimal.Zero, BorrowAmount: decimal.NewFromInt(100)},
			domain.ErrInvalidAmount,
		},
		{
			"non-positive borrow",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "ETH",
				CollateralAmount: decimal.NewFromInt(1), BorrowAmount: decimal.NewFromInt(-5)},
			domain.ErrInvalidAmount,
		},
		{
			"wallet balance too low",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "ETH",
				CollateralAmount: decimal.NewFromInt(100), BorrowAmount: decimal.NewFromInt(100)},
			domain.ErrInsufficientWalletBalance,
		},
		{
			"pool liquidity exhausted",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "ETH",
				CollateralAmount: decimal.NewFromInt(5), BorrowAmount: decimal.NewFromInt(900_000)},
			domain.ErrInsufficientPoolLiquidity,
		},
		{
			// 杠杆 = 30000/15000 = 2.0 > 1.95
			"leverage above cap",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "ETH",
				CollateralAmount: decimal.NewFromInt(5), BorrowAmount: decimal.NewFromInt(15_000)},
			domain.ErrLeverageTooHigh,
		},
		{
			// 杠杆 28000/15000 = 1.87 合规，但 HF = 14250/13000 ≈ 1.096 < 1.2
			"health factor below open floor",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "ETH",
				CollateralAmount: decimal.NewFromInt(5), BorrowAmount: decimal.NewFromInt(13_000)},
			domain.ErrHealthFactorTooLow,
		},
		{
			// 未知资产估值为 0，任何借款都构成无限杠杆
			"worthless collateral",
			BorrowCmd{UserAddress: "0xalice1", CollateralAsset: "DOGE",
				CollateralAmount: decimal.NewFromInt(5), BorrowAmount: decimal.NewFromInt(100)},
			domain.ErrLeverageTooHigh,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Borrow(ctx, tc.cmd)
			require.ErrorIs(t, err, tc.want)
		})
	}

	// 校验失败不留痕：钱包、池子、账户集合均未被触碰
	pool := e.GetPoolState()
	assert.True(t, pool.TotalBorrowed.Equal(decimal.NewFromInt(200_000)))
	assert.Empty(t, e.GetAllAccounts())
	user, err := e.GetUser(ctx, "0xalice1")
	require.NoError(t, err)
	assert.True(t, user.WalletBalance["ETH"].Equal(decimal.NewFromInt(10)))
}

func TestAddCollateralRaisesHealthFactor(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	result, err := e.AddCollateral(ctx, AddCollateralCmd{
		UserAddress: "0xalice1",
		AccountID:   "CA_1",
		Asset:       "ETH",
		Amount:      decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	// (30000 * 0.95) / 10000 = 2.85
	assert.True(t, result.NewHealthFactor.Equal(decimal.NewFromFloat(2.85)))

	user, err := e.GetUser(ctx, "0xalice1")
	require.NoError(t, err)
	assert.True(t, user.WalletBalance["ETH"].IsZero())

	_, err = e.AddCollateral(ctx, AddCollateralCmd{
		UserAddress: "0xalice1", AccountID: "CA_1", Asset: "ETH", Amount: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientWalletBalance)
}

func TestAddBorrowSuccess(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)

	result, err := e.AddBorrow(context.Background(), AddBorrowCmd{
		UserAddress: "0xalice1", AccountID: "CA_1", Amount: decimal.NewFromInt(1_000),
	})
	require.NoError(t, err)

	// (15000 * 0.95) / 11000
	assert.InDelta(t, 1.2955, result.NewHealthFactor.InexactFloat64(), 1e-4)

	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.BorrowedPrincipal.Equal(decimal.NewFromInt(11_000)))
	assert.True(t, summary.AvailableCash.Equal(decimal.NewFromInt(11_000)))
	assert.True(t, e.GetPoolState().TotalBorrowed.Equal(decimal.NewFromInt(211_000)))
}

func TestAddBorrowRollsBackOnHealthFactorBreach(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)

	_, err := e.AddBorrow(context.Background(), AddBorrowCmd{
		UserAddress: "0xalice1", AccountID: "CA_1", Amount: decimal.NewFromInt(50_000),
	})
	require.ErrorIs(t, err, domain.ErrHealthFactorTooLow)

	// 三处试探性记账全部回滚到借款前的状态
	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.BorrowedPrincipal.Equal(decimal.NewFromInt(10_000)))
	assert.True(t, summary.AvailableCash.Equal(decimal.NewFromInt(10_000)))
	assert.True(t, e.GetPoolState().TotalBorrowed.Equal(decimal.NewFromInt(210_000)))
	assert.True(t, summary.HealthFactor.Equal(decimal.NewFromFloat(1.425)))
}

func TestAddBorrowNotOwner(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	e.CreateUser(context.Background(), "0xbob1", map[string]decimal.Decimal{"USDC": decimal.NewFromInt(100)})
	openAccount(t, e, 5, 10_000)

	_, err := e.AddBorrow(context.Background(), AddBorrowCmd{
		UserAddress: "0xbob1", AccountID: "CA_1", Amount: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = e.AddBorrow(context.Background(), AddBorrowCmd{
		UserAddress: "0xalice1", AccountID: "CA_99", Amount: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestDeployAndWithdrawStrategy(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	deployed, err := e.DeployToStrategy(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)
	assert.True(t, deployed.AmountDeployed.Equal(decimal.NewFromInt(10_000)))
	assert.True(t, deployed.StrategyValue.Equal(decimal.NewFromInt(10_000)))

	// 现金已清空，重复部署报错
	_, err = e.DeployToStrategy(ctx, "0xalice1", "CA_1")
	require.ErrorIs(t, err, domain.ErrNoFundsAvailable)

	// 部署不改变健康因子：策略价值顶替了现金
	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.HealthFactor.Equal(decimal.NewFromFloat(1.425)))
	assert.True(t, summary.AvailableCash.IsZero())

	withdrawn, err := e.WithdrawFromStrategy(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)
	assert.True(t, withdrawn.AmountWithdrawn.Equal(decimal.NewFromInt(10_000)))

	// 策略已空，再次赎回报错
	_, err = e.WithdrawFromStrategy(ctx, "0xalice1", "CA_1")
	require.ErrorIs(t, err, domain.ErrNoFundsAvailable)
}

func TestWithdrawBeforeDeploy(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)

	_, err := e.WithdrawFromStrategy(context.Background(), "0xalice1", "CA_1")
	require.ErrorIs(t, err, domain.ErrNoFundsAvailable)
}

func TestRepayDebtAfterOneYear(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	_, err := e.DeployToStrategy(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)
	require.NoError(t, e.AdvanceTime(ctx, 365))

	// 利用率 0.21 → 基础利率 0.048，实际利率 0.0504：一年利息 504
	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.InDelta(t, 504, summary.AccruedInterest.InexactFloat64(), 1e-6)
	assert.InDelta(t, 10_800, summary.StrategyValueUSD.InexactFloat64(), 1e-6)

	_, err = e.WithdrawFromStrategy(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)

	result, err := e.RepayDebt(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)
	assert.InDelta(t, 10_504, result.DebtRepaid.InexactFloat64(), 1e-6)
	assert.InDelta(t, 296, result.AvailableRemaining.InexactFloat64(), 1e-6)

	// 池子只收回本金：利息不回流借贷台账
	assert.True(t, e.GetPoolState().TotalBorrowed.Equal(decimal.NewFromInt(200_000)))

	summary, err = e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.BorrowedPrincipal.IsZero())
	assert.True(t, summary.AccruedInterest.IsZero())
	assert.True(t, summary.HealthFactor.Equal(domain.MaxHealthFactor))
}

func TestRepayDebtInsufficientCash(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	// 资金都在策略里，现金不足以清偿
	_, err := e.DeployToStrategy(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)

	_, err = e.RepayDebt(ctx, "0xalice1", "CA_1")
	require.ErrorIs(t, err, domain.ErrInsufficientFundsToRepay)
}

func TestLiquidateAccount(t *testing.T) {
	publisher := &recordingPublisher{}
	e := newTestEngine(publisher)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	// 健康账户不可清算
	_, err := e.LiquidateAccount(ctx, "CA_1")
	require.ErrorIs(t, err, domain.ErrAccountNotLiquidatable)

	// ETH 暴跌 99% 后：HF = (150 + 10000) * 0.95 / 10000 ≈ 0.964 < 1
	asset, newPrice := e.SimulatePriceDrop(ctx, decimal.NewFromInt(99), "ETH")
	assert.Equal(t, "ETH", asset)
	assert.True(t, newPrice.Equal(decimal.NewFromInt(30)))

	result, err := e.LiquidateAccount(ctx, "CA_1")
	require.NoError(t, err)
	assert.True(t, result.DebtRepaid.Equal(decimal.NewFromInt(10_000)))
	assert.True(t, result.PenaltyAmount.Equal(decimal.NewFromInt(500)))
	// 缺口 = 10000 - 150（抵押残值）- 0（无策略）
	assert.True(t, result.CollateralLost.Equal(decimal.NewFromInt(9_850)))

	// 池子按本金回收
	assert.True(t, e.GetPoolState().TotalBorrowed.Equal(decimal.NewFromInt(200_000)))

	// 终态：列表过滤、按 ID 仍可查、一切动作被拒绝
	assert.Empty(t, e.GetAllAccounts())
	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.IsLiquidated)

	_, err = e.LiquidateAccount(ctx, "CA_1")
	require.ErrorIs(t, err, domain.ErrAccountAlreadyLiquidated)
	_, err = e.AddBorrow(ctx, AddBorrowCmd{UserAddress: "0xalice1", AccountID: "CA_1", Amount: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, domain.ErrAccountAlreadyLiquidated)
	_, err = e.RepayDebt(ctx, "0xalice1", "CA_1")
	require.ErrorIs(t, err, domain.ErrAccountAlreadyLiquidated)

	// 开仓与清算各发布一条事件
	require.Len(t, publisher.events, 3)
	assert.Equal(t, domain.PriceShockAppliedEventType, publisher.events[1].EventType)
	assert.Equal(t, domain.CreditAccountLiquidatedEventType, publisher.events[2].EventType)

	_, err = e.LiquidateAccount(ctx, "CA_99")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestLiquidateForcesStrategyExit(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	_, err := e.DeployToStrategy(ctx, "0xalice1", "CA_1")
	require.NoError(t, err)

	// 现金转为策略后 HF 不变，同样的冲击仍触发清算
	e.SimulatePriceDrop(ctx, decimal.NewFromInt(99), "ETH")
	result, err := e.LiquidateAccount(ctx, "CA_1")
	require.NoError(t, err)

	// 策略价值 10000 加抵押残值足以覆盖债务，无缺口
	assert.True(t, result.CollateralLost.IsZero())

	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.DepositedAmount.IsZero())
}

func TestAdvanceTimeClock(t *testing.T) {
	e := newTestEngine(nil)
	ctx := context.Background()

	require.ErrorIs(t, e.AdvanceTime(ctx, 0), domain.ErrInvalidAmount)
	require.ErrorIs(t, e.AdvanceTime(ctx, -3), domain.ErrInvalidAmount)

	require.NoError(t, e.AdvanceTime(ctx, 30))

	// 2,102,400 块/年 → 5,760 块/天
	pool := e.GetPoolState()
	assert.Equal(t, uint64(172_800), pool.CurrentBlock)
	assert.InDelta(t, 30.0, e.GetElapsedDays(), 1e-9)

	require.NoError(t, e.AdvanceTime(ctx, 335))
	assert.InDelta(t, 365.0, e.GetElapsedDays(), 1e-9)
}

func TestAdvanceTimeUsesSingleRateSnapshot(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	e.CreateUser(context.Background(), "0xbob1", map[string]decimal.Decimal{"ETH": decimal.NewFromInt(10)})
	ctx := context.Background()

	openAccount(t, e, 5, 10_000)
	_, err := e.Borrow(ctx, BorrowCmd{
		UserAddress:      "0xbob1",
		CollateralAsset:  "ETH",
		CollateralAmount: decimal.NewFromInt(5),
		BorrowAmount:     decimal.NewFromInt(10_000),
	})
	require.NoError(t, err)

	require.NoError(t, e.AdvanceTime(ctx, 365))

	// 两个同规模账户共用同一利率快照，计息完全一致
	a, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	b, err := e.GetAccount("CA_2")
	require.NoError(t, err)
	assert.True(t, a.AccruedInterest.Equal(b.AccruedInterest))

	// 利用率 0.22 → 基础利率 0.0493…，实际利率再乘 1.05
	assert.InDelta(t, 10_000*(0.02+0.22/0.60*0.08)*1.05, a.AccruedInterest.InexactFloat64(), 1e-6)
}

func TestInterestSkipsLiquidatedAccounts(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 5, 10_000)
	ctx := context.Background()

	e.SimulatePriceDrop(ctx, decimal.NewFromInt(99), "ETH")
	_, err := e.LiquidateAccount(ctx, "CA_1")
	require.NoError(t, err)

	require.NoError(t, e.AdvanceTime(ctx, 365))

	summary, err := e.GetAccount("CA_1")
	require.NoError(t, err)
	assert.True(t, summary.AccruedInterest.IsZero())
}

func TestPriceShockAndRevert(t *testing.T) {
	e := newTestEngine(nil)
	ctx := context.Background()

	asset, newPrice := e.SimulatePriceDrop(ctx, decimal.NewFromInt(10), "ETH")
	assert.Equal(t, "ETH", asset)
	assert.True(t, newPrice.Equal(decimal.NewFromInt(2_700)))
	assert.True(t, e.GetPrice("ETH").Equal(decimal.NewFromInt(2_700)))

	// 资产缺省为池子资产
	asset, newPrice = e.SimulatePriceDrop(ctx, decimal.NewFromInt(50), "")
	assert.Equal(t, "USDC", asset)
	assert.True(t, newPrice.Equal(decimal.NewFromFloat(0.5)))

	e.RevertPrice(ctx, "ETH")
	assert.True(t, e.GetPrice("ETH").Equal(decimal.NewFromInt(3_000)))
	e.RevertPrice(ctx, "USDC")
	assert.True(t, e.GetPrice("USDC").Equal(decimal.NewFromInt(1)))
}

func TestDropAllPrices(t *testing.T) {
	e := newTestEngine(nil)
	ctx := context.Background()

	e.DropAllPrices(ctx, decimal.NewFromInt(50))
	assert.True(t, e.GetPrice("ETH").Equal(decimal.NewFromInt(1_500)))
	assert.True(t, e.GetPrice("USDC").Equal(decimal.NewFromFloat(0.5)))
}

func TestGetAllAccountsSorted(t *testing.T) {
	e := newTestEngine(nil)
	seedAlice(t, e)
	openAccount(t, e, 2, 3_000)
	openAccount(t, e, 2, 3_000)
	openAccount(t, e, 2, 3_000)

	accounts := e.GetAllAccounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, "CA_1", accounts[0].AccountID)
	assert.Equal(t, "CA_2", accounts[1].AccountID)
	assert.Equal(t, "CA_3", accounts[2].AccountID)
}

func TestSeedDemoAccounts(t *testing.T) {
	e := newTestEngine(nil)
	ctx := context.Background()

	e.SeedDemoAccounts(ctx)

	accounts := e.GetAllAccounts()
	require.Len(t, accounts, 4)
	assert.Equal(t, "CA_1", accounts[0].AccountID)

	// 预置账户不动池子台账
	assert.True(t, e.GetPoolState().TotalBorrowed.Equal(decimal.NewFromInt(200_000)))

	// bob 的高杠杆账户生来就可清算：HF = 103000 * 0.95 / 100000
	bob, err := e.GetAccount("CA_2")
	require.NoError(t, err)
	assert.Equal(t, string(domain.AccountStatusLiquidatable), bob.Status)
	assert.True(t, bob.DepositedAmount.Equal(decimal.NewFromInt(100_000)))

	// 预置用户可以继续操作
	_, err = e.AddCollateral(ctx, AddCollateralCmd{
		UserAddress: "0xbob1", AccountID: "CA_2", Asset: "ETH", Amount: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
}

func TestPoolStateDerivedFields(t *testing.T) {
	e := newTestEngine(nil)

	pool := e.GetPoolState()
	assert.Equal(t, "USDC", pool.Asset)
	assert.True(t, pool.TotalLiquidity.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, pool.Utilization.Equal(decimal.NewFromFloat(0.2)))
	// 0.2 < 0.6：基础利率 0.02 + (0.2/0.6)*0.08
	assert.InDelta(t, 0.04667, pool.BaseRateAPY.InexactFloat64(), 1e-4)
	assert.InDelta(t, 0.049, pool.BorrowRateAPY.InexactFloat64(), 1e-3)
	assert.Equal(t, uint64(0), pool.CurrentBlock)
	assert.Equal(t, 0.0, pool.ElapsedDays)
}
