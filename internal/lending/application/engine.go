package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/defilending/internal/lending/domain"
)

// DefaultBlocksPerYear 以太坊主网近似出块数（12s 一块）。
const DefaultBlocksPerYear = 2_102_400

// Config 引擎初始参数：价格表、池子规模与区块时钟。
type Config struct {
	PoolAsset     string
	PoolLiquidity decimal.Decimal
	PoolBorrowed  decimal.Decimal
	Prices        map[string]decimal.Decimal
	BlocksPerYear uint64
}

func DefaultConfig() Config {
	return Config{
		PoolAsset:     "USDC",
		PoolLiquidity: decimal.NewFromInt(1_000_000),
		PoolBorrowed:  decimal.NewFromInt(200_000),
		Prices:        domain.DefaultPrices(),
		BlocksPerYear: DefaultBlocksPerYear,
	}
}

// SimulationEngine 模拟引擎：持有池子、预言机、用户与账户集合以及单调区块时钟。
// 所有可变状态由引擎实例独占，动作在互斥锁下串行执行；
// 每个动作要么完整生效，要么完全不生效并返回哨兵错误。
type SimulationEngine struct {
	mu sync.Mutex

	oracle         *domain.PriceOracle
	pool           *domain.LiquidityPool
	users          map[string]*domain.User
	accounts       map[string]*domain.CreditAccount
	accountCounter uint64
	currentBlock   uint64
	blocksPerYear  uint64

	publisher domain.EventPublisher
	logger    *slog.Logger
}

func NewSimulationEngine(cfg Config, publisher domain.EventPublisher, logger *slog.Logger) *SimulationEngine {
	if cfg.BlocksPerYear == 0 {
		cfg.BlocksPerYear = DefaultBlocksPerYear
	}
	return &SimulationEngine{
		oracle:        domain.NewPriceOracle(cfg.Prices),
		pool:          domain.NewLiquidityPool(cfg.PoolAsset, cfg.PoolLiquidity, cfg.PoolBorrowed),
		users:         make(map[string]*domain.User),
		accounts:      make(map[string]*domain.CreditAccount),
		blocksPerYear: cfg.BlocksPerYear,
		publisher:     publisher,
		logger:        logger,
	}
}

// CreateUser 注册用户并初始化钱包余额；地址已存在时覆盖余额。
func (e *SimulationEngine) CreateUser(ctx context.Context, address string, initialBalance map[string]decimal.Decimal) *UserDTO {
	e.mu.Lock()
	defer e.mu.Unlock()

	user := domain.NewUser(address, initialBalance)
	e.users[address] = user

	e.logger.InfoContext(ctx, "user created", "address", address)
	return userDTO(user)
}

// GetUser 查询用户钱包。
func (e *SimulationEngine) GetUser(ctx context.Context, address string) (*UserDTO, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, ok := e.users[address]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return userDTO(user), nil
}

// Borrow 开仓：锁定抵押物并从池中借款，新账户的借款全额进入未部署现金。
// 前置校验：钱包余额、池流动性、杠杆上限 (1 + 清算阈值)、开仓健康因子下限。
func (e *SimulationEngine) Borrow(ctx context.Context, cmd BorrowCmd) (*BorrowResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, ok := e.users[cmd.UserAddress]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if !cmd.CollateralAmount.IsPositive() || !cmd.BorrowAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if user.WalletBalance[cmd.CollateralAsset].LessThan(cmd.CollateralAmount) {
		return nil, domain.ErrInsufficientWalletBalance
	}
	if cmd.BorrowAmount.GreaterThan(e.pool.Available()) {
		return nil, domain.ErrInsufficientPoolLiquidity
	}

	collateralUSD := cmd.CollateralAmount.Mul(e.oracle.GetPrice(cmd.CollateralAsset))
	if collateralUSD.IsZero() {
		return nil, domain.ErrLeverageTooHigh
	}
	leverage := collateralUSD.Add(cmd.BorrowAmount).Div(collateralUSD)

	account := domain.NewCreditAccount(
		"",
		cmd.UserAddress,
		map[string]decimal.Decimal{cmd.CollateralAsset: cmd.CollateralAmount},
		cmd.BorrowAmount,
		e.pool.Asset,
		e.currentBlock,
	)

	maxLeverage := decimal.NewFromInt(1).Add(account.LiquidationThreshold)
	if leverage.GreaterThan(maxLeverage) {
		return nil, domain.ErrLeverageTooHigh
	}
	hf := account.HealthFactor(e.oracle)
	if hf.LessThan(domain.MinOpenHealthFactor) {
		return nil, domain.ErrHealthFactorTooLow
	}

	e.accountCounter++
	account.AccountID = fmt.Sprintf("CA_%d", e.accountCounter)
	account.AvailableCash = cmd.BorrowAmount

	user.WalletBalance[cmd.CollateralAsset] = user.WalletBalance[cmd.CollateralAsset].Sub(cmd.CollateralAmount)
	if err := e.pool.Lend(cmd.BorrowAmount); err != nil {
		return nil, err
	}
	e.accounts[account.AccountID] = account

	e.logger.InfoContext(ctx, "credit account opened",
		"account_id", account.AccountID,
		"owner", cmd.UserAddress,
		"borrowed", cmd.BorrowAmount.String(),
		"leverage", leverage.String(),
		"health_factor", hf.String())

	e.publish(ctx, domain.CreditAccountOpenedEventType, cmd.UserAddress, domain.CreditAccountOpenedEvent{
		AccountID:        account.AccountID,
		Owner:            cmd.UserAddress,
		CollateralAsset:  cmd.CollateralAsset,
		CollateralAmount: cmd.CollateralAmount.InexactFloat64(),
		BorrowedAmount:   cmd.BorrowAmount.InexactFloat64(),
		Leverage:         leverage.InexactFloat64(),
		HealthFactor:     hf.InexactFloat64(),
		OpenedAtBlock:    e.currentBlock,
		OccurredOn:       time.Now(),
	})

	return &BorrowResult{
		AccountID:        account.AccountID,
		CollateralAsset:  cmd.CollateralAsset,
		CollateralAmount: cmd.CollateralAmount,
		BorrowedAmount:   cmd.BorrowAmount,
		Leverage:         leverage,
		HealthFactor:     hf,
	}, nil
}

// AddCollateral 追加抵押物。只会抬高健康因子，不设下限校验。
func (e *SimulationEngine) AddCollateral(ctx context.Context, cmd AddCollateralCmd) (*AddCollateralResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, ok := e.users[cmd.UserAddress]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if !cmd.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if user.WalletBalance[cmd.Asset].LessThan(cmd.Amount) {
		return nil, domain.ErrInsufficientWalletBalance
	}
	account, err := e.ownedAccount(cmd.UserAddress, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	user.WalletBalance[cmd.Asset] = user.WalletBalance[cmd.Asset].Sub(cmd.Amount)
	account.Collateral[cmd.Asset] = account.Collateral[cmd.Asset].Add(cmd.Amount)
	account.LastUpdate = time.Now()

	hf := account.HealthFactor(e.oracle)
	e.logger.InfoContext(ctx, "collateral added",
		"account_id", cmd.AccountID, "asset", cmd.Asset, "amount", cmd.Amount.String(), "new_hf", hf.String())

	return &AddCollateralResult{
		AccountID:       cmd.AccountID,
		Asset:           cmd.Asset,
		Amount:          cmd.Amount,
		NewHealthFactor: hf,
	}, nil
}

// AddBorrow 对已有账户加借。先试探性记账再检查健康因子：
// 健康因子依赖变更后的状态，不达标时把三处增量原样回滚。
func (e *SimulationEngine) AddBorrow(ctx context.Context, cmd AddBorrowCmd) (*AddBorrowResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.users[cmd.UserAddress]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if !cmd.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	account, err := e.ownedAccount(cmd.UserAddress, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if cmd.Amount.GreaterThan(e.pool.Available()) {
		return nil, domain.ErrInsufficientPoolLiquidity
	}

	account.BorrowedAmount = account.BorrowedAmount.Add(cmd.Amount)
	account.AvailableCash = account.AvailableCash.Add(cmd.Amount)
	e.pool.TotalBorrowed = e.pool.TotalBorrowed.Add(cmd.Amount)

	hf := account.HealthFactor(e.oracle)
	if hf.LessThan(domain.MinOpenHealthFactor) {
		account.BorrowedAmount = account.BorrowedAmount.Sub(cmd.Amount)
		account.AvailableCash = account.AvailableCash.Sub(cmd.Amount)
		e.pool.TotalBorrowed = e.pool.TotalBorrowed.Sub(cmd.Amount)
		return nil, domain.ErrHealthFactorTooLow
	}
	account.LastUpdate = time.Now()

	leverage := decimal.Zero
	if collateralUSD := account.CollateralValueUSD(e.oracle); collateralUSD.IsPositive() {
		leverage = collateralUSD.Add(account.BorrowedAmount).Div(collateralUSD)
	}

	e.logger.InfoContext(ctx, "borrow increased",
		"account_id", cmd.AccountID, "amount", cmd.Amount.String(), "new_hf", hf.String())

	return &AddBorrowResult{
		AccountID:       cmd.AccountID,
		Amount:          cmd.Amount,
		NewHealthFactor: hf,
		NewLeverage:     leverage,
	}, nil
}

// DeployToStrategy 把全部未部署现金转入收益策略，首次部署时惰性创建策略。
func (e *SimulationEngine) DeployToStrategy(ctx context.Context, userAddress, accountID string) (*DeployResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.users[userAddress]; !ok {
		return nil, domain.ErrUserNotFound
	}
	account, err := e.ownedAccount(userAddress, accountID)
	if err != nil {
		return nil, err
	}
	if !account.AvailableCash.IsPositive() {
		return nil, domain.ErrNoFundsAvailable
	}

	if account.Strategy == nil {
		account.Strategy = domain.NewYieldStrategy()
	}
	deployed := account.AvailableCash
	account.Strategy.Deposit(deployed)
	account.AvailableCash = decimal.Zero
	account.LastUpdate = time.Now()

	e.logger.InfoContext(ctx, "funds deployed to strategy",
		"account_id", accountID, "amount", deployed.String())

	return &DeployResult{
		AccountID:      accountID,
		AmountDeployed: deployed,
		StrategyValue:  account.Strategy.Value(),
	}, nil
}

// WithdrawFromStrategy 全额赎回策略资金到未部署现金。未领取奖励一并作废。
func (e *SimulationEngine) WithdrawFromStrategy(ctx context.Context, userAddress, accountID string) (*WithdrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.users[userAddress]; !ok {
		return nil, domain.ErrUserNotFound
	}
	account, err := e.ownedAccount(userAddress, accountID)
	if err != nil {
		return nil, err
	}
	if account.Strategy == nil || !account.Strategy.Value().IsPositive() {
		return nil, domain.ErrNoFundsAvailable
	}

	withdrawn := account.Strategy.Withdraw()
	account.AvailableCash = account.AvailableCash.Add(withdrawn)
	account.LastUpdate = time.Now()

	e.logger.InfoContext(ctx, "funds withdrawn from strategy",
		"account_id", accountID, "amount", withdrawn.String())

	return &WithdrawResult{
		AccountID:       accountID,
		AmountWithdrawn: withdrawn,
		StrategyValue:   decimal.Zero,
	}, nil
}

// RepayDebt 用未部署现金一次性清偿全部债务（本金 + 利息）。
// 池子的 TotalBorrowed 只减少本金，利息不回流借贷台账。
func (e *SimulationEngine) RepayDebt(ctx context.Context, userAddress, accountID string) (*RepayResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.users[userAddress]; !ok {
		return nil, domain.ErrUserNotFound
	}
	account, err := e.ownedAccount(userAddress, accountID)
	if err != nil {
		return nil, err
	}

	totalDebt := account.TotalDebt()
	principal := account.BorrowedAmount
	if account.AvailableCash.LessThan(totalDebt) {
		return nil, domain.ErrInsufficientFundsToRepay
	}

	account.AvailableCash = account.AvailableCash.Sub(totalDebt)
	account.BorrowedAmount = decimal.Zero
	account.AccruedInterest = decimal.Zero
	account.LastUpdate = time.Now()
	e.pool.Repay(principal)

	e.logger.InfoContext(ctx, "debt repaid",
		"account_id", accountID, "debt_repaid", totalDebt.String(), "principal", principal.String())

	return &RepayResult{
		AccountID:          accountID,
		DebtRepaid:         totalDebt,
		AvailableRemaining: account.AvailableCash,
	}, nil
}

// LiquidateAccount 清算健康因子低于 1.0 的账户：强制赎回策略、
// 按总债务 5% 计罚金、池子按本金回收，账户进入不可逆终态。
func (e *SimulationEngine) LiquidateAccount(ctx context.Context, accountID string) (*LiquidationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	account, ok := e.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if account.IsLiquidated {
		return nil, domain.ErrAccountAlreadyLiquidated
	}
	if account.HealthFactor(e.oracle).GreaterThanOrEqual(domain.LiquidationHFBound) {
		return nil, domain.ErrAccountNotLiquidatable
	}

	totalDebt := account.TotalDebt()
	collateralValue := account.CollateralValueUSD(e.oracle)
	strategyValue := account.StrategyValueUSD(e.oracle)

	e.pool.Repay(account.BorrowedAmount)
	if account.Strategy != nil {
		account.Strategy.Withdraw()
	}

	penalty := totalDebt.Mul(domain.LiquidationPenaltyRate)
	collateralLost := decimal.Max(decimal.Zero, totalDebt.Sub(collateralValue).Sub(strategyValue))

	account.IsLiquidated = true
	account.LastUpdate = time.Now()

	e.logger.WarnContext(ctx, "credit account liquidated",
		"account_id", accountID,
		"owner", account.Owner,
		"debt_repaid", totalDebt.String(),
		"penalty", penalty.String())

	e.publish(ctx, domain.CreditAccountLiquidatedEventType, account.Owner, domain.CreditAccountLiquidatedEvent{
		AccountID:      accountID,
		Owner:          account.Owner,
		DebtRepaid:     totalDebt.InexactFloat64(),
		PenaltyAmount:  penalty.InexactFloat64(),
		CollateralLost: collateralLost.InexactFloat64(),
		OccurredOn:     time.Now(),
	})

	return &LiquidationResult{
		AccountID:      accountID,
		Owner:          account.Owner,
		DebtRepaid:     totalDebt,
		PenaltyAmount:  penalty,
		CollateralLost: collateralLost,
	}, nil
}

// AdvanceTime 推进模拟时钟并为所有存续账户计提利息与策略收益。
// 利率在本次调用开始时对池子状态快照一次，整批共用，
// 保证批内账户之间的更新互不影响、与遍历顺序无关。
func (e *SimulationEngine) AdvanceTime(ctx context.Context, days int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if days <= 0 {
		return domain.ErrInvalidAmount
	}

	blocks := uint64(days) * e.blocksPerYear / 365
	e.currentBlock += blocks

	rate := e.pool.EffectiveBorrowRate()
	dailyRate := rate.Div(decimal.NewFromInt(365))
	dayCount := decimal.NewFromInt(int64(days))

	for _, account := range e.accounts {
		if account.IsLiquidated {
			continue
		}
		interest := account.BorrowedAmount.Mul(dailyRate).Mul(dayCount)
		account.AccruedInterest = account.AccruedInterest.Add(interest)
		if account.Strategy != nil {
			account.Strategy.AccrueYield(days)
		}
		account.LastUpdate = time.Now()
	}

	e.logger.InfoContext(ctx, "time advanced",
		"days", days, "blocks", blocks, "current_block", e.currentBlock, "rate", rate.String())
	return nil
}

// SimulatePriceDrop 对单个资产施加价格冲击；资产为空时默认池子资产。
// 返回受冲击的资产与新价格。
func (e *SimulationEngine) SimulatePriceDrop(ctx context.Context, percent decimal.Decimal, asset string) (string, decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if asset == "" {
		asset = e.pool.Asset
	}
	e.oracle.DropPrice(asset, percent)
	newPrice := e.oracle.GetPrice(asset)

	e.logger.InfoContext(ctx, "price shock applied",
		"asset", asset, "drop_percent", percent.String(), "new_price", newPrice.String())

	e.publish(ctx, domain.PriceShockAppliedEventType, asset, domain.PriceShockAppliedEvent{
		Asset:       asset,
		DropPercent: percent.InexactFloat64(),
		NewPrice:    newPrice.InexactFloat64(),
		OccurredOn:  time.Now(),
	})

	return asset, newPrice
}

// DropAllPrices 对所有资产施加同比例价格冲击（整体压力测试）。
func (e *SimulationEngine) DropAllPrices(ctx context.Context, percent decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.oracle.DropPrices(percent)
	e.logger.InfoContext(ctx, "all prices dropped", "drop_percent", percent.String())
}

// RevertPrice 将资产价格恢复为预设参考价。
func (e *SimulationEngine) RevertPrice(ctx context.Context, asset string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.oracle.RevertPrice(asset)
	e.logger.InfoContext(ctx, "price reverted", "asset", asset, "price", e.oracle.GetPrice(asset).String())
}

// GetPrice 查询资产当前价格。
func (e *SimulationEngine) GetPrice(asset string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.oracle.GetPrice(asset)
}

// GetPoolState 返回池子快照与派生指标。
func (e *SimulationEngine) GetPoolState() *PoolState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &PoolState{
		Asset:          e.pool.Asset,
		TotalLiquidity: e.pool.TotalLiquidity,
		TotalBorrowed:  e.pool.TotalBorrowed,
		Available:      e.pool.Available(),
		Utilization:    e.pool.Utilization(),
		BaseRateAPY:    e.pool.BorrowRate(),
		BorrowRateAPY:  e.pool.EffectiveBorrowRate(),
		CurrentBlock:   e.currentBlock,
		ElapsedDays:    e.elapsedDays(),
	}
}

// GetAllAccounts 返回所有存续账户视图，已清算账户被过滤。
func (e *SimulationEngine) GetAllAccounts() []*AccountSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	summaries := make([]*AccountSummary, 0, len(e.accounts))
	for _, account := range e.accounts {
		if account.IsLiquidated {
			continue
		}
		summaries = append(summaries, e.accountSummary(account))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].AccountID < summaries[j].AccountID
	})
	return summaries
}

// GetAccount 按 ID 查询单个账户，已清算账户仍可查询。
func (e *SimulationEngine) GetAccount(accountID string) (*AccountSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	account, ok := e.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return e.accountSummary(account), nil
}

// GetElapsedDays 按区块时钟折算已流逝的天数。
func (e *SimulationEngine) GetElapsedDays() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedDays()
}

// SeedDemoAccounts 预置四个演示账户：ETH 抵押、USDC 借款且已全额部署到策略。
func (e *SimulationEngine) SeedDemoAccounts(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	demo := []struct {
		name          string
		collateralETH float64
		borrowedUSDC  float64
	}{
		{"alice", 1.0, 3000.0},
		{"bob", 1.0, 100000.0},
		{"charlie", 1.0, 2000.0},
		{"dave", 1.0, 15000.0},
	}

	for _, d := range demo {
		address := fmt.Sprintf("0x%s1", d.name)
		borrowed := decimal.NewFromFloat(d.borrowedUSDC)
		collateral := decimal.NewFromFloat(d.collateralETH)

		e.users[address] = domain.NewUser(address, map[string]decimal.Decimal{
			"USDC": borrowed,
			"ETH":  collateral,
		})

		e.accountCounter++
		account := domain.NewCreditAccount(
			fmt.Sprintf("CA_%d", e.accountCounter),
			address,
			map[string]decimal.Decimal{"ETH": collateral},
			borrowed,
			e.pool.Asset,
			e.currentBlock,
		)
		strategy := domain.NewYieldStrategy()
		strategy.Deposit(borrowed)
		account.Strategy = strategy
		e.accounts[account.AccountID] = account
	}

	e.logger.InfoContext(ctx, "demo accounts seeded", "count", len(demo))
}

func (e *SimulationEngine) ownedAccount(userAddress, accountID string) (*domain.CreditAccount, error) {
	account, ok := e.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if account.Owner != userAddress {
		return nil, domain.ErrNotOwner
	}
	if account.IsLiquidated {
		return nil, domain.ErrAccountAlreadyLiquidated
	}
	return account, nil
}

func (e *SimulationEngine) accountSummary(account *domain.CreditAccount) *AccountSummary {
	deposited := decimal.Zero
	rewards := decimal.Zero
	if account.Strategy != nil {
		deposited = account.Strategy.DepositedAmount
		rewards = account.Strategy.Rewards
	}
	return &AccountSummary{
		AccountID:          account.AccountID,
		Owner:              account.Owner,
		CollateralValueUSD: account.CollateralValueUSD(e.oracle),
		BorrowedPrincipal:  account.BorrowedAmount,
		AccruedInterest:    account.AccruedInterest,
		TotalDebt:          account.TotalDebt(),
		DepositedAmount:    deposited,
		StrategyValueUSD:   account.StrategyValueUSD(e.oracle),
		Rewards:            rewards,
		AvailableCash:      account.AvailableCash,
		HealthFactor:       account.HealthFactor(e.oracle),
		Status:             string(account.Status(e.oracle)),
		IsLiquidated:       account.IsLiquidated,
	}
}

func (e *SimulationEngine) elapsedDays() float64 {
	return float64(e.currentBlock) / float64(e.blocksPerYear) * 365
}

func userDTO(user *domain.User) *UserDTO {
	balance := make(map[string]decimal.Decimal, len(user.WalletBalance))
	for asset, amount := range user.WalletBalance {
		balance[asset] = amount
	}
	return &UserDTO{Address: user.Address, WalletBalance: balance}
}

func (e *SimulationEngine) publish(ctx context.Context, eventType, key string, payload any) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, key, payload); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish event", "event_type", eventType, "error", err)
	}
}
