package vault

import (
	"fmt"

	"github.com/holiman/uint256"
	"lukechampine.com/uint128"

	"vaultScope/internal/liquidity"
	"vaultScope/internal/model"
	"vaultScope/internal/tickmath"
)

// feeDenominator converts a raw fee in hundredths of a bip to percent.
const feeDenominator = 10_000

// Project validates an observation and builds its display snapshot.
func (p *Projector) Project(obs model.VaultObservation) (model.VaultSnapshot, error) {
	vaultAddress, err := checksumAddress("vault", obs.Address)
	if err != nil {
		return model.VaultSnapshot{}, err
	}
	pool, err := p.projectPool(obs.Pool)
	if err != nil {
		return model.VaultSnapshot{}, fmt.Errorf("vault %s: %w", vaultAddress, err)
	}
	if err := validateRange(obs.LowerTick, obs.UpperTick); err != nil {
		return model.VaultSnapshot{}, fmt.Errorf("vault %s: %w", vaultAddress, err)
	}

	totalSupply, err := ParseUint256(obs.TotalSupply)
	if err != nil {
		return model.VaultSnapshot{}, fmt.Errorf("vault %s total supply: %w", vaultAddress, err)
	}

	snap := model.VaultSnapshot{
		Address:                 vaultAddress,
		Pool:                    pool,
		Name:                    obs.Name,
		Symbol:                  obs.Symbol,
		Decimals:                obs.Decimals,
		TotalSupply:             FormatAmount(totalSupply, obs.Decimals),
		LowerTick:               obs.LowerTick,
		UpperTick:               obs.UpperTick,
		Range:                   priceRange(obs.LowerTick, obs.UpperTick, pool.Token0.Decimals, pool.Token1.Decimals),
		InRange:                 inRange(pool.CurrentTick, obs.LowerTick, obs.UpperTick),
		IsActive:                obs.IsActive,
		IsVaultTokensAssociated: obs.IsVaultTokensAssociated,
		ObservedAt:              obs.ObservedAt,
	}

	if obs.Balance0 != "" || obs.Balance1 != "" {
		balances, err := tokenBalances(obs.Balance0, obs.Balance1, pool.Token0.Decimals, pool.Token1.Decimals)
		if err != nil {
			return model.VaultSnapshot{}, fmt.Errorf("vault %s balances: %w", vaultAddress, err)
		}
		snap.Balances = balances
	}

	if obs.Liquidity != "" && pool.SqrtPriceX96 != "" {
		liq, err := ParseUint128(obs.Liquidity)
		if err != nil {
			return model.VaultSnapshot{}, fmt.Errorf("vault %s liquidity: %w", vaultAddress, err)
		}
		sqrtPrice, err := ParseUint256(pool.SqrtPriceX96)
		if err != nil {
			return model.VaultSnapshot{}, fmt.Errorf("vault %s sqrt price: %w", vaultAddress, err)
		}
		position, err := positionAmounts(sqrtPrice, snap.LowerTick, snap.UpperTick, liq, pool.Token0.Decimals, pool.Token1.Decimals)
		if err != nil {
			return model.VaultSnapshot{}, fmt.Errorf("vault %s position: %w", vaultAddress, err)
		}
		snap.Position = position
	}

	return snap, nil
}

// ApplyTick refreshes a snapshot for a new current tick. The sqrt price is
// reset to the tick boundary and any position amounts are recomputed.
func (p *Projector) ApplyTick(snap *model.VaultSnapshot, tick int32) error {
	sqrtPrice, err := tickmath.GetSqrtRatioAtTick(tick)
	if err != nil {
		return fmt.Errorf("apply tick %d: %w", tick, err)
	}
	d0, d1 := snap.Pool.Token0.Decimals, snap.Pool.Token1.Decimals

	exact1, _, err := tickmath.SqrtPriceX96ToPrice(sqrtPrice, d0, d1)
	if err != nil {
		return fmt.Errorf("apply tick %d: %w", tick, err)
	}

	var position *model.PositionAmounts
	if snap.Position != nil {
		liq, err := ParseUint128(snap.Position.Liquidity)
		if err != nil {
			return fmt.Errorf("apply tick %d: liquidity: %w", tick, err)
		}
		position, err = positionAmounts(sqrtPrice, snap.LowerTick, snap.UpperTick, liq, d0, d1)
		if err != nil {
			return fmt.Errorf("apply tick %d: %w", tick, err)
		}
	}

	snap.Pool.CurrentTick = tick
	snap.Pool.Price1, snap.Pool.Price0 = tickmath.TickToPrice(tick, d0, d1)
	snap.Pool.SqrtPriceX96 = sqrtPrice.Dec()
	snap.Pool.SqrtPrice1 = exact1
	snap.InRange = inRange(tick, snap.LowerTick, snap.UpperTick)
	snap.Position = position
	return nil
}

// ApplyRebalance moves a snapshot to a new position range and current tick.
// Position amounts are dropped since the liquidity after a rebalance is unknown.
func (p *Projector) ApplyRebalance(snap *model.VaultSnapshot, tick, lower, upper int32, active bool) error {
	if err := validateRange(lower, upper); err != nil {
		return fmt.Errorf("apply rebalance: %w", err)
	}
	snap.Position = nil
	snap.LowerTick = lower
	snap.UpperTick = upper
	snap.IsActive = active
	snap.Range = priceRange(lower, upper, snap.Pool.Token0.Decimals, snap.Pool.Token1.Decimals)
	if err := p.ApplyTick(snap, tick); err != nil {
		return fmt.Errorf("apply rebalance: %w", err)
	}
	return nil
}

// RangeForPrices converts a current price and target price bounds into pool
// ticks. Bounds are aligned with the configured align mode; the current tick
// is left unaligned.
func (p *Projector) RangeForPrices(current, lower, upper float64, decimals0, decimals1 uint8, spacing int32) (model.TickRange, error) {
	if err := tickmath.ValidateTickSpacing(spacing); err != nil {
		return model.TickRange{}, err
	}
	if !(lower < upper) {
		return model.TickRange{}, fmt.Errorf("%w: lower price %v must be below upper price %v", ErrInvalidRange, lower, upper)
	}

	currentTick, err := tickmath.Price1ToTick(current, decimals0, decimals1)
	if err != nil {
		return model.TickRange{}, fmt.Errorf("current price: %w", err)
	}
	lowerTick, err := tickmath.Price1ToTick(lower, decimals0, decimals1)
	if err != nil {
		return model.TickRange{}, fmt.Errorf("lower price: %w", err)
	}
	upperTick, err := tickmath.Price1ToTick(upper, decimals0, decimals1)
	if err != nil {
		return model.TickRange{}, fmt.Errorf("upper price: %w", err)
	}

	lowerTick = tickmath.Align(lowerTick, spacing, p.cfg.AlignMode)
	upperTick = tickmath.Align(upperTick, spacing, p.cfg.AlignMode)
	if lowerTick >= upperTick {
		return model.TickRange{}, fmt.Errorf("%w: prices collapse to tick %d at spacing %d", ErrInvalidRange, lowerTick, spacing)
	}

	return model.TickRange{
		CurrentTick: currentTick,
		LowerTick:   lowerTick,
		UpperTick:   upperTick,
	}, nil
}

func (p *Projector) projectPool(obs model.PoolObservation) (model.Pool, error) {
	address, err := checksumAddress("pool", obs.Address)
	if err != nil {
		return model.Pool{}, err
	}
	token0, err := p.projectToken("token0", obs.Token0)
	if err != nil {
		return model.Pool{}, err
	}
	token1, err := p.projectToken("token1", obs.Token1)
	if err != nil {
		return model.Pool{}, err
	}
	if err := tickmath.ValidateTickSpacing(obs.TickSpacing); err != nil {
		return model.Pool{}, err
	}
	if obs.Slot0.Tick < tickmath.MinTick || obs.Slot0.Tick > tickmath.MaxTick {
		return model.Pool{}, fmt.Errorf("%w: current tick %d", tickmath.ErrTickOutOfRange, obs.Slot0.Tick)
	}

	pool := model.Pool{
		Address:     address,
		Token0:      token0,
		Token1:      token1,
		Fee:         float64(obs.Fee) / feeDenominator,
		TickSpacing: obs.TickSpacing,
		CurrentTick: obs.Slot0.Tick,
	}
	pool.Price1, pool.Price0 = tickmath.TickToPrice(obs.Slot0.Tick, token0.Decimals, token1.Decimals)

	if obs.Slot0.SqrtPriceX96 != "" {
		sqrtPrice, err := ParseUint256(obs.Slot0.SqrtPriceX96)
		if err != nil {
			return model.Pool{}, fmt.Errorf("sqrt price: %w", err)
		}
		exact1, _, err := tickmath.SqrtPriceX96ToPrice(sqrtPrice, token0.Decimals, token1.Decimals)
		if err != nil {
			return model.Pool{}, fmt.Errorf("sqrt price: %w", err)
		}
		pool.SqrtPriceX96 = sqrtPrice.Dec()
		pool.SqrtPrice1 = exact1
	}

	return pool, nil
}

func (p *Projector) projectToken(field string, meta model.TokenMeta) (model.Token, error) {
	address, err := checksumAddress(field, meta.Address)
	if err != nil {
		return model.Token{}, err
	}
	return model.Token{
		Address:         address,
		Name:            meta.Name,
		Symbol:          meta.Symbol,
		Decimals:        meta.Decimals,
		IsNativeWrapper: p.isNativeWrapper(address),
	}, nil
}

func validateRange(lower, upper int32) error {
	if lower < tickmath.MinTick || upper > tickmath.MaxTick {
		return fmt.Errorf("%w: [%d, %d] outside [%d, %d]", ErrInvalidRange, lower, upper, tickmath.MinTick, tickmath.MaxTick)
	}
	if lower >= upper {
		return fmt.Errorf("%w: lower %d must be below upper %d", ErrInvalidRange, lower, upper)
	}
	return nil
}

func priceRange(lower, upper int32, decimals0, decimals1 uint8) model.PriceRange {
	lowerPrice1, _ := tickmath.TickToPrice(lower, decimals0, decimals1)
	upperPrice1, _ := tickmath.TickToPrice(upper, decimals0, decimals1)
	return model.PriceRange{LowerPrice1: lowerPrice1, UpperPrice1: upperPrice1}
}

// inRange reports whether the tick is inside [lower, upper).
func inRange(tick, lower, upper int32) bool {
	return tick >= lower && tick < upper
}

func tokenBalances(raw0, raw1 string, decimals0, decimals1 uint8) (*model.TokenBalances, error) {
	balance0, balance1 := new(uint256.Int), new(uint256.Int)
	var err error
	if raw0 != "" {
		if balance0, err = ParseUint256(raw0); err != nil {
			return nil, fmt.Errorf("token0: %w", err)
		}
	}
	if raw1 != "" {
		if balance1, err = ParseUint256(raw1); err != nil {
			return nil, fmt.Errorf("token1: %w", err)
		}
	}
	return &model.TokenBalances{
		Token0Balance:    FormatAmount(balance0, decimals0),
		Token1Balance:    FormatAmount(balance1, decimals1),
		Token0BalanceRaw: balance0.Dec(),
		Token1BalanceRaw: balance1.Dec(),
	}, nil
}

func positionAmounts(sqrtPrice *uint256.Int, lower, upper int32, liq uint128.Uint128, decimals0, decimals1 uint8) (*model.PositionAmounts, error) {
	sqrtLower, err := tickmath.GetSqrtRatioAtTick(lower)
	if err != nil {
		return nil, err
	}
	sqrtUpper, err := tickmath.GetSqrtRatioAtTick(upper)
	if err != nil {
		return nil, err
	}
	amount0, amount1, err := liquidity.AmountsForLiquidity(sqrtPrice, sqrtLower, sqrtUpper, liq)
	if err != nil {
		return nil, err
	}
	return &model.PositionAmounts{
		Liquidity:  liq.String(),
		Amount0:    FormatAmount(amount0, decimals0),
		Amount1:    FormatAmount(amount1, decimals1),
		Amount0Raw: amount0.Dec(),
		Amount1Raw: amount1.Dec(),
	}, nil
}
