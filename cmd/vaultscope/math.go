package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"vaultScope/internal/config"
	"vaultScope/internal/fullmath"
	"vaultScope/internal/liquidity"
	"vaultScope/internal/model"
	"vaultScope/internal/tickmath"
	"vaultScope/internal/vault"
)

type priceOutput struct {
	Tick   int32   `json:"tick"`
	Price1 float64 `json:"price1"`
	Price0 float64 `json:"price0"`
}

type tickOutput struct {
	Price       float64 `json:"price"`
	Tick        int32   `json:"tick"`
	AlignedTick int32   `json:"aligned_tick"`
	AlignMode   string  `json:"align_mode"`
}

type mulDivOutput struct {
	Result  string `json:"result"`
	Hex     string `json:"hex"`
	RoundUp bool   `json:"round_up"`
}

func decimalsFlags(cmd *cobra.Command) (uint8, uint8) {
	decimals0, _ := cmd.Flags().GetUint8("decimals0")
	decimals1, _ := cmd.Flags().GetUint8("decimals1")
	return decimals0, decimals1
}

func loadAlignMode(cmd *cobra.Command) (tickmath.AlignMode, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return "", err
	}
	return tickmath.ParseAlignMode(cfg.AlignMode)
}

func runPrice(cmd *cobra.Command, _ []string) error {
	tick, _ := cmd.Flags().GetInt32("tick")
	if tick < tickmath.MinTick || tick > tickmath.MaxTick {
		return fmt.Errorf("%w: %d", tickmath.ErrTickOutOfRange, tick)
	}
	decimals0, decimals1 := decimalsFlags(cmd)

	price1, price0 := tickmath.TickToPrice(tick, decimals0, decimals1)
	return printJSON(cmd, priceOutput{Tick: tick, Price1: price1, Price0: price0})
}

func runTick(cmd *cobra.Command, _ []string) error {
	mode, err := loadAlignMode(cmd)
	if err != nil {
		return err
	}
	price, _ := cmd.Flags().GetFloat64("price")
	spacing, _ := cmd.Flags().GetInt32("spacing")
	decimals0, decimals1 := decimalsFlags(cmd)

	if err := tickmath.ValidateTickSpacing(spacing); err != nil {
		return err
	}
	tick, err := tickmath.Price1ToTick(price, decimals0, decimals1)
	if err != nil {
		return err
	}

	return printJSON(cmd, tickOutput{
		Price:       price,
		Tick:        tick,
		AlignedTick: tickmath.Align(tick, spacing, mode),
		AlignMode:   string(mode),
	})
}

func runAlign(cmd *cobra.Command, _ []string) error {
	mode, err := loadAlignMode(cmd)
	if err != nil {
		return err
	}
	tick, _ := cmd.Flags().GetInt32("tick")
	spacing, _ := cmd.Flags().GetInt32("spacing")
	if err := tickmath.ValidateTickSpacing(spacing); err != nil {
		return err
	}

	return printJSON(cmd, tickOutput{
		Tick:        tick,
		AlignedTick: tickmath.Align(tick, spacing, mode),
		AlignMode:   string(mode),
	})
}

func runMulDiv(cmd *cobra.Command, _ []string) error {
	var operands [3]*uint256.Int
	for i, name := range []string{"a", "b", "denominator"} {
		raw, _ := cmd.Flags().GetString(name)
		v, err := vault.ParseUint256(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		operands[i] = v
	}
	roundUp, _ := cmd.Flags().GetBool("round-up")

	op := fullmath.MulDiv
	if roundUp {
		op = fullmath.MulDivRoundingUp
	}
	result, err := op(operands[0], operands[1], operands[2])
	if err != nil {
		return err
	}

	return printJSON(cmd, mulDivOutput{Result: result.Dec(), Hex: result.Hex(), RoundUp: roundUp})
}

func runAmounts(cmd *cobra.Command, _ []string) error {
	rawSqrt, _ := cmd.Flags().GetString("sqrt-price")
	rawLiquidity, _ := cmd.Flags().GetString("liquidity")
	lower, _ := cmd.Flags().GetInt32("tick-lower")
	upper, _ := cmd.Flags().GetInt32("tick-upper")
	decimals0, decimals1 := decimalsFlags(cmd)

	sqrtPrice, err := vault.ParseUint256(rawSqrt)
	if err != nil {
		return fmt.Errorf("parse sqrt-price: %w", err)
	}
	liq, err := vault.ParseUint128(rawLiquidity)
	if err != nil {
		return fmt.Errorf("parse liquidity: %w", err)
	}
	sqrtLower, err := tickmath.GetSqrtRatioAtTick(lower)
	if err != nil {
		return fmt.Errorf("tick-lower: %w", err)
	}
	sqrtUpper, err := tickmath.GetSqrtRatioAtTick(upper)
	if err != nil {
		return fmt.Errorf("tick-upper: %w", err)
	}

	amount0, amount1, err := liquidity.AmountsForLiquidity(sqrtPrice, sqrtLower, sqrtUpper, liq)
	if err != nil {
		return err
	}

	return printJSON(cmd, model.PositionAmounts{
		Liquidity:  liq.String(),
		Amount0:    vault.FormatAmount(amount0, decimals0),
		Amount1:    vault.FormatAmount(amount1, decimals1),
		Amount0Raw: amount0.Dec(),
		Amount1Raw: amount1.Dec(),
	})
}

func runRange(cmd *cobra.Command, _ []string) error {
	mode, err := loadAlignMode(cmd)
	if err != nil {
		return err
	}
	price, _ := cmd.Flags().GetFloat64("price")
	lower, _ := cmd.Flags().GetFloat64("lower-price")
	upper, _ := cmd.Flags().GetFloat64("upper-price")
	spacing, _ := cmd.Flags().GetInt32("spacing")
	decimals0, decimals1 := decimalsFlags(cmd)

	projector, err := vault.NewProjector(vault.Config{AlignMode: mode}, nil, nil)
	if err != nil {
		return err
	}
	tickRange, err := projector.RangeForPrices(price, lower, upper, decimals0, decimals1, spacing)
	if err != nil {
		return err
	}
	return printJSON(cmd, tickRange)
}
