package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "vaultscope",
		Short:        "Concentrated-liquidity vault math and projection",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Convert a tick to price1 and price0",
		RunE:  runPrice,
	}
	priceCmd.Flags().Int32("tick", 0, "pool tick")
	addDecimalsFlags(priceCmd)
	root.AddCommand(priceCmd)

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "Convert price1 to a raw and aligned tick",
		RunE:  runTick,
	}
	tickCmd.Flags().Float64("price", 0, "price of token0 in token1 units")
	addDecimalsFlags(tickCmd)
	tickCmd.Flags().Int32("spacing", 60, "pool tick spacing")
	tickCmd.Flags().String("align-mode", "truncate", "tick alignment (truncate, floor)")
	root.AddCommand(tickCmd)

	alignCmd := &cobra.Command{
		Use:   "align",
		Short: "Align a tick to the pool tick spacing",
		RunE:  runAlign,
	}
	alignCmd.Flags().Int32("tick", 0, "pool tick")
	alignCmd.Flags().Int32("spacing", 60, "pool tick spacing")
	alignCmd.Flags().String("align-mode", "truncate", "tick alignment (truncate, floor)")
	root.AddCommand(alignCmd)

	mulDivCmd := &cobra.Command{
		Use:   "muldiv",
		Short: "Compute floor(a*b/denominator) with 512-bit intermediate precision",
		RunE:  runMulDiv,
	}
	mulDivCmd.Flags().String("a", "", "multiplicand (decimal or 0x hex)")
	mulDivCmd.Flags().String("b", "", "multiplier (decimal or 0x hex)")
	mulDivCmd.Flags().String("denominator", "", "divisor (decimal or 0x hex)")
	mulDivCmd.Flags().Bool("round-up", false, "round the quotient up")
	root.AddCommand(mulDivCmd)

	amountsCmd := &cobra.Command{
		Use:   "amounts",
		Short: "Split position liquidity into token amounts",
		RunE:  runAmounts,
	}
	amountsCmd.Flags().String("sqrt-price", "", "current sqrtPriceX96 (decimal or 0x hex)")
	amountsCmd.Flags().Int32("tick-lower", 0, "position lower tick")
	amountsCmd.Flags().Int32("tick-upper", 0, "position upper tick")
	amountsCmd.Flags().String("liquidity", "", "position liquidity")
	addDecimalsFlags(amountsCmd)
	root.AddCommand(amountsCmd)

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "Convert price bounds to an aligned tick range",
		RunE:  runRange,
	}
	rangeCmd.Flags().Float64("price", 0, "current price1")
	rangeCmd.Flags().Float64("lower-price", 0, "lower price1 bound")
	rangeCmd.Flags().Float64("upper-price", 0, "upper price1 bound")
	addDecimalsFlags(rangeCmd)
	rangeCmd.Flags().Int32("spacing", 60, "pool tick spacing")
	rangeCmd.Flags().String("align-mode", "truncate", "tick alignment (truncate, floor)")
	root.AddCommand(rangeCmd)

	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Project vault observations into display snapshots",
		RunE:  runProject,
	}
	projectCmd.Flags().String("in", "", "input vault observations JSONL")
	projectCmd.Flags().String("out", "./data/snapshots.jsonl", "output snapshots JSONL")
	projectCmd.Flags().Int("batch-size", 500, "snapshots per write")
	projectCmd.Flags().String("native-wrapper", "", "wrapped native token address")
	projectCmd.Flags().String("align-mode", "truncate", "tick alignment (truncate, floor)")
	projectCmd.Flags().StringSlice("vault", nil, "only project these vault addresses (comma-separated)")
	projectCmd.Flags().String("since", "", "skip observations at or before this timestamp (unix seconds or RFC3339)")
	projectCmd.Flags().String("state-file", "", "optional local state file for incremental runs")
	projectCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(projectCmd)

	return root
}

func addDecimalsFlags(cmd *cobra.Command) {
	cmd.Flags().Uint8("decimals0", 18, "token0 decimals")
	cmd.Flags().Uint8("decimals1", 18, "token1 decimals")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
