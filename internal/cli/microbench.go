package perfcompare

import (
	"github.com/mengfei25/torch-xpu-ops/internal/appconfig"
	"github.com/mengfei25/torch-xpu-ops/internal/microbench"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// microbenchCmd groups the CPU reference microbenchmarks.
var microbenchCmd = &cobra.Command{
	Use:   "microbench",
	Short: "Run op microbenchmarks (roll, bernoulli_)",
	Long: `Time reference implementations of individual tensor ops across the
configured dtypes and print a profiler-style summary table per case. Cases
larger than --max-elements are skipped.`,
}

var microbenchRollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Benchmark roll and its backward pass",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := microbenchConfig(cmd, microbench.DefaultRollConfig())
		if err != nil {
			return err
		}
		_, err = microbench.RunRoll(cmd.OutOrStdout(), cfg, microbench.DefaultRollCases)
		return err
	},
}

var microbenchBernoulliCmd = &cobra.Command{
	Use:   "bernoulli",
	Short: "Benchmark in-place bernoulli_ sampling",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := microbenchConfig(cmd, microbench.DefaultBernoulliConfig())
		if err != nil {
			return err
		}
		_, err = microbench.RunBernoulli(cmd.OutOrStdout(), cfg, microbench.DefaultBernoulliCases)
		return err
	},
}

var microbenchAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every microbenchmark",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rollCfg, err := microbenchConfig(cmd, microbench.DefaultRollConfig())
		if err != nil {
			return err
		}
		if _, err := microbench.RunRoll(cmd.OutOrStdout(), rollCfg, microbench.DefaultRollCases); err != nil {
			return err
		}
		bernCfg, err := microbenchConfig(cmd, microbench.DefaultBernoulliConfig())
		if err != nil {
			return err
		}
		_, err = microbench.RunBernoulli(cmd.OutOrStdout(), bernCfg, microbench.DefaultBernoulliCases)
		return err
	},
}

// microbenchConfig overlays the loaded configuration onto base. --backward
// only overrides the op default when explicitly set.
func microbenchConfig(cmd *cobra.Command, base microbench.Config) (microbench.Config, error) {
	cfg := GetConfig()
	if cfg == nil {
		return base, errors.New("configuration not loaded")
	}
	mb := cfg.Microbench
	base.Iterations = mb.Iterations
	base.Warmup = mb.Warmup
	base.MaxElements = mb.MaxElements
	base.Progress = cmd.ErrOrStderr()

	dtypes, err := parseDTypes(mb)
	if err != nil {
		return base, err
	}
	if len(dtypes) > 0 {
		base.DTypes = dtypes
	}

	if f := cmd.Flags().Lookup("backward"); f != nil && f.Changed {
		backward, err := cmd.Flags().GetBool("backward")
		if err != nil {
			return base, err
		}
		base.Backward = backward
	}
	return base, nil
}

func parseDTypes(mb appconfig.Microbench) ([]microbench.DType, error) {
	out := make([]microbench.DType, 0, len(mb.DTypes))
	for _, s := range mb.DTypes {
		dt, err := microbench.ParseDType(s)
		if err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, nil
}

func init() {
	pf := microbenchCmd.PersistentFlags()
	pf.Int("iterations", microbench.DefaultIterations, "timed iterations per case")
	pf.Int("warmup", microbench.DefaultWarmup, "untimed warmup iterations per case")
	pf.Int("max-elements", microbench.DefaultMaxElements, "skip cases with more elements than this")
	pf.StringSlice("dtypes", nil, "dtypes to run (bfloat16, float16, float32)")

	_ = viper.BindPFlag("microbench.iterations", pf.Lookup("iterations"))
	_ = viper.BindPFlag("microbench.warmup", pf.Lookup("warmup"))
	_ = viper.BindPFlag("microbench.maxElements", pf.Lookup("max-elements"))
	_ = viper.BindPFlag("microbench.dtypes", pf.Lookup("dtypes"))

	microbenchRollCmd.Flags().Bool("backward", true, "also time the backward pass")
	microbenchBernoulliCmd.Flags().Bool("backward", false, "accepted for parity; bernoulli_ has no backward")
	microbenchAllCmd.Flags().Bool("backward", false, "force the backward setting for every op")

	microbenchCmd.AddCommand(microbenchRollCmd, microbenchBernoulliCmd, microbenchAllCmd)
	rootCmd.AddCommand(microbenchCmd)
}
