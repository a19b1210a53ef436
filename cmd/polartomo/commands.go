// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/katalvlaran/polartomo/basis"
	"github.com/katalvlaran/polartomo/batch"
	"github.com/katalvlaran/polartomo/maxlik"
	"github.com/katalvlaran/polartomo/metrics"
	"github.com/spf13/cobra"
)

// app carries state resolved once in the root PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string
	cfg        Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}
	root := &cobra.Command{
		Use:           "polartomo",
		Short:         "Maximum-likelihood polarization state tomography",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(a.newReconstructCmd(), a.newBatchCmd(), a.newProjectorsCmd())

	return root
}

// init loads the config file, applies flag overrides and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("epsilon") {
		a.cfg.Epsilon, _ = flags.GetFloat64("epsilon")
	}
	if flags.Changed("max-iterations") {
		a.cfg.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("workers") {
		a.cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("output") {
		a.cfg.Output, _ = flags.GetString("output")
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := a.cfg.Level()
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))

	return nil
}

// addRunFlags registers the options shared by reconstruct and batch. The
// values are read back in init only when set explicitly.
func addRunFlags(cmd *cobra.Command) {
	def := DefaultConfig()
	cmd.Flags().Float64("epsilon", def.Epsilon, "convergence threshold")
	cmd.Flags().Int("max-iterations", def.MaxIterations, "iteration cap")
	cmd.Flags().StringP("output", "o", def.Output, "output format: text, yaml, json")
}

func (a *app) newReconstructCmd() *cobra.Command {
	var reference string
	cmd := &cobra.Command{
		Use:   "reconstruct H V D A R L",
		Short: "Reconstruct one state from six counts in H, V, D, A, R, L order",
		Args:  cobra.ExactArgs(basis.Size),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts := make([]float64, len(args))
			for i, s := range args {
				v, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("count %d (%s): %w", i+1, basis.Labels()[i], err)
				}
				counts[i] = v
			}
			var ref *basis.Label
			if reference != "" {
				l, err := basis.ParseLabel(reference)
				if err != nil {
					return err
				}
				ref = &l
			}

			res, err := maxlik.Reconstruct(counts, basis.Projectors(), a.cfg.reconstructOptions(a.logger)...)
			if err != nil {
				return err
			}
			out := reconstruction{
				Counts:     counts,
				Rho:        toEntries(res.Rho),
				Stokes:     res.Stokes,
				Iterations: res.Iterations,
				Distance:   res.Distance,
			}
			if out.Purity, err = metrics.Purity(res.Rho); err != nil {
				return err
			}
			if ref != nil {
				f, err := metrics.Fidelity(res.Rho, basis.ProjectorOf(*ref))
				if err != nil {
					return err
				}
				out.Reference, out.Fidelity = ref.String(), &f
			}

			return render(cmd.OutOrStdout(), a.cfg.Output, out)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "label of the prepared state for fidelity (H, V, D, A, R, L)")

	return cmd
}

func (a *app) newBatchCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Reconstruct every record of a YAML dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := batch.LoadDataset(file)
			if err != nil {
				return err
			}
			opts := []batch.Option{
				batch.WithLogger(a.logger),
				batch.WithReconstructOptions(a.cfg.reconstructOptions(a.logger)...),
			}
			if a.cfg.Workers > 0 {
				opts = append(opts, batch.WithWorkers(a.cfg.Workers))
			}
			rep, err := batch.NewRunner(opts...).Run(cmd.Context(), ds)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), a.cfg.Output, rep)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML dataset")
	cmd.Flags().Int("workers", 0, "concurrent reconstructions (0: GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) newProjectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projectors",
		Short: "Print the measurement projectors in basis order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, l := range basis.Labels() {
				if _, err := fmt.Fprintf(w, "%s:\n%s", l, basis.ProjectorOf(l)); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
