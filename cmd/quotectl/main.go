package main

import (
	"os"

	"quotation/internal/model"

	"github.com/spf13/cobra"
)

// globalFlags override the environment configuration for one invocation
type globalFlags struct {
	source       string
	artifactPath string
	variant      string
	currency     string
	locale       string
	allowUnknown bool
	logLevel     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "quotectl",
		Short:         "Price electrical installation projects from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.source, "source", "", "artifact source: file, postgres or remote (default from MODEL_SOURCE)")
	pf.StringVar(&flags.artifactPath, "artifact", "", "artifact file for the file source (default from MODEL_ARTIFACT_PATH)")
	pf.StringVar(&flags.variant, "variant", "", "input schema when the artifact names none (default from MODEL_VARIANT)")
	pf.StringVar(&flags.currency, "currency", "", "currency symbol (default from QUOTE_CURRENCY_SYMBOL)")
	pf.StringVar(&flags.locale, "locale", "", "number formatting locale (default from QUOTE_LOCALE)")
	pf.BoolVar(&flags.allowUnknown, "allow-unknown-region", false, "price regions outside the multiplier table at 1.0")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(quoteCmd(&flags))
	rootCmd.AddCommand(variantsCmd(&flags))
	rootCmd.AddCommand(schemaCmd(&flags))
	rootCmd.AddCommand(publishCmd(&flags))

	return rootCmd
}

func quoteCmd(flags *globalFlags) *cobra.Command {
	var (
		req      model.QuoteRequest
		asJSON   bool
		switches int
		cable    float64
		conduit  float64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Estimate the cost of one project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("switches") {
				req.SwitchPoints = &switches
			}
			if cmd.Flags().Changed("cable") {
				req.CableLengthM = &cable
			}
			if cmd.Flags().Changed("conduit") {
				req.ConduitLengthM = &conduit
			}
			return runQuote(cmd, flags, &req, asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.State, "state", "Lagos", "state / region")
	f.StringVar(&req.BuildingType, "building-type", "Residential", "Residential, Commercial or Industrial")
	f.StringVar(&req.LabourType, "labour-type", "Standard", "Standard, Skilled or Highly Skilled")
	f.Float64Var(&req.FloorAreaM2, "floor-area", 10, "floor area in m²")
	f.IntVar(&req.Rooms, "rooms", 1, "number of rooms")
	f.IntVar(&req.LightingPoints, "lights", 1, "lighting points")
	f.IntVar(&req.SocketPoints, "sockets", 1, "socket points")
	f.IntVar(&switches, "switches", 1, "switch points")
	f.Float64Var(&cable, "cable", 1, "cable length in m")
	f.Float64Var(&conduit, "conduit", 1, "conduit length in m")
	f.StringVar(&req.ClientName, "client", "", "client name")
	f.StringVar(&req.ProjectReference, "reference", "", "project reference")
	f.BoolVar(&asJSON, "json", false, "print the quotation as JSON")
	return cmd
}

func variantsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the input schemas and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVariants(cmd, flags)
		},
	}
}

func schemaCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the loaded model's feature columns and cost drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd, flags)
		},
	}
}

func publishCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish [artifact-file]",
		Short: "Validate an artifact file and store it in the model_artifacts table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, flags, args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, do not connect to the database")
	return cmd
}
