package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/sms-filter/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage ZPAM SMS configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options and documentation`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		// Check if file already exists
		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		// Generate default config
		defaultConfig := config.DefaultConfig()

		// Save to file
		err := defaultConfig.SaveConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Edit the file to customize smoothing, model storage and dataset handling\n")
		fmt.Printf("🚀 Use 'zpam-sms train --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		// Load and validate config
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		// Additional validation checks
		warnings := validateConfigLogic(cfg)

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		// Print summary
		fmt.Printf("\n📊 Configuration Summary:\n")
		fmt.Printf("  Smoothing alpha: %g\n", cfg.Classifier.Alpha)
		fmt.Printf("  Scoring mode: %s\n", scoringMode(cfg))
		fmt.Printf("  Model backend: %s\n", cfg.Model.Backend)
		fmt.Printf("  Dataset format: %s\n", cfg.Dataset.Format)
		fmt.Printf("  Train fraction: %.2f\n", cfg.Dataset.TrainFraction)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		// Display key settings
		fmt.Printf("🎯 Classifier:\n")
		fmt.Printf("  Smoothing alpha: %g\n", cfg.Classifier.Alpha)
		fmt.Printf("  Scoring mode: %s\n", scoringMode(cfg))
		fmt.Printf("  Workers: %d (0 = number of CPUs)\n", cfg.Classifier.Workers)

		fmt.Printf("\n💾 Model Storage:\n")
		fmt.Printf("  Backend: %s\n", cfg.Model.Backend)
		fmt.Printf("  Location: %s\n", modelLocation(&cfg.Model))

		fmt.Printf("\n📁 Dataset:\n")
		fmt.Printf("  Format: %s\n", cfg.Dataset.Format)
		fmt.Printf("  Train fraction: %.2f\n", cfg.Dataset.TrainFraction)
		fmt.Printf("  Shuffle seed: %d\n", cfg.Dataset.Seed)

		fmt.Printf("\n📝 Logging:\n")
		fmt.Printf("  Level: %s\n", cfg.Logging.Level)
		fmt.Printf("  JSON output: %v\n", cfg.Logging.JSON)

		return nil
	},
}

// validateConfigLogic performs additional logical validation
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if cfg.Classifier.Alpha == 0 {
		warnings = append(warnings, "Zero smoothing: unseen tokens get zero probability and long messages can underflow")
	}

	if cfg.Classifier.Alpha > 10 {
		warnings = append(warnings, "Very high smoothing alpha flattens the model towards the priors")
	}

	if cfg.Classifier.LogSpace {
		warnings = append(warnings, "Log-space scoring is enabled globally; scores will be log-probabilities, not probabilities")
	}

	if cfg.Classifier.Workers > 64 {
		warnings = append(warnings, "High worker count might not help; classification is CPU-bound")
	}

	if cfg.Dataset.TrainFraction < 0.5 {
		warnings = append(warnings, "Train fraction below 0.5 leaves most of the data for testing")
	}

	if cfg.Dataset.TrainFraction > 0.95 {
		warnings = append(warnings, "Train fraction above 0.95 leaves very little data for testing")
	}

	return warnings
}

func scoringMode(cfg *config.Config) string {
	if cfg.Classifier.LogSpace {
		return "log-space"
	}
	return "multiplicative"
}

func init() {
	// Add subcommands
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	// Add flags
	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
