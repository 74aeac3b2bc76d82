package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/datateller/datateller/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Datateller configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("missing_pct_threshold: %.1f\n", cfg.MissingPctThreshold)
		fmt.Printf("correlation_threshold: %.2f\n", cfg.CorrelationThreshold)
		fmt.Printf("top_k: %d\n", cfg.TopK)
		fmt.Printf("max_box_categories: %d\n", cfg.MaxBoxCategories)
		fmt.Printf("top_insights: %d\n", cfg.TopInsights)
		fmt.Printf("theme: %s\n", cfg.Theme)
		fmt.Printf("language: %s\n", cfg.Language)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "missing_pct_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 100 {
				return fmt.Errorf("invalid percent for missing_pct_threshold: %v", val)
			}
			cfg.MissingPctThreshold = f
		case "correlation_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid value for correlation_threshold: %v (use 0..1)", val)
			}
			cfg.CorrelationThreshold = f
		case "top_k":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_k: %v", val)
			}
			cfg.TopK = i
		case "max_box_categories":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_box_categories: %v", val)
			}
			cfg.MaxBoxCategories = i
		case "top_insights":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_insights: %v", val)
			}
			cfg.TopInsights = i
		case "theme":
			switch val {
			case "light", "dark":
				cfg.Theme = val
			default:
				return fmt.Errorf("invalid theme: %s (use light or dark)", val)
			}
		case "language":
			cfg.Language = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
