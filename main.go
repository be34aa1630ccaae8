package main

import (
	"os"
	"path/filepath"
	"strings"

	"tabxml/internal/converter"
	"tabxml/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tabxml",
	Short: "Convert CSV and XLSX files to pretty-printed XML",
	Long: `tabxml converts tabular data (CSV or XLSX) into a pretty-printed XML
document and verifies the result by re-parsing it and comparing every cell
against the source.

Run without a subcommand to pick a file interactively; use "tabxml convert"
for headless conversion.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(ui.InitialModel(optionsFromConfig()), tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err := p.Run()
		return err
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tabxml.yaml or ~/.config/tabxml/config.yaml)")
	rootCmd.PersistentFlags().String("root-tag", converter.DefaultRootTag, "name of the document root element")
	rootCmd.PersistentFlags().String("item-tag", converter.DefaultItemTag, "name of the per-row element")
	rootCmd.PersistentFlags().Int("indent", 2, "spaces per nesting level in the output")

	viper.BindPFlag("root_tag", rootCmd.PersistentFlags().Lookup("root-tag"))
	viper.BindPFlag("item_tag", rootCmd.PersistentFlags().Lookup("item-tag"))
	viper.BindPFlag("indent", rootCmd.PersistentFlags().Lookup("indent"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tabxml")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tabxml"))
		}
	}

	viper.SetEnvPrefix("TABXML")
	viper.AutomaticEnv()

	// Config file is optional
	_ = viper.ReadInConfig()
}

func optionsFromConfig() converter.Options {
	indent := viper.GetInt("indent")
	if indent < 0 {
		indent = 0
	}
	return converter.Options{
		RootTag: viper.GetString("root_tag"),
		ItemTag: viper.GetString("item_tag"),
		Indent:  strings.Repeat(" ", indent),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
