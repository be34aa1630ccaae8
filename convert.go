package main

import (
	"errors"
	"fmt"
	"os"

	"tabxml/internal/converter"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a CSV or XLSX file to XML without the interactive UI",
	Long: `Convert reads a CSV or XLSX file, writes the pretty-printed XML next to
the input (or to --output), and verifies the round trip. Per-cell warnings go
to stderr; the command fails if the conversion aborts or verification finds a
mismatch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		result, err := converter.ConvertFile(args[0], output, optionsFromConfig(), nil)
		if err != nil {
			var fe *converter.FormatError
			if errors.As(err, &fe) {
				fmt.Fprintln(os.Stderr, "Problem detected in the following raw XML snippet:")
				fmt.Fprintln(os.Stderr, fe.Excerpt)
			}
			return err
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		fmt.Printf("%s -> %s (%d rows, %d columns) in %.2fs\n",
			result.InputFile, result.OutputFile, result.Rows, len(result.Columns), result.Elapsed.Seconds())

		if !result.Report.OK {
			return errors.New(result.Report.Message)
		}
		fmt.Println(result.Report.Message)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (default: input path with .xml extension)")

	rootCmd.AddCommand(convertCmd)
}
