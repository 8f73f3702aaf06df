package cmd

import (
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/convert"
	"github.com/spf13/cobra"
)

func init() {
	flags := ConvertCmd.Flags()
	flags.String(inputFlag, convert.DefaultInput, "CSV file to read")
	flags.String(outputFlag, convert.DefaultOutput, "JSON file to write, overwritten if it exists")
	flags.Int(limitFlag, convert.DefaultLimit, "number of rows to convert, 0 for all")
}

var ConvertCmd = &cobra.Command{
	Use:   ConvertCmdName,
	Short: ConvertCmdShort,
	Long:  ConvertCmdLong,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg.Log)

		flags := cmd.Flags()
		input, _ := flags.GetString(inputFlag)
		output, _ := flags.GetString(outputFlag)
		limit, _ := flags.GetInt(limitFlag)

		n, err := convert.File(input, output, limit, logger)
		if err != nil {
			return err
		}
		logger.Info("conversion finished", "input", input, "output", output, "records", n)
		return nil
	},
}
