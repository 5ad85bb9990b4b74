package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slide2script/internal/pipeline"
)

func generateCmd(a *app) *cobra.Command {
	var docxPath string
	var xlsxPath string
	var pace time.Duration
	var detectLanguage bool

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Extract a document and write one narration script per slide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDocument(args[0]); err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if cmd.Flags().Changed("pace") {
				a.cfg.Script.Pace = pace
			}
			if cmd.Flags().Changed("detect-language") {
				a.cfg.Script.DetectLanguage = detectLanguage
			}
			conf := a.pipelineConfig(st, gen)
			conf.DocxPath = docxPath
			conf.XLSXPath = xlsxPath

			res, err := pipeline.Run(cmd.Context(), args[0], conf)
			if err != nil {
				return err
			}
			printJSON(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&docxPath, "docx", "", "also write the scripts to this .docx file")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the scripts to this .xlsx file")
	cmd.Flags().DurationVar(&pace, "pace", time.Second, "delay between generation calls (0 disables)")
	cmd.Flags().BoolVar(&detectLanguage, "detect-language", false, "detect the document language and pass it to the model")
	return cmd
}
