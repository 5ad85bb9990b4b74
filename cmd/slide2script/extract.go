package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slide2script/internal/pipeline"
)

func extractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract per-slide content from a .pptx, .ppt or .pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDocument(args[0]); err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			conf := a.pipelineConfig(st, nil)
			conf.ExtractOnly = true
			res, err := pipeline.Run(cmd.Context(), args[0], conf)
			if err != nil {
				return err
			}
			printJSON(cmd, res)
			return nil
		},
	}
}
