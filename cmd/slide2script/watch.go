package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thywilljoshua/slide2script/internal/pipeline"
	"github.com/thywilljoshua/slide2script/internal/watch"
)

func watchCmd(a *app) *cobra.Command {
	var exports bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Generate scripts for every document dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fi, err := os.Stat(args[0]); err != nil {
				return err
			} else if !fi.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
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

			handler := func(ctx context.Context, path string) error {
				conf := a.pipelineConfig(st, gen)
				// Each document gets its own run.
				conf.RunID = ""
				if exports {
					base := filepath.Join(a.cfg.Storage.Dir, "exports", trimExt(path))
					conf.DocxPath = base + ".docx"
					conf.XLSXPath = base + ".xlsx"
				}
				res, err := pipeline.Run(ctx, path, conf)
				if err != nil {
					return err
				}
				a.logger.Info("document done",
					zap.String("run_id", res.RunID),
					zap.Int("scripts", res.Scripts),
					zap.Int("fallbacks", res.Fallbacks))
				printJSON(cmd, res)
				return nil
			}

			w, err := watch.New(args[0], handler,
				watch.WithLogger(a.logger),
				watch.WithExtensions(a.cfg.Watch.Extensions...),
				watch.WithSettle(a.cfg.Watch.Settle))
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exports, "exports", false, "write .docx and .xlsx exports under <out>/exports")
	return cmd
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
