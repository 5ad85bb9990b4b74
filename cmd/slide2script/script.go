package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/slide2script/internal/extract"
	"github.com/thywilljoshua/slide2script/internal/pipeline"
)

func scriptCmd(a *app) *cobra.Command {
	var docxPath string
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "script <full_content.json>",
		Short: "Generate scripts from a stored extraction result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := readExtraction(args[0])
			if err != nil {
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

			conf := a.pipelineConfig(st, gen)
			if conf.RunID == "" {
				conf.RunID = runIDFromArtifact(args[0])
			}
			conf.DocxPath = docxPath
			conf.XLSXPath = xlsxPath

			out, err := pipeline.Scripts(cmd.Context(), res, conf)
			if err != nil {
				return err
			}
			printJSON(cmd, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&docxPath, "docx", "", "also write the scripts to this .docx file")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the scripts to this .xlsx file")
	return cmd
}

func readExtraction(path string) (*extract.Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read extraction: %w", err)
	}
	var res extract.Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &res)
	default:
		err = json.Unmarshal(b, &res)
	}
	if err != nil {
		return nil, fmt.Errorf("parse extraction %s: %w", path, err)
	}
	if res.Kind != extract.KindSlideDeck && res.Kind != extract.KindContinuousText {
		return nil, fmt.Errorf("extraction %s: document_kind %q: %w", path, res.Kind, extract.ErrUnsupportedFormat)
	}
	return &res, nil
}

// runIDFromArtifact recovers the run from <dir>/<run>/extracted/full_content.json.
func runIDFromArtifact(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) != "extracted" {
		return ""
	}
	return filepath.Base(filepath.Dir(dir))
}
