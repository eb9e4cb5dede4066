package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/collate/internal/serialization"
)

func inspectAction(_ context.Context, cmd *cli.Command) error {
	_, logger, err := setup(cmd)
	if nil != err {
		return err
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		logger.Error().Msg("No input files given")
		return exitCodeError(2)
	}

	return inspect(cmd.Root().Writer, paths)
}

// inspect renders one table row per tensor across all files.
func inspect(w io.Writer, paths []string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Tensor", "DType", "Shape", "Layout", "Size"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Size", Align: text.AlignRight},
	})

	var total int64
	for _, path := range paths {
		if err := appendFile(t, path, &total); nil != err {
			return err
		}
	}

	t.AppendFooter(table.Row{"", "", "", "", "Total", humanize.Bytes(uint64(total))}) //nolint:gosec // G115: sizes are validated non-negative.
	t.Render()
	return nil
}

func appendFile(t table.Writer, path string, total *int64) error {
	r, err := serialization.Open(path)
	if nil != err {
		return err
	}
	defer r.Close()

	for _, name := range r.Names() {
		info, err := r.Info(name)
		if nil != err {
			return err
		}

		layout := "-"
		if v, ok := r.Metadata()[serialization.LayoutKey(name)]; ok {
			layout = v
		}

		t.AppendRow(table.Row{
			path,
			name,
			string(info.DType),
			fmt.Sprint(info.Shape),
			layout,
			humanize.Bytes(uint64(info.Size())), //nolint:gosec // G115: sizes are validated non-negative.
		})
		*total += info.Size()
	}
	return nil
}
