package main

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(true)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetBorder(false)
	return t
}

func printDetail(w io.Writer, rows [][2]string) {
	t := tablewriter.NewWriter(w)
	t.SetAutoWrapText(true)
	t.SetBorder(false)
	t.SetColumnSeparator(":")
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range rows {
		t.Append([]string{r[0], r[1]})
	}
	t.Render()
}
