package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/k0kubun/pp/v3"

	"hackvm/vmtranslator/internal"
)

// renderSummary renders one row per translated unit and their totals.
func renderSummary(output string, stats []internal.UnitStats) string {
	t := table.NewWriter()
	t.SetTitle(output)
	t.AppendHeader(table.Row{"Unit", "Instructions", "Lines"})
	instructions, lines := 0, 0
	for _, s := range stats {
		t.AppendRow(table.Row{s.Name, s.Instructions, s.Lines})
		instructions += s.Instructions
		lines += s.Lines
	}
	t.AppendFooter(table.Row{"Total", instructions, lines})
	return t.Render()
}

type dumpRecord struct {
	Unit string
	Line int
	Type string
	Text string
}

// newDumper returns an observer printing every parsed instruction to w.
func newDumper(w io.Writer, color bool) func(unit string, inst *internal.Instruction) {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(color)
	return func(unit string, inst *internal.Instruction) {
		printer.Println(dumpRecord{Unit: unit, Line: inst.Line, Type: inst.Type.String(), Text: inst.Text})
	}
}
