// Package report renders the parameter echo, per-core statistics, and bus summary a
// simulation run produces, to stdout and optionally to a CSV-ish file.
package report

import (
	"fmt"
	"io"

	"github.com/arch-sim/mesicache/config"
	"github.com/arch-sim/mesicache/core"
)

// field is one (label, value) pair in a report block. Both renderers walk the same
// ordered field list and just pick a different separator, since the stdout format
// and the CSV format share exactly the same field set (§4.8).
type field struct {
	label string
	value string
}

// Writer renders a completed run's results.
type Writer struct {
	cfg   config.Config
	cores [core.NumCores]core.CoreCounters
	bus   core.BusCounters
}

// New builds a Writer over the final state of a run.
func New(cfg config.Config, cores [core.NumCores]core.CoreCounters, bus core.BusCounters) *Writer {
	return &Writer{cfg: cfg, cores: cores, bus: bus}
}

// WriteStdout writes the human-readable parameter echo, per-core blocks, and bus
// summary to w.
func (rw *Writer) WriteStdout(w io.Writer) error {
	if err := rw.writeParameters(w); err != nil {
		return err
	}
	for i := range rw.cores {
		if err := writeBlock(w, fmt.Sprintf("Core %d Statistics:", i), rw.coreFields(i), ": ", true); err != nil {
			return err
		}
	}
	return writeBlock(w, "Overall Bus Summary:", rw.busFields(), ": ", false)
}

// WriteCSV writes the same fields in the blank-line-delimited "Label,Value" block
// format described in §6, terminated by a "Bus Summary" block.
func (rw *Writer) WriteCSV(w io.Writer) error {
	for i := range rw.cores {
		header := fmt.Sprintf("Core,%d", i)
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		if err := writeBlock(w, "", rw.coreFields(i), ",", true); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Bus Summary"); err != nil {
		return err
	}
	return writeBlock(w, "", rw.busFields(), ",", false)
}

func (rw *Writer) writeParameters(w io.Writer) error {
	blockBytes := 1 << uint(rw.cfg.BlockOffsetBits)
	numSets := 1 << uint(rw.cfg.SetIndexBits)
	cacheSizeKB := (numSets * rw.cfg.Associativity * blockBytes) / 1024

	lines := []string{
		"Simulation Parameters:",
		fmt.Sprintf("Trace Prefix: %s", rw.cfg.TracePrefix),
		fmt.Sprintf("Set Index Bits: %d", rw.cfg.SetIndexBits),
		fmt.Sprintf("Associativity: %d", rw.cfg.Associativity),
		fmt.Sprintf("Block Bits: %d", rw.cfg.BlockOffsetBits),
		fmt.Sprintf("Block Size (Bytes): %d", blockBytes),
		fmt.Sprintf("Number of Sets: %d", numSets),
		fmt.Sprintf("Cache Size (KB per core): %d", cacheSizeKB),
		"MESI Protocol: Enabled",
		"Write Policy: Write-back, Write-allocate",
		"Replacement Policy: LRU",
		"Bus: Central snooping bus",
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (rw *Writer) coreFields(i int) []field {
	c := &rw.cores[i]
	return []field{
		{"Total Instructions", fmt.Sprint(c.InstructionsRetired)},
		{"Total Reads", fmt.Sprint(c.Reads)},
		{"Total Writes", fmt.Sprint(c.Writes)},
		{"Total Execution Cycles", fmt.Sprint(c.TotalCycles())},
		{"Idle Cycles", fmt.Sprint(c.IdleCycles)},
		{"Cache Misses", fmt.Sprint(c.Misses)},
		{"Cache Miss Rate", fmt.Sprintf("%.2f%%", c.MissRatePercent())},
		{"Cache Evictions", fmt.Sprint(c.Evictions)},
		{"Writebacks", fmt.Sprint(c.Writebacks)},
		{"Bus Invalidations", fmt.Sprint(c.InvalidationsIssued)},
		{"Data Traffic (Bytes)", fmt.Sprint(c.DataBytes)},
	}
}

func (rw *Writer) busFields() []field {
	return []field{
		{"Total Bus Transactions", fmt.Sprint(rw.bus.Transactions)},
		{"Total Bus Traffic (Bytes)", fmt.Sprint(rw.bus.DataBytes)},
	}
}

func writeBlock(w io.Writer, header string, fields []field, sep string, trailingBlank bool) error {
	if header != "" {
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", f.label, sep, f.value); err != nil {
			return err
		}
	}
	if trailingBlank {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
