package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-sim/mesicache/config"
	"github.com/arch-sim/mesicache/core"
	"github.com/arch-sim/mesicache/report"
)

func sampleWriter() *report.Writer {
	cfg := config.Config{
		SetIndexBits:    6,
		BlockOffsetBits: 5,
		Associativity:   2,
		TracePrefix:     "sample",
	}
	var cores [core.NumCores]core.CoreCounters
	cores[0] = core.CoreCounters{
		Reads: 3, Writes: 1, InstructionsRetired: 4,
		ExecutionCycles: 4, IdleCycles: 100,
		Hits: 2, Misses: 2, Evictions: 1, Writebacks: 1,
		InvalidationsIssued: 1, DataBytes: 32, TransactionsIssued: 2,
	}
	bus := core.BusCounters{Transactions: 2, Invalidations: 1, DataBytes: 32}
	return report.New(cfg, cores, bus)
}

func TestWriteStdoutIncludesAllCoreFields(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleWriter().WriteStdout(&sb))
	out := sb.String()

	assert.Contains(t, out, "Simulation Parameters:")
	assert.Contains(t, out, "Trace Prefix: sample")
	assert.Contains(t, out, "Core 0 Statistics:")
	assert.Contains(t, out, "Total Instructions: 4")
	assert.Contains(t, out, "Cache Miss Rate: 50.00%")
	assert.Contains(t, out, "Overall Bus Summary:")
	assert.Contains(t, out, "Total Bus Transactions: 2")
}

func TestWriteCSVUsesCommaSeparatorAndBusSummaryTerminator(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleWriter().WriteCSV(&sb))
	out := sb.String()

	assert.Contains(t, out, "Core,0")
	assert.Contains(t, out, "Total Instructions,4")
	assert.Contains(t, out, "Bus Summary")
	assert.Contains(t, out, "Total Bus Traffic (Bytes),32")
}

func TestMissRateIsZeroWithNoInstructions(t *testing.T) {
	cfg := config.Config{SetIndexBits: 1, BlockOffsetBits: 1, Associativity: 1, TracePrefix: "x"}
	var cores [core.NumCores]core.CoreCounters
	w := report.New(cfg, cores, core.BusCounters{})

	var sb strings.Builder
	require.NoError(t, w.WriteStdout(&sb))
	assert.Contains(t, sb.String(), "Cache Miss Rate: 0.00%")
}
