package core

// CoreCounters accumulates the per-core statistics the report collaborator reads at the
// end of a run. Every field is monotonically non-decreasing over the life of a cache.
type CoreCounters struct {
	Reads                int
	Writes               int
	InstructionsRetired  int
	ExecutionCycles      int
	IdleCycles           int
	Hits                 int
	Misses               int
	Evictions            int
	Writebacks           int
	InvalidationsIssued  int
	DataBytes            int
	TransactionsIssued   int
}

// MissRatePercent returns the miss rate as a percentage of retired instructions, or 0
// when no instructions have retired yet.
func (c *CoreCounters) MissRatePercent() float64 {
	if c.InstructionsRetired == 0 {
		return 0
	}
	return 100 * float64(c.Misses) / float64(c.InstructionsRetired)
}

// TotalCycles is the execution-plus-idle cycle count the report calls "Total Execution
// Cycles": the wall-clock span the core was alive for, not just the cycles it retired
// something in.
func (c *CoreCounters) TotalCycles() int {
	return c.ExecutionCycles + c.IdleCycles
}

// BusCounters aggregates bus-wide totals; its fields equal the sum of the matching
// CoreCounters fields across every core (§8 invariant 7). The bus collaborator
// increments these directly as it dispatches each transaction, so they are always
// exactly in sync with the per-core TransactionsIssued/InvalidationsIssued/DataBytes
// fields without a separate reconciliation pass.
type BusCounters struct {
	Transactions  int
	Invalidations int
	DataBytes     int
}
