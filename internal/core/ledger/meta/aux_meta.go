package meta

// TransactionStatusIndexMeta tracks one of the two rotating transaction
// status key ranges: the highest slot written under the range, and whether
// the range is frozen against further writes.
type TransactionStatusIndexMeta struct {
	MaxSlot uint64
	Frozen  bool
}

// AddressSignatureMeta flags whether an address was writeable in the
// transaction its entry points at.
type AddressSignatureMeta struct {
	Writeable bool
}

// PerfSample is a point-in-time throughput sample recorded alongside the
// ledger.
type PerfSample struct {
	NumTransactions  uint64
	NumSlots         uint64
	SamplePeriodSecs uint16
}

// ProgramCost is the accumulated compute cost observed for one program.
type ProgramCost struct {
	Cost uint64
}
