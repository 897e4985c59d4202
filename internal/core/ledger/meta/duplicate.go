package meta

// DuplicateSlotProof holds two conflicting shred payloads observed for the
// same shred key, proving that more than one version of the slot exists.
// The payloads are kept verbatim so other nodes can verify the conflict.
type DuplicateSlotProof struct {
	Shred1 []byte
	Shred2 []byte
}

// NewDuplicateSlotProof pairs the two conflicting payloads into a proof.
func NewDuplicateSlotProof(shred1, shred2 []byte) DuplicateSlotProof {
	return DuplicateSlotProof{Shred1: shred1, Shred2: shred2}
}
