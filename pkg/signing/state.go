package signing

// State is the protocol state of a signer or coordinator
type State int

const (
	// StateIdle is the start state of both roles
	StateIdle State = iota
	// StateKeyGenerated means the signer holds a key share
	StateKeyGenerated
	// StateNonceGenerated means the nonce and r are fixed
	StateNonceGenerated
	// StateShareComputed means s_i is computed
	StateShareComputed
	// StateShareSent means s_i was delivered to the coordinator
	StateShareSent
	// StateCoordinatorReconstructed means s was reconstructed
	StateCoordinatorReconstructed
	// StateSignatureReady means a verified signature is available
	StateSignatureReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateKeyGenerated:
		return "key_generated"
	case StateNonceGenerated:
		return "nonce_generated"
	case StateShareComputed:
		return "share_computed"
	case StateShareSent:
		return "share_sent"
	case StateCoordinatorReconstructed:
		return "coordinator_reconstructed"
	case StateSignatureReady:
		return "signature_ready"
	default:
		return "unknown"
	}
}
