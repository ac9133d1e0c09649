package sindri

import "encoding/json"

// Job status values reported by the API. A circuit or proof moves through
// Queued and an in-progress status ("Compiling" or "Proving") before
// settling on exactly one of the terminal values Ready or Failed.
const (
	StatusQueued    = "Queued"
	StatusCompiling = "Compiling"
	StatusProving   = "Proving"
	StatusReady     = "Ready"
	StatusFailed    = "Failed"
)

// CircuitInfo describes a circuit as returned by the detail and list
// endpoints.
//
// VerificationKey is only populated when requested and the circuit has
// finished compiling; its shape depends on the circuit framework.
type CircuitInfo struct {
	CircuitID   string            `json:"circuit_id"`
	ProjectName string            `json:"project_name"`
	CircuitType string            `json:"circuit_type"`
	DateCreated string            `json:"date_created"`
	Status      string            `json:"status"`
	Error       string            `json:"error"`
	Tags        []string          `json:"tags"`
	Meta        map[string]string `json:"meta"`
	ComputeTime string            `json:"compute_time"`

	VerificationKey json.RawMessage `json:"verification_key,omitempty"`
}

// ProofInfo describes a proof as returned by the detail and list endpoints.
//
// Proof, Public, SmartContractCalldata and VerificationKey are only
// populated when requested and the proof has finished generating; their
// shapes depend on the circuit framework. Calldata is an opaque blob
// formatted for on-chain verifier consumption.
type ProofInfo struct {
	ProofID       string            `json:"proof_id"`
	CircuitID     string            `json:"circuit_id"`
	ProjectName   string            `json:"project_name"`
	CircuitType   string            `json:"circuit_type"`
	DateCreated   string            `json:"date_created"`
	Status        string            `json:"status"`
	Error         string            `json:"error"`
	Meta          map[string]string `json:"meta"`
	ComputeTime   string            `json:"compute_time"`
	PerformVerify bool              `json:"perform_verify"`

	Proof                 json.RawMessage `json:"proof,omitempty"`
	Public                json.RawMessage `json:"public,omitempty"`
	SmartContractCalldata json.RawMessage `json:"smart_contract_calldata,omitempty"`
	VerificationKey       json.RawMessage `json:"verification_key,omitempty"`
}

// statusResponse is the slim payload returned by the status endpoints.
type statusResponse struct {
	FinishedProcessing bool   `json:"finished_processing"`
	Status             string `json:"status"`
}

// contractResponse is the payload of the smart contract verifier endpoint.
type contractResponse struct {
	ContractCode string `json:"contract_code"`
}
