package sindri

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProveCircuitOptions configures a proof creation request.
//
// PerformVerify: Whether the server runs an internal verification check
// during proof creation
// ProverImplementation: Optional server-side prover selection
// Meta: Arbitrary metadata keys mapped to string values
// Wait: Whether to block until proof generation reaches a terminal state
type ProveCircuitOptions struct {
	PerformVerify        bool
	ProverImplementation string
	Meta                 map[string]string
	Wait                 bool
}

// NewProveCircuitOptions returns the default options: no verification
// check, no metadata, wait for proof generation to finish.
func NewProveCircuitOptions() *ProveCircuitOptions {
	return &ProveCircuitOptions{Wait: true}
}

// WithoutWait makes the prove call return immediately after submission
// without polling.
func (o *ProveCircuitOptions) WithoutWait() *ProveCircuitOptions {
	o.Wait = false
	return o
}

// ProofDetailOptions selects the optional fields of a proof detail
// response. Fields not requested are omitted by the server to save
// bandwidth.
type ProofDetailOptions struct {
	IncludeProof                 bool
	IncludePublic                bool
	IncludeSmartContractCalldata bool
	IncludeVerificationKey       bool
}

// NewProofDetailOptions returns the default options: include everything.
func NewProofDetailOptions() *ProofDetailOptions {
	return &ProofDetailOptions{
		IncludeProof:                 true,
		IncludePublic:                true,
		IncludeSmartContractCalldata: true,
		IncludeVerificationKey:       true,
	}
}

// ProveCircuit submits a proof request for a compiled circuit and returns
// the server-generated proof ID. Every call creates a new proof job.
//
// ctx: Context for the request
// circuitID: The circuit to prove
// proofInput: Proof input formatted as JSON (or TOML for Noir circuits)
// opts: Optional proof parameters; nil selects the defaults
//
// If opts.Wait is set (the default) the call blocks until proof generation
// reaches a terminal state: a Failed proof surfaces the remote error text
// as a KindRemoteFailure error, and exhausting the polling budget yields
// KindPollTimeout. With Wait disabled the ID is returned immediately after
// submission with zero status fetches.
func (c *Client) ProveCircuit(ctx context.Context, circuitID, proofInput string, opts *ProveCircuitOptions) (string, error) {
	if opts == nil {
		opts = NewProveCircuitOptions()
	}

	c.logger.Info().Str("circuit_id", circuitID).Msg("proof: create")

	form := url.Values{}
	form.Set("proof_input", proofInput)
	form.Set("perform_verify", strconv.FormatBool(opts.PerformVerify))
	if opts.ProverImplementation != "" {
		form.Set("prover_implementation", opts.ProverImplementation)
	}
	if opts.Meta != nil {
		meta, err := json.Marshal(opts.Meta)
		if err != nil {
			return "", fmt.Errorf("marshal meta: %w", err)
		}
		form.Set("meta", string(meta))
	}

	path := fmt.Sprintf("circuit/%s/prove", circuitID)
	status, body, err := c.request(ctx, http.MethodPost, path, nil, form, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", newHTTPError(KindSubmission, "unable to prove circuit", status, body)
	}

	var proof ProofInfo
	if err := decodeResponse(body, path, &proof); err != nil {
		return "", err
	}
	if proof.ProofID == "" {
		return "", newHTTPError(KindMalformedResponse,
			"prove response is missing the proof_id field", status, body)
	}
	c.logger.Info().Str("proof_id", proof.ProofID).Msg("proof: created")

	if !opts.Wait {
		return proof.ProofID, nil
	}

	c.logger.Info().Str("proof_id", proof.ProofID).Msg("proof: poll until finished")
	if _, err := c.waitForTerminal(ctx, func(ctx context.Context) (string, error) {
		return c.proofStatus(ctx, proof.ProofID)
	}); err != nil {
		return "", err
	}

	detail, err := c.getProof(ctx, proof.ProofID, NewProofDetailOptions())
	if err != nil {
		return "", err
	}
	if detail.Status == StatusFailed {
		return "", newError(KindRemoteFailure,
			fmt.Sprintf("proof generation failed: %s", detail.Error))
	}

	c.logProofDetail(detail)
	return proof.ProofID, nil
}

// GetProof fetches the detail object for an existing proof.
//
// ctx: Context for the request
// proofID: The server-generated proof identifier
// opts: Optional field selection; nil selects the defaults
//
// Returns KindNotFound if the proof does not exist and KindAuth if the API
// key is rejected.
func (c *Client) GetProof(ctx context.Context, proofID string, opts *ProofDetailOptions) (*ProofInfo, error) {
	if opts == nil {
		opts = NewProofDetailOptions()
	}
	c.logger.Info().Str("proof_id", proofID).Msg("proof: get detail")
	detail, err := c.getProof(ctx, proofID, opts)
	if err != nil {
		return nil, err
	}
	c.logProofDetail(detail)
	return detail, nil
}

// ListProofs fetches the info objects of all proofs owned by the team.
func (c *Client) ListProofs(ctx context.Context) ([]ProofInfo, error) {
	c.logger.Info().Msg("proof: list")
	status, body, err := c.request(ctx, http.MethodGet, "proof/list", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(KindRemoteFailure, "unable to fetch proofs", status, body)
	}
	var proofs []ProofInfo
	if err := decodeResponse(body, "proof/list", &proofs); err != nil {
		return nil, err
	}
	return proofs, nil
}

// DeleteProof marks the proof as deleted.
//
// Returns KindNotFound if the proof does not exist.
func (c *Client) DeleteProof(ctx context.Context, proofID string) error {
	c.logger.Info().Str("proof_id", proofID).Msg("proof: delete")
	path := fmt.Sprintf("proof/%s/delete", proofID)
	status, body, err := c.request(ctx, http.MethodDelete, path, nil, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to delete proof_id=%s", proofID), status, body)
	}
	return nil
}

// proofStatus hits the slim status endpoint for a proof.
func (c *Client) proofStatus(ctx context.Context, proofID string) (string, error) {
	path := fmt.Sprintf("proof/%s/status", proofID)
	status, body, err := c.request(ctx, http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to fetch status for proof_id=%s", proofID), status, body)
	}
	var response statusResponse
	if err := decodeResponse(body, path, &response); err != nil {
		return "", err
	}
	return response.Status, nil
}

// getProof hits the proof detail endpoint without any logging.
func (c *Client) getProof(ctx context.Context, proofID string, opts *ProofDetailOptions) (*ProofInfo, error) {
	path := fmt.Sprintf("proof/%s/detail", proofID)
	query := url.Values{}
	query.Set("include_proof", strconv.FormatBool(opts.IncludeProof))
	query.Set("include_public", strconv.FormatBool(opts.IncludePublic))
	query.Set("include_smart_contract_calldata", strconv.FormatBool(opts.IncludeSmartContractCalldata))
	query.Set("include_verification_key", strconv.FormatBool(opts.IncludeVerificationKey))
	status, body, err := c.request(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to fetch proof_id=%s", proofID), status, body)
	}
	var proof ProofInfo
	if err := decodeResponse(body, path, &proof); err != nil {
		return nil, err
	}
	return &proof, nil
}

// logProofDetail logs a slim summary at info level and the full object at
// debug level.
func (c *Client) logProofDetail(proof *ProofInfo) {
	c.logger.Info().
		Str("proof_id", proof.ProofID).
		Str("circuit_id", proof.CircuitID).
		Str("project_name", proof.ProjectName).
		Str("circuit_type", proof.CircuitType).
		Str("status", proof.Status).
		Str("compute_time", proof.ComputeTime).
		Msg("proof detail")
	c.logger.Debug().Interface("proof", proof).Msg("proof detail (full)")
}
