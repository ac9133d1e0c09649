package sindri

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CreateCircuitOptions configures a circuit creation request.
//
// Tags: Tags to assign to the circuit; the server defaults to ["latest"]
// Meta: Arbitrary metadata keys mapped to string values, for tracking IDs
// from external systems
// Wait: Whether to block until compilation reaches a terminal state
type CreateCircuitOptions struct {
	Tags []string
	Meta map[string]string
	Wait bool
}

// NewCreateCircuitOptions returns the default options: no tags, no
// metadata, wait for compilation to finish.
func NewCreateCircuitOptions() *CreateCircuitOptions {
	return &CreateCircuitOptions{Wait: true}
}

// WithTags sets the tags to assign to the circuit.
func (o *CreateCircuitOptions) WithTags(tags ...string) *CreateCircuitOptions {
	o.Tags = tags
	return o
}

// WithoutWait makes the creation call return immediately after submission
// without polling.
func (o *CreateCircuitOptions) WithoutWait() *CreateCircuitOptions {
	o.Wait = false
	return o
}

// CircuitDetailOptions selects the optional fields of a circuit detail
// response. Fields not requested are omitted by the server to save
// bandwidth.
type CircuitDetailOptions struct {
	IncludeVerificationKey bool
}

// NewCircuitDetailOptions returns the default options: include the
// verification key.
func NewCircuitDetailOptions() *CircuitDetailOptions {
	return &CircuitDetailOptions{IncludeVerificationKey: true}
}

// CreateCircuit uploads a circuit and returns its server-generated ID.
// Every call creates a new circuit; there is no deduplication.
//
// ctx: Context for the request
// uploadPath: Path to a directory containing the circuit files, or to an
// already-prepared .tar.gz or .zip archive
// opts: Optional creation parameters; nil selects the defaults
//
// A directory is packed into an in-memory tar.gz before transmission. If
// opts.Wait is set (the default) the call blocks until compilation reaches
// a terminal state: a Failed circuit surfaces the remote error text as a
// KindRemoteFailure error, and exhausting the polling budget yields
// KindPollTimeout. With Wait disabled the ID is returned immediately after
// submission with zero status fetches.
func (c *Client) CreateCircuit(ctx context.Context, uploadPath string, opts *CreateCircuitOptions) (string, error) {
	if opts == nil {
		opts = NewCreateCircuitOptions()
	}

	c.logger.Info().Str("upload_path", uploadPath).Msg("circuit: create")

	fileName, contents, err := packageUpload(uploadPath)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	for _, tag := range opts.Tags {
		form.Add("tags", tag)
	}
	if opts.Meta != nil {
		meta, err := json.Marshal(opts.Meta)
		if err != nil {
			return "", fmt.Errorf("marshal meta: %w", err)
		}
		form.Set("meta", string(meta))
	}

	file := &upload{fieldName: "files", fileName: fileName, contents: contents}
	status, body, err := c.request(ctx, http.MethodPost, "circuit/create", nil, form, file)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", newHTTPError(KindSubmission, "unable to create a new circuit", status, body)
	}

	var circuit CircuitInfo
	if err := decodeResponse(body, "circuit/create", &circuit); err != nil {
		return "", err
	}
	if circuit.CircuitID == "" {
		return "", newHTTPError(KindMalformedResponse,
			"create response is missing the circuit_id field", status, body)
	}
	c.logger.Info().Str("circuit_id", circuit.CircuitID).Msg("circuit: created")

	if !opts.Wait {
		return circuit.CircuitID, nil
	}

	c.logger.Info().Str("circuit_id", circuit.CircuitID).Msg("circuit: poll until finished")
	if _, err := c.waitForTerminal(ctx, func(ctx context.Context) (string, error) {
		return c.circuitStatus(ctx, circuit.CircuitID)
	}); err != nil {
		return "", err
	}

	detail, err := c.getCircuit(ctx, circuit.CircuitID, true)
	if err != nil {
		return "", err
	}
	if detail.Status == StatusFailed {
		return "", newError(KindRemoteFailure,
			fmt.Sprintf("circuit compilation failed: %s", detail.Error))
	}

	c.logCircuitDetail(detail)
	return circuit.CircuitID, nil
}

// GetCircuit fetches the detail object for an existing circuit.
//
// ctx: Context for the request
// circuitID: The server-generated circuit identifier
// opts: Optional field selection; nil selects the defaults
//
// Returns KindNotFound if the circuit does not exist and KindAuth if the
// API key is rejected.
func (c *Client) GetCircuit(ctx context.Context, circuitID string, opts *CircuitDetailOptions) (*CircuitInfo, error) {
	if opts == nil {
		opts = NewCircuitDetailOptions()
	}
	c.logger.Info().Str("circuit_id", circuitID).Msg("circuit: get detail")
	detail, err := c.getCircuit(ctx, circuitID, opts.IncludeVerificationKey)
	if err != nil {
		return nil, err
	}
	c.logCircuitDetail(detail)
	return detail, nil
}

// ListCircuits fetches the info objects of all circuits owned by the team.
func (c *Client) ListCircuits(ctx context.Context) ([]CircuitInfo, error) {
	c.logger.Info().Msg("circuit: list")
	status, body, err := c.request(ctx, http.MethodGet, "circuit/list", nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(KindRemoteFailure, "unable to fetch circuits", status, body)
	}
	var circuits []CircuitInfo
	if err := decodeResponse(body, "circuit/list", &circuits); err != nil {
		return nil, err
	}
	return circuits, nil
}

// ListCircuitProofs fetches the info objects of all proofs generated from
// the given circuit.
func (c *Client) ListCircuitProofs(ctx context.Context, circuitID string) ([]ProofInfo, error) {
	c.logger.Info().Str("circuit_id", circuitID).Msg("circuit: list proofs")
	path := fmt.Sprintf("circuit/%s/proofs", circuitID)
	status, body, err := c.request(ctx, http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to fetch proofs for circuit_id=%s", circuitID), status, body)
	}
	var proofs []ProofInfo
	if err := decodeResponse(body, path, &proofs); err != nil {
		return nil, err
	}
	return proofs, nil
}

// DeleteCircuit marks the circuit and any of its proofs as deleted. The
// client never deletes circuits implicitly; this is the only way.
//
// Returns KindNotFound if the circuit does not exist.
func (c *Client) DeleteCircuit(ctx context.Context, circuitID string) error {
	c.logger.Info().Str("circuit_id", circuitID).Msg("circuit: delete")
	path := fmt.Sprintf("circuit/%s/delete", circuitID)
	status, body, err := c.request(ctx, http.MethodDelete, path, nil, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to delete circuit_id=%s", circuitID), status, body)
	}
	return nil
}

// SmartContractVerifier fetches the on-chain verifier contract source for
// a compiled circuit.
//
// Returns KindNotFound if the circuit does not exist and KindRemoteFailure
// if the circuit's framework does not support contract generation.
func (c *Client) SmartContractVerifier(ctx context.Context, circuitID string) (string, error) {
	c.logger.Info().Str("circuit_id", circuitID).Msg("circuit: get smart contract verifier")
	path := fmt.Sprintf("circuit/%s/smart_contract_verifier", circuitID)
	status, body, err := c.request(ctx, http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to fetch smart contract verifier for circuit_id=%s", circuitID),
			status, body)
	}
	var contract contractResponse
	if err := decodeResponse(body, path, &contract); err != nil {
		return "", err
	}
	if contract.ContractCode == "" {
		return "", newHTTPError(KindMalformedResponse,
			"smart contract verifier response is missing the contract_code field", status, body)
	}
	c.logger.Debug().Str("contract_code", contract.ContractCode).Msg("circuit: contract code")
	return contract.ContractCode, nil
}

// circuitStatus hits the slim status endpoint for a circuit.
func (c *Client) circuitStatus(ctx context.Context, circuitID string) (string, error) {
	path := fmt.Sprintf("circuit/%s/status", circuitID)
	status, body, err := c.request(ctx, http.MethodGet, path, nil, nil, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to fetch status for circuit_id=%s", circuitID), status, body)
	}
	var response statusResponse
	if err := decodeResponse(body, path, &response); err != nil {
		return "", err
	}
	return response.Status, nil
}

// getCircuit hits the circuit detail endpoint without any logging.
func (c *Client) getCircuit(ctx context.Context, circuitID string, includeVerificationKey bool) (*CircuitInfo, error) {
	path := fmt.Sprintf("circuit/%s/detail", circuitID)
	query := url.Values{}
	query.Set("include_verification_key", strconv.FormatBool(includeVerificationKey))
	status, body, err := c.request(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newHTTPError(KindRemoteFailure,
			fmt.Sprintf("unable to fetch circuit_id=%s", circuitID), status, body)
	}
	var circuit CircuitInfo
	if err := decodeResponse(body, path, &circuit); err != nil {
		return nil, err
	}
	return &circuit, nil
}

// logCircuitDetail logs a slim summary at info level and the full object
// at debug level.
func (c *Client) logCircuitDetail(circuit *CircuitInfo) {
	c.logger.Info().
		Str("circuit_id", circuit.CircuitID).
		Str("project_name", circuit.ProjectName).
		Str("circuit_type", circuit.CircuitType).
		Str("status", circuit.Status).
		Strs("tags", circuit.Tags).
		Str("compute_time", circuit.ComputeTime).
		Msg("circuit detail")
	c.logger.Debug().Interface("circuit", circuit).Msg("circuit detail (full)")
}
