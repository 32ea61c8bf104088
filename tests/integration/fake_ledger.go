package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/kindfi-org/kindfi-sub007/internal/core/domain"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
)

// fakeLedger is an in-process stand-in for the escrow ledger API. It keeps
// just enough state to answer deploys, submissions and snapshot queries, and
// counts calls so tests can assert on deduplication.
type fakeLedger struct {
	mu          sync.Mutex
	server      *httptest.Server
	contracts   map[string]*ports.LedgerContractState
	submitted   map[string]*ports.SubmitResult
	deploySeq   int
	submitCalls int
	resolved    []string // contract addresses resolved via /resolve
	released    []string // contract addresses released via /release
}

func newFakeLedger() *fakeLedger {
	fl := &fakeLedger{
		contracts: make(map[string]*ports.LedgerContractState),
		submitted: make(map[string]*ports.SubmitResult),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /escrow/deploy", fl.handleDeploy)
	mux.HandleFunc("POST /transactions/simulate", fl.handleSimulate)
	mux.HandleFunc("POST /transactions/assemble", fl.handleAssemble)
	mux.HandleFunc("POST /transactions", fl.handleSubmit)
	mux.HandleFunc("GET /transactions/{hash}", fl.handleQueryByHash)
	mux.HandleFunc("GET /escrow/{address}", fl.handleQuery)
	mux.HandleFunc("POST /escrow/{address}/resolve", fl.handleResolve)
	mux.HandleFunc("POST /escrow/{address}/release", fl.handleRelease)
	mux.HandleFunc("POST /escrow/{address}/cancel", fl.handleCancel)

	fl.server = httptest.NewServer(mux)
	return fl
}

func (fl *fakeLedger) close() {
	fl.server.Close()
}

// setState overwrites the snapshot the ledger reports for a contract, for
// driving sync scenarios.
func (fl *fakeLedger) setState(address string, state domain.EscrowState, disputeFlag bool, sequence int64) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	c, ok := fl.contracts[address]
	if !ok {
		return
	}
	c.State = state
	c.DisputeFlag = disputeFlag
	c.Sequence = sequence
}

func (fl *fakeLedger) submitCount() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.submitCalls
}

func (fl *fakeLedger) releaseCount() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.released)
}

func (fl *fakeLedger) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var params ports.InitializeContractParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	fl.mu.Lock()
	fl.deploySeq++
	address := fmt.Sprintf("CLEDGER%06d", fl.deploySeq)
	engagement := fmt.Sprintf("ENG-%06d", fl.deploySeq)
	fl.contracts[address] = &ports.LedgerContractState{
		ContractAddress: address,
		EngagementID:    engagement,
		State:           domain.EscrowStateNew,
		Amount:          params.TotalAmount,
		Sequence:        1,
	}
	fl.mu.Unlock()

	writeJSON(w, http.StatusOK, ports.InitializeContractResult{
		ContractAddress: address,
		EngagementID:    engagement,
	})
}

func (fl *fakeLedger) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var envelope ports.UnsignedEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if envelope.Payload == "reject-me" {
		writeLedgerError(w, http.StatusUnprocessableEntity, "simulation_failed", "contract invocation trapped")
		return
	}
	writeJSON(w, http.StatusOK, ports.SimulationResult{
		AuthEntries:    []string{"auth-entry-1"},
		MinResourceFee: 5000,
		LatestSequence: 42,
	})
}

func (fl *fakeLedger) handleAssemble(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Envelope   ports.UnsignedEnvelope  `json:"envelope"`
		Simulation *ports.SimulationResult `json:"simulation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ports.AssembledEnvelope{
		ContractAddress: body.Envelope.ContractAddress,
		Payload:         body.Envelope.Payload + "+assembled",
		AuthNonce:       body.Envelope.AuthNonce,
		MinResourceFee:  body.Simulation.MinResourceFee,
	})
}

func (fl *fakeLedger) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var signed ports.SignedEnvelope
	if err := json.NewDecoder(r.Body).Decode(&signed); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	fl.mu.Lock()
	fl.submitCalls++
	result := &ports.SubmitResult{
		TransactionHash: signed.TransactionHash,
		Successful:      true,
		LedgerSequence:  int64(100 + fl.submitCalls),
	}
	fl.submitted[signed.TransactionHash] = result
	fl.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (fl *fakeLedger) handleQueryByHash(w http.ResponseWriter, r *http.Request) {
	fl.mu.Lock()
	result, ok := fl.submitted[r.PathValue("hash")]
	fl.mu.Unlock()
	if !ok {
		writeLedgerError(w, http.StatusNotFound, "tx_not_found", "no such transaction")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (fl *fakeLedger) handleQuery(w http.ResponseWriter, r *http.Request) {
	fl.mu.Lock()
	c, ok := fl.contracts[r.PathValue("address")]
	fl.mu.Unlock()
	if !ok {
		writeLedgerError(w, http.StatusNotFound, "contract_not_found", "no such contract")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (fl *fakeLedger) handleResolve(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	fl.mu.Lock()
	if _, ok := fl.contracts[address]; !ok {
		fl.mu.Unlock()
		writeLedgerError(w, http.StatusNotFound, "contract_not_found", "no such contract")
		return
	}
	fl.resolved = append(fl.resolved, address)
	fl.mu.Unlock()

	writeJSON(w, http.StatusOK, ports.UnsignedEnvelope{
		ContractAddress: address,
		Payload:         "resolution-envelope",
		AuthNonce:       "resolve-nonce-1",
		SourceAccount:   "GRESOLVER",
	})
}

func (fl *fakeLedger) handleRelease(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	fl.mu.Lock()
	if _, ok := fl.contracts[address]; !ok {
		fl.mu.Unlock()
		writeLedgerError(w, http.StatusNotFound, "contract_not_found", "no such contract")
		return
	}
	fl.released = append(fl.released, address)
	hash := fmt.Sprintf("release-%s-%d", address, len(fl.released))
	fl.mu.Unlock()

	writeJSON(w, http.StatusOK, ports.SubmitResult{
		TransactionHash: hash,
		Successful:      true,
		LedgerSequence:  200,
	})
}

func (fl *fakeLedger) handleCancel(w http.ResponseWriter, r *http.Request) {
	fl.mu.Lock()
	c, ok := fl.contracts[r.PathValue("address")]
	if ok {
		c.State = domain.EscrowStateCancelled
	}
	fl.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeLedgerError(w http.ResponseWriter, status int, code, diagnostic string) {
	writeJSON(w, status, map[string]string{"code": code, "diagnostic": diagnostic})
}
