// Package rpc exposes the sequencer over a plain REST contract: submitting
// transactions, a liveness probe, and Prometheus metrics exposition. It
// depends only on consensus.Engine and metrics.Recorder; no core package
// imports it.
package rpc

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/latticefold/sequencer/consensus"
	"github.com/latticefold/sequencer/types"
)

// submitTxRequest is the JSON body of POST /tx.
type submitTxRequest struct {
	Namespace uint64 `json:"namespace"`
	GasPrice  uint64 `json:"gas_price"`
	Nonce     uint64 `json:"nonce"`
	Payload   string `json:"payload"`
}

// submitTxResponse is the JSON body returned by POST /tx.
type submitTxResponse struct {
	TxID string `json:"tx_id"`
}

// Broadcaster forwards an accepted transaction to the gossip network.
// Broadcast is fire-and-forget: submit_tx already succeeded by the time
// it's called.
type Broadcaster interface {
	BroadcastTx(types.Transaction)
}

// Handler holds the dependencies needed to serve the REST contract.
type Handler struct {
	engine      *consensus.Engine
	broadcaster Broadcaster
}

// NewHandler creates a Handler backed by engine. broadcaster may be nil, in
// which case accepted transactions are not gossiped.
func NewHandler(engine *consensus.Engine, broadcaster Broadcaster) *Handler {
	return &Handler{engine: engine, broadcaster: broadcaster}
}

func (h *Handler) submitTx(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "only POST allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1*1024*1024)

	var req submitTxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	payload := decodePayload(req.Payload)

	tx := types.Transaction{
		Namespace: types.NamespaceId(req.Namespace),
		GasPrice:  req.GasPrice,
		Nonce:     req.Nonce,
		Payload:   payload,
	}

	id, err := h.engine.SubmitTx(tx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.broadcaster != nil {
		h.broadcaster.BroadcastTx(tx)
	}

	writeJSON(w, submitTxResponse{TxID: hex.EncodeToString(id.Hash[:])})
}

// decodePayload accepts the payload as hex if it decodes cleanly, falling
// back to its raw UTF-8 bytes otherwise, matching the dual encoding the
// external interface allows.
func decodePayload(s string) []byte {
	if b, err := hex.DecodeString(s); err == nil {
		return b
	}
	return []byte(s)
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
