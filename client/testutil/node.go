// Package testutil provides an in-process JSON-RPC fullnode for client tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Handler answers one JSON-RPC method call.
type Handler func(params []json.RawMessage) (any, *RPCError)

// Node is a fake fullnode serving registered handlers.
type Node struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    map[string]int
}

type request struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewNode starts a node closed at the end of the test.
func NewNode(t *testing.T) *Node {
	t.Helper()

	n := &Node{
		handlers: make(map[string]Handler),
		calls:    make(map[string]int),
	}
	n.Server = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.Close)
	return n
}

// Handle registers h for method.
func (n *Node) Handle(method string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.handlers[method] = h
}

// Calls returns how many times method was called.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.calls[method]
}

func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls[req.Method]++
	h, ok := n.handlers[req.Method]
	n.mu.Unlock()

	res := response{Version: "2.0", ID: req.ID}
	if !ok {
		res.Error = &RPCError{Code: -32601, Message: "method not found"}
	} else {
		res.Result, res.Error = h(req.Params)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
