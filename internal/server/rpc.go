package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/copyleftdev/dualopt/internal/logging"
)

// JSON-RPC 2.0 error codes.
const (
	rpcParseError     = -32700
	rpcInvalidRequest = -32600
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcServerError    = -32000
	rpcRunNotFound    = -32001
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type runIDParams struct {
	ID string `json:"id"`
}

// handleJSONRPC serves minimize, run.get, run.delete and problems.list.
// Params are passed by name.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondWithError(w, rpcParseError, "Parse error", nil, err)
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		s.respondWithError(w, rpcInvalidRequest, "Invalid Request", req.ID, nil)
		return
	}

	var (
		result interface{}
		err    error
	)
	switch req.Method {
	case "minimize":
		var p MinimizeRequest
		if err := decodeParams(req.Params, &p); err != nil {
			s.respondWithError(w, rpcInvalidParams, "Invalid params", req.ID, err)
			return
		}
		result, err = s.Minimize(p)
	case "run.get":
		var p runIDParams
		if err := decodeParams(req.Params, &p); err != nil {
			s.respondWithError(w, rpcInvalidParams, "Invalid params", req.ID, err)
			return
		}
		run, ok := s.history.Get(p.ID)
		if !ok {
			err = ErrRunNotFound
		}
		result = run
	case "run.delete":
		var p runIDParams
		if err := decodeParams(req.Params, &p); err != nil {
			s.respondWithError(w, rpcInvalidParams, "Invalid params", req.ID, err)
			return
		}
		if !s.history.Delete(p.ID) {
			err = ErrRunNotFound
		}
		result = map[string]bool{"deleted": err == nil}
	case "problems.list":
		result = listProblems()
	default:
		s.respondWithError(w, rpcMethodNotFound, "Method not found", req.ID, nil)
		return
	}

	if err != nil {
		switch statusFor(err) {
		case http.StatusBadRequest:
			s.respondWithError(w, rpcInvalidParams, "Invalid params", req.ID, err)
		case http.StatusNotFound:
			s.respondWithError(w, rpcRunNotFound, "Run not found", req.ID, err)
		default:
			s.respondWithError(w, rpcServerError, "Server error", req.ID, err)
		}
		return
	}

	body, err := encodeJSON(rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
	if err != nil {
		s.respondWithError(w, rpcServerError, "Server error", req.ID, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errors.New("params are required")
	}
	return json.Unmarshal(raw, v)
}

// respondWithError writes a JSON-RPC error object. Transport status is
// always 200.
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, id interface{}, cause error) {
	e := &rpcError{Code: code, Message: message}
	if cause != nil {
		e.Data = cause.Error()
	}
	s.logger.Warn("rpc error", logging.Fields{
		"code":    code,
		"message": message,
		"data":    e.Data,
	})
	writeJSON(w, http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: id, Error: e})
}
