// Package rpcserver exposes the RemoteController RPC surface (§6) over a
// small JSON request/response envelope carried on gorilla/websocket
// connections, the shape a long-lived shell/GUI client needs: one
// connection, many correlated request/response pairs, no HTTP round trip
// per call.
package rpcserver

import "encoding/json"

// Request is one RPC call, addressed by Method and correlated to its
// Response by ID (assigned by the caller).
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response answers exactly one Request, identified by the same ID.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func errorResponse(id string, err error) Response {
	return Response{ID: id, Error: err.Error()}
}

func okResponse(id string, result any) Response {
	return Response{ID: id, Result: result}
}
