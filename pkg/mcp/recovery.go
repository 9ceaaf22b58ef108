package mcp

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// RecoveryAction determines how CallTool responds to a failed attempt.
type RecoveryAction int

const (
	// NoRetry — the error is not recoverable (bad request, auth, timeout).
	NoRetry RecoveryAction = iota
	// RetryNewSession — transport failure, recreate the session and retry.
	RetryNewSession
)

const (
	// ReinitTimeout bounds session recreation during recovery.
	ReinitTimeout = 10 * time.Second

	// OperationTimeout is the per-call deadline for CallTool.
	OperationTimeout = 90 * time.Second

	// RetryBackoffMin/RetryBackoffMax bound the jittered backoff before a retry.
	RetryBackoffMin = 250 * time.Millisecond
	RetryBackoffMax = 750 * time.Millisecond

	// InitTimeout bounds the initial connect/handshake.
	InitTimeout = 30 * time.Second
)

// ClassifyError decides whether a CallTool failure is worth retrying, and if
// so, whether the session must be recreated first.
func ClassifyError(err error) RecoveryAction {
	if err == nil {
		return NoRetry
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NoRetry
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NoRetry
		}
		return RetryNewSession
	}

	if isConnectionError(err) {
		return RetryNewSession
	}

	if isMCPProtocolError(err) {
		return NoRetry
	}

	return NoRetry
}

func isConnectionError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, e := range []string{"connection refused", "connection reset", "broken pipe", "connection closed", "no such host"} {
		if strings.Contains(msg, e) {
			return true
		}
	}
	return false
}

func isMCPProtocolError(err error) bool {
	var wireErr *jsonrpc.Error
	if !errors.As(err, &wireErr) {
		return false
	}
	switch wireErr.Code {
	case jsonrpc.CodeParseError, jsonrpc.CodeInvalidRequest, jsonrpc.CodeMethodNotFound, jsonrpc.CodeInvalidParams:
		return true
	default:
		return false
	}
}
