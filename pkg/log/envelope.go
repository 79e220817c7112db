package log

import (
	"encoding/json"

	apperrors "github.com/sologger/sologger-go/internal/errors"
)

// envelope mirrors the shape of a Solana RPC logsNotification payload:
//
//	{"params":{"result":{"context":{"slot":<int>},
//	           "value":{"signature":<string>,"err":<any|null>,"logs":[<string>,...]}}}}
type envelope struct {
	Params struct {
		Result struct {
			Context struct {
				Slot uint64 `json:"slot"`
			} `json:"context"`
			Value struct {
				Signature string          `json:"signature"`
				Err       json.RawMessage `json:"err"`
				Logs      []string        `json:"logs"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// ParseLogsFromPayload decodes a raw RPC log-notification payload and parses
// its log lines with the supplied filter, using the envelope's slot,
// signature, and transaction error. A null "err" field yields an empty
// transaction error string; a non-null "err" is stringified as-is.
func (p *Parser) ParseLogsFromPayload(payload []byte, filter *ProgramFilter) ([]*LogContext, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, apperrors.DecodeFailed("log envelope", err)
	}

	if env.Params.Result.Value.Logs == nil {
		return nil, apperrors.MissingField("params.result.value.logs")
	}

	txErr := ""
	if len(env.Params.Result.Value.Err) > 0 && string(env.Params.Result.Value.Err) != "null" {
		txErr = string(env.Params.Result.Value.Err)
	}

	logs := env.Params.Result.Value.Logs
	slot := env.Params.Result.Context.Slot
	signature := env.Params.Result.Value.Signature

	return p.ParseLogs(logs, txErr, filter, slot, signature), nil
}

// ParseLogsFromPayloadString is a convenience wrapper over
// ParseLogsFromPayload for callers holding the payload as a string.
func (p *Parser) ParseLogsFromPayloadString(payload string, filter *ProgramFilter) ([]*LogContext, error) {
	return p.ParseLogsFromPayload([]byte(payload), filter)
}
