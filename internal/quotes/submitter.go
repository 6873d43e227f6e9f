package quotes

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
)

// Receipt confirms a request was accepted by a backend.
type Receipt struct {
	Reference string `json:"reference"`
	Backend   string `json:"backend"`
}

// Submitter delivers a quote request to one backend.
type Submitter interface {
	Name() string
	Submit(ctx context.Context, req Request) (Receipt, error)
}

type rpcCaller interface {
	RPC(ctx context.Context, fn string, params any, out any) error
}

type rowInserter interface {
	Insert(ctx context.Context, table string, row any) error
}

// RPCSubmitter calls the quote submission function exposed by PostgREST.
type RPCSubmitter struct {
	client   rpcCaller
	function string
}

func NewRPCSubmitter(client rpcCaller, function string) *RPCSubmitter {
	return &RPCSubmitter{client: client, function: function}
}

func (s *RPCSubmitter) Name() string { return config.QuoteBackendRPC }

func (s *RPCSubmitter) Submit(ctx context.Context, req Request) (Receipt, error) {
	if s == nil || s.client == nil {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeDependency, "quote rpc client not configured")
	}
	var out json.RawMessage
	if err := s.client.RPC(ctx, s.function, req.RPCParams(), &out); err != nil {
		return Receipt{}, err
	}
	reference := referenceFromRPC(out)
	if reference == "" {
		reference = req.Reference
	}
	return Receipt{Reference: reference, Backend: s.Name()}, nil
}

// referenceFromRPC accepts a bare string/uuid result or an object carrying
// reference or id.
func referenceFromRPC(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"reference", "id"} {
		if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// OrderSubmitter inserts one row into the orders table.
type OrderSubmitter struct {
	client rowInserter
	table  string
}

func NewOrderSubmitter(client rowInserter, table string) *OrderSubmitter {
	return &OrderSubmitter{client: client, table: table}
}

func (s *OrderSubmitter) Name() string { return config.QuoteBackendOrders }

func (s *OrderSubmitter) Submit(ctx context.Context, req Request) (Receipt, error) {
	if s == nil || s.client == nil {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeDependency, "orders client not configured")
	}
	if err := s.client.Insert(ctx, s.table, []OrderRow{req.OrderRow()}); err != nil {
		return Receipt{}, err
	}
	return Receipt{Reference: req.Reference, Backend: s.Name()}, nil
}
