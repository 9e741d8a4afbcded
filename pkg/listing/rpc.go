package listing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/Solvosoft/fletbatteries/pkg/selectbox"
	"github.com/Solvosoft/fletbatteries/pkg/store/storedefs"
)

// Names of the JSON-RPC methods.
const (
	MethodList     = "listing.list"
	MethodChildren = "listing.children"
)

// Code of the JSON-RPC error for an unknown collection.
const CodeNoCollection = -32001

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Params of both methods. Parents is only used by MethodChildren.
type listParams struct {
	Collection string   `json:"collection"`
	Parents    []string `json:"parents,omitempty"`
	Skip       int      `json:"skip"`
	Limit      int      `json:"limit"`
	Filter     string   `json:"filter,omitempty"`
}

func (p listParams) query() selectbox.Query {
	return selectbox.Query{Skip: p.Skip, Limit: p.Limit, Filter: p.Filter}
}

// NewRPCHandler returns a JSON-RPC handler serving the collections of l.
func NewRPCHandler(l Lister) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		MethodList: func(ctx context.Context, p listParams) (any, error) {
			return l.List(ctx, p.Collection, p.query())
		},
		MethodChildren: func(ctx context.Context, p listParams) (any, error) {
			return l.ListChildren(ctx, p.Collection, p.Parents, p.query())
		},
	})
}

type method func(context.Context, listParams) (any, error)

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params listParams
		if req.Params == nil || json.Unmarshal(*req.Params, &params) != nil {
			return nil, errInvalidParams
		}
		result, err := fn(ctx, params)
		if errors.Is(err, storedefs.ErrNoCollection) {
			return nil, &jsonrpc2.Error{Code: CodeNoCollection, Message: err.Error()}
		} else if err != nil {
			logger.Printf("%s %s: %v", req.Method, params.Collection, err)
			return nil, err
		}
		return result, nil
	})
}

// ServeRPC serves the collections of l on one connection until it is closed or
// ctx is done.
func ServeRPC(ctx context.Context, rwc io.ReadWriteCloser, l Lister) *jsonrpc2.Conn {
	return jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}), NewRPCHandler(l))
}

// ServeRPCListener accepts connections on ln and serves the collections of l
// on each of them. It returns when ln fails, such as after it is closed.
func ServeRPCListener(ctx context.Context, ln net.Listener, l Lister) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Println("serving JSON-RPC to", conn.RemoteAddr())
		ServeRPC(ctx, conn, l)
	}
}

// RPCClient implements Lister with the methods served by NewRPCHandler.
type RPCClient struct {
	conn *jsonrpc2.Conn
}

var _ Lister = (*RPCClient)(nil)

// NewRPCClient creates an RPCClient talking over rwc.
func NewRPCClient(ctx context.Context, rwc io.ReadWriteCloser) *RPCClient {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
			return nil, errMethodNotFound
		}))
	return &RPCClient{conn}
}

// DialRPC connects to a server started with ServeRPCListener.
func DialRPC(ctx context.Context, network, address string) (*RPCClient, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return NewRPCClient(context.Background(), conn), nil
}

func (c *RPCClient) List(ctx context.Context, collection string, q selectbox.Query) (selectbox.Page, error) {
	return c.call(ctx, MethodList, listParams{Collection: collection, Skip: q.Skip, Limit: q.Limit, Filter: q.Filter})
}

func (c *RPCClient) ListChildren(ctx context.Context, collection string, parents []string, q selectbox.Query) (selectbox.Page, error) {
	if parents == nil {
		parents = []string{}
	}
	return c.call(ctx, MethodChildren, listParams{
		Collection: collection, Parents: parents, Skip: q.Skip, Limit: q.Limit, Filter: q.Filter})
}

func (c *RPCClient) call(ctx context.Context, method string, params listParams) (selectbox.Page, error) {
	var p selectbox.Page
	err := c.conn.Call(ctx, method, params, &p)
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) && rpcErr.Code == CodeNoCollection {
		return p, storedefs.ErrNoCollection
	}
	return p, err
}

// Close closes the connection.
func (c *RPCClient) Close() error { return c.conn.Close() }
