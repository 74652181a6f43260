package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/intent-responder/internal/resolver"
)

// #region client-struct
// Client calls a remote Responder service.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to a Responder server at addr.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection, which the
// caller keeps ownership of.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down the connection if the Client opened it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region calls
// OpenSession starts a server-side session and returns its ID.
func (c *Client) OpenSession(ctx context.Context) (string, error) {
	resp, err := c.invoke(ctx, methodOpenSession, map[string]any{})
	if err != nil {
		return "", fmt.Errorf("open session rpc: %w", err)
	}
	return stringField(resp, "session_id"), nil
}

// CloseSession ends a server-side session.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	if _, err := c.invoke(ctx, methodCloseSession, map[string]any{"session_id": sessionID}); err != nil {
		return fmt.Errorf("close session rpc: %w", err)
	}
	return nil
}

// Resolve runs one turn.
func (c *Client) Resolve(ctx context.Context, sessionID, input string) (resolver.Result, error) {
	resp, err := c.invoke(ctx, methodResolve, map[string]any{"session_id": sessionID, "input": input})
	if err != nil {
		return resolver.Result{}, fmt.Errorf("resolve rpc: %w", err)
	}
	f := resp.GetFields()
	return resolver.Result{
		Text:              f["text"].GetStringValue(),
		LearningRequested: f["learning_requested"].GetBoolValue(),
		LearningKey:       f["learning_key"].GetStringValue(),
		Source:            resolver.Source(f["source"].GetStringValue()),
		Tag:               f["tag"].GetStringValue(),
		Confidence:        f["confidence"].GetNumberValue(),
	}, nil
}

// Teach answers the session's pending question.
func (c *Client) Teach(ctx context.Context, sessionID, answer string) (string, error) {
	resp, err := c.invoke(ctx, methodTeach, map[string]any{"session_id": sessionID, "answer": answer})
	if err != nil {
		return "", fmt.Errorf("teach rpc: %w", err)
	}
	return stringField(resp, "text"), nil
}

// Reset clears the session's pending question.
func (c *Client) Reset(ctx context.Context, sessionID string) error {
	if _, err := c.invoke(ctx, methodReset, map[string]any{"session_id": sessionID}); err != nil {
		return fmt.Errorf("reset rpc: %w", err)
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// #endregion calls
