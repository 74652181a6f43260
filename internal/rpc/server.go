package rpc

// #region imports
import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/intent-responder/internal/resolver"
	"github.com/danielpatrickdp/intent-responder/internal/session"
)

// #endregion imports

// #region server-struct
// Server exposes a session.Manager over gRPC.
//
//	OpenSession  {}                             -> {session_id}
//	CloseSession {session_id}                   -> {}
//	Resolve     {session_id, input}             -> {text, learning_requested, learning_key, source, tag, confidence}
//	Teach       {session_id, answer}            -> {text}
//	Reset       {session_id}                    -> {}
type Server struct {
	sessions *session.Manager
	log      *zap.Logger
}

// NewServer wraps m. A nil logger discards output.
func NewServer(m *session.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{sessions: m, log: log}
}

// NewGRPCServer builds a grpc.Server with the Responder service registered
// and request logging installed.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(srv.logUnary))
	g := grpc.NewServer(opts...)
	RegisterResponderServer(g, srv)
	return g
}

// #endregion server-struct

// #region handlers
func (s *Server) OpenSession(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id := s.sessions.Open()
	return structpb.NewStruct(map[string]any{"session_id": id})
}

func (s *Server) CloseSession(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.sessions.Close(stringField(req, "session_id")); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func (s *Server) Resolve(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "session_id")
	res, err := s.sessions.Submit(id, stringField(req, "input"))
	if err != nil {
		return nil, toStatus(err)
	}
	return resultStruct(res)
}

func (s *Server) Teach(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text, err := s.sessions.Teach(stringField(req, "session_id"), stringField(req, "answer"))
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"text": text})
}

func (s *Server) Reset(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.sessions.Reset(stringField(req, "session_id")); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

// #endregion handlers

// #region interceptor
func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.log.Debug("rpc",
		zap.String("method", info.FullMethod),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("code", status.Code(err).String()),
	)
	return resp, err
}

// #endregion interceptor

// #region helpers
func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func resultStruct(res resolver.Result) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"text":               res.Text,
		"learning_requested": res.LearningRequested,
		"learning_key":       res.LearningKey,
		"source":             string(res.Source),
		"tag":                res.Tag,
		"confidence":         res.Confidence,
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, session.ErrNoPendingLearning):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, session.ErrEmptyAnswer):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// #endregion helpers
