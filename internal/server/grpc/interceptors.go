package grpcserver

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// LoggingUnary logs every unary call. Successful calls go to debug since
// load balancers probe the health service every few seconds.
func LoggingUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		logCall(ctx, log, "grpc", info.FullMethod, start, err)
		return resp, err
	}
}

// LoggingStream is LoggingUnary for streams such as health Watch; it logs when the stream ends.
func LoggingStream(log *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, next grpc.StreamHandler) error {
		start := time.Now()
		err := next(srv, ss)
		logCall(ss.Context(), log, "grpc stream", info.FullMethod, start, err)
		return err
	}
}

func logCall(ctx context.Context, log *zap.Logger, msg, method string, start time.Time, err error) {
	code := status.Code(err)
	lvl := zapcore.DebugLevel
	if code != codes.OK {
		lvl = zapcore.WarnLevel
	}
	ce := log.Check(lvl, msg)
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("code", code.String()),
		zap.Duration("dur", time.Since(start)),
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		fields = append(fields, zap.String("peer", p.Addr.String()))
	}
	ce.Write(fields...)
}

// RecoverUnary turns a handler panic into codes.Internal.
func RecoverUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer recoverInto(log, info.FullMethod, &err)
		return next(ctx, req)
	}
}

// RecoverStream turns a stream handler panic into codes.Internal.
func RecoverStream(log *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, next grpc.StreamHandler) (err error) {
		defer recoverInto(log, info.FullMethod, &err)
		return next(srv, ss)
	}
}

// recoverInto must be deferred directly so recover sees the panic.
func recoverInto(log *zap.Logger, method string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	log.Error("panic",
		zap.Any("reason", r),
		zap.ByteString("stack", debug.Stack()),
		zap.String("method", method),
	)
	*err = status.Error(codes.Internal, "internal")
}
