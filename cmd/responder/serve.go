package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/intent-responder/internal/api"
	"github.com/danielpatrickdp/intent-responder/internal/mcptools"
	"github.com/danielpatrickdp/intent-responder/internal/rpc"
	"github.com/danielpatrickdp/intent-responder/internal/session"
)

// #region serve-command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the responder over HTTP and gRPC",
	RunE:  runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve one conversation as MCP tools over stdio",
	RunE:  runMCP,
}

func init() {
	serveCmd.Flags().String("http-addr", "", "HTTP listen address (empty uses config)")
	serveCmd.Flags().String("grpc-addr", "", "gRPC listen address (empty uses config)")
}

// #endregion serve-command

// #region serve
func runServe(cmd *cobra.Command, args []string) error {
	httpAddr, _ := cmd.Flags().GetString("http-addr")
	grpcAddr, _ := cmd.Flags().GetString("grpc-addr")
	if httpAddr == "" {
		httpAddr = cfg.HTTPAddr
	}
	if grpcAddr == "" {
		grpcAddr = cfg.GRPCAddr
	}

	a, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions := session.NewManager(a.newSession)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           api.NewRouter(api.NewHandler(sessions, a.db.DB(), logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := rpc.NewGRPCServer(rpc.NewServer(sessions, logger))
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", httpAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); err != nil {
			return fmt.Errorf("grpc: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Serving HTTP on %s and gRPC on %s\n", httpAddr, grpcAddr)
	return g.Wait()
}

// #endregion serve

// #region mcp
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	s := mcptools.NewServer(mcptools.New(a.newSession("mcp")), version)
	return server.ServeStdio(s)
}

// #endregion mcp
