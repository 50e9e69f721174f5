package main

import (
	"fmt"

	"github.com/Veraticus/fintrack/internal/certs"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST backend",
		Long: `Serve the /categories and /entries resources over HTTP, backed by a
SQLite database (database.path).

With --tls a self-signed certificate for localhost is kept in server.cert_dir.
Point clients at it with api.ca_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if s.cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			store, err := s.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					s.logger.Warn("Failed to close database", "error", err)
				}
			}()

			if s.cfg.Server.Seed {
				if err := store.Seed(ctx); err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
			}

			opts := []server.Option{
				server.WithCORSOrigins(s.cfg.Server.CORSOrigins...),
				server.WithLogger(s.logger),
			}
			scheme := "http"
			if s.cfg.Server.TLS {
				certStore := certs.NewStore(s.cfg.Server.CertDir)
				cert, err := certStore.Certificate()
				if err != nil {
					return fmt.Errorf("failed to load TLS certificate: %w", err)
				}
				opts = append(opts, server.WithTLS(cert))
				scheme = "https"
				fmt.Fprintln(s.out, cli.FormatInfo(fmt.Sprintf("Certificate %s (SHA-256 %s)", certStore.CertFile(), certs.Fingerprint(cert))))
			}

			srv := server.New(store, opts...)
			fmt.Fprintln(s.out, cli.FormatInfo(fmt.Sprintf("Listening on %s://%s (database %s)", scheme, s.cfg.Server.Addr, store.Path())))
			return srv.Run(ctx, s.cfg.Server.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :3000)")
	cmd.Flags().Bool("seed", false, "fill an empty database with sample data")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = s.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = s.v.BindPFlag("server.seed", cmd.Flags().Lookup("seed"))
	_ = s.v.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}
