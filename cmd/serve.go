package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/datateller/datateller/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive analysis web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := web.New(cfg)
		httpSrv := &http.Server{
			Addr:              serveAddr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", displayAddr(serveAddr))
		return httpSrv.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
