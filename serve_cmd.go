package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgnsrekt/podgen/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the podcast generator in the browser",
	Long:    paragraph(fmt.Sprintf("\n%s a web form that generates episodes, plays them in the page and offers them for download.", keyword("Serve"))),
	Example: paragraph("podgen serve\npodgen serve --addr :8080"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logToStderr()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := loadPipeline(ctx)
		if err != nil {
			return err
		}

		srv, err := web.New(web.Config{
			Addr:       settings.ServeAddr,
			OutputDir:  settings.OutputDir,
			NewSession: p.session,
			Debug:      settings.Debug,
		})
		if err != nil {
			return fmt.Errorf("unable to create server: %w", err)
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "address to listen on")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
}
