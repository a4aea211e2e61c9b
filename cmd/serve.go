package cmd

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/server"
	"github.com/abhisek/quizdeck/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quiz grading HTTP server",
	Long: `Serve quizzes and grade submissions over HTTP.

Learners are identified by the X-User-ID request header. Logging uses glog;
pass -v=2 for per-request detail and --logtostderr to log to the terminal.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		// glog reads its flags from the standard flag set.
		_ = flag.CommandLine.Parse(nil)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer glog.Flush()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("listen"); v != "" {
			cfg.ListenAddr = v
		}
		origins, _ := cmd.Flags().GetStringSlice("allowed-origin")

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := server.DefaultOptions()
		if len(origins) > 0 {
			opts.AllowedOrigins = origins
		}
		qs := server.NewQuizServer(service.NewLocal(st, cfg.UserID), opts)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return qs.ListenAndServe(ctx, cfg.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides QUIZDECK_LISTEN env var)")
	serveCmd.Flags().StringSlice("allowed-origin", nil, "CORS allowed origin (repeatable, default *)")
	serveCmd.Flags().AddGoFlagSet(flag.CommandLine)
}
