package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/app"
	"github.com/abhisek/quizdeck/internal/progression"
	attemptscreen "github.com/abhisek/quizdeck/internal/screens/attempt"
)

// runApp resolves configuration, builds dependencies, and launches the TUI.
// A non-empty quizID opens that quiz straight away.
func runApp(cmd *cobra.Command, quizID string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, closeFn, err := openService(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	return app.Run(app.Options{
		Deps: attemptscreen.Deps{
			Service:  svc,
			Resolver: progression.NewResolver(svc),
			Tamper:   cfg.Tamper,
		},
		StartQuiz: quizID,
		Status:    fmt.Sprintf("%s @ %s", cfg.UserID, backend(cfg)),
	})
}
