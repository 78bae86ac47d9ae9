package main

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/versand/internal/config"
	"github.com/kingrea/versand/internal/directory"
	"github.com/kingrea/versand/internal/tui"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to the member directory and store the API token",
		Long: `Asks for the e-mail and password of a directory account, trades them for a
personal API token and stores e-mail and token in config.yaml. Endpoints use
them through {login_email} and {api_token}. The password is never stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.dir, a.configPath)
			if errors.Is(err, config.ErrMissingConfig) {
				cfg, err = config.Load(a.dir, a.configPath)
			}
			if err != nil {
				return err
			}
			rep, err := a.startLogging(cfg)
			if err != nil {
				return err
			}

			dir := cfg.Settings.Directory
			creds, err := tui.PromptLogin(cmd.Context(), dir.LoginEmail, dir.SignInURL, a.in, a.out)
			if errors.Is(err, tui.ErrAborted) {
				rep.Info("Login aborted.")
				return nil
			}
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: dir.Timeout}
			token, err := directory.SignIn(cmd.Context(), client, dir.SignInURL, creds.Email, creds.Password)
			if err != nil {
				a.logger.Error("sign-in failed", zap.String("email", creds.Email), zap.Error(err))
				return err
			}
			if err := cfg.SetCredentials(creds.Email, token); err != nil {
				return err
			}
			a.logger.File.Info("api token stored", zap.String("email", creds.Email), zap.String("config", cfg.Path))
			rep.Info("Signed in as " + creds.Email + ", token stored in " + cfg.Path + ".")
			return nil
		},
	}
}
