package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cursortools/usage-agent/capture"
	"github.com/cursortools/usage-agent/credentials"
	"github.com/cursortools/usage-agent/internal/config"
	"github.com/cursortools/usage-agent/token"
)

var loginToken string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Capture a dashboard session credential via the browser",
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "store a pasted credential string instead of opening a browser")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	logger := newLogger()
	repo := newCredentialRepo(cfg)

	var cred credentials.Credential
	if loginToken != "" {
		parsed, err := credentials.Parse(loginToken)
		if err != nil {
			// a bare token value is accepted too
			parsed = credentials.Credential{Token: loginToken}
		}
		if _, err := token.DecodePayload(parsed.Token); err != nil {
			return err
		}
		cred = parsed
	} else {
		session := capture.NewSession(cfg, logger)
		if err := session.Start(cfg.GetBrowserPath()); err != nil {
			return err
		}
		defer session.Cleanup()

		fmt.Println("Complete the sign-in in the browser window that just opened,")
		fmt.Println("then press Enter here to finish.")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// the session cookie only exists once the user has signed in, so
		// extraction must not start before they say so
		if err := waitForEnter(ctx, os.Stdin); err != nil {
			return err
		}

		captured, err := session.Finish(ctx)
		if err != nil {
			return err
		}
		cred = captured
	}

	if err := repo.Save(cred); err != nil {
		return err
	}

	days := token.DaysRemaining(cred.Token, time.Now().Unix())
	fmt.Printf("Signed in. Session valid for %d more day(s).\n", days)
	return nil
}

// waitForEnter blocks until a line arrives on in or the context is
// cancelled (Ctrl-C aborts the capture, and the deferred cleanup tears the
// browser down).
func waitForEnter(ctx context.Context, in io.Reader) error {
	done := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(in).ReadString('\n')
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
