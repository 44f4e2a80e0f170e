package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-KnollBot/internal/config"
	"github.com/m04kA/SMC-KnollBot/pkg/chunker"
	"github.com/m04kA/SMC-KnollBot/pkg/logger"
	"github.com/m04kA/SMC-KnollBot/pkg/plaintext"
)

const chunkSeparator = "\n----\n"

func newAskCmd(configPath *string) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the agent a question locally, without Telegram",
		Long: `Runs the same agent the bot uses for /ask and prints the answer split
into Telegram-sized chunks. Only the LLM provider settings are required.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.Nop()
			if verbose {
				if log, err = logger.New(cfg.Logs.File, cfg.Logs.Level); err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				defer log.Close()
			}

			knoll, err := buildAgent(cmd.Context(), cfg, log, nil)
			if err != nil {
				return fmt.Errorf("failed to initialize agent: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), seconds(cfg.Agent.Timeout))
			defer cancel()

			res, err := knoll.Run(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			output := res.Output
			if cfg.Reply.PlainText {
				output = plaintext.FromMarkdown(output)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.Join(chunker.Split(output, cfg.Reply.MessageLimit), chunkSeparator))
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace=%s turns=%d tool_calls=%d tokens=%d/%d\n",
					res.TraceID, res.Turns, res.ToolCalls, res.Usage.InputTokens, res.Usage.OutputTokens)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log agent activity and print run statistics")

	return cmd
}

func newWebhookCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Inspect or manage the Telegram webhook",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Print the current webhook state as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				svc, err := newTelegramCLIService(*configPath)
				if err != nil {
					return err
				}
				info, err := svc.GetWebhookInfo()
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), info)
			},
		},
		&cobra.Command{
			Use:   "set",
			Short: "Register {webhook_url}{webhook_path} with Telegram",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(*configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				endpoint := cfg.Telegram.WebhookEndpoint()
				if endpoint == "" {
					return fmt.Errorf("webhook url is not configured (WEBHOOK_URL)")
				}
				svc, err := newTelegramCLIService(*configPath)
				if err != nil {
					return err
				}
				err = setWebhookWithRetry(cmd.Context(), svc, endpoint,
					cfg.Telegram.WebhookAttempts, time.Duration(cfg.Telegram.WebhookRetryDelay)*time.Second, logger.Nop())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "webhook set to %s\n", endpoint)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the webhook so the bot can use long polling",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				svc, err := newTelegramCLIService(*configPath)
				if err != nil {
					return err
				}
				if err := svc.DeleteWebhook(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "webhook deleted")
				return nil
			},
		},
	)

	return cmd
}
