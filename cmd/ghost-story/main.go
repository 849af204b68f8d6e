// Package main 鬼故事终端客户端入口
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ghost-story/internal/application/controller"
	"ghost-story/internal/interfaces/http/client"
	"ghost-story/internal/interfaces/tui"
	"ghost-story/pkg/logger"
)

// Version 版本信息，构建时注入
var Version = "dev"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "ghost-story",
		Short:         "Generate short ghost stories from a prompt",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			output := "discard"
			if v.GetBool("verbose") {
				output = "stderr"
			}
			logger.Init(v.GetString("log_level"), "text", output)
		},
	}

	root.PersistentFlags().String("server", "http://localhost:8080", "story API base URL")
	root.PersistentFlags().Duration("timeout", client.DefaultTimeout, "request timeout")
	root.PersistentFlags().Bool("verbose", false, "write logs to stderr")
	root.PersistentFlags().String("log-level", "info", "log level when verbose")

	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	v.SetEnvPrefix("GHOST_STORY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newTUICmd(v), newGenerateCmd(v))
	return root
}

func newStoryClient(v *viper.Viper) (*client.StoryClient, error) {
	return client.New(v.GetString("server"), client.WithTimeout(v.GetDuration("timeout")))
}

func newTUICmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive story generator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newStoryClient(v)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), c, v.GetDuration("slow_warning"))
		},
	}
	cmd.Flags().Duration("slow-warning", controller.SlowWarningDelay, "show a notice when generation takes longer than this")
	_ = v.BindPFlag("slow_warning", cmd.Flags().Lookup("slow-warning"))
	return cmd
}

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate one story and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newStoryClient(v)
			if err != nil {
				return err
			}
			return generateOnce(cmd.Context(), c, strings.Join(args, " "), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func generateOnce(ctx context.Context, gen controller.Generator, prompt string, stdout, stderr io.Writer) error {
	ctrl := controller.New(gen)
	defer ctrl.Close()

	start := time.Now()
	snap, err := ctrl.Submit(ctx, prompt)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return err
	}

	switch snap.State {
	case controller.Success:
		fmt.Fprintln(stdout, *snap.CurrentStory)
		logger.Debug(ctx, "story printed", "duration_ms", time.Since(start).Milliseconds())
		return nil
	case controller.Failed:
		fmt.Fprintln(stderr, *snap.Error)
		if snap.Retryable {
			fmt.Fprintln(stderr, "You can run the same command again to retry.")
		}
		return errors.New(*snap.Error)
	default:
		return fmt.Errorf("unexpected state %s", snap.State)
	}
}
