package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Resolve a single message through the chat pipeline and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := bootstrap(ctx, st); err != nil {
			return err
		}

		cache, closeCache, err := initCache(ctx)
		if err != nil {
			return err
		}
		defer closeCache()

		chat, err := initChat(ctx, st.Repo, cache)
		if err != nil {
			return err
		}

		resp, err := chat.Reply(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		logger.Debug("ask resolved", zap.String("stage", resp.Stage))
		fmt.Fprintln(cmd.OutOrStdout(), resp.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
