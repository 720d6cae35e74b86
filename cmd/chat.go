package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/assistant"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive recommendation session in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx, "chat")
		if err != nil {
			return err
		}
		defer e.Close(ctx)

		a := assistant.New(e.LLM, e.Graph)
		conversationID := uuid.NewString()
		if _, err := e.Store.CreateConversation(ctx, conversationID); err != nil {
			return eris.Wrap(err, "record conversation")
		}

		record := func(role, content string) {
			if _, err := e.Store.AppendMessage(ctx, conversationID, role, content); err != nil {
				zap.L().Warn("record message", zap.Error(err))
			}
		}

		greeting, err := a.ProcessMessage(ctx, "")
		if err != nil {
			return err
		}
		record("assistant", greeting)
		fmt.Println(greeting)

		scanner := bufio.NewScanner(os.Stdin)
		for a.State() != assistant.StateFinalizado {
			fmt.Print("\n> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if ctx.Err() != nil {
				break
			}

			record("user", line)
			reply, err := a.ProcessMessage(ctx, line)
			if err != nil {
				zap.L().Error("turn failed", zap.Error(err))
				fmt.Println("⚠️ Ha ocurrido un error, inténtalo de nuevo.")
				continue
			}
			record("assistant", reply)
			fmt.Println(reply)

			if err := e.Store.UpdateConversationState(ctx, conversationID, string(a.State())); err != nil {
				zap.L().Warn("record state", zap.Error(err))
			}
		}

		if err := scanner.Err(); err != nil {
			return eris.Wrap(err, "read stdin")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
