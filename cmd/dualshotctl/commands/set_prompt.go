package commands

import (
	"context"
	"fmt"
	"time"

	"dualshot/internal/repository"
	"dualshot/internal/service"
	"dualshot/pkg/redis"

	"github.com/spf13/cobra"
)

var setPromptCmd = &cobra.Command{
	Use:   "set-prompt <text>",
	Short: "修改每日提示",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var cache service.PromptCache
		if cfg.Redis.Enabled {
			client, err := redis.New(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()
			cache = client
		}

		svc := service.NewPromptService(repository.NewMetaRepository(db), cache, cfg.Prompt.Default)
		prompt, err := svc.Set(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Daily prompt set to %q\n", prompt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setPromptCmd)
}
