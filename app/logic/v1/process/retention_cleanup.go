package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/wayfinder-ai/wayfinder/app/core"
	"github.com/wayfinder-ai/wayfinder/pkg/register"
	"github.com/wayfinder-ai/wayfinder/pkg/safe"
)

const (
	defaultRetentionCronSpec = "0 3 * * *"
	retentionBatchSize       = uint64(500)
)

func init() {
	register.RegisterFunc[*Process](ProcessKey{}, func(p *Process) {
		cfg := p.core.Cfg().Retention
		if cfg.Days <= 0 {
			return
		}
		spec := cfg.CronSpec
		if spec == "" {
			spec = defaultRetentionCronSpec
		}
		_, err := p.cron.AddFunc(spec, func() {
			safe.Run(func() {
				if err := CleanupExpiredConversations(context.Background(), p.core, cfg.Days); err != nil {
					slog.Error("conversation retention cleanup failed", slog.String("error", err.Error()))
				}
			})
		})
		if err != nil {
			slog.Error("failed to schedule retention cleanup", slog.String("spec", spec), slog.String("error", err.Error()))
		}
	})
}

// CleanupExpiredConversations deletes conversations older than the retention
// window together with their messages and screenshots, in batches.
func CleanupExpiredConversations(ctx context.Context, core *core.Core, days int) error {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	total := 0

	for {
		expired, err := core.Store().ConversationStore().ListCreatedBefore(ctx, cutoff, retentionBatchSize)
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			break
		}

		for _, conversation := range expired {
			err = core.Store().Transaction(ctx, func(ctx context.Context) error {
				messages, err := core.Store().ConversationMessageStore().ListByConversation(ctx, conversation.ID)
				if err != nil {
					return err
				}

				messageIDs := make([]string, 0, len(messages))
				for _, item := range messages {
					messageIDs = append(messageIDs, item.ID)
				}
				if err = core.Store().MessageScreenshotStore().DeleteByMessages(ctx, messageIDs); err != nil {
					return err
				}
				if err = core.Store().ConversationMessageStore().DeleteByConversation(ctx, conversation.ID); err != nil {
					return err
				}
				return core.Store().ConversationStore().Delete(ctx, conversation.ID)
			})
			if err != nil {
				return err
			}
			total++
		}

		if uint64(len(expired)) < retentionBatchSize {
			break
		}
	}

	if total > 0 {
		slog.Info("conversation retention cleanup finished", slog.Int("deleted", total), slog.Int("retention_days", days))
	}
	return nil
}
