package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/ccollicutt/refcompare/pkg/config"
	"github.com/ccollicutt/refcompare/pkg/output"
	"github.com/ccollicutt/refcompare/pkg/webhook"
)

// webhookFlags define a webhook on the command line.
type webhookFlags struct {
	URL     string
	Token   string
	Trigger string
}

func (f *webhookFlags) bind(flags *pflag.FlagSet) {
	flags.StringVar(&f.URL, "webhook-url", "", "Webhook endpoint URL")
	flags.StringVar(&f.Token, "webhook-token", "", "Bearer token for webhook auth")
	flags.StringVar(&f.Trigger, "webhook-trigger", string(config.WebhookTriggerOnDifferences), "When to fire webhook (on_differences|always|never)")
}

// validate rejects an unknown --webhook-trigger. An empty trigger means
// on_differences.
func (f *webhookFlags) validate() error {
	if f.Trigger == "" || config.WebhookTrigger(f.Trigger).Valid() {
		return nil
	}
	return fmt.Errorf("invalid --webhook-trigger %q (must be on_differences, always, or never)", f.Trigger)
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are reported on errOut but don't fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, flags *webhookFlags, report *output.Report, errOut io.Writer) {
	hooks := collectWebhooks(cfg, flags)
	if len(hooks) == 0 {
		return
	}

	for _, d := range webhook.NewClient().Notify(ctx, report, hooks) {
		if d.Response.Success() {
			printf(errOut, "Webhook %s: sent (%d, %s)\n", d.Name, d.Response.StatusCode, d.Response.Duration)
		} else if d.Response.Error != nil {
			printf(errOut, "Webhook %s: failed (%v)\n", d.Name, d.Response.Error)
		} else {
			printf(errOut, "Webhook %s: failed (status %d)\n", d.Name, d.Response.StatusCode)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, flags *webhookFlags) []config.WebhookConfig {
	hooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	hooks = append(hooks, cfg.Webhooks...)

	if flags.URL != "" {
		trigger := config.WebhookTrigger(flags.Trigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnDifferences
		}

		hooks = append(hooks, config.WebhookConfig{
			Name:    "cli",
			URL:     flags.URL,
			Token:   flags.Token,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return hooks
}
