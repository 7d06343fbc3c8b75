package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/arseniiv/relwatch/pkg/domain/interfaces"
	"github.com/arseniiv/relwatch/pkg/domain/model"
)

type slackNotifier struct {
	webhookURL string
}

// NewSlack creates a Notifier posting release summaries to a Slack
// incoming webhook
func NewSlack(webhookURL string) interfaces.Notifier {
	return &slackNotifier{webhookURL: webhookURL}
}

// NotifyNewReleases posts a one-message summary of the new releases found
// for a repository
func (n *slackNotifier) NotifyNewReleases(ctx context.Context, repo model.RepoID, releases []model.ClassifiedRelease) error {
	if len(releases) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*: %d new release(s)\n", repo.String(), len(releases))
	for _, rel := range releases {
		fmt.Fprintf(&sb, "• %s (tag `%s`, %s, %d matched asset(s))\n",
			rel.Raw.Name, rel.Raw.TagName,
			rel.LastModified.Format("2006-01-02 15:04"),
			len(rel.MatchedAssets()))
	}

	msg := &slack.WebhookMessage{Text: sb.String()}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification", goerr.V("repo", repo.String()))
	}
	return nil
}
