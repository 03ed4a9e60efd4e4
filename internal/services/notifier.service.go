package services

import (
	"context"
	"fmt"
	"strings"

	"inkwell/config"
	. "inkwell/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// NotifierService announces leaderboard changes to the Discord leaderboard
// channel. It holds no state of its own: it formats the diff between two
// ranking snapshots and hands the text to the Discord service. Callers
// dispatch it fire-and-forget; a failed announcement never fails the read
// that caused it.
type NotifierService struct {
	discord   *DiscordService
	channelID string
	blogURL   string
	log       logger.Logger
}

func NewNotifierService(discord *DiscordService, config config.Config) *NotifierService {
	return &NotifierService{
		discord:   discord,
		channelID: config.DiscordLeaderboard,
		blogURL:   strings.TrimRight(config.SiteBaseURL, "/") + "/blog",
		log:       logger.New("notifierService"),
	}
}

func teamMention(team Team) string {
	return fmt.Sprintf("the %s %s team", team.Emoji(), strings.ToLower(team.String()))
}

// PostLeaderChangeMessage builds the announcement for a post-level leader
// change. The second return is false when there is nothing to announce (a
// first-time leader with no identifiable reader).
func (n *NotifierService) PostLeaderChangeMessage(
	slug string,
	prevLeader *Team,
	newLeader Team,
	reader *User,
) (string, bool) {
	url := n.blogURL + "/" + slug
	newTeam := teamMention(newLeader)

	if prevLeader != nil {
		prevTeam := teamMention(*prevLeader)
		var cause string
		if reader != nil && reader.Team == newLeader {
			cause = fmt.Sprintf(
				"%s just read %s and won the post from %s for %s!",
				reader.Mention(), url, prevTeam, newTeam,
			)
		} else {
			who := "An anonymous user"
			if reader != nil {
				who = fmt.Sprintf(
					"Someone on the %s %s team",
					reader.Team.Emoji(), strings.ToLower(reader.Team.String()),
				)
			}
			cause = fmt.Sprintf(
				"%s just read %s and triggered a recalculation of the rankings: %s lost the post and it's now claimed by %s!",
				who, url, prevTeam, newTeam,
			)
		}
		return fmt.Sprintf(
			"🎉 Congratulations to %s! You've won a post!\n\n%s",
			newTeam, cause,
		), true
	}

	if reader != nil {
		return fmt.Sprintf(
			"Congratulations to %s! You've won a post!\n\n%s just read %s and claimed the post for %s!",
			newTeam, reader.Mention(), url, newTeam,
		), true
	}

	return "", false
}

// OverallLeaderChangeMessage builds the announcement for a site-wide leader
// change.
func (n *NotifierService) OverallLeaderChangeMessage(
	slug string,
	prevLeader *Team,
	newLeader Team,
	reader *User,
) string {
	url := n.blogURL + "/" + slug
	newTeamName := strings.ToLower(newLeader.String())

	cause := fmt.Sprintf(
		"An anonymous user just read %s triggering a ranking recalculation",
		url,
	)
	if reader != nil {
		cause = fmt.Sprintf("%s just read %s", reader.Mention(), url)
	}

	if prevLeader != nil {
		return fmt.Sprintf(
			"🎉 Congratulations to the %s %s team! %s and knocked team %s %s team off the top of the leader board! 👏",
			newLeader.Emoji(), newTeamName, cause,
			prevLeader.Emoji(), strings.ToLower(prevLeader.String()),
		)
	}

	return fmt.Sprintf(
		"🎉 Congratulations to the %s %s team! %s and took %s team to the top of the leader board! 👏",
		newLeader.Emoji(), newTeamName, cause, newTeamName,
	)
}

func (n *NotifierService) NotifyPostLeaderChange(
	ctx context.Context,
	slug string,
	prevLeader *Team,
	newLeader Team,
	reader *User,
) {
	log := n.log.Function("NotifyPostLeaderChange")

	message, ok := n.PostLeaderChangeMessage(slug, prevLeader, newLeader, reader)
	if !ok {
		return
	}

	if err := n.discord.SendMessage(ctx, n.channelID, message); err != nil {
		log.Er("failed to announce post leader change", err, "slug", slug)
	}
}

func (n *NotifierService) NotifyOverallLeaderChange(
	ctx context.Context,
	slug string,
	prevLeader *Team,
	newLeader Team,
	reader *User,
) {
	log := n.log.Function("NotifyOverallLeaderChange")

	message := n.OverallLeaderChangeMessage(slug, prevLeader, newLeader, reader)
	if err := n.discord.SendMessage(ctx, n.channelID, message); err != nil {
		log.Er("failed to announce overall leader change", err, "slug", slug)
	}
}
