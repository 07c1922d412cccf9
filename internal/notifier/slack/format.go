package slack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/notifier"
	"github.com/mauv0809/match-ledger/internal/rating"
	"github.com/mauv0809/match-ledger/internal/session"
	"github.com/slack-go/slack"
)

func mrkdwnSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil)
}

func button(actionID, value, label string) *slack.ButtonBlockElement {
	return slack.NewButtonBlockElement(actionID, value, slack.NewTextBlockObject("plain_text", label, true, false))
}

func cancelButton() *slack.ButtonBlockElement {
	return button(notifier.ActionCancel, "cancel", "✖️ Cancel").WithStyle(slack.StyleDanger)
}

// formatSession renders a session step. Recoverable errors are shown above
// the repeated prompt.
func (s *Notifier) formatSession(res session.Result, err error) slack.Message {
	if err != nil && !session.IsRecoverable(err) {
		var storeErr *session.StoreError
		switch {
		case errors.Is(err, session.ErrNoSession):
			return slack.NewBlockMessage(mrkdwnSection("There is no match entry in progress. Start one with `/match start`."))
		case errors.As(err, &storeErr):
			return slack.NewBlockMessage(mrkdwnSection(fmt.Sprintf("❌ Failed to save the match: %s\nThe entry was discarded.", storeErr.Err)))
		default:
			return slack.NewBlockMessage(mrkdwnSection(fmt.Sprintf("❌ %s", err)))
		}
	}

	if res.Outcome == session.OutcomeCommit && res.Record != nil {
		return s.formatMatchCard(res.Record, nil, "✅ Match saved")
	}

	blocks := make([]slack.Block, 0)
	if err != nil {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", "❌ "+err.Error(), false, false)))
	}
	blocks = append(blocks, promptBlocks(res.Prompt)...)
	return slack.NewBlockMessage(blocks...)
}

func promptBlocks(p session.Prompt) []slack.Block {
	switch p.State {
	case session.StateSelectTournament:
		if p.Tournament == nil {
			return []slack.Block{mrkdwnSection("🏆 No tournaments to choose from.")}
		}
		text := fmt.Sprintf("🏆 *Choose a tournament* (%d/%d)\n\n📌 Name: *%s*\n📅 Year: %d\n🆔 ID: `%d`",
			p.Position, p.Count, p.Tournament.Name, p.Tournament.Year, p.Tournament.ID)
		elements := make([]slack.BlockElement, 0, 4)
		if p.Position > 1 {
			elements = append(elements, button(notifier.ActionPrev, "prev", "⬅️"))
		}
		elements = append(elements, button(notifier.ActionChoice, fmt.Sprint(p.Tournament.ID), "✅ Select").WithStyle(slack.StylePrimary))
		if p.Position < p.Count {
			elements = append(elements, button(notifier.ActionNext, "next", "➡️"))
		}
		elements = append(elements, cancelButton())
		return []slack.Block{mrkdwnSection(text), slack.NewActionBlock("tournament_nav", elements...)}

	case session.StateSelectFormat:
		return choiceBlocks("⚔️ Choose the *format*:", p.Choices)

	case session.StateEnterDate:
		return []slack.Block{mrkdwnSection("📅 Enter the match *date* as `YYYY.MM.DD`, for example `/match 2024.05.20`.")}

	case session.StateSelectMap:
		return choiceBlocks("🗺 Choose the *map*:", p.Choices)

	case session.StateEnterScore:
		return []slack.Block{mrkdwnSection("🔢 Enter the *score*, for example `/match 13-11`.")}

	case session.StateEnterTeam1Tag:
		return []slack.Block{mrkdwnSection("🛡 Enter the *TAG* of the first team. The team must be registered.")}

	case session.StateEnterTeam2Tag:
		return []slack.Block{mrkdwnSection(fmt.Sprintf("✅ Stats for [%s] saved.\n\n🛡 Enter the *TAG* of the second team.", p.TeamTag))}

	case session.StateCollectingTeam1, session.StateCollectingTeam2:
		text := fmt.Sprintf("📊 (%d/%d) Enter stats for *%s* [%s]\nFormat: `K A D`, for example `/match 15 4 10`",
			p.Index, p.Total, p.Player, p.TeamTag)
		return []slack.Block{
			mrkdwnSection(text),
			slack.NewActionBlock("player_actions", button(notifier.ActionSkip, p.Player, "🚫 Did not play"), cancelButton()),
		}
	}
	return []slack.Block{mrkdwnSection(fmt.Sprintf("Unexpected step %q.", p.State))}
}

func choiceBlocks(text string, choices []session.Choice) []slack.Block {
	elements := make([]slack.BlockElement, 0, len(choices)+1)
	for i, c := range choices {
		elements = append(elements, button(fmt.Sprintf("%s_%d", notifier.ActionChoice, i), c.Value, c.Label))
	}
	elements = append(elements, cancelButton())
	return []slack.Block{mrkdwnSection(text), slack.NewActionBlock("choices", elements...)}
}

// formatMatchCard creates the Slack message for a single match.
func (s *Notifier) formatMatchCard(rec *match.Record, tournament *club.Tournament, title string) slack.Message {
	blocks := make([]slack.Block, 0)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	var details strings.Builder
	fmt.Fprintf(&details, "🆔 ID: `%s`\n", rec.DisplayID())
	if tournament != nil {
		fmt.Fprintf(&details, "🏆 %s %s\n", tournament.Name, tournament.Season)
	}
	fmt.Fprintf(&details, "📅 %s · %s\n", rec.Date, rec.Format)
	fmt.Fprintf(&details, "🗺 %s (%d:%d)\n", rec.Map, rec.Score1, rec.Score2)
	fmt.Fprintf(&details, "⚔️ [%s] vs [%s]", rec.Team1Tag, rec.Team2Tag)
	if winner := rec.Winner(); winner != "" {
		fmt.Fprintf(&details, "\n🏅 Winner: [%s]", winner)
	} else {
		details.WriteString("\n🤝 Draw")
	}
	blocks = append(blocks, mrkdwnSection(details.String()))

	fields := make([]*slack.TextBlockObject, 0, 2)
	for _, tag := range []string{rec.Team1Tag, rec.Team2Tag} {
		fields = append(fields, slack.NewTextBlockObject("mrkdwn", teamLines(tag, rec.Lines(tag)), false, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	return slack.NewBlockMessage(blocks...)
}

func teamLines(tag string, lines []rating.PlayerLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*[%s]*", tag)
	if len(lines) == 0 {
		b.WriteString("\n_no stats entered_")
		return b.String()
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "\n• %s %d/%d/%d · RATING %.2f", l.Nickname, l.K, l.A, l.D, l.Rating)
	}
	return b.String()
}

// formatMatchList creates a Slack message for one page of a tournament's matches.
func (s *Notifier) formatMatchList(page match.Page, tournament *club.Tournament) slack.Message {
	blocks := make([]slack.Block, 0)
	title := "📋 Matches"
	if tournament != nil {
		title = fmt.Sprintf("📋 Matches: %s %s", tournament.Name, tournament.Season)
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	if len(page.Records) == 0 {
		blocks = append(blocks, mrkdwnSection("No matches found."))
		return slack.NewBlockMessage(blocks...)
	}

	for _, rec := range page.Records {
		text := fmt.Sprintf("`%s` %s · %s (%d:%d) [%s] vs [%s]",
			rec.DisplayID(), rec.Date, rec.Map, rec.Score1, rec.Score2, rec.Team1Tag, rec.Team2Tag)
		blocks = append(blocks, mrkdwnSection(text))
	}

	pages := page.TotalPages
	if pages < 1 {
		pages = 1
	}
	footer := fmt.Sprintf("📄 Page %d/%d · %d matches", page.Page+1, pages, page.TotalCount)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", footer, true, false)))
	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(entries []leaderboard.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Top players 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, e := range entries {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}
		text := fmt.Sprintf("%d. %s*%s*: %.2f pts\n> K/A/D: %d/%d/%d · RATING %.2f · %d matches",
			rank, medal, e.Nickname, e.Score, e.Kills, e.Assists, e.Deaths, e.AvgRating(), e.Matches)
		blocks = append(blocks, mrkdwnSection(text))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerProfile creates a Slack message with a player's lifetime profile.
func (s *Notifier) formatPlayerProfile(p *leaderboard.Profile) slack.Message {
	blocks := make([]slack.Block, 0)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "👤 "+p.Nickname, true, false)))

	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		name = "Not set"
	}
	blocks = append(blocks, mrkdwnSection(fmt.Sprintf("🪪 %s\n🛡 Team: %s\n📈 Rank: *%s*", name, p.Team, p.RankLabel())))

	stats := []string{
		fmt.Sprintf("*K/A/D*\n%d/%d/%d", p.Kills, p.Assists, p.Deaths),
		fmt.Sprintf("*+/-*\n%+d", p.Diff),
		fmt.Sprintf("*KD*\n%.2f", p.Rates.KD),
		fmt.Sprintf("*KPR*\n%.2f", p.Rates.KPR),
		fmt.Sprintf("*DPR*\n%.2f", p.Rates.DPR),
		fmt.Sprintf("*SVR*\n%.2f", p.Rates.SVR),
		fmt.Sprintf("*IMPACT*\n%.2f", p.Rates.Impact),
		fmt.Sprintf("*RATING*\n%.2f", p.AvgRating),
		fmt.Sprintf("*Matches*\n%d (%d rounds)", p.Matches, p.Rounds),
		fmt.Sprintf("*Score*\n%.2f", p.Score),
	}
	fields := make([]*slack.TextBlockObject, 0, len(stats))
	for _, text := range stats {
		fields = append(fields, slack.NewTextBlockObject("mrkdwn", text, false, false))
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	blocks = append(blocks, mrkdwnSection("🕹 *Last matches:*\n"+bulletList(p.LastMatches)))

	achievements := make([]string, 0, len(p.Achievements))
	for _, a := range p.Achievements {
		achievements = append(achievements, a.String())
	}
	blocks = append(blocks, mrkdwnSection("🏅 *Achievements:*\n"+bulletList(achievements)))

	transfers := make([]string, 0, len(p.Transfers))
	for _, t := range p.Transfers {
		transfers = append(transfers, fmt.Sprintf("%s: %s ➡️ %s", t.Date, t.OldTeam, t.NewTeam))
	}
	blocks = append(blocks, mrkdwnSection("🔁 *Transfers:*\n"+bulletList(transfers)))

	return slack.NewBlockMessage(blocks...)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "▫️ None"
	}
	return "• " + strings.Join(items, "\n• ")
}

// formatPlayerNotFound creates a Slack message for when a player is not found.
func (s *Notifier) formatPlayerNotFound(query string, suggestions []club.Suggestion) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching '%s'.", query)
	if len(suggestions) > 0 {
		names := make([]string, len(suggestions))
		for i, sg := range suggestions {
			names[i] = fmt.Sprintf("*%s* [%s]", sg.Player.Nickname, sg.Player.TeamTag)
		}
		text += "\nDid you mean: " + strings.Join(names, ", ") + "?"
	}
	return slack.NewBlockMessage(mrkdwnSection(text))
}
