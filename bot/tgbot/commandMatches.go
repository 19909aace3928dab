package tgbot

import (
	"context"
	"strings"
)

const matchesLimit = 10

type MatchesCommand struct {
	matches matchReader
}

func (c *MatchesCommand) Run(ctx context.Context, _ Chat, _ string) (string, error) {
	list, err := c.matches.ListMatches(ctx, nil, nil)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "Todavía no hay partidos", nil
	}
	var b strings.Builder
	for i, d := range list {
		if i == matchesLimit {
			break
		}
		b.WriteString(formatSummary(d))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func (c *MatchesCommand) Help() string {
	return "Últimos partidos con su nota"
}
