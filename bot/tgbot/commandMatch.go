package tgbot

import (
	"context"
	"strconv"
	"strings"
)

type MatchCommand struct {
	matches matchReader
}

func (c *MatchCommand) Run(ctx context.Context, _ Chat, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return "", userError(`indica el número del partido, por ejemplo "/match 3"`)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(fields[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return "", userError("el número de partido no es válido")
	}
	d, err := c.matches.GetMatch(ctx, id, nil)
	if err != nil {
		return "", err
	}
	return formatMatch(d), nil
}

func (c *MatchCommand) Help() string {
	return "Notas de un partido. Uso: /match y el número del partido"
}
