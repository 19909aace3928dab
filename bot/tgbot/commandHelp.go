package tgbot

import (
	"context"
	"strings"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Run(_ context.Context, _ Chat, args string) (string, error) {
	if command, ok := c.commands[strings.TrimPrefix(strings.TrimSpace(args), "/")]; ok {
		return command.Help(), nil
	}
	uc := Commands{list: c.commands}
	var b strings.Builder
	b.WriteString("Comandos disponibles:\n")
	for _, name := range uc.names() {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString(" - ")
		b.WriteString(c.commands[name].Help())
		b.WriteString("\n")
	}
	b.WriteString("Ayuda detallada: /help y el nombre del comando")
	return b.String(), nil
}

func (c *HelpCommand) Help() string {
	return "Lista los comandos disponibles"
}
