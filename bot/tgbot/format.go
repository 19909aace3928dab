package tgbot

import (
	"strconv"
	"strings"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/web/webpath"
)

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatScore(m domain.Match) string {
	return m.Team1.Name + " " + strconv.Itoa(m.Team1.Goals) + " - " + strconv.Itoa(m.Team2.Goals) + " " + m.Team2.Name
}

// formatSummary renders one line, e.g. "#3 07.03.2024 Jueves: Blancos 3 - 1 Negros (Victoria) ★ 7.0".
func formatSummary(d service.MatchDetails) string {
	var b strings.Builder
	b.WriteString("#")
	b.WriteString(strconv.FormatInt(d.Match.ID, 10))
	b.WriteString(" ")
	b.WriteString(d.Match.Date.Format("02.01.2006"))
	b.WriteString(" ")
	b.WriteString(d.Match.Name)
	b.WriteString(": ")
	b.WriteString(formatScore(d.Match))
	b.WriteString(" (")
	b.WriteString(string(d.Match.Result))
	b.WriteString(") ★ ")
	b.WriteString(formatRating(d.Ratings.MatchRating))
	return b.String()
}

func formatMatch(d service.MatchDetails) string {
	var b strings.Builder
	b.WriteString(formatSummary(d))
	for _, team := range []domain.Team{d.Match.Team1, d.Match.Team2} {
		b.WriteString("\n\n")
		b.WriteString(team.Name)
		for _, p := range team.Players {
			b.WriteString("\n")
			b.WriteString(p.Name)
			b.WriteString(": ")
			b.WriteString(formatRating(d.PlayerRating(p.ID)))
		}
	}
	b.WriteString("\n\nCalificaciones enviadas: ")
	b.WriteString(strconv.Itoa(d.Ratings.Raters.Cardinality()))
	return b.String()
}

func formatAnnouncement(d service.MatchDetails, publicURL string) string {
	var b strings.Builder
	b.WriteString("Nuevo partido: ")
	b.WriteString(d.Match.Name)
	b.WriteString("\n")
	b.WriteString(formatScore(d.Match))
	if publicURL != "" {
		b.WriteString("\nCalifica a tus compañeros: ")
		b.WriteString(strings.TrimSuffix(publicURL, "/"))
		b.WriteString(webpath.JoinPath(d.Match.ID))
	}
	return b.String()
}
