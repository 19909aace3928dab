package webpath

import "strconv"

const (
	Home    = "/"
	Metrics = "/metrics"

	Matches      = "/matches"
	Match        = Matches + "/:id"
	MatchRatings = Match + "/ratings"
	Players      = "/players"
	PlayerClaim  = Players + "/:id/claim"

	MatchPage = "/match/:id"
	JoinPage  = MatchPage + "/join"
	RatePage  = MatchPage + "/rate"
	SharePage = MatchPage + "/share"
)

func MatchPath(id int64) string {
	return "/match/" + strconv.FormatInt(id, 10)
}

func JoinPath(id int64) string {
	return MatchPath(id) + "/join"
}

func RatePath(id int64) string {
	return MatchPath(id) + "/rate"
}

func SharePath(id int64) string {
	return MatchPath(id) + "/share"
}

func Path() map[string]string {
	return map[string]string{
		"Home":    Home,
		"Matches": Matches,
		"Players": Players,
	}
}
