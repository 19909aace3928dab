package sqlite

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/gen/model"
	"github.com/goserg/matchrating/gen/table"
	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/storage"
)

// CreateMatch stores the match with both teams and rosters. Roster players must already exist.
func (s *Storage) CreateMatch(ctx context.Context, match domain.Match) (domain.Match, error) {
	var created domain.Match
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		var dbMatch model.Matches
		err := table.Matches.
			INSERT(table.Matches.MutableColumns).
			MODEL(convertMatchFromDomain(match)).
			RETURNING(table.Matches.AllColumns).
			QueryContext(ctx, s.conn(ctx), &dbMatch)
		if err != nil {
			return err
		}
		for _, side := range []domain.TeamSide{domain.Team1, domain.Team2} {
			err = s.insertTeam(ctx, dbMatch.ID, side, match.Team(side))
			if err != nil {
				return err
			}
		}
		created, err = s.GetMatch(ctx, int64(dbMatch.ID))
		return err
	})
	if err != nil {
		return domain.Match{}, mapError(err)
	}
	s.log.WithField("match", created.ID).Debug("match created")
	return created, nil
}

func (s *Storage) insertTeam(ctx context.Context, matchID int32, side domain.TeamSide, team domain.Team) error {
	if team.Goals < 0 || team.Goals > domain.MaxGoals {
		return fmt.Errorf("%w: goals %d", storage.ErrInvalidValue, team.Goals)
	}
	var dbTeam model.Teams
	err := table.Teams.
		INSERT(table.Teams.MutableColumns).
		MODEL(model.Teams{
			MatchID:  matchID,
			Position: int32(side),
			Name:     team.Name,
			Goals:    int32(team.Goals),
		}).
		RETURNING(table.Teams.AllColumns).
		QueryContext(ctx, s.conn(ctx), &dbTeam)
	if err != nil {
		return err
	}
	if len(team.Players) == 0 {
		return nil
	}
	roster := make([]model.TeamPlayers, 0, len(team.Players))
	for i, p := range team.Players {
		roster = append(roster, model.TeamPlayers{
			TeamID:   dbTeam.ID,
			PlayerID: p.ID.String(),
			Position: int32(i),
		})
	}
	_, err = table.TeamPlayers.
		INSERT(table.TeamPlayers.AllColumns).
		MODELS(roster).
		ExecContext(ctx, s.conn(ctx))
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id int64) (domain.Match, error) {
	var dest model.Matches
	err := table.Matches.
		SELECT(table.Matches.AllColumns).
		WHERE(table.Matches.ID.EQ(sqlite.Int(id))).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return domain.Match{}, mapError(err)
	}
	matches, err := s.withTeams(ctx, []model.Matches{dest})
	if err != nil {
		return domain.Match{}, err
	}
	return matches[0], nil
}

func (s *Storage) ListMatches(ctx context.Context, scope mapset.Set[uuid.UUID]) ([]domain.Match, error) {
	stmt := table.Matches.
		SELECT(table.Matches.AllColumns)
	if scope != nil && scope.Cardinality() > 0 {
		ids := make([]sqlite.Expression, 0, scope.Cardinality())
		for _, id := range scope.ToSlice() {
			ids = append(ids, sqlite.String(id.String()))
		}
		stmt = stmt.WHERE(table.Matches.ID.IN(
			sqlite.SELECT(table.Teams.MatchID).
				FROM(table.Teams.INNER_JOIN(table.TeamPlayers, table.TeamPlayers.TeamID.EQ(table.Teams.ID))).
				WHERE(table.TeamPlayers.PlayerID.IN(ids...)),
		))
	}
	var dest []model.Matches
	err := stmt.
		ORDER_BY(table.Matches.CreatedAt.DESC(), table.Matches.ID.DESC()).
		QueryContext(ctx, s.conn(ctx), &dest)
	if err != nil {
		return nil, mapError(err)
	}
	return s.withTeams(ctx, dest)
}

// withTeams loads teams and rosters for the given match rows, preserving their order.
func (s *Storage) withTeams(ctx context.Context, rows []model.Matches) ([]domain.Match, error) {
	if len(rows) == 0 {
		return []domain.Match{}, nil
	}
	matchIDs := make([]sqlite.Expression, 0, len(rows))
	for _, m := range rows {
		matchIDs = append(matchIDs, sqlite.Int(int64(m.ID)))
	}
	var teams []model.Teams
	err := table.Teams.
		SELECT(table.Teams.AllColumns).
		WHERE(table.Teams.MatchID.IN(matchIDs...)).
		ORDER_BY(table.Teams.MatchID.ASC(), table.Teams.Position.ASC()).
		QueryContext(ctx, s.conn(ctx), &teams)
	if err != nil {
		return nil, mapError(err)
	}

	players, err := s.rosters(ctx, teams)
	if err != nil {
		return nil, err
	}

	byMatch := make(map[int32][]model.Teams, len(rows))
	for _, t := range teams {
		byMatch[t.MatchID] = append(byMatch[t.MatchID], t)
	}
	converted := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		match, err := convertMatchToDomain(row)
		if err != nil {
			return nil, err
		}
		for _, t := range byMatch[row.ID] {
			team := domain.Team{
				Name:    t.Name,
				Goals:   int(t.Goals),
				Players: players[t.ID],
			}
			if team.Players == nil {
				team.Players = []domain.Player{}
			}
			switch domain.TeamSide(t.Position) {
			case domain.Team1:
				match.Team1 = team
			case domain.Team2:
				match.Team2 = team
			}
		}
		converted = append(converted, match)
	}
	return converted, nil
}

// rosters returns the ordered players of every team, keyed by team id.
func (s *Storage) rosters(ctx context.Context, teams []model.Teams) (map[int32][]domain.Player, error) {
	result := make(map[int32][]domain.Player, len(teams))
	if len(teams) == 0 {
		return result, nil
	}
	teamIDs := make([]sqlite.Expression, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, sqlite.Int(int64(t.ID)))
	}
	var entries []model.TeamPlayers
	err := table.TeamPlayers.
		SELECT(table.TeamPlayers.AllColumns).
		WHERE(table.TeamPlayers.TeamID.IN(teamIDs...)).
		ORDER_BY(table.TeamPlayers.TeamID.ASC(), table.TeamPlayers.Position.ASC()).
		QueryContext(ctx, s.conn(ctx), &entries)
	if err != nil {
		return nil, mapError(err)
	}
	if len(entries) == 0 {
		return result, nil
	}

	playerIDs := mapset.NewSet[string]()
	for _, e := range entries {
		playerIDs.Add(e.PlayerID)
	}
	ids := make([]sqlite.Expression, 0, playerIDs.Cardinality())
	for _, id := range playerIDs.ToSlice() {
		ids = append(ids, sqlite.String(id))
	}
	var dbPlayers []model.Players
	err = table.Players.
		SELECT(table.Players.AllColumns).
		WHERE(table.Players.ID.IN(ids...)).
		QueryContext(ctx, s.conn(ctx), &dbPlayers)
	if err != nil {
		return nil, mapError(err)
	}
	byID := make(map[string]domain.Player, len(dbPlayers))
	for _, p := range dbPlayers {
		player, err := convertPlayerToDomain(p)
		if err != nil {
			return nil, err
		}
		byID[p.ID] = player
	}
	for _, e := range entries {
		result[e.TeamID] = append(result[e.TeamID], byID[e.PlayerID])
	}
	return result, nil
}

func (s *Storage) UpdateMatchFields(ctx context.Context, id int64, fields domain.MatchFields) (domain.Match, error) {
	var (
		columns sqlite.ColumnList
		row     model.Matches
	)
	if fields.Name != nil {
		columns = append(columns, table.Matches.Name)
		row.Name = *fields.Name
	}
	if fields.Date != nil {
		columns = append(columns, table.Matches.PlayedAt)
		row.PlayedAt = *fields.Date
	}
	if fields.Result != nil {
		columns = append(columns, table.Matches.Result)
		row.Result = string(*fields.Result)
	}
	if fields.Rating != nil {
		columns = append(columns, table.Matches.Rating)
		row.Rating = *fields.Rating
	}
	if len(columns) == 0 {
		return s.GetMatch(ctx, id)
	}

	res, err := table.Matches.
		UPDATE(columns).
		MODEL(row).
		WHERE(table.Matches.ID.EQ(sqlite.Int(id))).
		ExecContext(ctx, s.conn(ctx))
	if err != nil {
		return domain.Match{}, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Match{}, err
	}
	if n == 0 {
		return domain.Match{}, storage.ErrNotFound
	}
	return s.GetMatch(ctx, id)
}

// DeleteMatch removes the match. Teams, rosters and ratings go with it through ON DELETE CASCADE.
func (s *Storage) DeleteMatch(ctx context.Context, id int64) (bool, error) {
	res, err := table.Matches.
		DELETE().
		WHERE(table.Matches.ID.EQ(sqlite.Int(id))).
		ExecContext(ctx, s.conn(ctx))
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
