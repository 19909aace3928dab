package web

import (
	"errors"

	"github.com/goserg/matchrating/internal/domain"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/web/webpath"
)

type data struct {
	Title  string
	Path   map[string]string
	Viewer service.Viewer
	Errors []string
	Data   map[string]any
}

func newData(title string) data {
	return data{
		Title: title,
		Path:  webpath.Path(),
		Data:  make(map[string]any),
	}
}

func (m data) WithViewer(viewer service.Viewer) data {
	m.Viewer = viewer
	return m
}

// WithMatch exposes the match as "Match" and titles the page after it unless a title is set.
func (m data) WithMatch(d service.MatchDetails) data {
	if m.Title == "" {
		m.Title = d.Match.Name
	}
	return m.With("Match", toMatchView(d))
}

// WithMatches exposes the list as "Matches" and, as "Own", how many of them the viewer played in.
// Set the viewer first.
func (m data) WithMatches(list []service.MatchDetails) data {
	views := make([]matchView, 0, len(list))
	own := 0
	for _, d := range list {
		views = append(views, toMatchView(d))
		if plays(m.Viewer, d.Match) {
			own++
		}
	}
	return m.With("Matches", views).With("Own", own)
}

func plays(viewer service.Viewer, match domain.Match) bool {
	if !viewer.Known() {
		return false
	}
	for _, p := range match.Roster() {
		if viewer.Players.Contains(p.ID) {
			return true
		}
	}
	return false
}

func (m data) With(key string, value any) data {
	if m.Data == nil {
		m.Data = make(map[string]any)
	}
	m.Data[key] = value
	return m
}

type multierr interface {
	Unwrap() []error
}

func unwrap(err error) []error {
	var merr multierr
	if errors.As(err, &merr) {
		var errs []error
		for _, err := range merr.Unwrap() {
			errs = append(errs, unwrap(err)...)
		}
		return errs
	}
	return []error{err}
}

// WithErrors lists joined errors one by one, and field errors as "field: message".
func (m data) WithErrors(err error) data {
	if fields := service.FieldErrors(err); len(fields) > 0 {
		for _, fe := range fields {
			m.Errors = append(m.Errors, fe.Field+": "+fe.Message)
		}
		return m
	}
	for _, err := range unwrap(err) {
		m.Errors = append(m.Errors, err.Error())
	}
	return m
}
