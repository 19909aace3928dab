package tgbot

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// subscriptions mirrors the stored subscribers so announcements need no query.
type subscriptions struct {
	chats mapset.Set[int64]
}

func newSubs(chatIDs ...int64) subscriptions {
	return subscriptions{
		chats: mapset.NewSet(chatIDs...),
	}
}

func (s subscriptions) Add(chatID int64) {
	s.chats.Add(chatID)
}

func (s subscriptions) Remove(chatID int64) {
	s.chats.Remove(chatID)
}

func (s subscriptions) ChatIDs() []int64 {
	ids := s.chats.ToSlice()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
