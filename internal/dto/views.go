package dto

import "grocery-admin/internal/model"

// OrderView is an order as rendered on a list or detail page: the stored order plus
// the badge and the quick actions the page may offer for it.
type OrderView struct {
	*model.Order
	Badge     model.StatusBadge `json:"badge"`
	Actions   []string          `json:"actions"`
	Deletable bool              `json:"deletable"`
}

func NewOrderView(o *model.Order) OrderView {
	actions := model.PageActions(o.Status)
	if actions == nil {
		actions = []string{}
	}
	return OrderView{
		Order:     o,
		Badge:     model.Badge(o.Status),
		Actions:   actions,
		Deletable: o.Deletable(),
	}
}

func NewOrderViews(orders []*model.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderView(o))
	}
	return out
}

// UserView carries the read-only aggregates next to the user record.
type UserView struct {
	*model.User
	model.CustomerStats
}

// TransitionTable is published to clients so both sides check the same rules.
type TransitionTable struct {
	Statuses    []model.Status                     `json:"statuses"`
	Transitions map[model.Status][]model.Status    `json:"transitions"`
	Actions     map[model.Status][]string          `json:"actions"`
	Badges      map[model.Status]model.StatusBadge `json:"badges"`
}

func NewTransitionTable() TransitionTable {
	t := TransitionTable{
		Statuses:    model.Statuses,
		Transitions: model.Transitions,
		Actions:     map[model.Status][]string{},
		Badges:      map[model.Status]model.StatusBadge{},
	}
	for _, s := range model.Statuses {
		if a := model.PageActions(s); a != nil {
			t.Actions[s] = a
		}
		t.Badges[s] = model.Badge(s)
	}
	return t
}
