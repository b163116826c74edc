package model

// Action is a quick action offered on an order list page.
// Actions without a target status (track) edit the order without moving it.
type Action struct {
	Name   string `json:"name"`
	Target Status `json:"target,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionShip     = "ship"
	ActionCancel   = "cancel"
	ActionComplete = "complete"
	ActionTrack    = "track"
	ActionDelete   = "delete"
)

var actions = map[string]Action{
	ActionApprove:  {Name: ActionApprove, Target: StatusProcessing, Notes: "Pesanan dikonfirmasi"},
	ActionReject:   {Name: ActionReject, Target: StatusCancelled, Notes: "Pesanan ditolak"},
	ActionShip:     {Name: ActionShip, Target: StatusShipped, Notes: "Pesanan dikirim"},
	ActionCancel:   {Name: ActionCancel, Target: StatusCancelled, Notes: "Pesanan dibatalkan"},
	ActionComplete: {Name: ActionComplete, Target: StatusDelivered, Notes: "Pesanan selesai"},
	ActionTrack:    {Name: ActionTrack},
	ActionDelete:   {Name: ActionDelete},
}

// Page vocabularies: each status list only offers the actions that make sense for it.
var pageActions = map[Status][]string{
	StatusPending:    {ActionApprove, ActionReject},
	StatusProcessing: {ActionShip, ActionCancel},
	StatusShipped:    {ActionComplete, ActionTrack},
	StatusCancelled:  {ActionDelete},
}

func LookupAction(name string) (Action, bool) {
	a, ok := actions[name]
	return a, ok
}

// Transitional reports whether the action moves the order to another status.
func (a Action) Transitional() bool {
	return a.Target != ""
}

func PageActions(s Status) []string {
	return pageActions[s]
}

// Bulk order actions and the quick action each one applies per order.
const (
	BulkApproveAll       = "approve_all"
	BulkRejectAll        = "reject_all"
	BulkShipAll          = "ship_all"
	BulkCancelAll        = "cancel_all"
	BulkCompleteAll      = "complete_all"
	BulkUpdateStatus     = "update_status"
	BulkDelete           = "delete"
	BulkGenerateInvoices = "generate_invoices"
	BulkExport           = "export"
)

var bulkQuickActions = map[string]string{
	BulkApproveAll:  ActionApprove,
	BulkRejectAll:   ActionReject,
	BulkShipAll:     ActionShip,
	BulkCancelAll:   ActionCancel,
	BulkCompleteAll: ActionComplete,
}

// BulkQuickAction returns the per-order quick action behind a bulk status action.
func BulkQuickAction(bulk string) (Action, bool) {
	name, ok := bulkQuickActions[bulk]
	if !ok {
		return Action{}, false
	}
	return LookupAction(name)
}

func KnownBulkAction(name string) bool {
	if _, ok := bulkQuickActions[name]; ok {
		return true
	}
	switch name {
	case BulkUpdateStatus, BulkDelete, BulkGenerateInvoices, BulkExport:
		return true
	}
	return false
}

// Bulk user actions
const (
	UserBulkActivate   = "activate"
	UserBulkDeactivate = "deactivate"
	UserBulkDelete     = "delete"
	UserBulkExport     = "export"
)

func KnownUserBulkAction(name string) bool {
	switch name {
	case UserBulkActivate, UserBulkDeactivate, UserBulkDelete, UserBulkExport:
		return true
	}
	return false
}
