package domain

// Action is one of the fixed vocabulary of operations a permission can
// grant on a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionReview  Action = "review"
	ActionApprove Action = "approve"
	ActionPublish Action = "publish"
)

// actions holds the full vocabulary for validation.
var actions = map[Action]struct{}{
	ActionCreate:  {},
	ActionRead:    {},
	ActionUpdate:  {},
	ActionDelete:  {},
	ActionReview:  {},
	ActionApprove: {},
	ActionPublish: {},
}

// IsValid checks if the action is part of the fixed vocabulary.
func (a Action) IsValid() bool {
	_, ok := actions[a]
	return ok
}

// AllActions returns the complete action vocabulary.
func AllActions() []Action {
	return []Action{
		ActionCreate,
		ActionRead,
		ActionUpdate,
		ActionDelete,
		ActionReview,
		ActionApprove,
		ActionPublish,
	}
}
