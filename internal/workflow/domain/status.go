package domain

// Status is the lifecycle stage of a content document. The backend owns
// every transition; this service only reads the value to gate UI actions.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusInReview         Status = "in_review"
	StatusPendingApproval  Status = "pending_approval"
	StatusPendingPublish   Status = "pending_publish"
	StatusPublished        Status = "published"
	StatusChangesRequested Status = "changes_requested"
	StatusArchived         Status = "archived"
)

// IsValid checks if the status is a valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusPendingApproval, StatusPendingPublish,
		StatusPublished, StatusChangesRequested, StatusArchived:
		return true
	default:
		return false
	}
}

// Editable statuses allow free editing by permission holders and creators.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusChangesRequested
}

// Restricted statuses sit inside the review pipeline; changes require both
// permission and a reviewing role.
func (s Status) Restricted() bool {
	return s == StatusInReview || s == StatusPendingApproval || s == StatusPendingPublish
}

// ResourceType is the kind of content document being gated.
type ResourceType string

const (
	ResourcePage    ResourceType = "page"
	ResourceSection ResourceType = "section"
)

// IsValid checks if the resource type is a valid value.
func (rt ResourceType) IsValid() bool {
	return rt == ResourcePage || rt == ResourceSection
}

// PermissionSubject maps the resource type to the catalog slug its
// permissions are stored under.
func (rt ResourceType) PermissionSubject() string {
	switch rt {
	case ResourceSection:
		return "sections"
	default:
		return "pages"
	}
}

// GateAction is a UI-level operation on a content document.
type GateAction string

const (
	GateEdit          GateAction = "edit"
	GateDelete        GateAction = "delete"
	GateCreateSection GateAction = "createSection"
	GateModifyTree    GateAction = "modifyTree"
)

// IsValid checks if the gate action is a valid value.
func (a GateAction) IsValid() bool {
	switch a {
	case GateEdit, GateDelete, GateCreateSection, GateModifyTree:
		return true
	default:
		return false
	}
}
