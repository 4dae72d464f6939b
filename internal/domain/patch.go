package domain

import "time"

// TodoPatch is a partial update of a todo item. A nil field means "leave the
// stored value unchanged". The item ID and creation time are never patched.
//
// DueDate cannot express "remove the due date" through nil, so ClearDueDate
// does that explicitly; it wins over DueDate when both are set.
type TodoPatch struct {
	Title        *string
	Description  *string
	IsCompleted  *bool
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *Priority
	Category     *string
}

// IsEmpty reports whether the patch would change nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.IsCompleted == nil &&
		p.DueDate == nil &&
		!p.ClearDueDate &&
		p.Priority == nil &&
		p.Category == nil
}

// Apply merges the patch into item field by field. now is used to stamp
// CompletedAt when the patch completes the item.
func (p TodoPatch) Apply(item *TodoItem, now time.Time) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.ClearDueDate {
		item.DueDate = nil
	} else if p.DueDate != nil {
		item.DueDate = utcPtr(p.DueDate)
	}
	if p.Priority != nil {
		item.Priority = *p.Priority
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.IsCompleted != nil {
		item.SetCompleted(*p.IsCompleted, now)
	}
}
