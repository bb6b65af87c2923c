package core

import "time"

// FilePatch names the fields of a ProcessedFile to change.
// A nil field is left untouched.
type FilePatch struct {
	Name      *string     `json:"name,omitempty"`
	Content   *string     `json:"content,omitempty"`
	Topics    *[]string   `json:"topics,omitempty"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
	Status    *FileStatus `json:"status,omitempty"`
	Type      *string     `json:"type,omitempty"`
	Size      *int64      `json:"size,omitempty" validate:"omitempty,gte=0"`
}

// Apply returns f with the patched fields replaced.
func (p FilePatch) Apply(f ProcessedFile) ProcessedFile {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Content != nil {
		f.Content = *p.Content
	}
	if p.Topics != nil {
		f.Topics = append([]string(nil), (*p.Topics)...)
	}
	if p.Timestamp != nil {
		f.Timestamp = *p.Timestamp
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Size != nil {
		f.Size = *p.Size
	}
	return f
}

// TopicPatch names the fields of a Topic to change.
type TopicPatch struct {
	Name     *string   `json:"name,omitempty"`
	Keywords *[]string `json:"keywords,omitempty"`
	Color    *string   `json:"color,omitempty"`
}

// Apply returns t with the patched fields replaced.
func (p TopicPatch) Apply(t Topic) Topic {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Keywords != nil {
		t.Keywords = append([]string(nil), (*p.Keywords)...)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	return t
}

// BehaviorRulePatch names the fields of a BehaviorRule to change.
// Toggling a rule is a patch carrying only Enabled.
type BehaviorRulePatch struct {
	Name      *string `json:"name,omitempty"`
	Condition *string `json:"condition,omitempty"`
	Action    *string `json:"action,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// Apply returns r with the patched fields replaced.
func (p BehaviorRulePatch) Apply(r BehaviorRule) BehaviorRule {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Condition != nil {
		r.Condition = *p.Condition
	}
	if p.Action != nil {
		r.Action = *p.Action
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	return r
}

// ChatThreadPatch names the fields of a ChatThread to change.
type ChatThreadPatch struct {
	Name      *string    `json:"name,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Apply returns c with the patched fields replaced.
func (p ChatThreadPatch) Apply(c ChatThread) ChatThread {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.UpdatedAt != nil {
		c.UpdatedAt = *p.UpdatedAt
	}
	return c
}

// Ptr returns a pointer to v. It keeps patch literals short.
func Ptr[T any](v T) *T {
	return &v
}
