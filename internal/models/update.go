package models

import "encoding/json"

// UpdateStatus homogenizes the response payload variants returned by
// the controller for update calls. Policy updates return a list;
// master template updates return an object with a "data" key; other
// template updates return a bare object.
type UpdateStatus struct {
	IsPolicy bool
	IsMaster bool
	Data     any
}

// NewUpdateStatus wraps an update response payload.
func NewUpdateStatus(doc any) *UpdateStatus {
	_, isPolicy := doc.([]any)

	data := doc
	isMaster := false
	if obj, ok := doc.(map[string]any); ok {
		if inner, ok := obj["data"]; ok {
			isMaster = true
			data = inner
		}
	}
	return &UpdateStatus{IsPolicy: isPolicy, IsMaster: isMaster, Data: data}
}

// NeedReattach reports whether the update left device templates that
// must be reattached.
func (u *UpdateStatus) NeedReattach() bool {
	if u.IsPolicy {
		return false
	}
	obj, ok := u.Data.(map[string]any)
	if !ok {
		return false
	}
	_, found := obj["processId"]
	return found
}

// NeedReactivate reports whether the update left policies that must be
// reactivated.
func (u *UpdateStatus) NeedReactivate() bool {
	if !u.IsPolicy {
		return false
	}
	list, ok := u.Data.([]any)
	return ok && len(list) > 0
}

// TemplatesAffected lists the master template ids affected by the
// update, if the controller reported any.
func (u *UpdateStatus) TemplatesAffected() []string {
	obj, ok := u.Data.(map[string]any)
	if !ok {
		return nil
	}
	list, ok := obj["masterTemplatesAffected"].([]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, elem := range list {
		if id, ok := elem.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// String renders the homogenized payload as indented JSON.
func (u *UpdateStatus) String() string {
	out, err := json.MarshalIndent(u.Data, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
