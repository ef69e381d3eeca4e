package tasks

// Call is a typed invocation of one operation. The set of implementations is
// closed: CreateCall, ListCall, CompleteCall, DeleteCall and UpdateCall.
type Call interface {
	Operation() Operation
	// Arguments renders the call as the argument map recorded in tool call
	// logs. The caller adds user_id.
	Arguments() map[string]any
}

type CreateCall struct {
	Title       string
	Description string
}

func (CreateCall) Operation() Operation { return OpCreate }

func (c CreateCall) Arguments() map[string]any {
	args := map[string]any{"title": c.Title}
	if c.Description != "" {
		args["description"] = c.Description
	}
	return args
}

type ListCall struct {
	Status StatusFilter
}

func (ListCall) Operation() Operation { return OpList }

func (c ListCall) Arguments() map[string]any {
	status := c.Status
	if status == "" {
		status = StatusAll
	}
	return map[string]any{"status": string(status)}
}

type CompleteCall struct {
	TaskID int64
}

func (CompleteCall) Operation() Operation { return OpComplete }

func (c CompleteCall) Arguments() map[string]any {
	return map[string]any{"task_id": c.TaskID}
}

type DeleteCall struct {
	TaskID int64
}

func (DeleteCall) Operation() Operation { return OpDelete }

func (c DeleteCall) Arguments() map[string]any {
	return map[string]any{"task_id": c.TaskID}
}

// UpdateCall changes the title and/or description. A nil field is left
// untouched.
type UpdateCall struct {
	TaskID      int64
	Title       *string
	Description *string
}

func (UpdateCall) Operation() Operation { return OpUpdate }

func (c UpdateCall) Arguments() map[string]any {
	args := map[string]any{"task_id": c.TaskID}
	if c.Title != nil {
		args["title"] = *c.Title
	}
	if c.Description != nil {
		args["description"] = *c.Description
	}
	return args
}
