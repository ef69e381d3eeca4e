package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskchat/model"
	"taskchat/tasks"
)

const (
	DefaultHistoryLimit = 10
	DefaultListLimit    = 10
)

// Options tunes a Dispatcher. Zero values select the defaults.
type Options struct {
	HistoryLimit int
	ListLimit    int
}

// Dispatcher handles utterances. It keeps no per-request state, so Handle
// may be called concurrently.
type Dispatcher struct {
	ledger   Ledger
	toolbox  *tasks.Toolbox
	resolver *Resolver
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

func New(ledger Ledger, toolbox *tasks.Toolbox, resolver *Resolver, opts Options, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewResolver(nil, logger)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = DefaultListLimit
	}

	return &Dispatcher{
		ledger:   ledger,
		toolbox:  toolbox,
		resolver: resolver,
		opts:     opts,
		logger:   logger.Named("dispatch"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Handle resolves and executes one utterance. Tool failures, model failures
// and misbehaving model output all produce a normal Result; an error is
// returned only for an invalid request or a ledger failure.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (Result, error) {
	userID := strings.TrimSpace(req.UserID)
	text := strings.TrimSpace(req.Text)
	if userID == "" {
		return Result{}, &tasks.ValidationError{Field: tasks.UserIDField, Reason: "is required"}
	}
	if text == "" {
		return Result{}, &tasks.ValidationError{Field: "text", Reason: "is required"}
	}

	conv, err := d.ledger.EnsureConversation(ctx, userID, req.ConversationID, text)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open conversation: %w", err)
	}

	history, err := d.ledger.Recent(ctx, conv.ID, d.opts.HistoryLimit)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load history: %w", err)
	}

	if err := d.ledger.Append(ctx, conv.ID, model.Turn{Role: model.RoleUser, Content: text, Timestamp: d.now()}); err != nil {
		return Result{}, fmt.Errorf("failed to record user turn: %w", err)
	}

	res := d.act(ctx, userID, text, history)
	res.ConversationID = conv.ID

	assistant := model.Turn{
		Role:       model.RoleAssistant,
		Content:    res.Reply,
		ToolCalls:  res.ToolCalls,
		TaskDeltas: res.TaskDeltas,
		Timestamp:  d.now(),
	}
	if err := d.ledger.Append(ctx, conv.ID, assistant); err != nil {
		for _, call := range res.ToolCalls {
			if !call.Failed() && call.Name != tasks.OpList.String() {
				d.logger.Error("task changed but reply not recorded",
					zap.String("conversation_id", conv.ID),
					zap.String("operation", call.Name),
					zap.Any("arguments", call.Arguments),
					zap.Any("response", call.Response),
					zap.Error(err),
				)
			}
		}
		return Result{}, fmt.Errorf("failed to record assistant turn: %w", err)
	}

	d.logger.Debug("handled utterance",
		zap.String("conversation_id", conv.ID),
		zap.Int("tool_calls", len(res.ToolCalls)),
	)
	return res, nil
}

// act resolves the utterance and runs at most one tool. A panic anywhere in
// resolution or the tool degrades to the generic reply.
func (d *Dispatcher) act(ctx context.Context, userID, text string, history []model.Turn) (res Result) {
	res = Result{ToolCalls: []model.ToolCall{}, TaskDeltas: []model.TaskDelta{}}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("recovered panic while dispatching", zap.Any("panic", r), zap.Stack("stack"))
			res = Result{Reply: genericFailureReply, ToolCalls: []model.ToolCall{}, TaskDeltas: []model.TaskDelta{}}
		}
	}()

	outcome := d.resolver.Resolve(ctx, text, history)
	d.logger.Debug("resolved intent", zap.Stringer("kind", outcome.Kind), zap.String("source", string(outcome.Source)))

	if outcome.Kind != KindAction {
		res.Reply = outcome.Reply
		return res
	}

	if len(outcome.Calls) != 1 {
		d.logger.Warn("rejecting outcome", zap.Error(fmt.Errorf("%w: %d actions requested", ErrContractViolation, len(outcome.Calls))))
		res.Reply = oneAtATimeReply
		return res
	}

	call := outcome.Calls[0]
	if call == nil || !call.Operation().Valid() {
		d.logger.Warn("rejecting outcome", zap.Error(fmt.Errorf("%w: unknown operation", ErrContractViolation)))
		res.Reply = oneAtATimeReply
		return res
	}

	return d.invoke(ctx, userID, call, res)
}

func (d *Dispatcher) invoke(ctx context.Context, userID string, call tasks.Call, res Result) Result {
	op := call.Operation()

	args := call.Arguments()
	args[tasks.UserIDField] = userID
	record := model.ToolCall{Name: op.String(), Arguments: args}

	out, err := d.toolbox.Invoke(ctx, userID, call)
	if err != nil {
		if !errors.Is(err, tasks.ErrNotFound) && !tasks.IsValidation(err) {
			d.logger.Error("tool call failed", zap.Stringer("operation", op), zap.Error(err))
		}
		record.Error = errorClass(err)
		res.ToolCalls = append(res.ToolCalls, record)
		res.Reply = failureReply(call, err)
		return res
	}

	record.Response = out.Value()
	res.ToolCalls = append(res.ToolCalls, record)
	res.TaskDeltas = append(res.TaskDeltas, model.TaskDelta{Action: op.String(), Task: out.Task, Tasks: out.Tasks})
	res.Reply = successReply(call, out, d.opts.ListLimit)
	return res
}
