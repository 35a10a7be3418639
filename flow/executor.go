// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flow

import (
	"context"
	"fmt"

	"github.com/hello-adam-martin/flowlang/shared/logger"
)

// Result is the top-level outcome of a run (§6).
type Result struct {
	Success bool                   `json:"success"`
	Outputs map[string]interface{} `json:"outputs,omitempty"`
	Error   *ErrorInfo             `json:"error,omitempty"`
}

// Executor runs flow definitions against a task registry. It holds no
// per-run state itself — every run gets its own FlowContext — so one
// Executor is safe to reuse and share across concurrent runs.
type Executor struct {
	registry *TaskRegistry
	log      *logger.Logger
}

// NewExecutor builds an Executor bound to a task registry.
func NewExecutor(registry *TaskRegistry) *Executor {
	return &Executor{registry: registry, log: logger.New("flow-executor")}
}

// Execute runs def to completion against inputs, returning the
// collected outputs or the first unrecovered error, per §4.1-§4.3 and
// §5. connections may be nil for flows that reference none.
func (e *Executor) Execute(ctx context.Context, def *FlowDefinition, inputs map[string]interface{}, connections ConnectionAccessor, metadata map[string]interface{}) Result {
	if err := Validate(def); err != nil {
		return Result{Success: false, Error: errorEnvelope(err)}
	}

	resolvedInputs, err := bindInputs(def, inputs)
	if err != nil {
		return Result{Success: false, Error: errorEnvelope(err)}
	}

	fctx := NewFlowContext(resolvedInputs, connections, metadata)
	clientID, requestID := metadataIDs(metadata)

	e.log.Info(clientID, requestID, "flow run started", map[string]interface{}{"flow": def.Name})

	runErr := e.runSteps(ctx, fctx, def.Steps)

	if runErr != nil {
		if _, exited := runErr.(*ExitRequested); exited {
			// Clean early termination: fall through to collect outputs.
		} else {
			e.log.Error(clientID, requestID, "flow run failed", map[string]interface{}{"flow": def.Name, "error": runErr.Error()})
			return Result{Success: false, Error: errorEnvelope(runErr)}
		}
	}

	outputs, err := collectOutputs(def, fctx)
	if err != nil {
		return Result{Success: false, Error: errorEnvelope(err)}
	}

	e.log.Info(clientID, requestID, "flow run completed", map[string]interface{}{"flow": def.Name})
	return Result{Success: true, Outputs: outputs}
}

// metadataIDs pulls the conventional client_id/request_id keys out of a
// run's opaque metadata for log correlation, if present.
func metadataIDs(metadata map[string]interface{}) (clientID, requestID string) {
	if metadata == nil {
		return "", ""
	}
	if v, ok := metadata["client_id"].(string); ok {
		clientID = v
	}
	if v, ok := metadata["request_id"].(string); ok {
		requestID = v
	}
	return clientID, requestID
}

// bindInputs validates supplied inputs against the declarations: fills
// in defaults, rejects missing required inputs.
func bindInputs(def *FlowDefinition, inputs map[string]interface{}) (map[string]Value, error) {
	out := make(map[string]Value, len(inputs))
	for k, v := range inputs {
		out[k] = Normalize(v)
	}
	for _, decl := range def.Inputs {
		if _, ok := out[decl.Name]; ok {
			continue
		}
		if decl.Default != nil {
			out[decl.Name] = Normalize(decl.Default)
			continue
		}
		if decl.Required {
			return nil, &InputError{Field: decl.Name, Message: "missing required input"}
		}
	}
	return out, nil
}

// collectOutputs resolves every declared output expression against the
// final context. A missing-path failure during output collection is
// itself a run failure (§9 open question, resolved: outputs are part of
// the contract, so a dangling reference is as fatal as a failed step).
func collectOutputs(def *FlowDefinition, fctx *FlowContext) (map[string]interface{}, error) {
	if len(def.Outputs) == 0 {
		return nil, nil
	}
	out := make(map[string]interface{}, len(def.Outputs))
	for _, decl := range def.Outputs {
		v, err := Resolve(decl.Value, fctx)
		if err != nil {
			return nil, err
		}
		out[decl.Name] = v
	}
	return out, nil
}

// runSteps executes a sequence in order, stopping at the first error
// (including ExitRequested, which propagates up to terminate the whole
// run rather than just the enclosing sequence).
func (e *Executor) runSteps(ctx context.Context, fctx *FlowContext, steps []Step) error {
	for _, s := range steps {
		if fctx.Cancelled() {
			return &Cancelled{}
		}
		if err := e.runStep(ctx, fctx, s); err != nil {
			return err
		}
	}
	return nil
}

// runStep dispatches a single step by kind (§3, §4).
func (e *Executor) runStep(ctx context.Context, fctx *FlowContext, s Step) error {
	if fctx.Cancelled() {
		return &Cancelled{}
	}

	switch s.Kind {
	case StepTask:
		return e.runTask(ctx, fctx, s)
	case StepParallel:
		return e.runParallel(ctx, fctx, s)
	case StepConditional:
		return e.runConditional(ctx, fctx, s)
	case StepSwitch:
		return e.runSwitch(ctx, fctx, s)
	case StepLoop:
		return e.runLoop(ctx, fctx, s)
	case StepExit:
		return e.runExit(ctx, fctx, s)
	default:
		return &DefinitionError{Message: fmt.Sprintf("unknown step kind %q", s.Kind)}
	}
}

// runTask resolves a task step's inputs, looks up its handler, invokes
// it under the step's retry policy, and records its output (§4.6,
// §4.7). A handler failure that exhausts retries runs the step's
// on_error sequence, if any, rather than failing the whole run.
func (e *Executor) runTask(ctx context.Context, fctx *FlowContext, s Step) error {
	desc, err := e.registry.Lookup(s.Task)
	if err != nil {
		return err
	}

	resolved, err := Resolve(s.TaskInputs, fctx)
	if err != nil {
		return err
	}
	resolvedMap, _ := resolved.(map[string]interface{})
	if resolvedMap == nil {
		resolvedMap = map[string]interface{}{}
	}

	// A task declares at most one connection parameter (§4.7/§9): the
	// executor binds the step's resolved connection under that param's
	// own declared name, not a fixed key, so the handler reads it the
	// same way it reads any other input.
	connParam := ""
	for _, p := range desc.Params {
		if p.IsConnection {
			connParam = p.Name
			break
		}
	}

	if s.Connection != "" {
		if connParam == "" {
			return &DefinitionError{Message: fmt.Sprintf("task '%s' declares no connection parameter but step '%s' sets connection: '%s'", s.Task, s.ID, s.Connection)}
		}
		if fctx.Connections() == nil {
			return &InputError{Field: s.Connection, Message: "step references a connection but none were configured for this run"}
		}
		conn, err := fctx.Connections().Get(s.Connection)
		if err != nil {
			return &InputError{Field: s.Connection, Message: "connection not available", Cause: err}
		}
		resolvedMap[connParam] = conn
	}

	if err := desc.ValidateInputs(resolvedMap); err != nil {
		return err
	}

	out, err := runWithRetry(ctx, fctx, s.Retry, func() (map[string]interface{}, error) {
		return desc.Handler(ctx, fctx, resolvedMap)
	})

	if err != nil {
		handlerErr := &HandlerError{StepID: s.ID, Message: err.Error(), Cause: err}
		fctx.SetLastError(errorEnvelope(handlerErr))

		if len(s.OnError) > 0 {
			clientID, requestID := metadataIDs(fctx.Metadata)
			e.log.Warn(clientID, requestID, "task failed, running on_error", map[string]interface{}{"step": s.ID, "task": s.Task, "error": err.Error()})
			return e.runSteps(ctx, fctx, s.OnError)
		}
		return handlerErr
	}

	if out != nil {
		fctx.SetOutput(s.ID, map[string]interface{}(out))
	} else {
		fctx.SetOutput(s.ID, map[string]interface{}{})
	}
	return nil
}

// runParallel fans out every child step on its own goroutine (§4.2).
// Sibling ids are guaranteed unique by validator.go, so output writes
// never race on a single id. Each child gets its own forked FlowContext
// (see FlowContext.Fork) so a nested `for_each` inside one branch can't
// race with a sibling's scope stack. As soon as any child's result
// comes back with an error, the shared child context is cancelled and
// fctx itself is marked cancelled — both the context deadline (checked
// between retry attempts and during backoff sleeps) and the cooperative
// flag (checked before every step and loop iteration) reach the
// still-running siblings immediately, rather than only after they've
// all already finished.
func (e *Executor) runParallel(ctx context.Context, fctx *FlowContext, s Step) error {
	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		err error
	}
	results := make(chan outcome, len(s.Parallel))

	for _, child := range s.Parallel {
		go func(child Step) {
			results <- outcome{err: e.runStep(childCtx, fctx.Fork(), child)}
		}(child)
	}

	var firstErr error
	for range s.Parallel {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
			cancel()
			fctx.Cancel()
		}
	}
	return firstErr
}

// runConditional evaluates the `if` expression and runs `then` or
// `else` accordingly (§4.4).
func (e *Executor) runConditional(ctx context.Context, fctx *FlowContext, s Step) error {
	cond, err := EvalCondition(s.If, fctx)
	if err != nil {
		return err
	}
	if cond {
		return e.runSteps(ctx, fctx, s.Then)
	}
	return e.runSteps(ctx, fctx, s.Else)
}

// runSwitch evaluates the `switch` expression and runs the first
// matching case's `do` sequence, falling back to `default` (§4.4).
func (e *Executor) runSwitch(ctx context.Context, fctx *FlowContext, s Step) error {
	v, err := EvalExpr(s.Switch, fctx)
	if err != nil {
		return err
	}
	for _, c := range s.Cases {
		caseVal, err := EvalExpr(c.Case, fctx)
		if err != nil {
			return err
		}
		if DeepEqual(v, caseVal) {
			return e.runSteps(ctx, fctx, c.Do)
		}
	}
	return e.runSteps(ctx, fctx, s.Default)
}

// runLoop resolves the `for_each` collection and runs `do` once per
// element, binding it under `as` (default "item") in a fresh scope
// frame per iteration (§4.5).
func (e *Executor) runLoop(ctx context.Context, fctx *FlowContext, s Step) error {
	v, err := Resolve(s.ForEach, fctx)
	if err != nil {
		return err
	}
	items, ok := v.([]interface{})
	if !ok {
		return &InputError{Field: "for_each", Message: "for_each expression did not resolve to a sequence"}
	}

	for _, item := range items {
		if fctx.Cancelled() {
			return &Cancelled{}
		}
		fctx.PushScope(s.As, item)
		err := e.runSteps(ctx, fctx, s.Do)
		fctx.PopScope()
		if err != nil {
			return err
		}
	}
	return nil
}

// runExit evaluates the optional `when` guard (exit always, unless a
// guard is present and false) and, if it fires, signals ExitRequested
// to unwind the whole run cleanly (§4's exit step).
func (e *Executor) runExit(ctx context.Context, fctx *FlowContext, s Step) error {
	if s.When != nil {
		cond, err := EvalCondition(s.When, fctx)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
	}
	return &ExitRequested{}
}
