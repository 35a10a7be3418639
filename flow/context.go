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
	"sync"
	"sync/atomic"

	"github.com/hello-adam-martin/flowlang/connections/base"
)

// ConnectionAccessor is the capability §9 calls "connections as a
// capability": lookup by name, returning an opaque handle. FlowContext
// depends on this interface, never on a concrete connection manager, so
// the core stays free of backend types.
type ConnectionAccessor interface {
	Get(name string) (base.Connection, error)
}

// scopeFrame is one loop-variable binding layer, created per loop
// iteration (§3, §4.5).
type scopeFrame struct {
	name  string
	value Value
}

// runState is the state genuinely shared across every branch of a run,
// including concurrent `parallel` children: step outputs, the last
// handler error, cancellation, and the connection capability. It is
// guarded independently of the per-branch scope stack below.
type runState struct {
	outputs     map[string]Value
	outputsMu   sync.Mutex
	lastErrorMu sync.Mutex
	lastError   *ErrorInfo
	cancelled   int32
	connections ConnectionAccessor
}

// FlowContext is the per-run mutable state described in §3. It is
// created at the start of Execute, mutated only by the executor, and
// discarded when Execute returns. The scope stack is NOT part of the
// shared state: a `parallel` step gives each child its own FlowContext
// (see Fork) carrying an independent copy of the scope, since two
// sibling branches that each run a `for_each` must not observe or
// overwrite each other's loop-variable bindings.
type FlowContext struct {
	inputs map[string]Value
	shared *runState
	scope  []scopeFrame

	// Metadata is opaque, caller-supplied request/tenant context (e.g.
	// tenant id, request id). The resolver never interprets it; task
	// handlers may request it via a `metadata` parameter, and every log
	// line emitted during the run includes it. Grounded on the teacher's
	// per-request UserContext threaded through WorkflowExecution.
	Metadata map[string]interface{}
}

// NewFlowContext creates a FlowContext seeded with validated inputs.
func NewFlowContext(inputs map[string]Value, connections ConnectionAccessor, metadata map[string]interface{}) *FlowContext {
	return &FlowContext{
		inputs: inputs,
		shared: &runState{
			outputs:     make(map[string]Value),
			connections: connections,
		},
		scope:    nil,
		Metadata: metadata,
	}
}

// Fork returns a FlowContext for one `parallel` child branch: it shares
// this context's outputs, connections, cancellation flag, and last-error
// slot (a sibling failure must still be visible run-wide), but carries
// its own copy of the scope stack, so loop variables a branch pushes
// are invisible to its siblings and safe to mutate without locking.
func (c *FlowContext) Fork() *FlowContext {
	scopeCopy := make([]scopeFrame, len(c.scope))
	copy(scopeCopy, c.scope)
	return &FlowContext{
		inputs:   c.inputs,
		shared:   c.shared,
		scope:    scopeCopy,
		Metadata: c.Metadata,
	}
}

// Input returns a top-level input by name.
func (c *FlowContext) Input(name string) (Value, bool) {
	v, ok := c.inputs[name]
	return v, ok
}

// Output returns a recorded step output by id.
func (c *FlowContext) Output(id string) (Value, bool) {
	c.shared.outputsMu.Lock()
	defer c.shared.outputsMu.Unlock()
	v, ok := c.shared.outputs[id]
	return v, ok
}

// SetOutput records step id's result. Per §3, once written within a
// run a step's output is not removed; a repeated id (loop iterations)
// overwrites the prior value, and later readers see the most recent
// write (§4.5).
func (c *FlowContext) SetOutput(id string, value Value) {
	if id == "" {
		return
	}
	c.shared.outputsMu.Lock()
	defer c.shared.outputsMu.Unlock()
	c.shared.outputs[id] = value
}

// PushScope pushes a new loop-variable binding frame. Unlike outputs,
// the scope stack needs no lock: each `parallel` branch owns its own
// FlowContext (see Fork) with its own scope slice, so concurrent
// branches never touch the same underlying array.
func (c *FlowContext) PushScope(name string, value Value) {
	c.scope = append(c.scope, scopeFrame{name: name, value: value})
}

// PopScope pops the innermost loop-variable binding frame.
func (c *FlowContext) PopScope() {
	if len(c.scope) == 0 {
		return
	}
	c.scope = c.scope[:len(c.scope)-1]
}

// Scope looks up name in the scope stack, innermost frame first.
func (c *FlowContext) Scope(name string) (Value, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if c.scope[i].name == name {
			return c.scope[i].value, true
		}
	}
	return nil, false
}

// SetLastError records {kind, message} metadata derived from a handler
// failure, consulted as ${last_error.kind}/${last_error.message} from
// an on_error sequence (§4.6). Guarded the same way outputs is, since
// concurrent `parallel` children can fail at the same time.
func (c *FlowContext) SetLastError(info *ErrorInfo) {
	c.shared.lastErrorMu.Lock()
	defer c.shared.lastErrorMu.Unlock()
	c.shared.lastError = info
}

// LastError returns the most recently recorded handler failure, or nil
// if none has occurred yet in this run.
func (c *FlowContext) LastError() *ErrorInfo {
	c.shared.lastErrorMu.Lock()
	defer c.shared.lastErrorMu.Unlock()
	return c.shared.lastError
}

// Cancel requests cooperative termination (§5). Safe to call from any
// goroutine at any time.
func (c *FlowContext) Cancel() {
	atomic.StoreInt32(&c.shared.cancelled, 1)
}

// Cancelled reports whether Cancel has been called.
func (c *FlowContext) Cancelled() bool {
	return atomic.LoadInt32(&c.shared.cancelled) != 0
}

// Connections returns the connection capability this run was started
// with.
func (c *FlowContext) Connections() ConnectionAccessor {
	return c.shared.connections
}
