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
	"sort"
	"sync"
)

// ParamSpec describes one parameter a task handler accepts. Handlers
// declare their parameters explicitly at registration time rather than
// via reflection, so a flow document can be validated against a
// handler's signature before it ever runs (§4.7).
type ParamSpec struct {
	Name         string
	Required     bool
	IsConnection bool
}

// Handler is a task implementation. inputs holds the step's resolved
// `inputs:` map; ctx gives access to the run's connections, scope, and
// cancellation state.
type Handler func(ctx context.Context, fctx *FlowContext, inputs map[string]interface{}) (map[string]interface{}, error)

// TaskDescriptor is the registered shape of one task: its handler plus
// the metadata the executor and validator consult before invoking it.
type TaskDescriptor struct {
	Name        string
	Description string
	Params      []ParamSpec
	Implemented bool
	IsAsync     bool
	Handler     Handler
}

// TaskRegistry binds task names to their descriptors. A flow step names
// a task; the executor looks it up here rather than dispatching via
// reflection.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]TaskDescriptor
}

// NewTaskRegistry returns an empty registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]TaskDescriptor)}
}

// Register binds a task descriptor under its own Name. A later call
// with the same name replaces the earlier registration.
func (r *TaskRegistry) Register(d TaskDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[d.Name] = d
}

// RegisterStub registers a named task with no handler, marked
// unimplemented. Steps referencing it fail with TaskNotImplementedError
// rather than TaskNotFoundError, distinguishing "known but not yet
// built" from "unknown name" (§4.7).
func (r *TaskRegistry) RegisterStub(name, description string, params []ParamSpec) {
	r.Register(TaskDescriptor{
		Name:        name,
		Description: description,
		Params:      params,
		Implemented: false,
	})
}

// Lookup resolves a task name to its descriptor, distinguishing unknown
// names from known-but-unimplemented ones.
func (r *TaskRegistry) Lookup(name string) (TaskDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tasks[name]
	if !ok {
		return TaskDescriptor{}, &TaskNotFoundError{TaskName: name}
	}
	if !d.Implemented {
		return TaskDescriptor{}, &TaskNotImplementedError{TaskName: name}
	}
	return d, nil
}

// Describe returns a task's descriptor without the implemented check,
// used by `flowctl tasks list` and the validator to report parameter
// shape even for stubs.
func (r *TaskRegistry) Describe(name string) (TaskDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tasks[name]
	return d, ok
}

// List returns every registered task name in sorted order.
func (r *TaskRegistry) List() []TaskDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TaskDescriptor, 0, len(r.tasks))
	for _, d := range r.tasks {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateInputs checks a step's resolved inputs against a descriptor's
// parameter list (§4.3): every required parameter — including a
// required connection parameter — must be present, and every key in
// inputs must be one the task declares. The executor binds a step's
// resolved connection into inputs under the connection parameter's own
// name before calling this, so a required connection param that the
// step never wired shows up here exactly like any other missing
// required input.
func (d TaskDescriptor) ValidateInputs(inputs map[string]interface{}) error {
	declared := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		declared[p.Name] = true
		if !p.Required {
			continue
		}
		if _, ok := inputs[p.Name]; !ok {
			return &InputError{Field: p.Name, Message: "missing required input for task '" + d.Name + "'"}
		}
	}
	for k := range inputs {
		if !declared[k] {
			return &InputError{Field: k, Message: "unexpected input '" + k + "' not declared by task '" + d.Name + "'"}
		}
	}
	return nil
}
