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

// Errors are represented as sentinel struct types implementing error and
// Unwrap() error, in the style of connections/base.ConnectionError.
// errors.As/errors.Is is the intended way to distinguish kinds; Kind()
// additionally exposes a string discriminant for the §6 result envelope.

// DefinitionError reports a structural problem in a flow document found
// at load/validate time, before any step runs.
type DefinitionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DefinitionError) Error() string {
	if e.Path != "" {
		return "definition error at " + e.Path + ": " + e.Message
	}
	return "definition error: " + e.Message
}
func (e *DefinitionError) Unwrap() error { return e.Cause }
func (e *DefinitionError) Kind() string  { return "DefinitionError" }

// InputError reports a missing required input, an unknown declared
// input type, or a mismatch between a step's inputs and its handler's
// parameters.
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Field != "" {
		return "input error (" + e.Field + "): " + e.Message
	}
	return "input error: " + e.Message
}
func (e *InputError) Unwrap() error { return e.Cause }
func (e *InputError) Kind() string  { return "InputError" }

// TaskNotFoundError reports a step referencing an unregistered task
// name.
type TaskNotFoundError struct {
	TaskName string
}

func (e *TaskNotFoundError) Error() string {
	return "task not found: " + e.TaskName
}
func (e *TaskNotFoundError) Kind() string { return "TaskNotFoundError" }

// TaskNotImplementedError reports a step referencing a task that is
// registered but marked unimplemented.
type TaskNotImplementedError struct {
	TaskName string
}

func (e *TaskNotImplementedError) Error() string {
	return "task not implemented: " + e.TaskName
}
func (e *TaskNotImplementedError) Kind() string { return "TaskNotImplementedError" }

// NullReferenceError reports an expression referencing a missing path.
type NullReferenceError struct {
	Path string
}

func (e *NullReferenceError) Error() string {
	return "null reference: " + e.Path
}
func (e *NullReferenceError) Kind() string { return "NullReference" }

// HandlerError wraps a task handler's own error after it has exhausted
// its retry budget (or immediately, if retry is not configured).
type HandlerError struct {
	StepID  string
	Message string
	Cause   error
}

func (e *HandlerError) Error() string {
	if e.StepID != "" {
		return "handler error in step '" + e.StepID + "': " + e.Message
	}
	return "handler error: " + e.Message
}
func (e *HandlerError) Unwrap() error { return e.Cause }
func (e *HandlerError) Kind() string  { return "HandlerError" }

// ExitRequested signals a clean, non-error early termination raised by
// an exit step.
type ExitRequested struct{}

func (e *ExitRequested) Error() string { return "exit requested" }
func (e *ExitRequested) Kind() string  { return "ExitRequested" }

// Cancelled reports that external cancellation was observed mid-run.
type Cancelled struct{}

func (e *Cancelled) Error() string { return "run cancelled" }
func (e *Cancelled) Kind() string  { return "Cancelled" }

// errKind is implemented by every flow error type above; used to build
// the {kind, message} envelope returned from Execute.
type errKind interface {
	error
	Kind() string
}

// errorEnvelope renders any error into the {kind, message} shape the
// §6 result envelope exposes. Errors that are not one of the flow
// sentinel types are reported under kind "HandlerError" — the executor
// only ever surfaces a bare error in that path.
func errorEnvelope(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	if ek, ok := err.(errKind); ok {
		return &ErrorInfo{Kind: ek.Kind(), Message: ek.Error()}
	}
	return &ErrorInfo{Kind: "HandlerError", Message: err.Error()}
}

// ErrorInfo is the {kind, message} shape carried in a failed Result.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
