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

import "fmt"

// Validate performs the structural, load-time checks described in §3
// and §4.3: known step kinds, required fields per kind, unique task
// ids among siblings (including within a single parallel block, where
// a duplicate id would otherwise alias concurrent writes).
func Validate(def *FlowDefinition) error {
	if def == nil {
		return &DefinitionError{Message: "flow definition is nil"}
	}
	if def.Name == "" {
		return &DefinitionError{Path: "name", Message: "flow name is required"}
	}

	for i, in := range def.Inputs {
		if in.Name == "" {
			return &DefinitionError{Path: fmt.Sprintf("inputs[%d]", i), Message: "input name is required"}
		}
	}
	for i, out := range def.Outputs {
		if out.Name == "" {
			return &DefinitionError{Path: fmt.Sprintf("outputs[%d]", i), Message: "output name is required"}
		}
	}

	if err := validateSteps(def.Steps, "steps"); err != nil {
		return err
	}
	return nil
}

// validateSteps validates one step sequence, including uniqueness of
// sibling task ids (§3: "Step id is unique among sibling task steps").
func validateSteps(steps []Step, path string) error {
	seen := make(map[string]bool)
	for i, s := range steps {
		p := fmt.Sprintf("%s[%d]", path, i)
		if err := validateStep(s, p); err != nil {
			return err
		}
		if s.Kind == StepTask && s.ID != "" {
			if seen[s.ID] {
				return &DefinitionError{Path: p, Message: fmt.Sprintf("duplicate step id '%s' among siblings", s.ID)}
			}
			seen[s.ID] = true
		}
	}
	return nil
}

func validateStep(s Step, path string) error {
	switch s.Kind {
	case StepTask:
		if s.Task == "" {
			return &DefinitionError{Path: path, Message: "task step requires a 'task' field"}
		}
		if err := validateSteps(s.OnError, path+".on_error"); err != nil {
			return err
		}
	case StepParallel:
		if len(s.Parallel) == 0 {
			return &DefinitionError{Path: path, Message: "parallel step requires at least one child"}
		}
		// Sibling ids within a parallel block must be unique; this is
		// the same check as a plain sequence, since concurrent writes
		// to the same id would otherwise alias.
		if err := validateSteps(s.Parallel, path+".parallel"); err != nil {
			return err
		}
	case StepConditional:
		if s.If == nil {
			return &DefinitionError{Path: path, Message: "conditional step requires an 'if' expression"}
		}
		if err := validateSteps(s.Then, path+".then"); err != nil {
			return err
		}
		if err := validateSteps(s.Else, path+".else"); err != nil {
			return err
		}
	case StepSwitch:
		if s.Switch == nil {
			return &DefinitionError{Path: path, Message: "switch step requires a 'switch' expression"}
		}
		for i, c := range s.Cases {
			if err := validateSteps(c.Do, fmt.Sprintf("%s.cases[%d].do", path, i)); err != nil {
				return err
			}
		}
		if err := validateSteps(s.Default, path+".default"); err != nil {
			return err
		}
	case StepLoop:
		if s.ForEach == nil {
			return &DefinitionError{Path: path, Message: "loop step requires a 'for_each' expression"}
		}
		if err := validateSteps(s.Do, path+".do"); err != nil {
			return err
		}
	case StepExit:
		// no required fields beyond exit: true, already implied by Kind
	default:
		return &DefinitionError{Path: path, Message: fmt.Sprintf("unknown step kind %q", s.Kind)}
	}
	return nil
}
