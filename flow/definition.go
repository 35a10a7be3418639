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
	"fmt"

	"gopkg.in/yaml.v3"
)

// FlowDefinition is a parsed flow document.
type FlowDefinition struct {
	Name        string                    `json:"name" yaml:"name"`
	Description string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs      []InputDecl               `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []OutputDecl              `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Connections map[string]ConnectionSpec `json:"connections,omitempty" yaml:"connections,omitempty"`
	Steps       []Step                    `json:"steps" yaml:"steps"`
}

// flowDefinitionAlias exists so UnmarshalYAML can accept both `flow:`
// and `name:` as the top-level name key, per §6 ("flow or name, flow
// preferred for compatibility").
type flowDefinitionAlias struct {
	Flow        string                    `yaml:"flow"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Inputs      []InputDecl               `yaml:"inputs"`
	Outputs     []OutputDecl              `yaml:"outputs"`
	Connections map[string]ConnectionSpec `yaml:"connections"`
	Steps       []Step                    `yaml:"steps"`
}

// UnmarshalYAML implements custom decoding so that `flow:` takes
// precedence over `name:` when both are present.
func (d *FlowDefinition) UnmarshalYAML(node *yaml.Node) error {
	var alias flowDefinitionAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}

	name := alias.Name
	if alias.Flow != "" {
		name = alias.Flow
	}

	d.Name = name
	d.Description = alias.Description
	d.Inputs = alias.Inputs
	d.Outputs = alias.Outputs
	d.Connections = alias.Connections
	d.Steps = alias.Steps
	return nil
}

// InputDecl declares one named input a flow accepts.
type InputDecl struct {
	Name     string      `json:"name" yaml:"name"`
	Type     string      `json:"type,omitempty" yaml:"type,omitempty"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Default  interface{} `json:"default,omitempty" yaml:"default,omitempty"`
}

// OutputDecl declares one named output a flow produces; Value is an
// expression, typically `${...}`, resolved against the context at the
// end of a successful run.
type OutputDecl struct {
	Name  string      `json:"name" yaml:"name"`
	Value interface{} `json:"value" yaml:"value"`
}

// ConnectionSpec declares one named connection a flow uses. Type
// selects the backend; Options carries backend-specific configuration.
// The core never interprets these beyond passing them to the
// connection manager.
type ConnectionSpec struct {
	Type    string                 `json:"type" yaml:"type"`
	Options map[string]interface{} `json:",inline" yaml:",inline"`
}

// StepKind discriminates the tagged Step variant.
type StepKind string

const (
	StepTask        StepKind = "task"
	StepParallel    StepKind = "parallel"
	StepConditional StepKind = "conditional"
	StepSwitch      StepKind = "switch"
	StepLoop        StepKind = "loop"
	StepExit        StepKind = "exit"
)

// RetryPolicy configures a task step's retry behavior. MaxAttempts
// defaults to 1 (no retry); Backoff defaults to 1 second.
type RetryPolicy struct {
	MaxAttempts int     `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	Backoff     float64 `json:"backoff,omitempty" yaml:"backoff,omitempty"`
}

// SwitchCase is one arm of a switch step.
type SwitchCase struct {
	Case interface{} `json:"case" yaml:"case"`
	Do   []Step      `json:"do" yaml:"do"`
}

// Step is the tagged variant described in §3: exactly one of the Kind
// shapes is populated, discriminated by which field was present in the
// source document.
type Step struct {
	Kind StepKind

	// task
	ID         string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Task       string                 `json:"task,omitempty" yaml:"task,omitempty"`
	TaskInputs map[string]interface{} `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Connection string                 `json:"connection,omitempty" yaml:"connection,omitempty"`
	Retry      *RetryPolicy           `json:"retry,omitempty" yaml:"retry,omitempty"`
	OnError    []Step                 `json:"on_error,omitempty" yaml:"on_error,omitempty"`

	// parallel
	Parallel []Step `json:"parallel,omitempty" yaml:"parallel,omitempty"`

	// conditional
	If   interface{} `json:"if,omitempty" yaml:"if,omitempty"`
	Then []Step      `json:"then,omitempty" yaml:"then,omitempty"`
	Else []Step      `json:"else,omitempty" yaml:"else,omitempty"`

	// switch
	Switch  interface{}  `json:"switch,omitempty" yaml:"switch,omitempty"`
	Cases   []SwitchCase `json:"cases,omitempty" yaml:"cases,omitempty"`
	Default []Step       `json:"default,omitempty" yaml:"default,omitempty"`

	// loop
	ForEach interface{} `json:"for_each,omitempty" yaml:"for_each,omitempty"`
	As      string      `json:"as,omitempty" yaml:"as,omitempty"`
	Do      []Step      `json:"do,omitempty" yaml:"do,omitempty"`

	// exit
	Exit bool        `json:"exit,omitempty" yaml:"exit,omitempty"`
	When interface{} `json:"when,omitempty" yaml:"when,omitempty"`
}

// stepAlias mirrors Step's fields for plain decoding before kind
// discrimination is applied.
type stepAlias struct {
	ID         string                 `yaml:"id"`
	Task       string                 `yaml:"task"`
	TaskInputs map[string]interface{} `yaml:"inputs"`
	Connection string                 `yaml:"connection"`
	Retry      *RetryPolicy           `yaml:"retry"`
	OnError    []Step                 `yaml:"on_error"`

	Parallel []Step `yaml:"parallel"`

	If   interface{} `yaml:"if"`
	Then []Step      `yaml:"then"`
	Else []Step      `yaml:"else"`

	Switch  interface{}  `yaml:"switch"`
	Cases   []SwitchCase `yaml:"cases"`
	Default []Step       `yaml:"default"`

	ForEach interface{} `yaml:"for_each"`
	As      string      `yaml:"as"`
	Do      []Step      `yaml:"do"`

	Exit bool        `yaml:"exit"`
	When interface{} `yaml:"when"`
}

// UnmarshalYAML decodes a Step and determines its Kind by which
// discriminator field is present, checked in the order listed in §3:
// task, parallel, conditional, switch, loop, exit.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var a stepAlias
	if err := node.Decode(&a); err != nil {
		return err
	}

	s.ID = a.ID
	s.Task = a.Task
	s.TaskInputs = a.TaskInputs
	s.Connection = a.Connection
	s.Retry = a.Retry
	s.OnError = a.OnError
	s.Parallel = a.Parallel
	s.If = a.If
	s.Then = a.Then
	s.Else = a.Else
	s.Switch = a.Switch
	s.Cases = a.Cases
	s.Default = a.Default
	s.ForEach = a.ForEach
	s.As = a.As
	s.Do = a.Do
	s.Exit = a.Exit
	s.When = a.When

	switch {
	case a.Task != "":
		s.Kind = StepTask
	case a.Parallel != nil:
		s.Kind = StepParallel
	case a.If != nil:
		s.Kind = StepConditional
	case a.Switch != nil:
		s.Kind = StepSwitch
	case a.ForEach != nil:
		s.Kind = StepLoop
	case a.Exit:
		s.Kind = StepExit
	default:
		return fmt.Errorf("step has no recognizable kind discriminator (task/parallel/if/switch/for_each/exit)")
	}

	if s.Retry == nil && s.Kind == StepTask {
		s.Retry = &RetryPolicy{MaxAttempts: 1, Backoff: 1.0}
	} else if s.Retry != nil {
		if s.Retry.MaxAttempts <= 0 {
			s.Retry.MaxAttempts = 1
		}
		if s.Retry.Backoff <= 0 {
			s.Retry.Backoff = 1.0
		}
	}
	if s.Kind == StepLoop && s.As == "" {
		s.As = "item"
	}

	return nil
}

// ParseDefinition decodes a YAML flow document into a FlowDefinition.
func ParseDefinition(data []byte) (*FlowDefinition, error) {
	var def FlowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &DefinitionError{Message: "failed to parse flow document", Cause: err}
	}
	return &def, nil
}
