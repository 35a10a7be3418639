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
	"reflect"
)

// Value is any document-shaped value flowing through a flow run: the
// tagged variant Null | Bool | Int | Float | String | Seq | Map is
// represented directly by Go's dynamic-typing facilities rather than a
// hand-rolled enum — a type switch over interface{} is Go's idiomatic
// form of the same dispatch. Concretely a Value is always one of:
// nil, bool, int64, float64, string, []interface{}, map[string]interface{}.
type Value = interface{}

// Normalize walks v and coerces it into the canonical Value shapes:
// map[string]interface{} for mappings, []interface{} for sequences,
// int64 for whole numbers, float64 for the rest. Handler return values
// and YAML-decoded documents pass through this before being stored in a
// FlowContext, so later comparisons and resolutions see a consistent
// representation regardless of where a value originated.
func Normalize(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = Normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float32:
		return float64(t)
	case float64:
		if t == float64(int64(t)) {
			return t
		}
		return t
	case bool, string:
		return t
	default:
		return t
	}
}

// IsTruthy implements the spec's truthiness rule for condition operands:
// null, false, 0, and empty string/sequence/mapping are falsy; anything
// else is truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []interface{}:
		return len(t) != 0
	case map[string]interface{}:
		return len(t) != 0
	default:
		return true
	}
}

// isNumber reports whether v is one of the numeric Value kinds.
func isNumber(v Value) bool {
	switch v.(type) {
	case int64, int, int32, float64, float32:
		return true
	default:
		return false
	}
}

// toFloat64 converts a numeric Value to float64. Callers must check
// isNumber first.
func toFloat64(v Value) float64 {
	switch t := v.(type) {
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

// DeepEqual implements the spec's switch/case and equality-comparison
// semantics: two numbers compare numerically (so int64(2) == float64(2)
// is true), a string "true"/"false" matches the corresponding boolean
// literal, otherwise structural deep equality.
func DeepEqual(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		return toFloat64(a) == toFloat64(b)
	}
	if s, ok := a.(string); ok {
		if bb, ok := b.(bool); ok {
			return (s == "true" && bb) || (s == "false" && !bb)
		}
	}
	if s, ok := b.(string); ok {
		if ba, ok := a.(bool); ok {
			return (s == "true" && ba) || (s == "false" && !ba)
		}
	}
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// kindName returns a short human-readable name for a Value's dynamic
// type, used in error messages.
func kindName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64, int, int32:
		return "int"
	case float64, float32:
		return "float"
	case string:
		return "string"
	case []interface{}:
		return "seq"
	case map[string]interface{}:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
