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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() *FlowContext {
	ctx := NewFlowContext(map[string]Value{
		"name":  "Ada",
		"count": int64(3),
	}, nil, nil)
	ctx.SetOutput("validate", map[string]interface{}{
		"ok":      false,
		"message": "bad input",
	})
	ctx.SetOutput("fetch", map[string]interface{}{
		"items": []interface{}{"a", "b", "c"},
	})
	return ctx
}

func TestResolve_WholeValuePassesTypedValue(t *testing.T) {
	ctx := newTestContext()
	v, err := Resolve("${inputs.count}", ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestResolve_InterpolationStringifies(t *testing.T) {
	ctx := newTestContext()
	v, err := Resolve("hello ${inputs.name}, you have ${inputs.count} items", ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello Ada, you have 3 items", v)
}

func TestResolve_StepOutputPath(t *testing.T) {
	ctx := newTestContext()
	v, err := Resolve("${validate.ok}", ctx)
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestResolve_NestedSequenceIndex(t *testing.T) {
	ctx := newTestContext()
	v, err := Resolve("${fetch.items.1}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestResolve_MissingPathFails(t *testing.T) {
	ctx := newTestContext()
	_, err := Resolve("${inputs.nope}", ctx)
	require.Error(t, err)
	var nre *NullReferenceError
	assert.ErrorAs(t, err, &nre)
}

func TestResolve_MappingAndSequenceDocuments(t *testing.T) {
	ctx := newTestContext()
	doc := map[string]interface{}{
		"greeting": "hi ${inputs.name}",
		"list":     []interface{}{"${inputs.count}", "static"},
	}
	v, err := Resolve(doc, ctx)
	require.NoError(t, err)
	m := v.(map[string]interface{})
	assert.Equal(t, "hi Ada", m["greeting"])
	list := m["list"].([]interface{})
	assert.Equal(t, int64(3), list[0])
	assert.Equal(t, "static", list[1])
}

func TestResolve_ScopeVariable(t *testing.T) {
	ctx := newTestContext()
	ctx.PushScope("item", "widget")
	v, err := Resolve("${item}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "widget", v)
}

func TestResolve_StepOutputTakesPriorityOverScope(t *testing.T) {
	ctx := newTestContext()
	ctx.PushScope("validate", "scoped-shadow")
	v, err := Resolve("${validate.ok}", ctx)
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestResolve_LastError(t *testing.T) {
	ctx := newTestContext()
	ctx.SetLastError(&ErrorInfo{Kind: "HandlerError", Message: "oops"})
	v, err := Resolve("${last_error.kind}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "HandlerError", v)
}

func TestEvalCondition_Comparisons(t *testing.T) {
	ctx := newTestContext()
	cases := []struct {
		expr string
		want bool
	}{
		{"${validate.ok} == false", true},
		{"${validate.ok} == true", false},
		{"${inputs.count} > 1", true},
		{"${inputs.count} >= 3", true},
		{"${inputs.count} < 3", false},
		{"${inputs.count} <= 2", false},
		{"${inputs.name} == 'Ada'", true},
		{"${inputs.name} != 'Bob'", true},
		{"!${validate.ok}", true},
		{"${validate.ok} == false && ${inputs.count} > 0", true},
		{"${validate.ok} == true || ${inputs.count} > 0", true},
		{"(${validate.ok} == true || ${inputs.count} > 0) && !${validate.ok}", true},
	}
	for _, c := range cases {
		got, err := EvalCondition(c.expr, ctx)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, got, c.expr)
	}
}

func TestEvalCondition_PlainBoolPassthrough(t *testing.T) {
	ctx := newTestContext()
	got, err := EvalCondition(true, ctx)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = EvalCondition(false, ctx)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEvalExpr_SwitchOverVariable(t *testing.T) {
	ctx := newTestContext()
	v, err := EvalExpr("${inputs.name}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
}
