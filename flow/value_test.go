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
)

func TestNormalize(t *testing.T) {
	t.Run("maps interface{} keys to strings", func(t *testing.T) {
		in := map[interface{}]interface{}{"a": 1, "b": map[interface{}]interface{}{"c": 2}}
		out := Normalize(in)
		m, ok := out.(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, int64(1), m["a"])
		inner, ok := m["b"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, int64(2), inner["c"])
	})

	t.Run("normalizes sequences recursively", func(t *testing.T) {
		in := []interface{}{int32(1), float32(2.5), "x"}
		out := Normalize(in)
		seq, ok := out.([]interface{})
		assert.True(t, ok)
		assert.Equal(t, int64(1), seq[0])
		assert.Equal(t, float64(2.5), seq[1])
		assert.Equal(t, "x", seq[2])
	})

	t.Run("leaves scalars unchanged", func(t *testing.T) {
		assert.Equal(t, "x", Normalize("x"))
		assert.Equal(t, true, Normalize(true))
		assert.Nil(t, Normalize(nil))
	})
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		in   Value
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"x", true},
		{int64(0), false},
		{int64(1), true},
		{float64(0), false},
		{[]interface{}{}, false},
		{[]interface{}{1}, true},
		{map[string]interface{}{}, false},
		{map[string]interface{}{"a": 1}, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsTruthy(c.in), "IsTruthy(%#v)", c.in)
	}
}

func TestDeepEqual(t *testing.T) {
	assert.True(t, DeepEqual(int64(1), float64(1)))
	assert.True(t, DeepEqual(float64(2.5), float64(2.5)))
	assert.True(t, DeepEqual("true", true))
	assert.True(t, DeepEqual(true, "true"))
	assert.False(t, DeepEqual("yes", true))
	assert.True(t, DeepEqual(nil, nil))
	assert.False(t, DeepEqual(nil, 0))
	assert.True(t, DeepEqual("a", "a"))
	assert.False(t, DeepEqual("a", "b"))
	assert.True(t, DeepEqual([]interface{}{int64(1)}, []interface{}{int64(1)}))
}
