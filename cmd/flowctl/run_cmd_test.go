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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputFlags_CoercesTypes(t *testing.T) {
	inputs, err := parseInputFlags([]string{"name=ada", "count=3", "ratio=1.5", "active=true"})
	require.NoError(t, err)

	assert.Equal(t, "ada", inputs["name"])
	assert.Equal(t, int64(3), inputs["count"])
	assert.Equal(t, 1.5, inputs["ratio"])
	assert.Equal(t, true, inputs["active"])
}

func TestParseInputFlags_RejectsMissingEquals(t *testing.T) {
	_, err := parseInputFlags([]string{"name"})
	assert.Error(t, err)
}

func TestCoerceInputValue(t *testing.T) {
	assert.Equal(t, false, coerceInputValue("false"))
	assert.Equal(t, "hello", coerceInputValue("hello"))
	assert.Equal(t, int64(42), coerceInputValue("42"))
}
