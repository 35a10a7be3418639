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

func TestMemoryExecutionStore_SaveAndGet(t *testing.T) {
	s := NewMemoryExecutionStore()
	rec := ExecutionRecord{ID: "run-1", FlowName: "greet", Result: Result{Success: true}}
	require.NoError(t, s.SaveExecution(rec))

	got, err := s.GetExecution("run-1")
	require.NoError(t, err)
	assert.Equal(t, "greet", got.FlowName)

	_, err = s.GetExecution("missing")
	assert.Error(t, err)
}

func TestMemoryExecutionStore_ListByFlowName(t *testing.T) {
	s := NewMemoryExecutionStore()
	require.NoError(t, s.SaveExecution(ExecutionRecord{ID: "1", FlowName: "a"}))
	require.NoError(t, s.SaveExecution(ExecutionRecord{ID: "2", FlowName: "b"}))
	require.NoError(t, s.SaveExecution(ExecutionRecord{ID: "3", FlowName: "a"}))

	all, err := s.ListExecutions("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyA, err := s.ListExecutions("a")
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)
}
