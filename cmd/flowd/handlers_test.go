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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hello-adam-martin/flowlang/flow"
	"github.com/hello-adam-martin/flowlang/shared/logger"
)

func newTestService() *service {
	registry := flow.NewTaskRegistry()
	registry.Register(flow.TaskDescriptor{
		Name:        "echo",
		Implemented: true,
		Params:      []flow.ParamSpec{{Name: "message", Required: true}},
		Handler: func(ctx context.Context, fctx *flow.FlowContext, inputs map[string]interface{}) (map[string]interface{}, error) {
			return inputs, nil
		},
	})
	return &service{
		registry: registry,
		executor: flow.NewExecutor(registry),
		store:    flow.NewMemoryExecutionStore(),
		log:      logger.New("flowd-test"),
	}
}

func TestExecuteHandler_Success(t *testing.T) {
	svc := newTestService()

	body := executeRequest{
		Flow: "" +
			"name: greet\n" +
			"steps:\n" +
			"  - id: say\n" +
			"    task: echo\n" +
			"    inputs:\n" +
			"      message: \"${inputs.name}\"\n" +
			"outputs:\n" +
			"  - name: message\n" +
			"    value: \"${say.message}\"\n",
		Inputs: map[string]interface{}{"name": "ada"},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/flows/execute", bytes.NewReader(raw))
	rw := httptest.NewRecorder()

	svc.executeHandler(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.NotEmpty(t, rw.Header().Get("X-Execution-Id"))

	var result flow.Result
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "ada", result.Outputs["message"])
}

func TestExecuteHandler_InvalidBody(t *testing.T) {
	svc := newTestService()
	req := httptest.NewRequest(http.MethodPost, "/v1/flows/execute", bytes.NewReader([]byte("not json")))
	rw := httptest.NewRecorder()

	svc.executeHandler(rw, req)

	assert.Equal(t, http.StatusBadRequest, rw.Code)
}

func TestValidateHandler_ValidAndInvalid(t *testing.T) {
	svc := newTestService()

	valid := validateRequest{Flow: "name: x\nsteps:\n  - id: a\n    task: echo\n    inputs: {}\n"}
	raw, _ := json.Marshal(valid)
	req := httptest.NewRequest(http.MethodPost, "/v1/flows/validate", bytes.NewReader(raw))
	rw := httptest.NewRecorder()
	svc.validateHandler(rw, req)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)

	invalid := validateRequest{Flow: "steps:\n  - id: a\n    task: echo\n    inputs: {}\n"}
	raw2, _ := json.Marshal(invalid)
	req2 := httptest.NewRequest(http.MethodPost, "/v1/flows/validate", bytes.NewReader(raw2))
	rw2 := httptest.NewRecorder()
	svc.validateHandler(rw2, req2)

	var resp2 validateResponse
	require.NoError(t, json.Unmarshal(rw2.Body.Bytes(), &resp2))
	assert.False(t, resp2.Valid)
	require.NotNil(t, resp2.Error)
	assert.Equal(t, "DefinitionError", resp2.Error.Kind)
}

func TestGetExecutionHandler_NotFound(t *testing.T) {
	svc := newTestService()
	req := httptest.NewRequest(http.MethodGet, "/v1/flows/executions/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rw := httptest.NewRecorder()

	svc.getExecutionHandler(rw, req)

	assert.Equal(t, http.StatusNotFound, rw.Code)
}

func TestHealthHandler(t *testing.T) {
	svc := newTestService()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rw := httptest.NewRecorder()

	svc.healthHandler(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
}
