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
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hello-adam-martin/flowlang/flow"
	"github.com/hello-adam-martin/flowlang/shared/logger"
)

// service holds flowd's process-wide dependencies, in the style of the
// teacher's package-level orchestrator singletons but scoped to a
// struct so handlers are testable without globals.
type service struct {
	registry *flow.TaskRegistry
	executor *flow.Executor
	store    *flow.MemoryExecutionStore
	log      *logger.Logger
}

// executeRequest is the §6 execute contract's request body: Flow is
// the raw YAML document text, Inputs are the flow's top-level inputs.
type executeRequest struct {
	Flow   string                 `json:"flow"`
	Inputs map[string]interface{} `json:"inputs"`
}

type validateRequest struct {
	Flow string `json:"flow"`
}

type validateResponse struct {
	Valid bool            `json:"valid"`
	Error *flow.ErrorInfo `json:"error,omitempty"`
}

func (s *service) executeHandler(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, flow.Result{Success: false, Error: &flow.ErrorInfo{Kind: "DefinitionError", Message: "invalid request body: " + err.Error()}})
		return
	}

	def, err := flow.ParseDefinition([]byte(req.Flow))
	if err != nil {
		recordExecution("failure")
		writeJSON(w, http.StatusBadRequest, flow.Result{Success: false, Error: &flow.ErrorInfo{Kind: "DefinitionError", Message: err.Error()}})
		return
	}

	metadata := requestMetadata(r)
	result := s.executor.Execute(r.Context(), def, req.Inputs, nil, metadata)

	if result.Success {
		recordExecution("success")
	} else {
		recordExecution("failure")
		if result.Error != nil {
			recordStepFailure(result.Error.Kind)
		}
	}

	id := uuid.NewString()
	_ = s.store.SaveExecution(flow.ExecutionRecord{ID: id, FlowName: def.Name, Inputs: req.Inputs, Result: result})

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("X-Execution-Id", id)
	writeJSON(w, status, result)
}

func (s *service) validateHandler(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, validateResponse{Valid: false, Error: &flow.ErrorInfo{Kind: "DefinitionError", Message: "invalid request body: " + err.Error()}})
		return
	}

	def, err := flow.ParseDefinition([]byte(req.Flow))
	if err == nil {
		err = flow.Validate(def)
	}
	if err != nil {
		validationFailuresTotal.Inc()
		writeJSON(w, http.StatusOK, validateResponse{Valid: false, Error: errInfo(err)})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true})
}

func (s *service) getExecutionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := s.store.GetExecution(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "execution not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *service) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errInfo(err error) *flow.ErrorInfo {
	if ek, ok := err.(interface{ Kind() string }); ok {
		return &flow.ErrorInfo{Kind: ek.Kind(), Message: err.Error()}
	}
	return &flow.ErrorInfo{Kind: "DefinitionError", Message: err.Error()}
}
