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
	"context"
	"log"

	"github.com/hello-adam-martin/flowlang/flow"
	"github.com/hello-adam-martin/flowlang/tasks/llmcall"
)

// buildRegistry assembles the task catalog flowd runs flows against.
// Task catalog bootstrapping beyond this example set is out of scope
// per spec.md §1 — a deployment wires in whatever tasks its flows need.
func buildRegistry() *flow.TaskRegistry {
	r := flow.NewTaskRegistry()

	if h, err := llmcall.New(context.Background()); err != nil {
		log.Printf("llm_call task unavailable (AWS config not found): %v", err)
		r.RegisterStub("llm_call", "Invokes an Anthropic Claude model hosted on AWS Bedrock", []flow.ParamSpec{
			{Name: "prompt", Required: true},
		})
	} else {
		r.Register(h.Descriptor())
	}

	return r
}
